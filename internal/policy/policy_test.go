package policy

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"peopledesk/internal/model"
)

func caller(role model.Role, employeeID uuid.UUID) model.Caller {
	return model.Caller{UserID: uuid.New(), EmployeeID: employeeID, Role: role}
}

func TestEmployeeReadScope(t *testing.T) {
	self := uuid.New()

	admin := EmployeeReadScope(caller(model.RoleAdmin, self))
	assert.True(t, admin.All)

	manager := EmployeeReadScope(caller(model.RoleManager, self))
	assert.False(t, manager.All)
	assert.Equal(t, self, manager.EmployeeID)
	assert.True(t, manager.IncludeReports)

	employee := EmployeeReadScope(caller(model.RoleEmployee, self))
	assert.False(t, employee.All)
	assert.Equal(t, self, employee.EmployeeID)
	assert.False(t, employee.IncludeReports)
}

func TestDepartmentReadScope(t *testing.T) {
	self := uuid.New()

	assert.True(t, DepartmentReadScope(caller(model.RoleAdmin, self)).All)

	manager := DepartmentReadScope(caller(model.RoleManager, self))
	assert.False(t, manager.All)
	assert.True(t, manager.IncludeManaged)

	employee := DepartmentReadScope(caller(model.RoleEmployee, self))
	assert.False(t, employee.All)
	assert.False(t, employee.IncludeManaged)
}

func TestCanViewEmployee(t *testing.T) {
	managerID := uuid.New()
	report := model.Employee{ID: uuid.New(), ManagerID: &managerID}
	unrelated := model.Employee{ID: uuid.New()}

	tests := []struct {
		name     string
		caller   model.Caller
		employee model.Employee
		want     bool
	}{
		{"admin sees anyone", caller(model.RoleAdmin, uuid.New()), unrelated, true},
		{"manager sees self", caller(model.RoleManager, managerID), model.Employee{ID: managerID}, true},
		{"manager sees direct report", caller(model.RoleManager, managerID), report, true},
		{"manager cannot see unrelated", caller(model.RoleManager, managerID), unrelated, false},
		{"employee sees self", caller(model.RoleEmployee, unrelated.ID), unrelated, true},
		{"employee cannot see others", caller(model.RoleEmployee, uuid.New()), unrelated, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanViewEmployee(tt.caller, tt.employee))
		})
	}
}

func TestCanUpdateEmployee(t *testing.T) {
	managerID := uuid.New()
	report := model.Employee{ID: uuid.New(), ManagerID: &managerID}
	unrelated := model.Employee{ID: uuid.New()}

	assert.True(t, CanUpdateEmployee(caller(model.RoleAdmin, uuid.New()), unrelated))
	assert.True(t, CanUpdateEmployee(caller(model.RoleEmployee, unrelated.ID), unrelated))
	assert.True(t, CanUpdateEmployee(caller(model.RoleManager, managerID), report))
	assert.False(t, CanUpdateEmployee(caller(model.RoleManager, managerID), unrelated))
	assert.False(t, CanUpdateEmployee(caller(model.RoleEmployee, uuid.New()), unrelated))
}

func TestRestrictedFieldsAndDepartmentManagement(t *testing.T) {
	assert.True(t, CanSetRestrictedFields(caller(model.RoleAdmin, uuid.New())))
	assert.False(t, CanSetRestrictedFields(caller(model.RoleManager, uuid.New())))
	assert.False(t, CanSetRestrictedFields(caller(model.RoleEmployee, uuid.New())))

	assert.True(t, CanManageDepartments(caller(model.RoleAdmin, uuid.New())))
	assert.False(t, CanManageDepartments(caller(model.RoleManager, uuid.New())))
	assert.False(t, CanManageDepartments(caller(model.RoleEmployee, uuid.New())))
}

func TestCanViewDepartment(t *testing.T) {
	managerID := uuid.New()
	department := model.Department{ID: uuid.New(), ManagerID: managerID}

	assert.True(t, CanViewDepartment(caller(model.RoleAdmin, uuid.New()), department, false))
	assert.True(t, CanViewDepartment(caller(model.RoleManager, managerID), department, false))
	assert.True(t, CanViewDepartment(caller(model.RoleManager, uuid.New()), department, true))
	assert.False(t, CanViewDepartment(caller(model.RoleManager, uuid.New()), department, false))
	assert.True(t, CanViewDepartment(caller(model.RoleEmployee, uuid.New()), department, true))
	assert.False(t, CanViewDepartment(caller(model.RoleEmployee, uuid.New()), department, false))
}
