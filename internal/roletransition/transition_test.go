package roletransition

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"peopledesk/internal/model"
)

func TestDepartmentCreated(t *testing.T) {
	managerID := uuid.New()

	changes := DepartmentCreated(managerID, model.RoleEmployee)
	assert.Equal(t, []Change{{EmployeeID: managerID, Role: model.RoleManager}}, changes)

	assert.Nil(t, DepartmentCreated(managerID, model.RoleManager))
	assert.Nil(t, DepartmentCreated(managerID, model.RoleAdmin))
}

func TestManagerChangedSameManagerIsNoop(t *testing.T) {
	id := uuid.New()
	changes := ManagerChanged(id, id, Snapshot{
		NewManagerRole: model.RoleEmployee,
		OldManagerRole: model.RoleManager,
	})
	assert.Nil(t, changes)
}

func TestManagerChangedPromotesNewManager(t *testing.T) {
	oldID, newID := uuid.New(), uuid.New()

	changes := ManagerChanged(oldID, newID, Snapshot{
		NewManagerRole:             model.RoleEmployee,
		OldManagerRole:             model.RoleManager,
		OldManagerOtherDepartments: 1,
	})
	assert.Equal(t, []Change{{EmployeeID: newID, Role: model.RoleManager}}, changes)

	// Already a manager elsewhere: no promotion needed.
	changes = ManagerChanged(oldID, newID, Snapshot{
		NewManagerRole:             model.RoleManager,
		OldManagerRole:             model.RoleManager,
		OldManagerOtherDepartments: 1,
	})
	assert.Empty(t, changes)
}

func TestManagerChangedDemotesOldManager(t *testing.T) {
	oldID, newID := uuid.New(), uuid.New()

	changes := ManagerChanged(oldID, newID, Snapshot{
		NewManagerRole: model.RoleManager,
		OldManagerRole: model.RoleManager,
	})
	assert.Equal(t, []Change{{EmployeeID: oldID, Role: model.RoleEmployee}}, changes)
}

func TestManagerChangedKeepsOldManagerWithRemainingResponsibilities(t *testing.T) {
	oldID, newID := uuid.New(), uuid.New()

	tests := []struct {
		name string
		snap Snapshot
	}{
		{"still manages another department", Snapshot{
			NewManagerRole:             model.RoleManager,
			OldManagerRole:             model.RoleManager,
			OldManagerOtherDepartments: 1,
		}},
		{"still has direct reports", Snapshot{
			NewManagerRole:          model.RoleManager,
			OldManagerRole:          model.RoleManager,
			OldManagerDirectReports: 2,
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Empty(t, ManagerChanged(oldID, newID, tt.snap))
		})
	}
}

func TestManagerChangedNeverDemotesAdmin(t *testing.T) {
	oldID, newID := uuid.New(), uuid.New()

	changes := ManagerChanged(oldID, newID, Snapshot{
		NewManagerRole: model.RoleManager,
		OldManagerRole: model.RoleAdmin,
	})
	assert.Empty(t, changes)
}

func TestManagerChangedPromotionAndDemotionTogether(t *testing.T) {
	oldID, newID := uuid.New(), uuid.New()

	changes := ManagerChanged(oldID, newID, Snapshot{
		NewManagerRole: model.RoleEmployee,
		OldManagerRole: model.RoleManager,
	})
	assert.Equal(t, []Change{
		{EmployeeID: newID, Role: model.RoleManager},
		{EmployeeID: oldID, Role: model.RoleEmployee},
	}, changes)
}
