// Package policy decides scoped visibility and write permission for employee
// and department records.
//
// Authorization rules:
//   - Admins see and edit everything; department mutations are admin-only
//   - Managers see their own record, their direct reports, and departments
//     they manage or belong to
//   - Employees see only their own record and their departments' entries
//
// Every function is a pure decision over the caller and the record; callers
// fetch whatever state is needed and pass it in.
package policy

import (
	"github.com/google/uuid"

	"peopledesk/internal/model"
)

// Scope restricts a list query before it reaches storage. When All is false
// the query is limited to rows owned by EmployeeID, widened to direct
// reports (employee queries) or managed departments (department queries)
// when the corresponding flag is set. Explicit request filters are applied
// on top, so they can only narrow the result.
type Scope struct {
	All            bool
	EmployeeID     uuid.UUID
	IncludeReports bool
	IncludeManaged bool
}

// EmployeeReadScope returns the visibility scope for employee list queries.
func EmployeeReadScope(caller model.Caller) Scope {
	switch caller.Role {
	case model.RoleAdmin:
		return Scope{All: true}
	case model.RoleManager:
		return Scope{EmployeeID: caller.EmployeeID, IncludeReports: true}
	default:
		return Scope{EmployeeID: caller.EmployeeID}
	}
}

// DepartmentReadScope returns the visibility scope for department list
// queries. Non-admin callers are limited to departments they are a member
// of; managers additionally see departments they manage.
func DepartmentReadScope(caller model.Caller) Scope {
	switch caller.Role {
	case model.RoleAdmin:
		return Scope{All: true}
	case model.RoleManager:
		return Scope{EmployeeID: caller.EmployeeID, IncludeManaged: true}
	default:
		return Scope{EmployeeID: caller.EmployeeID}
	}
}

// CanViewEmployee reports whether the caller may read the specific employee
// record. The predicate matches EmployeeReadScope evaluated against one row.
func CanViewEmployee(caller model.Caller, employee model.Employee) bool {
	switch caller.Role {
	case model.RoleAdmin:
		return true
	case model.RoleManager:
		if employee.ID == caller.EmployeeID {
			return true
		}
		return employee.ManagerID != nil && *employee.ManagerID == caller.EmployeeID
	default:
		return employee.ID == caller.EmployeeID
	}
}

// CanUpdateEmployee reports whether the caller may update the employee at
// all. Which fields the update may touch is decided separately by
// CanSetRestrictedFields.
func CanUpdateEmployee(caller model.Caller, employee model.Employee) bool {
	if caller.Role == model.RoleAdmin {
		return true
	}
	if employee.ID == caller.EmployeeID {
		return true
	}
	if caller.Role == model.RoleManager && employee.ManagerID != nil && *employee.ManagerID == caller.EmployeeID {
		return true
	}
	return false
}

// CanSetRestrictedFields reports whether the caller may change managerId and
// status on an employee. Non-admin updates silently drop these fields.
func CanSetRestrictedFields(caller model.Caller) bool {
	return caller.Role == model.RoleAdmin
}

// CanManageDepartments gates department create/update/toggle and membership
// changes.
func CanManageDepartments(caller model.Caller) bool {
	return caller.Role == model.RoleAdmin
}

// CanViewDepartment reports whether the caller may read the specific
// department. isMember tells whether the caller's employee belongs to it.
func CanViewDepartment(caller model.Caller, department model.Department, isMember bool) bool {
	switch caller.Role {
	case model.RoleAdmin:
		return true
	case model.RoleManager:
		return department.ManagerID == caller.EmployeeID || isMember
	default:
		return isMember
	}
}
