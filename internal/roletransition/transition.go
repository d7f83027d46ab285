// Package roletransition keeps User.role consistent with the management
// graph: whoever manages a department holds at least MANAGER, and a manager
// who no longer manages anyone is dropped back to EMPLOYEE.
//
// The functions here only compute the changes; the calling service applies
// them inside the same transaction as the mutation that triggered them, with
// the snapshot read from post-update state in that transaction.
package roletransition

import (
	"github.com/google/uuid"

	"peopledesk/internal/model"
)

// Change is a role assignment to apply to the user linked to EmployeeID.
type Change struct {
	EmployeeID uuid.UUID
	Role       model.Role
}

// Snapshot is the slice of the management graph needed to evaluate a manager
// change. Counts reflect the state after the department row was updated and
// exclude the department being reassigned.
type Snapshot struct {
	NewManagerRole             model.Role
	OldManagerRole             model.Role
	OldManagerOtherDepartments int
	OldManagerDirectReports    int
}

// DepartmentCreated promotes the new department's manager when they are a
// plain employee. Admins are never touched.
func DepartmentCreated(managerID uuid.UUID, managerRole model.Role) []Change {
	switch managerRole {
	case model.RoleEmployee:
		return []Change{{EmployeeID: managerID, Role: model.RoleManager}}
	case model.RoleManager, model.RoleAdmin:
		return nil
	}
	return nil
}

// ManagerChanged computes the transitions for a department manager
// reassignment from oldManagerID to newManagerID. The new manager is
// promoted when they are a plain employee; the old manager is demoted only
// when they manage no other department, have no direct reports, and
// currently hold MANAGER.
func ManagerChanged(oldManagerID, newManagerID uuid.UUID, snap Snapshot) []Change {
	if oldManagerID == newManagerID {
		return nil
	}

	var changes []Change

	switch snap.NewManagerRole {
	case model.RoleEmployee:
		changes = append(changes, Change{EmployeeID: newManagerID, Role: model.RoleManager})
	case model.RoleManager, model.RoleAdmin:
		// already at least a manager
	}

	switch snap.OldManagerRole {
	case model.RoleManager:
		if snap.OldManagerOtherDepartments == 0 && snap.OldManagerDirectReports == 0 {
			changes = append(changes, Change{EmployeeID: oldManagerID, Role: model.RoleEmployee})
		}
	case model.RoleAdmin, model.RoleEmployee:
		// admins are never demoted; employees have nothing to demote
	}

	return changes
}
