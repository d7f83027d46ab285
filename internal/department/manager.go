// Package department orchestrates department mutations and the role
// transitions that follow manager assignments.
package department

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"peopledesk/internal/apperror"
	"peopledesk/internal/database"
	"peopledesk/internal/model"
	"peopledesk/internal/policy"
	"peopledesk/internal/roletransition"
)

type Manager struct {
	store  database.Store
	logger *slog.Logger
}

func NewManager(store database.Store, logger *slog.Logger) *Manager {
	return &Manager{store: store, logger: logger}
}

type CreateParams struct {
	Name      string
	ManagerID uuid.UUID
	Status    model.Status
}

type UpdateParams struct {
	ID        uuid.UUID
	Name      string
	ManagerID uuid.UUID
	Status    *model.Status
}

// Create inserts a department and promotes its manager when needed, both in
// one transaction.
func (m *Manager) Create(ctx context.Context, caller model.Caller, params CreateParams) (model.Department, error) {
	if !policy.CanManageDepartments(caller) {
		return model.Department{}, apperror.Forbidden("only admins can create departments")
	}

	status := params.Status
	if status == "" {
		status = model.StatusActive
	}

	var created model.Department
	err := m.store.WithTx(ctx, func(q database.Querier) error {
		if _, err := q.GetEmployeeByID(ctx, params.ManagerID); err != nil {
			if errors.Is(err, database.ErrNotFound) {
				return apperror.Validation("manager employee does not exist")
			}
			return err
		}

		var err error
		created, err = q.CreateDepartment(ctx, database.CreateDepartmentParams{
			Name:      params.Name,
			Status:    status,
			ManagerID: params.ManagerID,
		})
		if err != nil {
			if errors.Is(err, database.ErrDuplicateDepartmentName) {
				return apperror.Conflict("a department with this name already exists")
			}
			return err
		}

		managerUser, err := q.GetUserByEmployeeID(ctx, params.ManagerID)
		if err != nil {
			return fmt.Errorf("failed to load manager's user account: %w", err)
		}

		changes := roletransition.DepartmentCreated(params.ManagerID, managerUser.Role)
		return m.applyChanges(ctx, q, changes)
	})
	if err != nil {
		return model.Department{}, err
	}

	m.logger.Info("Department created", "department_id", created.ID, "manager_id", created.ManagerID)
	return created, nil
}

// Update edits a department. When the manager changes, the new manager is
// promoted and the old manager's demotion is re-evaluated against the
// post-update management graph, all inside the same transaction.
func (m *Manager) Update(ctx context.Context, caller model.Caller, params UpdateParams) (model.Department, error) {
	if !policy.CanManageDepartments(caller) {
		return model.Department{}, apperror.Forbidden("only admins can edit departments")
	}

	var updated model.Department
	err := m.store.WithTx(ctx, func(q database.Querier) error {
		current, err := q.GetDepartmentByID(ctx, params.ID)
		if err != nil {
			if errors.Is(err, database.ErrNotFound) {
				return apperror.NotFound("department not found")
			}
			return err
		}

		status := current.Status
		if params.Status != nil {
			status = *params.Status
		}

		managerChanged := current.ManagerID != params.ManagerID
		if managerChanged {
			if _, err := q.GetEmployeeByID(ctx, params.ManagerID); err != nil {
				if errors.Is(err, database.ErrNotFound) {
					return apperror.Validation("manager employee does not exist")
				}
				return err
			}
		}

		updated, err = q.UpdateDepartment(ctx, database.UpdateDepartmentParams{
			ID:        params.ID,
			Name:      params.Name,
			Status:    status,
			ManagerID: params.ManagerID,
		})
		if err != nil {
			if errors.Is(err, database.ErrDuplicateDepartmentName) {
				return apperror.Conflict("a department with this name already exists")
			}
			return err
		}

		if !managerChanged {
			return nil
		}

		// Snapshot is read after the department row was updated so the
		// demotion check sees the current management graph.
		newUser, err := q.GetUserByEmployeeID(ctx, params.ManagerID)
		if err != nil {
			return fmt.Errorf("failed to load new manager's user account: %w", err)
		}
		oldUser, err := q.GetUserByEmployeeID(ctx, current.ManagerID)
		if err != nil {
			return fmt.Errorf("failed to load old manager's user account: %w", err)
		}
		otherDepartments, err := q.CountManagedDepartments(ctx, current.ManagerID, current.ID)
		if err != nil {
			return err
		}
		directReports, err := q.CountDirectReports(ctx, current.ManagerID)
		if err != nil {
			return err
		}

		changes := roletransition.ManagerChanged(current.ManagerID, params.ManagerID, roletransition.Snapshot{
			NewManagerRole:             newUser.Role,
			OldManagerRole:             oldUser.Role,
			OldManagerOtherDepartments: otherDepartments,
			OldManagerDirectReports:    directReports,
		})
		return m.applyChanges(ctx, q, changes)
	})
	if err != nil {
		return model.Department{}, err
	}

	return updated, nil
}

// ToggleStatus flips ACTIVE/INACTIVE. No role side effects.
func (m *Manager) ToggleStatus(ctx context.Context, caller model.Caller, id uuid.UUID, status model.Status) (model.Department, error) {
	if !policy.CanManageDepartments(caller) {
		return model.Department{}, apperror.Forbidden("only admins can change department status")
	}

	department, err := m.store.SetDepartmentStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return model.Department{}, apperror.NotFound("department not found")
		}
		return model.Department{}, err
	}
	return department, nil
}

// AddMember adds an employee to a department's roster.
func (m *Manager) AddMember(ctx context.Context, caller model.Caller, departmentID, employeeID uuid.UUID) error {
	if !policy.CanManageDepartments(caller) {
		return apperror.Forbidden("only admins can manage department members")
	}

	return m.store.WithTx(ctx, func(q database.Querier) error {
		if _, err := q.GetDepartmentByID(ctx, departmentID); err != nil {
			if errors.Is(err, database.ErrNotFound) {
				return apperror.NotFound("department not found")
			}
			return err
		}
		if _, err := q.GetEmployeeByID(ctx, employeeID); err != nil {
			if errors.Is(err, database.ErrNotFound) {
				return apperror.NotFound("employee not found")
			}
			return err
		}

		if err := q.AddDepartmentMember(ctx, departmentID, employeeID); err != nil {
			if errors.Is(err, database.ErrDuplicateMembership) {
				return apperror.Conflict("employee is already a member of this department")
			}
			return err
		}
		return nil
	})
}

// RemoveMember removes an employee from a department's roster.
func (m *Manager) RemoveMember(ctx context.Context, caller model.Caller, departmentID, employeeID uuid.UUID) error {
	if !policy.CanManageDepartments(caller) {
		return apperror.Forbidden("only admins can manage department members")
	}

	if err := m.store.RemoveDepartmentMember(ctx, departmentID, employeeID); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return apperror.NotFound("membership not found")
		}
		return err
	}
	return nil
}

// GetAll lists departments visible to the caller.
func (m *Manager) GetAll(ctx context.Context, caller model.Caller, status *model.Status) ([]model.Department, error) {
	return m.store.ListDepartments(ctx, database.ListDepartmentsParams{
		Scope:  policy.DepartmentReadScope(caller),
		Status: status,
	})
}

// GetByID fetches a single department, applying the same visibility
// predicate as list queries.
func (m *Manager) GetByID(ctx context.Context, caller model.Caller, id uuid.UUID) (model.Department, error) {
	department, err := m.store.GetDepartmentByID(ctx, id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return model.Department{}, apperror.NotFound("department not found")
		}
		return model.Department{}, err
	}

	isMember := false
	if caller.EmployeeID != uuid.Nil {
		isMember, err = m.store.IsDepartmentMember(ctx, id, caller.EmployeeID)
		if err != nil {
			return model.Department{}, err
		}
	}

	if !policy.CanViewDepartment(caller, department, isMember) {
		return model.Department{}, apperror.Forbidden("you are not allowed to view this department")
	}
	return department, nil
}

func (m *Manager) applyChanges(ctx context.Context, q database.Querier, changes []roletransition.Change) error {
	for _, change := range changes {
		user, err := q.GetUserByEmployeeID(ctx, change.EmployeeID)
		if err != nil {
			return fmt.Errorf("failed to load user for role change: %w", err)
		}
		if err := q.SetUserRole(ctx, user.ID, change.Role); err != nil {
			return err
		}
		m.logger.Info("Role transition applied", "employee_id", change.EmployeeID, "role", change.Role)
	}
	return nil
}
