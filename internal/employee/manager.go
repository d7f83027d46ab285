// Package employee orchestrates employee mutations: policy checks, the
// paired user account, and the atomic transaction around each write.
package employee

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"peopledesk/internal/apperror"
	"peopledesk/internal/database"
	"peopledesk/internal/model"
	"peopledesk/internal/policy"
)

// Accounts are created with this placeholder; users are expected to change
// it on first login.
const defaultPassword = "ChangeMe123!"

type Manager struct {
	store  database.Store
	logger *slog.Logger
}

func NewManager(store database.Store, logger *slog.Logger) *Manager {
	return &Manager{store: store, logger: logger}
}

type CreateParams struct {
	FirstName string
	LastName  string
	Phone     string
	Email     string
	ManagerID *uuid.UUID
	Status    model.Status
}

type UpdateParams struct {
	ID        uuid.UUID
	FirstName string
	LastName  string
	Phone     string
	Email     string
	ManagerID *uuid.UUID
	Status    *model.Status
}

type Filter struct {
	Status       *model.Status
	ManagerID    *uuid.UUID
	DepartmentID *uuid.UUID
}

// Create inserts an employee and its paired user account in one
// transaction. Any authenticated caller may create employees; only the
// session middleware gates this path.
func (m *Manager) Create(ctx context.Context, caller model.Caller, params CreateParams) (model.Employee, error) {
	status := params.Status
	if status == "" {
		status = model.StatusActive
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(defaultPassword), bcrypt.DefaultCost)
	if err != nil {
		return model.Employee{}, fmt.Errorf("failed to hash default password: %w", err)
	}

	var created model.Employee
	err = m.store.WithTx(ctx, func(q database.Querier) error {
		if params.ManagerID != nil {
			if _, err := q.GetEmployeeByID(ctx, *params.ManagerID); err != nil {
				if errors.Is(err, database.ErrNotFound) {
					return apperror.Validation("manager employee does not exist")
				}
				return err
			}
		}

		created, err = q.CreateEmployee(ctx, database.CreateEmployeeParams{
			FirstName: params.FirstName,
			LastName:  params.LastName,
			Phone:     params.Phone,
			Email:     params.Email,
			Status:    status,
			ManagerID: params.ManagerID,
		})
		if err != nil {
			if errors.Is(err, database.ErrDuplicateEmail) {
				return apperror.Conflict("email is already in use")
			}
			return err
		}

		// The paired user mirrors the employee's email and name and starts
		// as EMPLOYEE; the rollback on failure removes the employee row too.
		if _, err := q.CreateUser(ctx, database.CreateUserParams{
			Name:         created.FullName(),
			Email:        created.Email,
			PasswordHash: string(passwordHash),
			Role:         model.RoleEmployee,
			EmployeeID:   &created.ID,
		}); err != nil {
			if errors.Is(err, database.ErrDuplicateEmail) {
				return apperror.Conflict("email is already in use")
			}
			return err
		}
		return nil
	})
	if err != nil {
		return model.Employee{}, err
	}

	m.logger.Info("Employee created", "employee_id", created.ID, "created_by", caller.UserID)
	return created, nil
}

// Update applies an authorized edit. Non-admin callers may be editing
// themselves or a direct report; their managerId/status values are silently
// dropped rather than rejected. The fetch, authorization, and write all run
// in one transaction so a concurrent reassignment is never reverted from a
// stale read.
func (m *Manager) Update(ctx context.Context, caller model.Caller, params UpdateParams) (model.Employee, error) {
	var updated model.Employee
	err := m.store.WithTx(ctx, func(q database.Querier) error {
		current, err := q.GetEmployeeByID(ctx, params.ID)
		if err != nil {
			if errors.Is(err, database.ErrNotFound) {
				return apperror.NotFound("employee not found")
			}
			return err
		}

		if !policy.CanUpdateEmployee(caller, current) {
			return apperror.Forbidden("you are not allowed to edit this employee")
		}

		managerID := current.ManagerID
		status := current.Status
		if policy.CanSetRestrictedFields(caller) {
			managerID = params.ManagerID
			if params.Status != nil {
				status = *params.Status
			}
		}

		if managerID != nil && !equalID(managerID, current.ManagerID) {
			if err := ensureNoCycle(ctx, q, params.ID, *managerID); err != nil {
				return err
			}
		}

		updated, err = q.UpdateEmployee(ctx, database.UpdateEmployeeParams{
			ID:        params.ID,
			FirstName: params.FirstName,
			LastName:  params.LastName,
			Phone:     params.Phone,
			Email:     params.Email,
			Status:    status,
			ManagerID: managerID,
		})
		if err != nil {
			if errors.Is(err, database.ErrDuplicateEmail) {
				return apperror.Conflict("email is already in use")
			}
			return err
		}

		// The mirrored user row has its own unique email constraint; it can
		// fire on accounts without an employee row, such as seeded admins.
		if err := q.UpdateUserProfile(ctx, updated.ID, updated.FullName(), updated.Email); err != nil {
			if errors.Is(err, database.ErrDuplicateEmail) {
				return apperror.Conflict("email is already in use")
			}
			return err
		}
		return nil
	})
	if err != nil {
		return model.Employee{}, err
	}

	return updated, nil
}

// ToggleStatus flips ACTIVE/INACTIVE. Admin only; deactivation is
// reversible.
func (m *Manager) ToggleStatus(ctx context.Context, caller model.Caller, id uuid.UUID, status model.Status) (model.Employee, error) {
	if !policy.CanSetRestrictedFields(caller) {
		return model.Employee{}, apperror.Forbidden("only admins can change employee status")
	}

	employee, err := m.store.SetEmployeeStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return model.Employee{}, apperror.NotFound("employee not found")
		}
		return model.Employee{}, err
	}
	return employee, nil
}

// GetAll lists employees visible to the caller, narrowed by the filter.
func (m *Manager) GetAll(ctx context.Context, caller model.Caller, filter Filter) ([]model.Employee, error) {
	return m.store.ListEmployees(ctx, database.ListEmployeesParams{
		Scope:        policy.EmployeeReadScope(caller),
		Status:       filter.Status,
		ManagerID:    filter.ManagerID,
		DepartmentID: filter.DepartmentID,
	})
}

// GetByID fetches a single employee, distinguishing records outside the
// caller's scope (Forbidden) from records that do not exist (NotFound).
func (m *Manager) GetByID(ctx context.Context, caller model.Caller, id uuid.UUID) (model.Employee, error) {
	employee, err := m.store.GetEmployeeByID(ctx, id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return model.Employee{}, apperror.NotFound("employee not found")
		}
		return model.Employee{}, err
	}

	if !policy.CanViewEmployee(caller, employee) {
		return model.Employee{}, apperror.Forbidden("you are not allowed to view this employee")
	}
	return employee, nil
}

// GetManagers returns the manager-eligible employees for selection lists.
func (m *Manager) GetManagers(ctx context.Context, caller model.Caller) ([]model.ManagerOption, error) {
	return m.store.ListManagers(ctx)
}

// ensureNoCycle walks up the manager chain from newManagerID and rejects the
// assignment if it reaches employeeID again.
func ensureNoCycle(ctx context.Context, q database.Querier, employeeID, newManagerID uuid.UUID) error {
	if newManagerID == employeeID {
		return apperror.Validation("an employee cannot be their own manager")
	}

	seen := map[uuid.UUID]bool{employeeID: true}
	current := newManagerID
	for {
		if seen[current] {
			return apperror.Validation("manager assignment would create a cycle")
		}
		seen[current] = true

		manager, err := q.GetEmployeeByID(ctx, current)
		if err != nil {
			if errors.Is(err, database.ErrNotFound) {
				return apperror.Validation("manager employee does not exist")
			}
			return err
		}
		if manager.ManagerID == nil {
			return nil
		}
		current = *manager.ManagerID
	}
}

func equalID(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
