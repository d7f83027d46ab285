package database

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"peopledesk/internal/model"
)

var (
	ErrNotFound                = errors.New("record not found")
	ErrDuplicateEmail          = errors.New("email already in use")
	ErrDuplicateDepartmentName = errors.New("department name already in use")
	ErrDuplicateMembership     = errors.New("employee is already a member of the department")
)

// DBTX is satisfied by both *pgxpool.Pool and pgx.Tx, so the same query
// methods run inside and outside transactions.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Querier is the full set of domain queries. Services depend on this
// interface rather than on *Database so tests can substitute a fake.
type Querier interface {
	CreateEmployee(ctx context.Context, arg CreateEmployeeParams) (model.Employee, error)
	GetEmployeeByID(ctx context.Context, id uuid.UUID) (model.Employee, error)
	ListEmployees(ctx context.Context, arg ListEmployeesParams) ([]model.Employee, error)
	UpdateEmployee(ctx context.Context, arg UpdateEmployeeParams) (model.Employee, error)
	SetEmployeeStatus(ctx context.Context, id uuid.UUID, status model.Status) (model.Employee, error)
	ListManagers(ctx context.Context) ([]model.ManagerOption, error)
	CountDirectReports(ctx context.Context, managerID uuid.UUID) (int, error)

	CreateDepartment(ctx context.Context, arg CreateDepartmentParams) (model.Department, error)
	GetDepartmentByID(ctx context.Context, id uuid.UUID) (model.Department, error)
	ListDepartments(ctx context.Context, arg ListDepartmentsParams) ([]model.Department, error)
	UpdateDepartment(ctx context.Context, arg UpdateDepartmentParams) (model.Department, error)
	SetDepartmentStatus(ctx context.Context, id uuid.UUID, status model.Status) (model.Department, error)
	CountManagedDepartments(ctx context.Context, managerID uuid.UUID, excludeDepartmentID uuid.UUID) (int, error)
	AddDepartmentMember(ctx context.Context, departmentID, employeeID uuid.UUID) error
	RemoveDepartmentMember(ctx context.Context, departmentID, employeeID uuid.UUID) error
	IsDepartmentMember(ctx context.Context, departmentID, employeeID uuid.UUID) (bool, error)

	CreateUser(ctx context.Context, arg CreateUserParams) (model.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (model.User, error)
	GetUserByEmail(ctx context.Context, email string) (model.User, error)
	GetUserByEmployeeID(ctx context.Context, employeeID uuid.UUID) (model.User, error)
	UpdateUserProfile(ctx context.Context, employeeID uuid.UUID, name, email string) error
	SetUserRole(ctx context.Context, userID uuid.UUID, role model.Role) error
}

// Store is what the feature services consume: all queries plus the
// transaction boundary.
type Store interface {
	Querier
	WithTx(ctx context.Context, fn func(Querier) error) error
	HealthCheck(ctx context.Context) error
}

type queries struct {
	db DBTX
}

// translateError maps driver-level failures to the package sentinels.
// Unique violations are recognized by constraint name; anything else
// propagates unchanged.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		switch {
		case strings.Contains(pgErr.ConstraintName, "email"):
			return ErrDuplicateEmail
		case strings.Contains(pgErr.ConstraintName, "member"):
			return ErrDuplicateMembership
		case strings.Contains(pgErr.ConstraintName, "name"):
			return ErrDuplicateDepartmentName
		}
	}

	return err
}
