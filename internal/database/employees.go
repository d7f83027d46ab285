package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"peopledesk/internal/model"
	"peopledesk/internal/policy"
)

const employeeColumns = "id, first_name, last_name, phone, email, status, manager_id, created_at, updated_at"

type CreateEmployeeParams struct {
	FirstName string
	LastName  string
	Phone     string
	Email     string
	Status    model.Status
	ManagerID *uuid.UUID
}

type UpdateEmployeeParams struct {
	ID        uuid.UUID
	FirstName string
	LastName  string
	Phone     string
	Email     string
	Status    model.Status
	ManagerID *uuid.UUID
}

type ListEmployeesParams struct {
	Scope        policy.Scope
	Status       *model.Status
	ManagerID    *uuid.UUID
	DepartmentID *uuid.UUID
}

func scanEmployee(row interface{ Scan(dest ...any) error }) (model.Employee, error) {
	var e model.Employee
	err := row.Scan(&e.ID, &e.FirstName, &e.LastName, &e.Phone, &e.Email, &e.Status, &e.ManagerID, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}

func (q *queries) CreateEmployee(ctx context.Context, arg CreateEmployeeParams) (model.Employee, error) {
	row := q.db.QueryRow(ctx, `
		INSERT INTO tbl_employee (id, first_name, last_name, phone, email, status, manager_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+employeeColumns,
		uuid.New(), arg.FirstName, arg.LastName, arg.Phone, arg.Email, arg.Status, arg.ManagerID)

	employee, err := scanEmployee(row)
	if err != nil {
		return model.Employee{}, translateError(err)
	}
	return employee, nil
}

func (q *queries) GetEmployeeByID(ctx context.Context, id uuid.UUID) (model.Employee, error) {
	row := q.db.QueryRow(ctx, `SELECT `+employeeColumns+` FROM tbl_employee WHERE id = $1`, id)

	employee, err := scanEmployee(row)
	if err != nil {
		return model.Employee{}, translateError(err)
	}
	return employee, nil
}

func (q *queries) ListEmployees(ctx context.Context, arg ListEmployeesParams) ([]model.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM tbl_employee`
	var conds []string
	var args []any

	if !arg.Scope.All {
		args = append(args, arg.Scope.EmployeeID)
		if arg.Scope.IncludeReports {
			conds = append(conds, fmt.Sprintf("(id = $%d OR manager_id = $%d)", len(args), len(args)))
		} else {
			conds = append(conds, fmt.Sprintf("id = $%d", len(args)))
		}
	}
	if arg.Status != nil {
		args = append(args, *arg.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if arg.ManagerID != nil {
		args = append(args, *arg.ManagerID)
		conds = append(conds, fmt.Sprintf("manager_id = $%d", len(args)))
	}
	if arg.DepartmentID != nil {
		// Department membership unions direct members and the department's
		// manager, so managers always see their own roster.
		args = append(args, *arg.DepartmentID)
		conds = append(conds, fmt.Sprintf(`(
			EXISTS (SELECT 1 FROM tbl_department_member m WHERE m.department_id = $%d AND m.employee_id = tbl_employee.id)
			OR EXISTS (SELECT 1 FROM tbl_department d WHERE d.id = $%d AND d.manager_id = tbl_employee.id)
		)`, len(args), len(args)))
	}

	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY last_name, first_name"

	rows, err := q.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []model.Employee
	for rows.Next() {
		employee, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, employee)
	}
	return employees, rows.Err()
}

func (q *queries) UpdateEmployee(ctx context.Context, arg UpdateEmployeeParams) (model.Employee, error) {
	row := q.db.QueryRow(ctx, `
		UPDATE tbl_employee
		SET first_name = $2, last_name = $3, phone = $4, email = $5, status = $6, manager_id = $7, updated_at = now()
		WHERE id = $1
		RETURNING `+employeeColumns,
		arg.ID, arg.FirstName, arg.LastName, arg.Phone, arg.Email, arg.Status, arg.ManagerID)

	employee, err := scanEmployee(row)
	if err != nil {
		return model.Employee{}, translateError(err)
	}
	return employee, nil
}

func (q *queries) SetEmployeeStatus(ctx context.Context, id uuid.UUID, status model.Status) (model.Employee, error) {
	row := q.db.QueryRow(ctx, `
		UPDATE tbl_employee SET status = $2, updated_at = now() WHERE id = $1
		RETURNING `+employeeColumns, id, status)

	employee, err := scanEmployee(row)
	if err != nil {
		return model.Employee{}, translateError(err)
	}
	return employee, nil
}

// ListManagers returns employees considered manager-eligible: anyone already
// referenced as a manager, anyone whose user holds MANAGER or ADMIN, and
// anyone managing a department.
func (q *queries) ListManagers(ctx context.Context) ([]model.ManagerOption, error) {
	rows, err := q.db.Query(ctx, `
		SELECT e.id, e.first_name, e.last_name FROM tbl_employee e
		WHERE EXISTS (SELECT 1 FROM tbl_employee r WHERE r.manager_id = e.id)
		   OR EXISTS (SELECT 1 FROM tbl_user u WHERE u.employee_id = e.id AND u.role IN ('MANAGER', 'ADMIN'))
		   OR EXISTS (SELECT 1 FROM tbl_department d WHERE d.manager_id = e.id)
		ORDER BY e.last_name, e.first_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var managers []model.ManagerOption
	for rows.Next() {
		var m model.ManagerOption
		if err := rows.Scan(&m.ID, &m.FirstName, &m.LastName); err != nil {
			return nil, err
		}
		managers = append(managers, m)
	}
	return managers, rows.Err()
}

func (q *queries) CountDirectReports(ctx context.Context, managerID uuid.UUID) (int, error) {
	var count int
	err := q.db.QueryRow(ctx, `SELECT count(*) FROM tbl_employee WHERE manager_id = $1`, managerID).Scan(&count)
	return count, err
}
