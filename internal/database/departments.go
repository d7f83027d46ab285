package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"peopledesk/internal/model"
	"peopledesk/internal/policy"
)

const departmentColumns = "id, name, status, manager_id, created_at, updated_at"

type CreateDepartmentParams struct {
	Name      string
	Status    model.Status
	ManagerID uuid.UUID
}

type UpdateDepartmentParams struct {
	ID        uuid.UUID
	Name      string
	Status    model.Status
	ManagerID uuid.UUID
}

type ListDepartmentsParams struct {
	Scope  policy.Scope
	Status *model.Status
}

func scanDepartment(row interface{ Scan(dest ...any) error }) (model.Department, error) {
	var d model.Department
	err := row.Scan(&d.ID, &d.Name, &d.Status, &d.ManagerID, &d.CreatedAt, &d.UpdatedAt)
	return d, err
}

func (q *queries) CreateDepartment(ctx context.Context, arg CreateDepartmentParams) (model.Department, error) {
	row := q.db.QueryRow(ctx, `
		INSERT INTO tbl_department (id, name, status, manager_id)
		VALUES ($1, $2, $3, $4)
		RETURNING `+departmentColumns,
		uuid.New(), arg.Name, arg.Status, arg.ManagerID)

	department, err := scanDepartment(row)
	if err != nil {
		return model.Department{}, translateError(err)
	}
	return department, nil
}

func (q *queries) GetDepartmentByID(ctx context.Context, id uuid.UUID) (model.Department, error) {
	row := q.db.QueryRow(ctx, `SELECT `+departmentColumns+` FROM tbl_department WHERE id = $1`, id)

	department, err := scanDepartment(row)
	if err != nil {
		return model.Department{}, translateError(err)
	}
	return department, nil
}

func (q *queries) ListDepartments(ctx context.Context, arg ListDepartmentsParams) ([]model.Department, error) {
	query := `SELECT ` + departmentColumns + ` FROM tbl_department`
	var conds []string
	var args []any

	if !arg.Scope.All {
		args = append(args, arg.Scope.EmployeeID)
		member := fmt.Sprintf(`EXISTS (SELECT 1 FROM tbl_department_member m
			WHERE m.department_id = tbl_department.id AND m.employee_id = $%d)`, len(args))
		if arg.Scope.IncludeManaged {
			conds = append(conds, fmt.Sprintf("(manager_id = $%d OR %s)", len(args), member))
		} else {
			conds = append(conds, member)
		}
	}
	if arg.Status != nil {
		args = append(args, *arg.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}

	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY name"

	rows, err := q.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var departments []model.Department
	for rows.Next() {
		department, err := scanDepartment(rows)
		if err != nil {
			return nil, err
		}
		departments = append(departments, department)
	}
	return departments, rows.Err()
}

func (q *queries) UpdateDepartment(ctx context.Context, arg UpdateDepartmentParams) (model.Department, error) {
	row := q.db.QueryRow(ctx, `
		UPDATE tbl_department
		SET name = $2, status = $3, manager_id = $4, updated_at = now()
		WHERE id = $1
		RETURNING `+departmentColumns,
		arg.ID, arg.Name, arg.Status, arg.ManagerID)

	department, err := scanDepartment(row)
	if err != nil {
		return model.Department{}, translateError(err)
	}
	return department, nil
}

func (q *queries) SetDepartmentStatus(ctx context.Context, id uuid.UUID, status model.Status) (model.Department, error) {
	row := q.db.QueryRow(ctx, `
		UPDATE tbl_department SET status = $2, updated_at = now() WHERE id = $1
		RETURNING `+departmentColumns, id, status)

	department, err := scanDepartment(row)
	if err != nil {
		return model.Department{}, translateError(err)
	}
	return department, nil
}

// CountManagedDepartments counts departments managed by managerID, excluding
// excludeDepartmentID. The exclusion lets the demotion check ignore the
// department whose manager is being reassigned.
func (q *queries) CountManagedDepartments(ctx context.Context, managerID uuid.UUID, excludeDepartmentID uuid.UUID) (int, error) {
	var count int
	err := q.db.QueryRow(ctx,
		`SELECT count(*) FROM tbl_department WHERE manager_id = $1 AND id <> $2`,
		managerID, excludeDepartmentID).Scan(&count)
	return count, err
}

func (q *queries) AddDepartmentMember(ctx context.Context, departmentID, employeeID uuid.UUID) error {
	_, err := q.db.Exec(ctx,
		`INSERT INTO tbl_department_member (department_id, employee_id) VALUES ($1, $2)`,
		departmentID, employeeID)
	return translateError(err)
}

func (q *queries) RemoveDepartmentMember(ctx context.Context, departmentID, employeeID uuid.UUID) error {
	tag, err := q.db.Exec(ctx,
		`DELETE FROM tbl_department_member WHERE department_id = $1 AND employee_id = $2`,
		departmentID, employeeID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (q *queries) IsDepartmentMember(ctx context.Context, departmentID, employeeID uuid.UUID) (bool, error) {
	var exists bool
	err := q.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM tbl_department_member WHERE department_id = $1 AND employee_id = $2)`,
		departmentID, employeeID).Scan(&exists)
	return exists, err
}
