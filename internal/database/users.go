package database

import (
	"context"

	"github.com/google/uuid"

	"peopledesk/internal/model"
)

const userColumns = "id, name, email, password_hash, role, employee_id, created_at, updated_at"

type CreateUserParams struct {
	Name         string
	Email        string
	PasswordHash string
	Role         model.Role
	EmployeeID   *uuid.UUID
}

func scanUser(row interface{ Scan(dest ...any) error }) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.EmployeeID, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

func (q *queries) CreateUser(ctx context.Context, arg CreateUserParams) (model.User, error) {
	row := q.db.QueryRow(ctx, `
		INSERT INTO tbl_user (id, name, email, password_hash, role, employee_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+userColumns,
		uuid.New(), arg.Name, arg.Email, arg.PasswordHash, arg.Role, arg.EmployeeID)

	user, err := scanUser(row)
	if err != nil {
		return model.User{}, translateError(err)
	}
	return user, nil
}

func (q *queries) GetUserByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	row := q.db.QueryRow(ctx, `SELECT `+userColumns+` FROM tbl_user WHERE id = $1`, id)

	user, err := scanUser(row)
	if err != nil {
		return model.User{}, translateError(err)
	}
	return user, nil
}

func (q *queries) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	row := q.db.QueryRow(ctx, `SELECT `+userColumns+` FROM tbl_user WHERE email = $1`, email)

	user, err := scanUser(row)
	if err != nil {
		return model.User{}, translateError(err)
	}
	return user, nil
}

func (q *queries) GetUserByEmployeeID(ctx context.Context, employeeID uuid.UUID) (model.User, error) {
	row := q.db.QueryRow(ctx, `SELECT `+userColumns+` FROM tbl_user WHERE employee_id = $1`, employeeID)

	user, err := scanUser(row)
	if err != nil {
		return model.User{}, translateError(err)
	}
	return user, nil
}

// UpdateUserProfile mirrors employee name/email changes onto the linked user
// account.
func (q *queries) UpdateUserProfile(ctx context.Context, employeeID uuid.UUID, name, email string) error {
	tag, err := q.db.Exec(ctx,
		`UPDATE tbl_user SET name = $2, email = $3, updated_at = now() WHERE employee_id = $1`,
		employeeID, name, email)
	if err != nil {
		return translateError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (q *queries) SetUserRole(ctx context.Context, userID uuid.UUID, role model.Role) error {
	tag, err := q.db.Exec(ctx,
		`UPDATE tbl_user SET role = $2, updated_at = now() WHERE id = $1`,
		userID, role)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
