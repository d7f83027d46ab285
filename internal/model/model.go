package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Role is the authorization role carried by a User account. ADMIN is only
// ever assigned by the seed command, never by role transitions.
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleManager  Role = "MANAGER"
	RoleEmployee Role = "EMPLOYEE"
)

func (r Role) String() string {
	return string(r)
}

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleEmployee:
		return true
	}
	return false
}

func (r *Role) Scan(value any) error {
	str, ok := value.(string)
	if !ok {
		return fmt.Errorf("cannot scan %T into Role", value)
	}
	role := Role(str)
	if !role.Valid() {
		return fmt.Errorf("invalid role %q", str)
	}
	*r = role
	return nil
}

// Status is the lifecycle state of an Employee or Department. Records are
// deactivated, never hard-deleted.
type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusInactive Status = "INACTIVE"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) Valid() bool {
	return s == StatusActive || s == StatusInactive
}

func (s *Status) Scan(value any) error {
	str, ok := value.(string)
	if !ok {
		return fmt.Errorf("cannot scan %T into Status", value)
	}
	status := Status(str)
	if !status.Valid() {
		return fmt.Errorf("invalid status %q", str)
	}
	*s = status
	return nil
}

// Caller is the resolved identity a request acts as. EmployeeID is uuid.Nil
// for accounts without a linked employee record (seeded admins).
type Caller struct {
	UserID     uuid.UUID
	EmployeeID uuid.UUID
	Role       Role
}

type Employee struct {
	ID        uuid.UUID  `json:"id"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	Phone     string     `json:"phone"`
	Email     string     `json:"email"`
	Status    Status     `json:"status"`
	ManagerID *uuid.UUID `json:"manager_id,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (e Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}

type Department struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Status    Status    `json:"status"`
	ManagerID uuid.UUID `json:"manager_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Membership links an Employee to a Department. Rows are removed by cascade
// when either side is deleted.
type Membership struct {
	EmployeeID   uuid.UUID `json:"employee_id"`
	DepartmentID uuid.UUID `json:"department_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type User struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Role         Role       `json:"role"`
	EmployeeID   *uuid.UUID `json:"employee_id,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// ManagerOption is the reduced employee shape used to populate "eligible
// manager" selections.
type ManagerOption struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
}
