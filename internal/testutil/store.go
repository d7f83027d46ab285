// Package testutil provides an in-memory database.Store used by service
// tests. WithTx snapshots state and restores it when the callback fails, so
// rollback behavior can be asserted without a real database.
package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"peopledesk/internal/database"
	"peopledesk/internal/model"
)

type memberKey struct {
	DepartmentID uuid.UUID
	EmployeeID   uuid.UUID
}

type FakeStore struct {
	mu          sync.Mutex
	employees   map[uuid.UUID]model.Employee
	departments map[uuid.UUID]model.Department
	users       map[uuid.UUID]model.User
	members     map[memberKey]model.Membership
}

var _ database.Store = (*FakeStore)(nil)

func NewFakeStore() *FakeStore {
	return &FakeStore{
		employees:   make(map[uuid.UUID]model.Employee),
		departments: make(map[uuid.UUID]model.Department),
		users:       make(map[uuid.UUID]model.User),
		members:     make(map[memberKey]model.Membership),
	}
}

// Seed helpers fill in ids and timestamps when missing.

func (s *FakeStore) SeedEmployee(e model.Employee) model.Employee {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.Status == "" {
		e.Status = model.StatusActive
	}
	e.CreatedAt, e.UpdatedAt = time.Now(), time.Now()
	s.employees[e.ID] = e
	return e
}

func (s *FakeStore) SeedUser(u model.User) model.User {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Role == "" {
		u.Role = model.RoleEmployee
	}
	u.CreatedAt, u.UpdatedAt = time.Now(), time.Now()
	s.users[u.ID] = u
	return u
}

func (s *FakeStore) SeedDepartment(d model.Department) model.Department {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	if d.Status == "" {
		d.Status = model.StatusActive
	}
	d.CreatedAt, d.UpdatedAt = time.Now(), time.Now()
	s.departments[d.ID] = d
	return d
}

func (s *FakeStore) SeedMember(departmentID, employeeID uuid.UUID) {
	key := memberKey{DepartmentID: departmentID, EmployeeID: employeeID}
	s.members[key] = model.Membership{
		EmployeeID:   employeeID,
		DepartmentID: departmentID,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
}

// UserByEmployee is a test convenience for asserting role transitions.
func (s *FakeStore) UserByEmployee(employeeID uuid.UUID) (model.User, bool) {
	for _, u := range s.users {
		if u.EmployeeID != nil && *u.EmployeeID == employeeID {
			return u, true
		}
	}
	return model.User{}, false
}

func (s *FakeStore) HealthCheck(ctx context.Context) error {
	return nil
}

// WithTx snapshots all tables, runs fn against the store itself, and
// restores the snapshot when fn fails.
func (s *FakeStore) WithTx(ctx context.Context, fn func(database.Querier) error) error {
	s.mu.Lock()
	employees := cloneMap(s.employees)
	departments := cloneMap(s.departments)
	users := cloneMap(s.users)
	members := cloneMap(s.members)
	s.mu.Unlock()

	if err := fn(s); err != nil {
		s.mu.Lock()
		s.employees = employees
		s.departments = departments
		s.users = users
		s.members = members
		s.mu.Unlock()
		return err
	}
	return nil
}

func cloneMap[K comparable, V any](in map[K]V) map[K]V {
	out := make(map[K]V, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// Employee queries

func (s *FakeStore) CreateEmployee(ctx context.Context, arg database.CreateEmployeeParams) (model.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.employees {
		if e.Email == arg.Email {
			return model.Employee{}, database.ErrDuplicateEmail
		}
	}

	employee := model.Employee{
		ID:        uuid.New(),
		FirstName: arg.FirstName,
		LastName:  arg.LastName,
		Phone:     arg.Phone,
		Email:     arg.Email,
		Status:    arg.Status,
		ManagerID: arg.ManagerID,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	s.employees[employee.ID] = employee
	return employee, nil
}

func (s *FakeStore) GetEmployeeByID(ctx context.Context, id uuid.UUID) (model.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	employee, ok := s.employees[id]
	if !ok {
		return model.Employee{}, database.ErrNotFound
	}
	return employee, nil
}

func (s *FakeStore) ListEmployees(ctx context.Context, arg database.ListEmployeesParams) ([]model.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []model.Employee
	for _, e := range s.employees {
		if !arg.Scope.All {
			visible := e.ID == arg.Scope.EmployeeID
			if arg.Scope.IncludeReports && e.ManagerID != nil && *e.ManagerID == arg.Scope.EmployeeID {
				visible = true
			}
			if !visible {
				continue
			}
		}
		if arg.Status != nil && e.Status != *arg.Status {
			continue
		}
		if arg.ManagerID != nil && (e.ManagerID == nil || *e.ManagerID != *arg.ManagerID) {
			continue
		}
		if arg.DepartmentID != nil {
			_, isMember := s.members[memberKey{DepartmentID: *arg.DepartmentID, EmployeeID: e.ID}]
			managesIt := false
			if d, ok := s.departments[*arg.DepartmentID]; ok && d.ManagerID == e.ID {
				managesIt = true
			}
			if !isMember && !managesIt {
				continue
			}
		}
		out = append(out, e)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].LastName != out[j].LastName {
			return out[i].LastName < out[j].LastName
		}
		return out[i].FirstName < out[j].FirstName
	})
	return out, nil
}

func (s *FakeStore) UpdateEmployee(ctx context.Context, arg database.UpdateEmployeeParams) (model.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	employee, ok := s.employees[arg.ID]
	if !ok {
		return model.Employee{}, database.ErrNotFound
	}
	for _, e := range s.employees {
		if e.ID != arg.ID && e.Email == arg.Email {
			return model.Employee{}, database.ErrDuplicateEmail
		}
	}

	employee.FirstName = arg.FirstName
	employee.LastName = arg.LastName
	employee.Phone = arg.Phone
	employee.Email = arg.Email
	employee.Status = arg.Status
	employee.ManagerID = arg.ManagerID
	employee.UpdatedAt = time.Now()
	s.employees[arg.ID] = employee
	return employee, nil
}

func (s *FakeStore) SetEmployeeStatus(ctx context.Context, id uuid.UUID, status model.Status) (model.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	employee, ok := s.employees[id]
	if !ok {
		return model.Employee{}, database.ErrNotFound
	}
	employee.Status = status
	employee.UpdatedAt = time.Now()
	s.employees[id] = employee
	return employee, nil
}

func (s *FakeStore) ListManagers(ctx context.Context) ([]model.ManagerOption, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []model.ManagerOption
	for _, e := range s.employees {
		if s.isManagerEligible(e) {
			out = append(out, model.ManagerOption{ID: e.ID, FirstName: e.FirstName, LastName: e.LastName})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].LastName != out[j].LastName {
			return out[i].LastName < out[j].LastName
		}
		return out[i].FirstName < out[j].FirstName
	})
	return out, nil
}

func (s *FakeStore) isManagerEligible(e model.Employee) bool {
	for _, other := range s.employees {
		if other.ManagerID != nil && *other.ManagerID == e.ID {
			return true
		}
	}
	for _, u := range s.users {
		if u.EmployeeID != nil && *u.EmployeeID == e.ID && (u.Role == model.RoleManager || u.Role == model.RoleAdmin) {
			return true
		}
	}
	for _, d := range s.departments {
		if d.ManagerID == e.ID {
			return true
		}
	}
	return false
}

func (s *FakeStore) CountDirectReports(ctx context.Context, managerID uuid.UUID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, e := range s.employees {
		if e.ManagerID != nil && *e.ManagerID == managerID {
			count++
		}
	}
	return count, nil
}

// Department queries

func (s *FakeStore) CreateDepartment(ctx context.Context, arg database.CreateDepartmentParams) (model.Department, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, d := range s.departments {
		if d.Name == arg.Name {
			return model.Department{}, database.ErrDuplicateDepartmentName
		}
	}

	department := model.Department{
		ID:        uuid.New(),
		Name:      arg.Name,
		Status:    arg.Status,
		ManagerID: arg.ManagerID,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	s.departments[department.ID] = department
	return department, nil
}

func (s *FakeStore) GetDepartmentByID(ctx context.Context, id uuid.UUID) (model.Department, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	department, ok := s.departments[id]
	if !ok {
		return model.Department{}, database.ErrNotFound
	}
	return department, nil
}

func (s *FakeStore) ListDepartments(ctx context.Context, arg database.ListDepartmentsParams) ([]model.Department, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []model.Department
	for _, d := range s.departments {
		if !arg.Scope.All {
			_, isMember := s.members[memberKey{DepartmentID: d.ID, EmployeeID: arg.Scope.EmployeeID}]
			visible := isMember
			if arg.Scope.IncludeManaged && d.ManagerID == arg.Scope.EmployeeID {
				visible = true
			}
			if !visible {
				continue
			}
		}
		if arg.Status != nil && d.Status != *arg.Status {
			continue
		}
		out = append(out, d)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *FakeStore) UpdateDepartment(ctx context.Context, arg database.UpdateDepartmentParams) (model.Department, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	department, ok := s.departments[arg.ID]
	if !ok {
		return model.Department{}, database.ErrNotFound
	}
	for _, d := range s.departments {
		if d.ID != arg.ID && d.Name == arg.Name {
			return model.Department{}, database.ErrDuplicateDepartmentName
		}
	}

	department.Name = arg.Name
	department.Status = arg.Status
	department.ManagerID = arg.ManagerID
	department.UpdatedAt = time.Now()
	s.departments[arg.ID] = department
	return department, nil
}

func (s *FakeStore) SetDepartmentStatus(ctx context.Context, id uuid.UUID, status model.Status) (model.Department, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	department, ok := s.departments[id]
	if !ok {
		return model.Department{}, database.ErrNotFound
	}
	department.Status = status
	department.UpdatedAt = time.Now()
	s.departments[id] = department
	return department, nil
}

func (s *FakeStore) CountManagedDepartments(ctx context.Context, managerID uuid.UUID, excludeDepartmentID uuid.UUID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, d := range s.departments {
		if d.ManagerID == managerID && d.ID != excludeDepartmentID {
			count++
		}
	}
	return count, nil
}

func (s *FakeStore) AddDepartmentMember(ctx context.Context, departmentID, employeeID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := memberKey{DepartmentID: departmentID, EmployeeID: employeeID}
	if _, exists := s.members[key]; exists {
		return database.ErrDuplicateMembership
	}
	s.members[key] = model.Membership{
		EmployeeID:   employeeID,
		DepartmentID: departmentID,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	return nil
}

func (s *FakeStore) RemoveDepartmentMember(ctx context.Context, departmentID, employeeID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := memberKey{DepartmentID: departmentID, EmployeeID: employeeID}
	if _, exists := s.members[key]; !exists {
		return database.ErrNotFound
	}
	delete(s.members, key)
	return nil
}

func (s *FakeStore) IsDepartmentMember(ctx context.Context, departmentID, employeeID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, exists := s.members[memberKey{DepartmentID: departmentID, EmployeeID: employeeID}]
	return exists, nil
}

// User queries

func (s *FakeStore) CreateUser(ctx context.Context, arg database.CreateUserParams) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == arg.Email {
			return model.User{}, database.ErrDuplicateEmail
		}
	}

	user := model.User{
		ID:           uuid.New(),
		Name:         arg.Name,
		Email:        arg.Email,
		PasswordHash: arg.PasswordHash,
		Role:         arg.Role,
		EmployeeID:   arg.EmployeeID,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	s.users[user.ID] = user
	return user, nil
}

func (s *FakeStore) GetUserByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return model.User{}, database.ErrNotFound
	}
	return user, nil
}

func (s *FakeStore) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, database.ErrNotFound
}

func (s *FakeStore) GetUserByEmployeeID(ctx context.Context, employeeID uuid.UUID) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.EmployeeID != nil && *u.EmployeeID == employeeID {
			return u, nil
		}
	}
	return model.User{}, database.ErrNotFound
}

func (s *FakeStore) UpdateUserProfile(ctx context.Context, employeeID uuid.UUID, name, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, u := range s.users {
		if u.EmployeeID != nil && *u.EmployeeID == employeeID {
			for otherID, other := range s.users {
				if otherID != id && other.Email == email {
					return database.ErrDuplicateEmail
				}
			}
			u.Name = name
			u.Email = email
			u.UpdatedAt = time.Now()
			s.users[id] = u
			return nil
		}
	}
	return database.ErrNotFound
}

func (s *FakeStore) SetUserRole(ctx context.Context, userID uuid.UUID, role model.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		return database.ErrNotFound
	}
	user.Role = role
	user.UpdatedAt = time.Now()
	s.users[userID] = user
	return nil
}
