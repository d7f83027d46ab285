package employee

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"peopledesk/internal/apperror"
	"peopledesk/internal/database"
	"peopledesk/internal/model"
	"peopledesk/internal/policy"
	"peopledesk/internal/testutil"
)

func newTestManager(store database.Store) *Manager {
	return NewManager(store, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func adminCaller() model.Caller {
	return model.Caller{UserID: uuid.New(), Role: model.RoleAdmin}
}

func TestCreatePairsUserAccount(t *testing.T) {
	store := testutil.NewFakeStore()
	m := newTestManager(store)

	created, err := m.Create(context.Background(), adminCaller(), CreateParams{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Phone:     "0612345678",
		Email:     "ada@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusActive, created.Status)

	user, ok := store.UserByEmployee(created.ID)
	require.True(t, ok)
	assert.Equal(t, model.RoleEmployee, user.Role)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.Equal(t, "Ada Lovelace", user.Name)
	assert.NotEmpty(t, user.PasswordHash)
}

func TestCreateDuplicateEmailConflict(t *testing.T) {
	store := testutil.NewFakeStore()
	store.SeedEmployee(model.Employee{Email: "taken@example.com"})
	m := newTestManager(store)

	_, err := m.Create(context.Background(), adminCaller(), CreateParams{
		FirstName: "Bob",
		LastName:  "Smith",
		Email:     "taken@example.com",
	})
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
}

func TestCreateRejectsUnknownManager(t *testing.T) {
	store := testutil.NewFakeStore()
	m := newTestManager(store)

	ghost := uuid.New()
	_, err := m.Create(context.Background(), adminCaller(), CreateParams{
		FirstName: "Bob",
		LastName:  "Smith",
		Email:     "bob@example.com",
		ManagerID: &ghost,
	})
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}

// A user row with a conflicting email makes the second insert of the
// transaction fail; the employee row must roll back with it.
func TestCreateRollsBackWhenUserInsertFails(t *testing.T) {
	store := testutil.NewFakeStore()
	store.SeedUser(model.User{Email: "taken@example.com"})
	m := newTestManager(store)

	_, err := m.Create(context.Background(), adminCaller(), CreateParams{
		FirstName: "Bob",
		LastName:  "Smith",
		Email:     "taken@example.com",
	})
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))

	employees, err := store.ListEmployees(context.Background(), database.ListEmployeesParams{
		Scope: policy.Scope{All: true},
	})
	require.NoError(t, err)
	assert.Empty(t, employees)
}

func TestUpdateDropsRestrictedFieldsForNonAdmins(t *testing.T) {
	store := testutil.NewFakeStore()
	manager := store.SeedEmployee(model.Employee{FirstName: "Mia", LastName: "Boss", Email: "mia@example.com"})
	other := store.SeedEmployee(model.Employee{FirstName: "Ola", LastName: "Other", Email: "other@example.com"})
	report := store.SeedEmployee(model.Employee{
		FirstName: "Rob",
		LastName:  "Report",
		Email:     "rob@example.com",
		ManagerID: &manager.ID,
	})
	store.SeedUser(model.User{Email: "rob@example.com", EmployeeID: &report.ID})
	m := newTestManager(store)

	// A concrete reassignment attempt: both fields must come back unchanged.
	inactive := model.StatusInactive
	updated, err := m.Update(context.Background(), model.Caller{
		UserID:     uuid.New(),
		EmployeeID: manager.ID,
		Role:       model.RoleManager,
	}, UpdateParams{
		ID:        report.ID,
		FirstName: "Robert",
		LastName:  "Report",
		Email:     "rob@example.com",
		ManagerID: &other.ID,
		Status:    &inactive,
	})
	require.NoError(t, err)

	assert.Equal(t, "Robert", updated.FirstName)
	require.NotNil(t, updated.ManagerID)
	assert.Equal(t, manager.ID, *updated.ManagerID)
	assert.Equal(t, model.StatusActive, updated.Status)
}

// interleavingStore applies a pending mutation right before the transaction
// callback runs, standing in for a concurrent admin commit.
type interleavingStore struct {
	*testutil.FakeStore
	before func()
}

func (s *interleavingStore) WithTx(ctx context.Context, fn func(database.Querier) error) error {
	if s.before != nil {
		s.before()
		s.before = nil
	}
	return s.FakeStore.WithTx(ctx, fn)
}

// A self-edit that races an admin reassignment must not write the stale
// manager/status back; the restricted fields are resolved from the row as
// read inside the transaction.
func TestUpdateDoesNotRevertConcurrentReassignment(t *testing.T) {
	fake := testutil.NewFakeStore()
	oldBoss := fake.SeedEmployee(model.Employee{FirstName: "Mia", LastName: "Boss", Email: "mia@example.com"})
	newBoss := fake.SeedEmployee(model.Employee{FirstName: "Nina", LastName: "Next", Email: "nina@example.com"})
	sub := fake.SeedEmployee(model.Employee{
		FirstName: "Rob",
		LastName:  "Report",
		Phone:     "0612345678",
		Email:     "rob@example.com",
		ManagerID: &oldBoss.ID,
	})
	fake.SeedUser(model.User{Email: "rob@example.com", EmployeeID: &sub.ID})

	store := &interleavingStore{FakeStore: fake}
	store.before = func() {
		_, err := fake.UpdateEmployee(context.Background(), database.UpdateEmployeeParams{
			ID:        sub.ID,
			FirstName: sub.FirstName,
			LastName:  sub.LastName,
			Phone:     sub.Phone,
			Email:     sub.Email,
			Status:    model.StatusInactive,
			ManagerID: &newBoss.ID,
		})
		require.NoError(t, err)
	}
	m := newTestManager(store)

	updated, err := m.Update(context.Background(), model.Caller{
		UserID:     uuid.New(),
		EmployeeID: sub.ID,
		Role:       model.RoleEmployee,
	}, UpdateParams{
		ID:        sub.ID,
		FirstName: "Robert",
		LastName:  "Report",
		Phone:     "0612345678",
		Email:     "rob@example.com",
	})
	require.NoError(t, err)

	assert.Equal(t, "Robert", updated.FirstName)
	require.NotNil(t, updated.ManagerID)
	assert.Equal(t, newBoss.ID, *updated.ManagerID)
	assert.Equal(t, model.StatusInactive, updated.Status)
}

// The user table has its own email constraint; a collision with an account
// that has no employee row, like a seeded admin, surfaces from the mirror
// write and must still map to a conflict with the employee row rolled back.
func TestUpdateEmailCollidingWithUnlinkedAccount(t *testing.T) {
	store := testutil.NewFakeStore()
	store.SeedUser(model.User{Email: "admin@example.com", Role: model.RoleAdmin})
	emp := store.SeedEmployee(model.Employee{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"})
	store.SeedUser(model.User{Email: "ada@example.com", EmployeeID: &emp.ID})
	m := newTestManager(store)

	_, err := m.Update(context.Background(), adminCaller(), UpdateParams{
		ID:        emp.ID,
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "admin@example.com",
	})
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))

	current, err := store.GetEmployeeByID(context.Background(), emp.ID)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", current.Email)
}

func TestUpdateForbiddenOutsideScope(t *testing.T) {
	store := testutil.NewFakeStore()
	other := store.SeedEmployee(model.Employee{FirstName: "Eve", LastName: "Else", Email: "eve@example.com"})
	m := newTestManager(store)

	_, err := m.Update(context.Background(), model.Caller{
		UserID:     uuid.New(),
		EmployeeID: uuid.New(),
		Role:       model.RoleEmployee,
	}, UpdateParams{ID: other.ID, FirstName: "X", LastName: "Y", Email: "eve@example.com"})
	assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))
}

func TestUpdateRejectsManagerCycle(t *testing.T) {
	store := testutil.NewFakeStore()
	a := store.SeedEmployee(model.Employee{FirstName: "A", LastName: "Top", Email: "a@example.com"})
	b := store.SeedEmployee(model.Employee{FirstName: "B", LastName: "Mid", Email: "b@example.com", ManagerID: &a.ID})
	store.SeedUser(model.User{Email: "a@example.com", EmployeeID: &a.ID})
	m := newTestManager(store)

	_, err := m.Update(context.Background(), adminCaller(), UpdateParams{
		ID:        a.ID,
		FirstName: "A",
		LastName:  "Top",
		Email:     "a@example.com",
		ManagerID: &b.ID,
	})
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	_, err = m.Update(context.Background(), adminCaller(), UpdateParams{
		ID:        a.ID,
		FirstName: "A",
		LastName:  "Top",
		Email:     "a@example.com",
		ManagerID: &a.ID,
	})
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}

func TestUpdateMirrorsUserProfile(t *testing.T) {
	store := testutil.NewFakeStore()
	emp := store.SeedEmployee(model.Employee{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"})
	store.SeedUser(model.User{Email: "ada@example.com", EmployeeID: &emp.ID})
	m := newTestManager(store)

	_, err := m.Update(context.Background(), adminCaller(), UpdateParams{
		ID:        emp.ID,
		FirstName: "Ada",
		LastName:  "King",
		Email:     "ada.king@example.com",
	})
	require.NoError(t, err)

	user, ok := store.UserByEmployee(emp.ID)
	require.True(t, ok)
	assert.Equal(t, "Ada King", user.Name)
	assert.Equal(t, "ada.king@example.com", user.Email)
}

func TestToggleStatusAdminOnly(t *testing.T) {
	store := testutil.NewFakeStore()
	emp := store.SeedEmployee(model.Employee{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"})
	m := newTestManager(store)

	_, err := m.ToggleStatus(context.Background(), model.Caller{
		UserID: uuid.New(),
		Role:   model.RoleManager,
	}, emp.ID, model.StatusInactive)
	assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))

	updated, err := m.ToggleStatus(context.Background(), adminCaller(), emp.ID, model.StatusInactive)
	require.NoError(t, err)
	assert.Equal(t, model.StatusInactive, updated.Status)

	// Deactivation is reversible.
	updated, err = m.ToggleStatus(context.Background(), adminCaller(), emp.ID, model.StatusActive)
	require.NoError(t, err)
	assert.Equal(t, model.StatusActive, updated.Status)
}

func TestGetByIDScoping(t *testing.T) {
	store := testutil.NewFakeStore()
	emp := store.SeedEmployee(model.Employee{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"})
	m := newTestManager(store)

	_, err := m.GetByID(context.Background(), adminCaller(), uuid.New())
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))

	_, err = m.GetByID(context.Background(), model.Caller{
		UserID:     uuid.New(),
		EmployeeID: uuid.New(),
		Role:       model.RoleEmployee,
	}, emp.ID)
	assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))

	got, err := m.GetByID(context.Background(), model.Caller{
		UserID:     uuid.New(),
		EmployeeID: emp.ID,
		Role:       model.RoleEmployee,
	}, emp.ID)
	require.NoError(t, err)
	assert.Equal(t, emp.ID, got.ID)
}

func TestGetAllManagerSeesSelfAndReports(t *testing.T) {
	store := testutil.NewFakeStore()
	boss := store.SeedEmployee(model.Employee{FirstName: "Mia", LastName: "Boss", Email: "mia@example.com"})
	store.SeedEmployee(model.Employee{FirstName: "Rob", LastName: "Report", Email: "rob@example.com", ManagerID: &boss.ID})
	store.SeedEmployee(model.Employee{FirstName: "Eve", LastName: "Else", Email: "eve@example.com"})
	m := newTestManager(store)

	employees, err := m.GetAll(context.Background(), model.Caller{
		UserID:     uuid.New(),
		EmployeeID: boss.ID,
		Role:       model.RoleManager,
	}, Filter{})
	require.NoError(t, err)
	require.Len(t, employees, 2)
	for _, e := range employees {
		ok := e.ID == boss.ID || (e.ManagerID != nil && *e.ManagerID == boss.ID)
		assert.True(t, ok, "unexpected employee %s in manager scope", e.Email)
	}
}
