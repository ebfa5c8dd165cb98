package user

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/access"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/user"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/infra/memory"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

func newAccounts() (*Accounts, *memory.Store) {
	store := memory.New()
	return NewAccounts(store, store, store, store.Logs(), store, store), store
}

func seedAdmin(t *testing.T, store *memory.Store) access.Actor {
	t.Helper()
	u := &models.User{Email: "admin@clinic.test", PasswordHash: "x", Roles: access.NewSet(access.RoleAdmin), Status: models.UserStatusActive}
	require.NoError(t, store.CreateUser(context.Background(), u))
	return access.Actor{ID: u.ID, Email: u.Email, Roles: u.Roles}
}

func TestCreateUser(t *testing.T) {
	uc, store := newAccounts()
	ctx := context.Background()
	admin := seedAdmin(t, store)

	u, err := uc.Create(ctx, admin, CreateInput{Email: " Nurse@Clinic.test", Password: "secret1", Roles: []string{"ROLE_STAFF"}})
	require.NoError(t, err)
	assert.Equal(t, "nurse@clinic.test", u.Email)
	assert.Equal(t, models.UserStatusActive, u.Status)
	assert.True(t, u.Roles.Has(access.RoleStaff))
	assert.True(t, domain.CheckPassword(u.PasswordHash, "secret1"))

	_, err = uc.Create(ctx, admin, CreateInput{Email: "nurse@clinic.test", Password: "secret1"})
	assert.True(t, httperr.IsBusiness(err, "email_taken"))

	_, err = uc.Create(ctx, admin, CreateInput{Email: "x@clinic.test", Password: "short"})
	assert.True(t, httperr.IsBusiness(err, "password_too_short"))

	_, err = uc.Create(ctx, admin, CreateInput{Email: "x@clinic.test", Password: "secret1", Roles: []string{"ROLE_ROOT"}})
	assert.True(t, httperr.IsBusiness(err, "invalid_roles"))

	_, err = uc.Create(ctx, access.Actor{ID: u.ID, Roles: u.Roles}, CreateInput{Email: "y@clinic.test", Password: "secret1"})
	assert.True(t, httperr.IsKind(err, httperr.KindAuthorization))

	logs := store.AllLogs()
	require.Len(t, logs, 1)
	assert.Equal(t, "CREATE User", logs[0].Action)
	assert.Equal(t, u.ID, *logs[0].EntityID)
}

func TestUpdateUserKeepsBlankPassword(t *testing.T) {
	uc, store := newAccounts()
	ctx := context.Background()
	admin := seedAdmin(t, store)

	u, err := uc.Create(ctx, admin, CreateInput{Email: "a@clinic.test", Password: "secret1"})
	require.NoError(t, err)
	hash := u.PasswordHash

	updated, err := uc.Update(ctx, admin, u.ID, UpdateInput{Email: "a@clinic.test", Status: models.UserStatusInactive})
	require.NoError(t, err)
	assert.Equal(t, hash, updated.PasswordHash)
	assert.False(t, updated.IsActive())

	updated, err = uc.Update(ctx, admin, u.ID, UpdateInput{Email: "a@clinic.test", Password: "newpass", Roles: []string{"staff"}})
	require.NoError(t, err)
	assert.True(t, domain.CheckPassword(updated.PasswordHash, "newpass"))
	assert.True(t, updated.Roles.Has(access.RoleStaff))

	_, err = uc.Update(ctx, admin, u.ID, UpdateInput{Email: "admin@clinic.test"})
	assert.True(t, httperr.IsBusiness(err, "email_taken"))

	_, err = uc.Update(ctx, admin, 999, UpdateInput{Email: "z@clinic.test"})
	assert.True(t, httperr.IsKind(err, httperr.KindNotFound))
}

func TestDeleteUserDetachesHistory(t *testing.T) {
	uc, store := newAccounts()
	ctx := context.Background()
	admin := seedAdmin(t, store)

	patient, err := uc.Create(ctx, admin, CreateInput{Email: "p@clinic.test", Password: "secret1"})
	require.NoError(t, err)
	actor := access.Actor{ID: patient.ID, Email: patient.Email, Roles: patient.Roles}

	ap := &models.Appointment{
		UserID: &patient.ID, OwnerEmail: patient.Email, Service: "Braces",
		AppointmentDate: time.Date(2030, 1, 10, 0, 0, 0, 0, time.UTC), TimeSlot: "8-9 am", Status: "pending",
	}
	require.NoError(t, store.CreateAppointment(ctx, ap))
	store.Record(ctx, actor, "CREATE", "Appointment", ap.ID)

	require.NoError(t, uc.Delete(ctx, admin, patient.ID))

	_, err = store.GetUser(ctx, patient.ID)
	assert.True(t, httperr.IsKind(err, httperr.KindNotFound))

	kept, err := store.GetAppointment(ctx, ap.ID)
	require.NoError(t, err)
	assert.Nil(t, kept.UserID)
	assert.Equal(t, "p@clinic.test", kept.OwnerEmail)

	var actions []string
	for _, row := range store.AllLogs() {
		actions = append(actions, row.Action)
		if row.Action == "CREATE Appointment" {
			assert.Nil(t, row.UserID)
			require.NotNil(t, row.Username)
			assert.Equal(t, "p@clinic.test", *row.Username)
		}
	}
	assert.Equal(t, []string{"CREATE User", "CREATE Appointment", "DETACH Appointment", "DELETE User"}, actions)
}

func TestSelfDeletionIsAllowed(t *testing.T) {
	uc, store := newAccounts()
	ctx := context.Background()
	admin := seedAdmin(t, store)

	require.NoError(t, uc.Delete(ctx, admin, admin.ID))

	logs := store.AllLogs()
	require.Len(t, logs, 1)
	assert.Equal(t, "DELETE User", logs[0].Action)
	assert.Nil(t, logs[0].UserID)
	assert.Equal(t, "admin@clinic.test", *logs[0].Username)
}

func TestDeleteUserHandsProductsToAdmin(t *testing.T) {
	uc, store := newAccounts()
	ctx := context.Background()
	admin := seedAdmin(t, store)

	staff, err := uc.Create(ctx, admin, CreateInput{Email: "nurse@clinic.test", Password: "secret1", Roles: []string{"ROLE_STAFF"}})
	require.NoError(t, err)

	floss := &models.Product{Name: "Floss", CreatedByID: staff.ID}
	brush := &models.Product{Name: "Brush", CreatedByID: staff.ID}
	require.NoError(t, store.CreateProduct(ctx, floss))
	require.NoError(t, store.CreateProduct(ctx, brush))

	require.NoError(t, uc.Delete(ctx, admin, staff.ID))

	_, err = store.GetUser(ctx, staff.ID)
	assert.True(t, httperr.IsKind(err, httperr.KindNotFound))

	mine, err := store.ListProducts(ctx, &admin.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	var actions []string
	for _, l := range store.AllLogs() {
		actions = append(actions, l.Action)
	}
	assert.Equal(t, []string{"CREATE User", "UPDATE Product", "UPDATE Product", "DELETE User"}, actions)
}

func TestSelfDeletionWithProductsIsRefused(t *testing.T) {
	uc, store := newAccounts()
	ctx := context.Background()
	admin := seedAdmin(t, store)

	require.NoError(t, store.CreateProduct(ctx, &models.Product{Name: "Floss", CreatedByID: admin.ID}))

	err := uc.Delete(ctx, admin, admin.ID)
	assert.True(t, httperr.IsBusiness(err, "user_owns_products"))
	assert.Empty(t, store.AllLogs())

	_, err = store.GetUser(ctx, admin.ID)
	assert.NoError(t, err)
}

func TestListUsersByStatus(t *testing.T) {
	uc, store := newAccounts()
	ctx := context.Background()
	admin := seedAdmin(t, store)

	_, err := uc.Create(ctx, admin, CreateInput{Email: "off@clinic.test", Password: "secret1", Status: "inactive"})
	require.NoError(t, err)

	all, err := uc.List(ctx, admin, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	inactive, err := uc.List(ctx, admin, "inactive")
	require.NoError(t, err)
	require.Len(t, inactive, 1)
	assert.Equal(t, "off@clinic.test", inactive[0].Email)

	_, err = uc.List(ctx, admin, "banned")
	assert.True(t, httperr.IsBusiness(err, "invalid_user_status"))
}

func TestProfileUpdate(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	admin := seedAdmin(t, store)
	other := &models.User{Email: "other@clinic.test", PasswordHash: "x", Roles: access.NewSet()}
	require.NoError(t, store.CreateUser(ctx, other))
	me := access.Actor{ID: other.ID, Email: other.Email, Roles: other.Roles}

	p := NewProfile(store, store, store)

	_, err := p.Update(ctx, me, ProfileInput{Email: admin.Email})
	assert.True(t, httperr.IsBusiness(err, "email_taken"))

	_, err = p.Update(ctx, me, ProfileInput{Password: "123"})
	assert.True(t, httperr.IsBusiness(err, "password_too_short"))

	u, err := p.Update(ctx, me, ProfileInput{Email: "Me@Clinic.test", Password: "123456"})
	require.NoError(t, err)
	assert.Equal(t, "me@clinic.test", u.Email)
	assert.True(t, domain.CheckPassword(u.PasswordHash, "123456"))

	logs := store.AllLogs()
	require.Len(t, logs, 1)
	assert.Equal(t, "UPDATE User", logs[0].Action)
	assert.Equal(t, other.ID, *logs[0].UserID)
}
