package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	"github.com/BruksfildServices01/clinic-scheduler/internal/db"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/access"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/activity"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	ctr, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("clinic"),
		postgres.WithUsername("clinic"),
		postgres.WithPassword("clinic"),
		postgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err)

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	gdb, err := db.Open(dsn)
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))
	return gdb
}

func seedUser(t *testing.T, gdb *gorm.DB, email string, roles access.Set) *models.User {
	t.Helper()
	u := &models.User{Email: email, PasswordHash: "x", Roles: roles, Status: models.UserStatusActive}
	require.NoError(t, NewUserGormRepository(gdb).CreateUser(context.Background(), u))
	return u
}

func TestGormRepositories(t *testing.T) {
	gdb := setupDB(t)
	ctx := context.Background()

	users := NewUserGormRepository(gdb)
	apps := NewAppointmentGormRepository(gdb)
	logs := NewActivityGormRepository(gdb)
	tx := db.NewTransactor(gdb)
	auditLog := audit.New(gdb, zap.NewNop(), nil)

	alice := seedUser(t, gdb, "alice@example.com", access.NewSet())
	date := time.Date(2030, 1, 10, 0, 0, 0, 0, time.UTC)

	t.Run("duplicate email", func(t *testing.T) {
		err := users.CreateUser(ctx, &models.User{Email: "alice@example.com", PasswordHash: "x"})
		assert.True(t, httperr.IsBusiness(err, "email_taken"))
	})

	t.Run("active slot index", func(t *testing.T) {
		first := &models.Appointment{UserID: &alice.ID, Service: "Braces", AppointmentDate: date, TimeSlot: "8-9 am", Status: "pending"}
		require.NoError(t, apps.CreateAppointment(ctx, first))

		taken, err := apps.SlotTaken(ctx, date, "8-9 am", 0)
		require.NoError(t, err)
		assert.True(t, taken)

		taken, err = apps.SlotTaken(ctx, date, "8-9 am", first.ID)
		require.NoError(t, err)
		assert.False(t, taken)

		second := &models.Appointment{UserID: &alice.ID, Service: "Braces", AppointmentDate: date, TimeSlot: "8-9 am", Status: "pending"}
		err = apps.CreateAppointment(ctx, second)
		assert.True(t, httperr.IsKind(err, httperr.KindConflict))

		first.Status = "cancelled"
		require.NoError(t, apps.UpdateAppointment(ctx, first))
		require.NoError(t, apps.CreateAppointment(ctx, second))
	})

	t.Run("audit row rolls back with the mutation", func(t *testing.T) {
		actor := access.Actor{ID: alice.ID, Email: alice.Email, Roles: alice.Roles}
		before, err := logs.CountLogs(ctx)
		require.NoError(t, err)

		err = tx.WithinTransaction(ctx, func(ctx context.Context) error {
			auditLog.Record(ctx, actor, audit.VerbCreate, audit.EntityAppointment, 1)
			return httperr.ErrBusiness("slot_unavailable")
		})
		require.Error(t, err)

		after, err := logs.CountLogs(ctx)
		require.NoError(t, err)
		assert.Equal(t, before, after)
	})

	t.Run("failed audit insert keeps the transaction usable", func(t *testing.T) {
		actor := access.Actor{ID: 999999, Roles: access.NewSet()}
		before, err := apps.CountAppointments(ctx)
		require.NoError(t, err)

		err = tx.WithinTransaction(ctx, func(ctx context.Context) error {
			// unknown user id violates the foreign key
			auditLog.Record(ctx, actor, audit.VerbCreate, audit.EntityAppointment, 1)
			return apps.CreateAppointment(ctx, &models.Appointment{
				Service: "Root Canal Treatment", AppointmentDate: date, TimeSlot: "4-5 pm", Status: "pending",
			})
		})
		require.NoError(t, err)

		after, err := apps.CountAppointments(ctx)
		require.NoError(t, err)
		assert.Equal(t, before+1, after)
	})

	t.Run("detach user", func(t *testing.T) {
		bob := seedUser(t, gdb, "bob@example.com", access.NewSet())
		actor := access.Actor{ID: bob.ID, Roles: bob.Roles}
		auditLog.Record(ctx, actor, audit.VerbUpdate, audit.EntityUser, bob.ID)

		ap := &models.Appointment{UserID: &bob.ID, Service: "Braces", AppointmentDate: date, TimeSlot: "7-8 pm", Status: "pending"}
		require.NoError(t, apps.CreateAppointment(ctx, ap))

		ids, err := apps.DetachUser(ctx, bob.ID)
		require.NoError(t, err)
		assert.Equal(t, []uint{ap.ID}, ids)

		n, err := logs.DetachUser(ctx, bob.ID, bob.Email)
		require.NoError(t, err)
		assert.EqualValues(t, 1, n)
		require.NoError(t, users.DeleteUser(ctx, bob.ID))

		rows, total, err := logs.ListLogs(ctx, activity.Filter{Action: "UPDATE User", Page: 1, Limit: 10})
		require.NoError(t, err)
		require.EqualValues(t, 1, total)
		assert.Nil(t, rows[0].UserID)
		require.NotNil(t, rows[0].Username)
		assert.Equal(t, "bob@example.com", *rows[0].Username)

		got, err := apps.GetAppointment(ctx, ap.ID)
		require.NoError(t, err)
		assert.Nil(t, got.UserID)
	})

	t.Run("list order", func(t *testing.T) {
		list, err := apps.ListAppointments(ctx, appointment.ListFilter{UserID: &alice.ID})
		require.NoError(t, err)
		for i := 1; i < len(list); i++ {
			assert.False(t, list[i].AppointmentDate.After(list[i-1].AppointmentDate))
		}
	})
}
