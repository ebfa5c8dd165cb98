package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/access"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/infra/memory"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

func TestAdminSummary(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	for i, roles := range []access.Set{
		access.NewSet(access.RoleAdmin),
		access.NewSet(access.RoleAdmin, access.RoleStaff),
		access.NewSet(access.RoleStaff),
		access.NewSet(),
		access.NewSet(),
	} {
		u := &models.User{Email: string(rune('a'+i)) + "@clinic.test", Roles: roles}
		require.NoError(t, store.CreateUser(ctx, u))
	}

	base := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		require.NoError(t, store.CreateAppointment(ctx, &models.Appointment{
			Service: "Braces", AppointmentDate: base.AddDate(0, 0, i), TimeSlot: "8-9 am", Status: "pending",
		}))
	}
	require.NoError(t, store.CreateProduct(ctx, &models.Product{Name: "Floss", CreatedByID: 1}))

	d := New(store, store, store, store.Logs())
	s, err := d.Admin(ctx, access.Actor{ID: 1, Roles: access.NewSet(access.RoleAdmin)})
	require.NoError(t, err)

	assert.Equal(t, 5, s.Users)
	assert.Equal(t, 1, s.StaffOnly)
	assert.Equal(t, 2, s.RegularUsers)
	assert.EqualValues(t, 1, s.Products)
	assert.EqualValues(t, 7, s.Appointments)
	require.Len(t, s.RecentAppointments, 5)
	assert.True(t, s.RecentAppointments[0].AppointmentDate.Equal(base.AddDate(0, 0, 6)))

	_, err = d.Admin(ctx, access.Actor{ID: 3, Roles: access.NewSet(access.RoleStaff)})
	assert.True(t, httperr.IsKind(err, httperr.KindAuthorization))
}

func TestUserSummaryOnlyOwn(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	mine, other := uint(1), uint(2)

	base := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.CreateAppointment(ctx, &models.Appointment{UserID: &mine, Service: "Braces", AppointmentDate: base, TimeSlot: "8-9 am", Status: "pending"}))
	require.NoError(t, store.CreateAppointment(ctx, &models.Appointment{UserID: &other, Service: "Braces", AppointmentDate: base, TimeSlot: "1-2 pm", Status: "pending"}))

	s, err := New(store, store, store, store.Logs()).User(ctx, access.Actor{ID: mine, Roles: access.NewSet()})
	require.NoError(t, err)
	require.Len(t, s.RecentAppointments, 1)
	assert.Equal(t, mine, *s.RecentAppointments[0].UserID)
}
