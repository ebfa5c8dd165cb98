package activity

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/access"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/infra/memory"
)

var admin = access.Actor{ID: 1, Roles: access.NewSet(access.RoleAdmin)}

func TestListFilters(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	day := time.Date(2030, 3, 1, 12, 0, 0, 0, time.UTC)

	store.Now = func() time.Time { return day }
	store.Record(ctx, admin, "CREATE", "Product", 1)
	store.Record(ctx, admin, "UPDATE", "Product", 1)
	store.Now = func() time.Time { return day.AddDate(0, 0, 2) }
	store.Record(ctx, admin, "CREATE", "Appointment", 7)

	uc := NewLogs(store.Logs(), store, store)

	page, err := uc.List(ctx, admin, ListInput{})
	require.NoError(t, err)
	assert.EqualValues(t, 3, page.Total)
	assert.Equal(t, "CREATE Appointment", page.Items[0].Action)

	page, err = uc.List(ctx, admin, ListInput{EntityType: "Product", Limit: 1, Page: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "CREATE Product", page.Items[0].Action)

	page, err = uc.List(ctx, admin, ListInput{From: "2030-03-01", To: "2030-03-01"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.Total)

	_, err = uc.List(ctx, admin, ListInput{From: "yesterday"})
	assert.True(t, httperr.IsBusiness(err, "invalid_date"))

	_, err = uc.List(ctx, access.Actor{ID: 2, Roles: access.NewSet(access.RoleStaff)}, ListInput{})
	assert.True(t, httperr.IsKind(err, httperr.KindAuthorization))
}

func TestDeleteLogsOnceWithoutRecursion(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	store.Record(ctx, admin, "CREATE", "Product", 1)
	uc := NewLogs(store.Logs(), store, store)

	first := store.AllLogs()[0]
	require.NoError(t, uc.Delete(ctx, admin, first.ID))

	logs := store.AllLogs()
	require.Len(t, logs, 1)
	assert.Equal(t, "DELETE ActivityLog", logs[0].Action)
	assert.Equal(t, first.ID, *logs[0].EntityID)

	require.NoError(t, uc.Delete(ctx, admin, logs[0].ID))
	assert.Empty(t, store.AllLogs())

	assert.True(t, httperr.IsKind(uc.Delete(ctx, admin, 999), httperr.KindNotFound))
}
