package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/access"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/user"
	"github.com/BruksfildServices01/clinic-scheduler/internal/infra/memory"
)

func run(t *testing.T, tl *tool, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(tl)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func newTool() (*tool, *memory.Store) {
	store := memory.New()
	return &tool{users: store, tx: store, audit: store}, store
}

func TestUserToolLifecycle(t *testing.T) {
	tl, store := newTool()

	out, err := run(t, tl, "create-inactive", "Pat@Clinic.test")
	require.NoError(t, err)
	assert.Contains(t, out, "Created inactive user: pat@clinic.test")

	u, err := store.FindUserByEmail(context.Background(), "pat@clinic.test")
	require.NoError(t, err)
	assert.False(t, u.IsActive())
	assert.True(t, user.CheckPassword(u.PasswordHash, defaultPassword))

	_, err = run(t, tl, "create-inactive", "pat@clinic.test")
	assert.Error(t, err)

	out, err = run(t, tl, "test-login", "pat@clinic.test")
	require.NoError(t, err)
	assert.Contains(t, out, "INACTIVE and cannot login")

	out, err = run(t, tl, "toggle-status", "pat@clinic.test")
	require.NoError(t, err)
	assert.Contains(t, out, "from inactive to active")

	out, err = run(t, tl, "test-login", "pat@clinic.test")
	require.NoError(t, err)
	assert.Contains(t, out, "ACTIVE and can login")

	logs := store.AllLogs()
	require.Len(t, logs, 2)
	assert.Equal(t, "CREATE User", logs[0].Action)
	assert.Equal(t, "UPDATE User", logs[1].Action)
	assert.Nil(t, logs[0].UserID)
}

func TestUserToolUnknownUser(t *testing.T) {
	tl, _ := newTool()

	_, err := run(t, tl, "test-login", "ghost@clinic.test")
	assert.EqualError(t, err, "user does not exist")

	_, err = run(t, tl, "toggle-status", "ghost@clinic.test")
	assert.Error(t, err)
}

func TestUserToolCreateWithRoles(t *testing.T) {
	tl, store := newTool()
	ctx := context.Background()

	out, err := run(t, tl, "create", "boss@clinic.test", "--password", "secret1", "--roles", "admin,staff")
	require.NoError(t, err)
	assert.Contains(t, out, "Created user: boss@clinic.test")

	u, err := store.FindUserByEmail(ctx, "boss@clinic.test")
	require.NoError(t, err)
	assert.True(t, u.IsActive())
	assert.True(t, u.Roles.Has(access.RoleAdmin))
	assert.True(t, u.Roles.Has(access.RoleStaff))
	assert.True(t, u.Roles.Has(access.RoleUser))
	assert.True(t, user.CheckPassword(u.PasswordHash, "secret1"))

	_, err = run(t, tl, "create", "root@clinic.test", "--password", "secret1", "--roles", "root")
	assert.Error(t, err)

	_, err = run(t, tl, "create", "nopass@clinic.test")
	assert.Error(t, err)

	_, err = run(t, tl, "create", "boss@clinic.test", "--password", "secret1")
	assert.EqualError(t, err, "user already exists")

	logs := store.AllLogs()
	require.Len(t, logs, 1)
	assert.Equal(t, "CREATE User", logs[0].Action)
	assert.Equal(t, u.ID, *logs[0].EntityID)
	assert.Contains(t, logs[0].Role, "ROLE_ADMIN")
}

func TestUserToolSeedIsIdempotent(t *testing.T) {
	tl, store := newTool()
	ctx := context.Background()

	out, err := run(t, tl, "seed")
	require.NoError(t, err)
	assert.Contains(t, out, "Seeded user: staff@staff.com")

	u, err := store.FindUserByEmail(ctx, "staff@staff.com")
	require.NoError(t, err)
	assert.True(t, u.Roles.Has(access.RoleStaff))
	assert.True(t, user.CheckPassword(u.PasswordHash, "staff123"))

	out, err = run(t, tl, "seed")
	require.NoError(t, err)
	assert.Contains(t, out, "Nothing to seed")
	assert.Len(t, store.AllLogs(), 1)
}
