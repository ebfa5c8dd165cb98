package access

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetAlwaysImpliesUser(t *testing.T) {
	s := NewSet(RoleStaff)

	assert.True(t, s.Has(RoleUser))
	assert.True(t, s.Has(RoleStaff))
	assert.False(t, s.Has(RoleAdmin))
	assert.Equal(t, "ROLE_STAFF, ROLE_USER", s.String())
}

func TestParseSet(t *testing.T) {
	s, err := ParseSet([]string{"ROLE_ADMIN", "staff"})
	require.NoError(t, err)
	assert.Equal(t, []string{"ROLE_ADMIN", "ROLE_STAFF", "ROLE_USER"}, s.Names())

	_, err = ParseSet([]string{"ROLE_ROOT"})
	assert.Error(t, err)
}

func TestSetJSON(t *testing.T) {
	b, err := json.Marshal(NewSet(RoleAdmin))
	require.NoError(t, err)
	assert.JSONEq(t, `["ROLE_ADMIN","ROLE_USER"]`, string(b))

	b, err = json.Marshal(struct {
		Roles Set `json:"roles"`
	}{NewSet(RoleStaff, RoleAdmin)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"roles":["ROLE_ADMIN","ROLE_STAFF","ROLE_USER"]}`, string(b))
}

func TestSetScanValue(t *testing.T) {
	v, err := NewSet(RoleAdmin).Value()
	require.NoError(t, err)

	var s Set
	require.NoError(t, s.Scan(v))
	assert.True(t, s.Has(RoleAdmin))

	assert.Error(t, s.Scan("admin"))
}

func TestPermissions(t *testing.T) {
	admin := Actor{ID: 1, Roles: NewSet(RoleAdmin)}
	staff := Actor{ID: 2, Roles: NewSet(RoleStaff)}
	user := Actor{ID: 3, Roles: NewSet()}

	assert.True(t, CanManageUsers(admin))
	assert.False(t, CanManageUsers(staff))

	assert.True(t, CanManageProducts(staff))
	assert.False(t, CanManageProducts(user))

	assert.True(t, CanMutateProduct(admin, 99))
	assert.True(t, CanMutateProduct(staff, 2))
	assert.False(t, CanMutateProduct(staff, 99))
	assert.False(t, CanMutateProduct(user, 3))

	assert.True(t, CanViewAllAppointments(staff))
	assert.False(t, CanAdministerAppointments(staff))
	assert.True(t, CanAdministerAppointments(admin))

	assert.True(t, IsStaffOnly(staff.Roles))
	assert.False(t, IsStaffOnly(NewSet(RoleStaff, RoleAdmin)))
	assert.True(t, IsRegular(user.Roles))
}
