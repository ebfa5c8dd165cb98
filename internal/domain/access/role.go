package access

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

type Role uint8

const (
	RoleUser Role = 1 << iota
	RoleStaff
	RoleAdmin
)

var roleNames = []struct {
	role Role
	name string
}{
	{RoleAdmin, "ROLE_ADMIN"},
	{RoleStaff, "ROLE_STAFF"},
	{RoleUser, "ROLE_USER"},
}

func (r Role) String() string {
	for _, rn := range roleNames {
		if rn.role == r {
			return rn.name
		}
	}
	return fmt.Sprintf("Role(%d)", uint8(r))
}

// ParseRole accepts both "ROLE_STAFF" and "staff".
func ParseRole(s string) (Role, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if !strings.HasPrefix(s, "ROLE_") {
		s = "ROLE_" + s
	}
	for _, rn := range roleNames {
		if rn.name == s {
			return rn.role, true
		}
	}
	return 0, false
}

// Set is a bitset of roles. RoleUser is implied for every account.
type Set uint8

func NewSet(roles ...Role) Set {
	s := Set(RoleUser)
	for _, r := range roles {
		s |= Set(r)
	}
	return s
}

func ParseSet(names []string) (Set, error) {
	s := NewSet()
	for _, n := range names {
		r, ok := ParseRole(n)
		if !ok {
			return 0, fmt.Errorf("unknown role %q", n)
		}
		s |= Set(r)
	}
	return s, nil
}

func (s Set) Has(r Role) bool {
	return s&Set(r) != 0
}

func (s Set) Names() []string {
	s |= Set(RoleUser)
	out := make([]string, 0, len(roleNames))
	for _, rn := range roleNames {
		if s.Has(rn.role) {
			out = append(out, rn.name)
		}
	}
	return out
}

// String is the comma-joined snapshot stored on activity log rows.
func (s Set) String() string {
	return strings.Join(s.Names(), ", ")
}

func (s Set) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Names())
}

func (s Set) Value() (driver.Value, error) {
	return int64(s | Set(RoleUser)), nil
}

func (s *Set) Scan(src any) error {
	switch v := src.(type) {
	case int64:
		*s = Set(v)
	case int32:
		*s = Set(v)
	case nil:
		*s = NewSet()
	default:
		return fmt.Errorf("access: cannot scan %T into Set", src)
	}
	return nil
}
