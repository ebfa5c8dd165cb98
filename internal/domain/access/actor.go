package access

// Actor is the authenticated identity performing an operation. It is passed
// explicitly to every use case and snapshotted into audit rows.
type Actor struct {
	ID    uint
	Email string
	Roles Set
}

func (a Actor) IsAdmin() bool { return a.Roles.Has(RoleAdmin) }
func (a Actor) IsStaff() bool { return a.Roles.Has(RoleStaff) }

func CanManageUsers(a Actor) bool {
	return a.IsAdmin()
}

func CanManageProducts(a Actor) bool {
	return a.IsAdmin() || a.IsStaff()
}

// CanMutateProduct: admins touch any product, staff only their own.
func CanMutateProduct(a Actor, ownerID uint) bool {
	if a.IsAdmin() {
		return true
	}
	return a.IsStaff() && ownerID == a.ID
}

func CanViewAllAppointments(a Actor) bool {
	return a.IsAdmin() || a.IsStaff()
}

func CanAdministerAppointments(a Actor) bool {
	return a.IsAdmin()
}

func CanManageActivityLogs(a Actor) bool {
	return a.IsAdmin()
}

// IsStaffOnly and IsRegular mirror the dashboard head counts.
func IsStaffOnly(s Set) bool {
	return s.Has(RoleStaff) && !s.Has(RoleAdmin)
}

func IsRegular(s Set) bool {
	return !s.Has(RoleStaff) && !s.Has(RoleAdmin)
}
