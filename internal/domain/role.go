package domain

import "strings"

// Role is the authorization tier of a user. It is always derived from the
// superuser and staff flags and never stored.
type Role string

const (
	RoleAdmin    Role = "Admin"
	RoleHR       Role = "HR"
	RoleEmployee Role = "Employee"
)

// RoleOf derives the role of u: superuser is Admin, staff is HR, everyone else is Employee.
func RoleOf(u *User) Role {
	switch {
	case u == nil:
		return RoleEmployee
	case u.IsSuperuser:
		return RoleAdmin
	case u.IsStaff:
		return RoleHR
	default:
		return RoleEmployee
	}
}

// Code returns the lowercase form used in API payloads (admin, hr, employee).
func (r Role) Code() string {
	return strings.ToLower(string(r))
}

// IsAdminOrHR reports whether u may create, update or delete events.
func IsAdminOrHR(u *User) bool {
	return u != nil && u.IsActive && (u.IsSuperuser || u.IsStaff)
}
