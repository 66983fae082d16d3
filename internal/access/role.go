// Package access implements the role model and the visibility rules
// that decide which bookings a staff caller may read. Roles are a
// closed enumeration; raw role strings from tokens or the database are
// parsed once at the boundary and never compared ad hoc afterwards.
package access

import (
	"errors"
	"strings"
)

// Role is the closed set of staff roles.
type Role uint8

const (
	RoleUnknown Role = iota
	RoleAgent
	RoleAdmin
	RoleSuperAdmin
	RoleParent
)

// ErrUnknownRole is returned by ParseRole for strings outside the
// closed role set.
var ErrUnknownRole = errors.New("unknown role")

// ParseRole maps a stored or token-borne role string onto the Role
// enumeration. Matching is case-insensitive and tolerates the legacy
// spaced spelling of "Super Admin".
func ParseRole(s string) (Role, error) {
	switch strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), " ", "_")) {
	case "AGENT":
		return RoleAgent, nil
	case "ADMIN":
		return RoleAdmin, nil
	case "SUPER_ADMIN":
		return RoleSuperAdmin, nil
	case "PARENT", "PARENTS":
		return RoleParent, nil
	}
	return RoleUnknown, ErrUnknownRole
}

// String returns the canonical storage spelling of the role.
func (r Role) String() string {
	switch r {
	case RoleAgent:
		return "AGENT"
	case RoleAdmin:
		return "ADMIN"
	case RoleSuperAdmin:
		return "SUPER_ADMIN"
	case RoleParent:
		return "PARENT"
	}
	return "UNKNOWN"
}

// IsStaff reports whether the role belongs to the back-office
// hierarchy rather than to a parent account.
func (r Role) IsStaff() bool {
	return r == RoleAgent || r == RoleAdmin || r == RoleSuperAdmin
}
