// Package roles defines the user role values.
//
// PlanHub has a deliberately flat role model: regular users work on
// projects, admins manage users and templates, and superadmins are the
// only ones who can grant or touch superadmin records.
package roles

import "strings"

const (
	User       = "user"
	Admin      = "admin"
	SuperAdmin = "superadmin"
)

// All lists every valid role.
var All = []string{User, Admin, SuperAdmin}

// IsValid reports whether s (case-insensitive) is a known role.
func IsValid(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, v := range All {
		if s == v {
			return true
		}
	}
	return false
}

// IsElevated reports whether the role carries admin rights.
// Superadmins count as admins for permission purposes.
func IsElevated(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == Admin || s == SuperAdmin
}
