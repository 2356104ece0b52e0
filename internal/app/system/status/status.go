// Package status defines the user account status values and helpers.
//
// Lifecycle: a user is created "pending" on first Google sign-in, moved to
// "active" or "rejected" by an admin, and may later be "deactivated".
// Records are never hard-deleted; status carries the lifecycle instead.
package status

import "strings"

const (
	Pending     = "pending"
	Active      = "active"
	Rejected    = "rejected"
	Deactivated = "deactivated"
)

// All lists every valid user status.
var All = []string{Pending, Active, Rejected, Deactivated}

// IsValid reports whether s (case-insensitive) is a known user status.
func IsValid(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, v := range All {
		if s == v {
			return true
		}
	}
	return false
}

// CanSignIn reports whether a user with this status may establish a
// session. Pending users sign in so the SPA can show the
// awaiting-approval screen; rejected and deactivated users may not.
func CanSignIn(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case Pending, Active:
		return true
	default:
		return false
	}
}
