// internal/app/system/authz/allowlist.go
package authz

import (
	"strings"

	"github.com/dalemusser/planhub/internal/app/system/normalize"
)

// AllowList is a static set of privileged email addresses granted
// admin-equivalent rights independent of the stored role column.
//
// It exists to solve the bootstrap chicken-and-egg: the very first
// approval actions have to come from somewhere before any admin row
// exists in the database. The list is loaded from configuration at
// startup and consulted before the persisted-role path; it never grants
// superadmin, only admin-equivalence for gated decisions.
type AllowList map[string]struct{}

// NewAllowList builds an AllowList from configured email addresses.
// Emails are normalized (trimmed, lowercased); blanks are dropped.
func NewAllowList(emails ...string) AllowList {
	al := make(AllowList, len(emails))
	for _, e := range emails {
		e = normalize.Email(e)
		if e != "" {
			al[e] = struct{}{}
		}
	}
	return al
}

// ParseAllowList builds an AllowList from a comma-separated config value.
func ParseAllowList(csv string) AllowList {
	return NewAllowList(strings.Split(csv, ",")...)
}

// Contains reports whether the email is on the allow-list.
// A nil AllowList contains nothing.
func (al AllowList) Contains(email string) bool {
	if al == nil {
		return false
	}
	_, ok := al[normalize.Email(email)]
	return ok
}
