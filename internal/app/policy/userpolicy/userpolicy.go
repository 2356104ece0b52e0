// Package userpolicy provides authorization policies for user management.
//
// Authorization rules:
//   - Admins and superadmins can modify other users' role and status
//   - Allow-listed emails count as admin for these decisions even before
//     their stored role says so (bootstrap identities)
//   - Only a superadmin can grant the superadmin role
//   - Only a superadmin can modify a user who currently is a superadmin
package userpolicy

import "github.com/dalemusser/planhub/internal/app/system/roles"

// Change describes the privileged fields a role/status update wants to
// touch. Nil means the field is not part of the request.
type Change struct {
	Role   *string
	Status *string
}

// CanModifyUser reports whether an actor may apply the change to a user
// whose current role is targetRole. The decision depends only on the
// actor's role, whether the actor's email is allow-listed, the target's
// current role, and the requested change.
func CanModifyUser(actorRole string, allowListed bool, targetRole string, chg Change) bool {
	if !roles.IsElevated(actorRole) && !allowListed {
		return false
	}
	// Granting superadmin requires the stored superadmin role; the
	// allow-list does not reach that far.
	if chg.Role != nil && *chg.Role == roles.SuperAdmin && actorRole != roles.SuperAdmin {
		return false
	}
	// Superadmin records are off-limits to everyone but superadmins,
	// whatever field is being changed.
	if targetRole == roles.SuperAdmin && actorRole != roles.SuperAdmin {
		return false
	}
	return true
}

// CanDecideApproval reports whether an actor may approve or reject a
// pending user. Only the actor's own privilege matters here.
func CanDecideApproval(actorRole string, allowListed bool) bool {
	return allowListed || roles.IsElevated(actorRole)
}
