// internal/app/features/users/types.go
package users

import (
	"time"

	"github.com/dalemusser/planhub/internal/domain/models"
)

// userView is the public user representation (API naming, not storage
// naming).
type userView struct {
	ID          string     `json:"id"`
	FullName    string     `json:"fullName"`
	Email       string     `json:"email"`
	AvatarURL   string     `json:"avatarUrl,omitempty"`
	Role        string     `json:"role"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
}

func toUserView(u models.User) userView {
	return userView{
		ID:          u.ID.Hex(),
		FullName:    u.FullName,
		Email:       u.Email,
		AvatarURL:   u.AvatarURL,
		Role:        u.Role,
		Status:      u.Status,
		CreatedAt:   u.CreatedAt,
		LastLoginAt: u.LastLoginAt,
	}
}

// patchRequest carries the privileged fields PATCH /api/users/{id} may
// change. Absent fields stay untouched.
type patchRequest struct {
	Role   *string `json:"role"`
	Status *string `json:"status"`
}

// approveRequest accepts both targetUserId and userId for the target;
// targetUserId wins when both are present. The older key is kept for
// clients that predate the rename.
type approveRequest struct {
	TargetUserID string `json:"targetUserId"`
	UserID       string `json:"userId"`
	Action       string `json:"action"` // approve | reject
}

func (req approveRequest) targetID() string {
	if req.TargetUserID != "" {
		return req.TargetUserID
	}
	return req.UserID
}
