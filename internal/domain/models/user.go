// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents everyone who can sign in to PlanHub.
//
// Users are created on first successful Google sign-in with role "user"
// and status "pending"; an admin approves or rejects them afterward.
// Records are never hard-deleted; deactivation flips status instead.
type User struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	GoogleID   string             `bson:"google_id,omitempty" json:"google_id,omitempty"`
	FullName   string             `bson:"full_name" json:"full_name"`
	FullNameCI string             `bson:"full_name_ci" json:"full_name_ci"` // lowercase, diacritics-stripped
	Email      string             `bson:"email" json:"email"`
	AvatarURL  string             `bson:"avatar_url,omitempty" json:"avatar_url,omitempty"`
	Role       string             `bson:"role" json:"role"`     // user | admin | superadmin
	Status     string             `bson:"status" json:"status"` // pending | active | rejected | deactivated

	CreatedAt   time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `bson:"updated_at" json:"updated_at"`
	LastLoginAt *time.Time `bson:"last_login_at,omitempty" json:"last_login_at,omitempty"`
}
