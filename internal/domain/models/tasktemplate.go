// internal/domain/models/tasktemplate.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TemplateCategory groups task templates so a whole category can be
// instantiated into a project in one request.
type TemplateCategory struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	NameCI      string             `bson:"name_ci" json:"name_ci"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Position    int                `bson:"position" json:"position"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// TaskTemplate is a reusable task blueprint scoped to one category.
//
// TargetDaysOffset is the number of days after a project's creation date
// at which the instantiated task comes due. It may be zero or negative;
// a negative offset yields a task dated before the project anchor
// (pre-launch work) and is stored as entered.
//
// Instantiation copies fields into tasks; it never references back, so
// later template edits do not affect already-created tasks.
type TaskTemplate struct {
	ID               primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	CategoryID       primitive.ObjectID   `bson:"category_id" json:"category_id"`
	Title            string               `bson:"title" json:"title"`
	TitleCI          string               `bson:"title_ci" json:"title_ci"`
	Details          string               `bson:"details,omitempty" json:"details,omitempty"` // sanitized HTML
	AssigneeIDs      []primitive.ObjectID `bson:"assignee_ids,omitempty" json:"assignee_ids,omitempty"`
	TargetDaysOffset int                  `bson:"target_days_offset" json:"target_days_offset"`
	Status           string               `bson:"status,omitempty" json:"status,omitempty"` // default status for new tasks
	Position         int                  `bson:"position" json:"position"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
