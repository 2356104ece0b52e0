// internal/domain/models/task.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Task is a unit of work inside a project.
//
// Tasks come from two paths: direct creation through the API, or bulk
// instantiation from task templates. Both produce the same document
// shape; instantiated tasks additionally carry CreatedFromTemplateID for
// traceability.
type Task struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	ProjectID    primitive.ObjectID   `bson:"project_id" json:"project_id"`
	Title        string               `bson:"title" json:"title"`
	TitleCI      string               `bson:"title_ci" json:"title_ci"`
	Details      string               `bson:"details,omitempty" json:"details,omitempty"` // sanitized HTML
	AttachmentID *primitive.ObjectID  `bson:"attachment_id,omitempty" json:"attachment_id,omitempty"`
	AssigneeIDs  []primitive.ObjectID `bson:"assignee_ids,omitempty" json:"assignee_ids,omitempty"`
	TargetDate   *time.Time           `bson:"target_date,omitempty" json:"target_date,omitempty"`
	Status       string               `bson:"status" json:"status"` // draft | todo | in_progress | done

	CreatedFromTemplateID *primitive.ObjectID `bson:"created_from_template_id,omitempty" json:"created_from_template_id,omitempty"`

	CreatedAt   time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `bson:"updated_at" json:"updated_at"`
	CompletedAt *time.Time `bson:"completed_at,omitempty" json:"completed_at,omitempty"`
}
