// internal/app/features/tasks/types.go
package tasks

import (
	"time"

	"github.com/dalemusser/planhub/internal/domain/models"
)

// taskView is the public task representation. Direct-insert and
// template-instantiated tasks serialize to this identical field set.
type taskView struct {
	ID                    string     `json:"id"`
	ProjectID             string     `json:"projectId"`
	Title                 string     `json:"title"`
	Details               string     `json:"details,omitempty"`
	AttachmentID          *string    `json:"attachmentId,omitempty"`
	AssigneeIDs           []string   `json:"assigneeIds"`
	TargetDate            *time.Time `json:"targetDate,omitempty"`
	Status                string     `json:"status"`
	CreatedFromTemplateID *string    `json:"createdFromTemplateId,omitempty"`
	CreatedAt             time.Time  `json:"createdAt"`
	UpdatedAt             time.Time  `json:"updatedAt"`
	CompletedAt           *time.Time `json:"completedAt,omitempty"`
}

func toTaskView(t models.Task) taskView {
	assignees := make([]string, 0, len(t.AssigneeIDs))
	for _, id := range t.AssigneeIDs {
		assignees = append(assignees, id.Hex())
	}

	view := taskView{
		ID:          t.ID.Hex(),
		ProjectID:   t.ProjectID.Hex(),
		Title:       t.Title,
		Details:     t.Details,
		AssigneeIDs: assignees,
		TargetDate:  t.TargetDate,
		Status:      t.Status,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
		CompletedAt: t.CompletedAt,
	}
	if t.AttachmentID != nil {
		s := t.AttachmentID.Hex()
		view.AttachmentID = &s
	}
	if t.CreatedFromTemplateID != nil {
		s := t.CreatedFromTemplateID.Hex()
		view.CreatedFromTemplateID = &s
	}
	return view
}

type createRequest struct {
	Title        string     `json:"title" validate:"required,max=300"`
	Details      string     `json:"details"`
	AttachmentID string     `json:"attachmentId" validate:"objectid" label:"Attachment ID"`
	AssigneeIDs  []string   `json:"assigneeIds"`
	TargetDate   *time.Time `json:"targetDate"`
	Status       string     `json:"status" validate:"oneof=draft todo in_progress done"`
}

type patchRequest struct {
	Title        *string    `json:"title"`
	Details      *string    `json:"details"`
	AttachmentID *string    `json:"attachmentId"`
	AssigneeIDs  *[]string  `json:"assigneeIds"`
	TargetDate   *time.Time `json:"targetDate"`
	Status       *string    `json:"status"`
}

type assignRequest struct {
	UserID string `json:"userId" validate:"required,objectid" label:"User ID"`
}

// instantiateRequest is the create-from-templates payload.
type instantiateRequest struct {
	ProjectID   string   `json:"projectId"`
	CategoryIDs []string `json:"categoryIds"`
}
