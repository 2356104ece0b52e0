// internal/app/features/templates/types.go
package templates

import (
	"time"

	"github.com/dalemusser/planhub/internal/domain/models"
)

type categoryView struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Position    int       `json:"position"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func toCategoryView(c models.TemplateCategory) categoryView {
	return categoryView{
		ID:          c.ID.Hex(),
		Name:        c.Name,
		Description: c.Description,
		Position:    c.Position,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

type templateView struct {
	ID               string    `json:"id"`
	CategoryID       string    `json:"categoryId"`
	Title            string    `json:"title"`
	Details          string    `json:"details,omitempty"`
	AssigneeIDs      []string  `json:"assigneeIds"`
	TargetDaysOffset int       `json:"targetDaysOffset"`
	Status           string    `json:"status,omitempty"`
	Position         int       `json:"position"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

func toTemplateView(t models.TaskTemplate) templateView {
	assignees := make([]string, 0, len(t.AssigneeIDs))
	for _, id := range t.AssigneeIDs {
		assignees = append(assignees, id.Hex())
	}
	return templateView{
		ID:               t.ID.Hex(),
		CategoryID:       t.CategoryID.Hex(),
		Title:            t.Title,
		Details:          t.Details,
		AssigneeIDs:      assignees,
		TargetDaysOffset: t.TargetDaysOffset,
		Status:           t.Status,
		Position:         t.Position,
		CreatedAt:        t.CreatedAt,
		UpdatedAt:        t.UpdatedAt,
	}
}

type createCategoryRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
	Position    int    `json:"position"`
}

type patchCategoryRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Position    *int    `json:"position"`
}

type createTemplateRequest struct {
	CategoryID       string   `json:"categoryId" validate:"required,objectid" label:"Category ID"`
	Title            string   `json:"title" validate:"required,max=300"`
	Details          string   `json:"details"`
	AssigneeIDs      []string `json:"assigneeIds"`
	TargetDaysOffset int      `json:"targetDaysOffset"`
	Status           string   `json:"status" validate:"oneof=draft todo in_progress done"`
	Position         int      `json:"position"`
}

type patchTemplateRequest struct {
	CategoryID       *string   `json:"categoryId"`
	Title            *string   `json:"title"`
	Details          *string   `json:"details"`
	AssigneeIDs      *[]string `json:"assigneeIds"`
	TargetDaysOffset *int      `json:"targetDaysOffset"`
	Status           *string   `json:"status"`
	Position         *int      `json:"position"`
}
