// internal/app/features/campaigns/types.go
package campaigns

import (
	"time"

	"github.com/dalemusser/planhub/internal/domain/models"
)

type campaignView struct {
	ID        string     `json:"id"`
	ProjectID string     `json:"projectId"`
	Name      string     `json:"name"`
	Channel   string     `json:"channel,omitempty"`
	Notes     string     `json:"notes,omitempty"`
	Status    string     `json:"status"`
	StartsAt  *time.Time `json:"startsAt,omitempty"`
	EndsAt    *time.Time `json:"endsAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

func toCampaignView(c models.Campaign) campaignView {
	return campaignView{
		ID:        c.ID.Hex(),
		ProjectID: c.ProjectID.Hex(),
		Name:      c.Name,
		Channel:   c.Channel,
		Notes:     c.Notes,
		Status:    c.Status,
		StartsAt:  c.StartsAt,
		EndsAt:    c.EndsAt,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

type createRequest struct {
	Name     string     `json:"name" validate:"required,max=200"`
	Channel  string     `json:"channel" validate:"max=50"`
	Notes    string     `json:"notes" validate:"max=5000"`
	Status   string     `json:"status" validate:"oneof=draft running paused finished"`
	StartsAt *time.Time `json:"startsAt"`
	EndsAt   *time.Time `json:"endsAt"`
}

type patchRequest struct {
	Name     *string    `json:"name"`
	Channel  *string    `json:"channel"`
	Notes    *string    `json:"notes"`
	Status   *string    `json:"status"`
	StartsAt *time.Time `json:"startsAt"`
	EndsAt   *time.Time `json:"endsAt"`
}
