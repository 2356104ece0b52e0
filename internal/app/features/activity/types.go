// internal/app/features/activity/types.go
package activity

import (
	"time"

	audit "github.com/dalemusser/planhub/internal/app/store/audit"
)

// eventView is the public activity-log entry.
type eventView struct {
	ID            string            `json:"id"`
	Timestamp     time.Time         `json:"timestamp"`
	Category      string            `json:"category"`
	EventType     string            `json:"eventType"`
	ActorID       string            `json:"actorId,omitempty"`
	UserID        string            `json:"userId,omitempty"`
	ProjectID     string            `json:"projectId,omitempty"`
	TargetID      string            `json:"targetId,omitempty"`
	IP            string            `json:"ip,omitempty"`
	Success       bool              `json:"success"`
	FailureReason string            `json:"failureReason,omitempty"`
	Details       map[string]string `json:"details,omitempty"`
}

func toEventView(e audit.Event) eventView {
	view := eventView{
		ID:            e.ID.Hex(),
		Timestamp:     e.Timestamp,
		Category:      e.Category,
		EventType:     e.EventType,
		IP:            e.IP,
		Success:       e.Success,
		FailureReason: e.FailureReason,
		Details:       e.Details,
	}
	if e.ActorID != nil {
		view.ActorID = e.ActorID.Hex()
	}
	if e.UserID != nil {
		view.UserID = e.UserID.Hex()
	}
	if e.ProjectID != nil {
		view.ProjectID = e.ProjectID.Hex()
	}
	if e.TargetID != nil {
		view.TargetID = e.TargetID.Hex()
	}
	return view
}
