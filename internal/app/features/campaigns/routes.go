// internal/app/features/campaigns/routes.go
package campaigns

import (
	"github.com/dalemusser/planhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// MountRoutes registers the campaign endpoints for active users.
func MountRoutes(r chi.Router, h *Handler, sessionMgr *auth.SessionManager) {
	r.Group(func(r chi.Router) {
		r.Use(sessionMgr.RequireSignedIn)
		r.Use(sessionMgr.RequireActive)

		r.Get("/api/projects/{id}/campaigns", h.ServeListByProject)
		r.Post("/api/projects/{id}/campaigns", h.ServeCreate)
		r.Get("/api/campaigns/{id}", h.ServeGet)
		r.Patch("/api/campaigns/{id}", h.ServePatch)
		r.Delete("/api/campaigns/{id}", h.ServeDelete)
	})
}
