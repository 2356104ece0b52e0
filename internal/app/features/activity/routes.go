// internal/app/features/activity/routes.go
package activity

import (
	"github.com/dalemusser/planhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// MountRoutes registers the admin-only activity feed.
func MountRoutes(r chi.Router, h *Handler, sessionMgr *auth.SessionManager) {
	r.Group(func(r chi.Router) {
		r.Use(sessionMgr.RequireSignedIn)
		r.Use(sessionMgr.RequireRole("admin", "superadmin"))

		r.Get("/api/activity", h.ServeList)
	})
}
