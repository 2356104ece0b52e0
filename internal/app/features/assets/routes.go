// internal/app/features/assets/routes.go
package assets

import (
	"github.com/dalemusser/planhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// MountRoutes registers the asset endpoints behind an active signed-in
// session.
func MountRoutes(r chi.Router, h *Handler, sessionMgr *auth.SessionManager) {
	r.Group(func(r chi.Router) {
		r.Use(sessionMgr.RequireSignedIn)
		r.Use(sessionMgr.RequireActive)

		r.Get("/api/projects/{id}/assets", h.ServeList)
		r.Post("/api/projects/{id}/assets", h.ServeUpload)
		r.Get("/api/assets/{id}/download", h.ServeDownload)
		r.Delete("/api/assets/{id}", h.ServeDelete)
	})
}
