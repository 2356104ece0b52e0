// internal/app/features/projects/routes.go
package projects

import (
	"github.com/dalemusser/planhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// MountRoutes registers the project endpoints. Project data requires an
// active account; pending users only reach the identity endpoints.
func MountRoutes(r chi.Router, h *Handler, sessionMgr *auth.SessionManager) {
	r.Group(func(r chi.Router) {
		r.Use(sessionMgr.RequireSignedIn)
		r.Use(sessionMgr.RequireActive)

		r.Get("/api/projects", h.ServeList)
		r.Post("/api/projects", h.ServeCreate)
		r.Get("/api/projects/{id}", h.ServeGet)
		r.Patch("/api/projects/{id}", h.ServePatch)
		r.Delete("/api/projects/{id}", h.ServeDelete)
	})
}
