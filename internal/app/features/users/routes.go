// internal/app/features/users/routes.go
package users

import (
	"github.com/dalemusser/planhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// MountRoutes registers the user management endpoints. All require a
// signed-in session; the finer admin/allow-list gating happens in the
// handlers because allow-listed emails pass regardless of stored role.
func MountRoutes(r chi.Router, h *Handler, sessionMgr *auth.SessionManager) {
	r.Group(func(r chi.Router) {
		r.Use(sessionMgr.RequireSignedIn)

		r.Get("/api/users", h.ServeList)
		r.Get("/api/users/me", h.ServeMe)
		r.Patch("/api/users/{id}", h.ServePatch)
		r.Post("/api/users/approve", h.ServeApprove)
	})
}
