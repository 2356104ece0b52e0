// internal/app/features/tasks/routes.go
package tasks

import (
	"github.com/dalemusser/planhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// MountRoutes registers the task endpoints, all behind an active
// signed-in session.
func MountRoutes(r chi.Router, h *Handler, sessionMgr *auth.SessionManager) {
	r.Group(func(r chi.Router) {
		r.Use(sessionMgr.RequireSignedIn)
		r.Use(sessionMgr.RequireActive)

		r.Get("/api/projects/{id}/tasks", h.ServeListByProject)
		r.Post("/api/projects/{id}/tasks", h.ServeCreate)
		r.Get("/api/tasks/{id}", h.ServeGet)
		r.Patch("/api/tasks/{id}", h.ServePatch)
		r.Delete("/api/tasks/{id}", h.ServeDelete)
		r.Post("/api/tasks/{id}/assignees", h.ServeAssign)
		r.Post("/api/tasks/create-from-templates", h.ServeCreateFromTemplates)
	})
}
