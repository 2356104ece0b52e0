// internal/app/features/templates/routes.go
package templates

import (
	"github.com/dalemusser/planhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// MountRoutes registers the template management endpoints. The template
// library is admin-only; regular users only consume it through task
// instantiation.
func MountRoutes(r chi.Router, h *Handler, sessionMgr *auth.SessionManager) {
	r.Group(func(r chi.Router) {
		r.Use(sessionMgr.RequireSignedIn)
		r.Use(sessionMgr.RequireRole("admin", "superadmin"))

		r.Get("/api/template-categories", h.ServeListCategories)
		r.Post("/api/template-categories", h.ServeCreateCategory)
		r.Patch("/api/template-categories/{id}", h.ServePatchCategory)
		r.Delete("/api/template-categories/{id}", h.ServeDeleteCategory)

		r.Get("/api/task-templates", h.ServeListTemplates)
		r.Post("/api/task-templates", h.ServeCreateTemplate)
		r.Patch("/api/task-templates/{id}", h.ServePatchTemplate)
		r.Delete("/api/task-templates/{id}", h.ServeDeleteTemplate)
	})
}
