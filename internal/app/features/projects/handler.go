// internal/app/features/projects/handler.go
package projects

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dalemusser/planhub/internal/app/features/apierrors"
	audit "github.com/dalemusser/planhub/internal/app/store/audit"
	projectstore "github.com/dalemusser/planhub/internal/app/store/projects"
	"github.com/dalemusser/planhub/internal/app/system/auditlog"
	"github.com/dalemusser/planhub/internal/app/system/authz"
	"github.com/dalemusser/planhub/internal/app/system/httpjson"
	"github.com/dalemusser/planhub/internal/app/system/inputval"
	"github.com/dalemusser/planhub/internal/app/system/timeouts"
	"github.com/dalemusser/planhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler implements the project endpoints.
type Handler struct {
	Log      *zap.Logger
	ErrLog   *apierrors.ErrorLogger
	Projects *projectstore.Store
	Audit    *auditlog.Logger
}

func NewHandler(db *mongo.Database, auditLogger *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Log:      logger,
		ErrLog:   apierrors.NewErrorLogger(logger),
		Projects: projectstore.New(db),
		Audit:    auditLogger,
	}
}

// ServeList handles GET /api/projects with optional status/q filters.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Projects.List(ctx, projectstore.ListFilter{
		Status: query.Get(r, "status"),
		Search: query.Get(r, "q"),
	})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "projects: list failed", err)
		return
	}

	views := make([]projectView, 0, len(list))
	for _, p := range list {
		views = append(views, toProjectView(p))
	}
	httpjson.OK(w, views)
}

// ServeCreate handles POST /api/projects.
func (h *Handler) ServeCreate(w http.ResponseWriter, r *http.Request) {
	_, _, actorID, ok := authz.UserCtx(r)
	if !ok {
		apierrors.RenderUnauthorized(w, r)
		return
	}

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "projects: create body decode failed", err, "Invalid request body.")
		return
	}
	if result := inputval.Validate(req); result.HasErrors() {
		apierrors.RenderBadRequest(w, r, result.First())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	created, err := h.Projects.Create(ctx, models.Project{
		Name:        req.Name,
		Description: req.Description,
		OwnerID:     actorID,
	})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "projects: create failed", err)
		return
	}

	if h.Audit != nil {
		h.Audit.ContentEvent(ctx, r, audit.EventProjectCreated, actorID, created.ID, nil,
			map[string]string{"name": created.Name})
	}

	httpjson.Created(w, toProjectView(created))
}

// ServeGet handles GET /api/projects/{id}.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		apierrors.RenderBadRequest(w, r, "Invalid project id.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	p, err := h.Projects.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			apierrors.RenderNotFound(w, r, "Project not found.")
			return
		}
		h.ErrLog.LogServerError(w, r, "projects: load failed", err)
		return
	}
	httpjson.OK(w, toProjectView(*p))
}

// ServePatch handles PATCH /api/projects/{id}. The creation date is the
// instantiation anchor and is never mutable through this endpoint.
func (h *Handler) ServePatch(w http.ResponseWriter, r *http.Request) {
	_, _, actorID, ok := authz.UserCtx(r)
	if !ok {
		apierrors.RenderUnauthorized(w, r)
		return
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		apierrors.RenderBadRequest(w, r, "Invalid project id.")
		return
	}

	var req patchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "projects: patch body decode failed", err, "Invalid request body.")
		return
	}
	if req.Name != nil && *req.Name == "" {
		apierrors.RenderBadRequest(w, r, "Name is required.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	err = h.Projects.Update(ctx, id, projectstore.Update{
		Name:        req.Name,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			apierrors.RenderNotFound(w, r, "Project not found.")
			return
		}
		h.ErrLog.LogBadRequest(w, r, "projects: patch rejected", err, "Invalid project update.")
		return
	}

	updated, err := h.Projects.GetByID(ctx, id)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "projects: reload after patch failed", err)
		return
	}

	if h.Audit != nil {
		h.Audit.ContentEvent(ctx, r, audit.EventProjectUpdated, actorID, id, nil, nil)
	}

	httpjson.OK(w, toProjectView(*updated))
}

// ServeDelete handles DELETE /api/projects/{id}. Delete means archive;
// campaigns, tasks, and assets stay queryable under the archived project.
func (h *Handler) ServeDelete(w http.ResponseWriter, r *http.Request) {
	_, _, actorID, ok := authz.UserCtx(r)
	if !ok {
		apierrors.RenderUnauthorized(w, r)
		return
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		apierrors.RenderBadRequest(w, r, "Invalid project id.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Projects.Archive(ctx, id); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			apierrors.RenderNotFound(w, r, "Project not found.")
			return
		}
		h.ErrLog.LogServerError(w, r, "projects: archive failed", err)
		return
	}

	if h.Audit != nil {
		h.Audit.ContentEvent(ctx, r, audit.EventProjectArchived, actorID, id, nil, nil)
	}

	httpjson.Success(w)
}
