// internal/app/features/templates/handler.go
package templates

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dalemusser/planhub/internal/app/features/apierrors"
	audit "github.com/dalemusser/planhub/internal/app/store/audit"
	categorystore "github.com/dalemusser/planhub/internal/app/store/categories"
	templatestore "github.com/dalemusser/planhub/internal/app/store/tasktemplates"
	"github.com/dalemusser/planhub/internal/app/system/auditlog"
	"github.com/dalemusser/planhub/internal/app/system/authz"
	"github.com/dalemusser/planhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/planhub/internal/app/system/httpjson"
	"github.com/dalemusser/planhub/internal/app/system/inputval"
	"github.com/dalemusser/planhub/internal/app/system/timeouts"
	"github.com/dalemusser/planhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler implements the template-category and task-template endpoints.
type Handler struct {
	Log        *zap.Logger
	ErrLog     *apierrors.ErrorLogger
	Categories *categorystore.Store
	Templates  *templatestore.Store
	Audit      *auditlog.Logger
}

func NewHandler(db *mongo.Database, auditLogger *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Log:        logger,
		ErrLog:     apierrors.NewErrorLogger(logger),
		Categories: categorystore.New(db),
		Templates:  templatestore.New(db),
		Audit:      auditLogger,
	}
}

// --- categories ---

// ServeListCategories handles GET /api/template-categories.
func (h *Handler) ServeListCategories(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Categories.List(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "templates: list categories failed", err)
		return
	}

	views := make([]categoryView, 0, len(list))
	for _, c := range list {
		views = append(views, toCategoryView(c))
	}
	httpjson.OK(w, views)
}

// ServeCreateCategory handles POST /api/template-categories.
func (h *Handler) ServeCreateCategory(w http.ResponseWriter, r *http.Request) {
	_, _, actorID, ok := authz.UserCtx(r)
	if !ok {
		apierrors.RenderUnauthorized(w, r)
		return
	}

	var req createCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "templates: category body decode failed", err, "Invalid request body.")
		return
	}
	if result := inputval.Validate(req); result.HasErrors() {
		apierrors.RenderBadRequest(w, r, result.First())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	created, err := h.Categories.Create(ctx, models.TemplateCategory{
		Name:        req.Name,
		Description: req.Description,
		Position:    req.Position,
	})
	if err != nil {
		if errors.Is(err, categorystore.ErrDuplicateName) {
			apierrors.RenderConflict(w, r, err.Error())
			return
		}
		h.ErrLog.LogServerError(w, r, "templates: create category failed", err)
		return
	}

	if h.Audit != nil {
		h.Audit.AdminEvent(ctx, r, audit.EventCategoryCreated, actorID, created.ID,
			map[string]string{"name": created.Name})
	}

	httpjson.Created(w, toCategoryView(created))
}

// ServePatchCategory handles PATCH /api/template-categories/{id}.
func (h *Handler) ServePatchCategory(w http.ResponseWriter, r *http.Request) {
	_, _, actorID, ok := authz.UserCtx(r)
	if !ok {
		apierrors.RenderUnauthorized(w, r)
		return
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		apierrors.RenderBadRequest(w, r, "Invalid category id.")
		return
	}

	var req patchCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "templates: category patch decode failed", err, "Invalid request body.")
		return
	}
	if req.Name != nil && *req.Name == "" {
		apierrors.RenderBadRequest(w, r, "Name is required.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	err = h.Categories.Update(ctx, id, categorystore.Update{
		Name:        req.Name,
		Description: req.Description,
		Position:    req.Position,
	})
	if err != nil {
		switch {
		case errors.Is(err, mongo.ErrNoDocuments):
			apierrors.RenderNotFound(w, r, "Category not found.")
		case errors.Is(err, categorystore.ErrDuplicateName):
			apierrors.RenderConflict(w, r, err.Error())
		default:
			h.ErrLog.LogServerError(w, r, "templates: patch category failed", err)
		}
		return
	}

	updated, err := h.Categories.GetByID(ctx, id)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "templates: reload category failed", err)
		return
	}

	if h.Audit != nil {
		h.Audit.AdminEvent(ctx, r, audit.EventCategoryUpdated, actorID, id, nil)
	}

	httpjson.OK(w, toCategoryView(*updated))
}

// ServeDeleteCategory handles DELETE /api/template-categories/{id}.
// Deletion is refused with 409 while templates still reference the
// category.
func (h *Handler) ServeDeleteCategory(w http.ResponseWriter, r *http.Request) {
	_, _, actorID, ok := authz.UserCtx(r)
	if !ok {
		apierrors.RenderUnauthorized(w, r)
		return
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		apierrors.RenderBadRequest(w, r, "Invalid category id.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	n, err := h.Templates.CountByCategory(ctx, id)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "templates: count by category failed", err)
		return
	}
	if n > 0 {
		apierrors.RenderConflict(w, r, "Category still has templates; delete or move them first.")
		return
	}

	if err := h.Categories.Delete(ctx, id); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			apierrors.RenderNotFound(w, r, "Category not found.")
			return
		}
		h.ErrLog.LogServerError(w, r, "templates: delete category failed", err)
		return
	}

	if h.Audit != nil {
		h.Audit.AdminEvent(ctx, r, audit.EventCategoryDeleted, actorID, id, nil)
	}

	httpjson.Success(w)
}

// --- templates ---

// ServeListTemplates handles GET /api/task-templates with an optional
// categoryId filter.
func (h *Handler) ServeListTemplates(w http.ResponseWriter, r *http.Request) {
	var categoryID *primitive.ObjectID
	if raw := r.URL.Query().Get("categoryId"); raw != "" {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			apierrors.RenderBadRequest(w, r, "Invalid category id.")
			return
		}
		categoryID = &id
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Templates.List(ctx, categoryID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "templates: list failed", err)
		return
	}

	views := make([]templateView, 0, len(list))
	for _, tpl := range list {
		views = append(views, toTemplateView(tpl))
	}
	httpjson.OK(w, views)
}

// ServeCreateTemplate handles POST /api/task-templates. Details HTML is
// sanitized before storage; targetDaysOffset is stored as given,
// negative values included.
func (h *Handler) ServeCreateTemplate(w http.ResponseWriter, r *http.Request) {
	_, _, actorID, ok := authz.UserCtx(r)
	if !ok {
		apierrors.RenderUnauthorized(w, r)
		return
	}

	var req createTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "templates: create body decode failed", err, "Invalid request body.")
		return
	}
	if result := inputval.Validate(req); result.HasErrors() {
		apierrors.RenderBadRequest(w, r, result.First())
		return
	}

	categoryID, _ := primitive.ObjectIDFromHex(req.CategoryID)
	assignees, err := parseObjectIDs(req.AssigneeIDs)
	if err != nil {
		apierrors.RenderBadRequest(w, r, "Invalid assignee id.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if _, err := h.Categories.GetByID(ctx, categoryID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			apierrors.RenderNotFound(w, r, "Category not found.")
			return
		}
		h.ErrLog.LogServerError(w, r, "templates: load category failed", err)
		return
	}

	created, err := h.Templates.Create(ctx, models.TaskTemplate{
		CategoryID:       categoryID,
		Title:            req.Title,
		Details:          htmlsanitize.Sanitize(req.Details),
		AssigneeIDs:      assignees,
		TargetDaysOffset: req.TargetDaysOffset,
		Status:           req.Status,
		Position:         req.Position,
	})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "templates: create failed", err)
		return
	}

	if h.Audit != nil {
		h.Audit.AdminEvent(ctx, r, audit.EventTemplateCreated, actorID, created.ID,
			map[string]string{"title": created.Title})
	}

	httpjson.Created(w, toTemplateView(created))
}

// ServePatchTemplate handles PATCH /api/task-templates/{id}.
func (h *Handler) ServePatchTemplate(w http.ResponseWriter, r *http.Request) {
	_, _, actorID, ok := authz.UserCtx(r)
	if !ok {
		apierrors.RenderUnauthorized(w, r)
		return
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		apierrors.RenderBadRequest(w, r, "Invalid template id.")
		return
	}

	var req patchTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "templates: patch body decode failed", err, "Invalid request body.")
		return
	}
	if req.Title != nil && *req.Title == "" {
		apierrors.RenderBadRequest(w, r, "Title is required.")
		return
	}

	upd := templatestore.Update{
		Title:            req.Title,
		TargetDaysOffset: req.TargetDaysOffset,
		Status:           req.Status,
		Position:         req.Position,
	}
	if req.CategoryID != nil {
		categoryID, err := primitive.ObjectIDFromHex(*req.CategoryID)
		if err != nil {
			apierrors.RenderBadRequest(w, r, "Invalid category id.")
			return
		}
		upd.CategoryID = &categoryID
	}
	if req.Details != nil {
		clean := htmlsanitize.Sanitize(*req.Details)
		upd.Details = &clean
	}
	if req.AssigneeIDs != nil {
		assignees, err := parseObjectIDs(*req.AssigneeIDs)
		if err != nil {
			apierrors.RenderBadRequest(w, r, "Invalid assignee id.")
			return
		}
		upd.AssigneeIDs = &assignees
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Templates.Update(ctx, id, upd); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			apierrors.RenderNotFound(w, r, "Template not found.")
			return
		}
		if errors.Is(err, templatestore.ErrBadStatus) {
			h.ErrLog.LogBadRequest(w, r, "templates: patch rejected", err, "Invalid status.")
			return
		}
		h.ErrLog.LogServerError(w, r, "templates: patch failed", err)
		return
	}

	updated, err := h.Templates.GetByID(ctx, id)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "templates: reload failed", err)
		return
	}

	if h.Audit != nil {
		h.Audit.AdminEvent(ctx, r, audit.EventTemplateUpdated, actorID, id, nil)
	}

	httpjson.OK(w, toTemplateView(*updated))
}

// ServeDeleteTemplate handles DELETE /api/task-templates/{id}. Tasks
// already instantiated from the template keep their back-reference.
func (h *Handler) ServeDeleteTemplate(w http.ResponseWriter, r *http.Request) {
	_, _, actorID, ok := authz.UserCtx(r)
	if !ok {
		apierrors.RenderUnauthorized(w, r)
		return
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		apierrors.RenderBadRequest(w, r, "Invalid template id.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Templates.Delete(ctx, id); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			apierrors.RenderNotFound(w, r, "Template not found.")
			return
		}
		h.ErrLog.LogServerError(w, r, "templates: delete failed", err)
		return
	}

	if h.Audit != nil {
		h.Audit.AdminEvent(ctx, r, audit.EventTemplateDeleted, actorID, id, nil)
	}

	httpjson.Success(w)
}

func parseObjectIDs(raw []string) ([]primitive.ObjectID, error) {
	ids := make([]primitive.ObjectID, 0, len(raw))
	for _, s := range raw {
		id, err := primitive.ObjectIDFromHex(s)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
