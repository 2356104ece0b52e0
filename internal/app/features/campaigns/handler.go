// internal/app/features/campaigns/handler.go
package campaigns

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dalemusser/planhub/internal/app/features/apierrors"
	audit "github.com/dalemusser/planhub/internal/app/store/audit"
	campaignstore "github.com/dalemusser/planhub/internal/app/store/campaigns"
	projectstore "github.com/dalemusser/planhub/internal/app/store/projects"
	"github.com/dalemusser/planhub/internal/app/system/auditlog"
	"github.com/dalemusser/planhub/internal/app/system/authz"
	"github.com/dalemusser/planhub/internal/app/system/httpjson"
	"github.com/dalemusser/planhub/internal/app/system/inputval"
	"github.com/dalemusser/planhub/internal/app/system/timeouts"
	"github.com/dalemusser/planhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler implements the campaign endpoints.
type Handler struct {
	Log       *zap.Logger
	ErrLog    *apierrors.ErrorLogger
	Campaigns *campaignstore.Store
	Projects  *projectstore.Store
	Audit     *auditlog.Logger
}

func NewHandler(db *mongo.Database, auditLogger *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Log:       logger,
		ErrLog:    apierrors.NewErrorLogger(logger),
		Campaigns: campaignstore.New(db),
		Projects:  projectstore.New(db),
		Audit:     auditLogger,
	}
}

// ServeListByProject handles GET /api/projects/{id}/campaigns.
func (h *Handler) ServeListByProject(w http.ResponseWriter, r *http.Request) {
	projectID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		apierrors.RenderBadRequest(w, r, "Invalid project id.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Campaigns.ListByProject(ctx, projectID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "campaigns: list failed", err)
		return
	}

	views := make([]campaignView, 0, len(list))
	for _, c := range list {
		views = append(views, toCampaignView(c))
	}
	httpjson.OK(w, views)
}

// ServeCreate handles POST /api/projects/{id}/campaigns. The campaign
// belongs to exactly that project for its whole life.
func (h *Handler) ServeCreate(w http.ResponseWriter, r *http.Request) {
	_, _, actorID, ok := authz.UserCtx(r)
	if !ok {
		apierrors.RenderUnauthorized(w, r)
		return
	}

	projectID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		apierrors.RenderBadRequest(w, r, "Invalid project id.")
		return
	}

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "campaigns: create body decode failed", err, "Invalid request body.")
		return
	}
	if result := inputval.Validate(req); result.HasErrors() {
		apierrors.RenderBadRequest(w, r, result.First())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if _, err := h.Projects.GetByID(ctx, projectID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			apierrors.RenderNotFound(w, r, "Project not found.")
			return
		}
		h.ErrLog.LogServerError(w, r, "campaigns: load project failed", err)
		return
	}

	created, err := h.Campaigns.Create(ctx, models.Campaign{
		ProjectID: projectID,
		Name:      req.Name,
		Channel:   req.Channel,
		Notes:     req.Notes,
		Status:    req.Status,
		StartsAt:  req.StartsAt,
		EndsAt:    req.EndsAt,
	})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "campaigns: create failed", err)
		return
	}

	if h.Audit != nil {
		id := created.ID
		h.Audit.ContentEvent(ctx, r, audit.EventCampaignCreated, actorID, projectID, &id,
			map[string]string{"name": created.Name})
	}

	httpjson.Created(w, toCampaignView(created))
}

// ServeGet handles GET /api/campaigns/{id}.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		apierrors.RenderBadRequest(w, r, "Invalid campaign id.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	c, err := h.Campaigns.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			apierrors.RenderNotFound(w, r, "Campaign not found.")
			return
		}
		h.ErrLog.LogServerError(w, r, "campaigns: load failed", err)
		return
	}
	httpjson.OK(w, toCampaignView(*c))
}

// ServePatch handles PATCH /api/campaigns/{id}.
func (h *Handler) ServePatch(w http.ResponseWriter, r *http.Request) {
	_, _, actorID, ok := authz.UserCtx(r)
	if !ok {
		apierrors.RenderUnauthorized(w, r)
		return
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		apierrors.RenderBadRequest(w, r, "Invalid campaign id.")
		return
	}

	var req patchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "campaigns: patch body decode failed", err, "Invalid request body.")
		return
	}
	if req.Name != nil && *req.Name == "" {
		apierrors.RenderBadRequest(w, r, "Name is required.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	err = h.Campaigns.Update(ctx, id, campaignstore.Update{
		Name:     req.Name,
		Channel:  req.Channel,
		Notes:    req.Notes,
		Status:   req.Status,
		StartsAt: req.StartsAt,
		EndsAt:   req.EndsAt,
	})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			apierrors.RenderNotFound(w, r, "Campaign not found.")
			return
		}
		h.ErrLog.LogBadRequest(w, r, "campaigns: patch rejected", err, "Invalid campaign update.")
		return
	}

	updated, err := h.Campaigns.GetByID(ctx, id)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "campaigns: reload after patch failed", err)
		return
	}

	if h.Audit != nil {
		h.Audit.ContentEvent(ctx, r, audit.EventCampaignUpdated, actorID, updated.ProjectID, &id, nil)
	}

	httpjson.OK(w, toCampaignView(*updated))
}

// ServeDelete handles DELETE /api/campaigns/{id}.
func (h *Handler) ServeDelete(w http.ResponseWriter, r *http.Request) {
	_, _, actorID, ok := authz.UserCtx(r)
	if !ok {
		apierrors.RenderUnauthorized(w, r)
		return
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		apierrors.RenderBadRequest(w, r, "Invalid campaign id.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	c, err := h.Campaigns.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			apierrors.RenderNotFound(w, r, "Campaign not found.")
			return
		}
		h.ErrLog.LogServerError(w, r, "campaigns: load before delete failed", err)
		return
	}

	if err := h.Campaigns.Delete(ctx, id); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			apierrors.RenderNotFound(w, r, "Campaign not found.")
			return
		}
		h.ErrLog.LogServerError(w, r, "campaigns: delete failed", err)
		return
	}

	if h.Audit != nil {
		h.Audit.ContentEvent(ctx, r, audit.EventCampaignDeleted, actorID, c.ProjectID, &id,
			map[string]string{"name": c.Name})
	}

	httpjson.Success(w)
}
