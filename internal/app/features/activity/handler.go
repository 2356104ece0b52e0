// internal/app/features/activity/handler.go
package activity

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/dalemusser/planhub/internal/app/features/apierrors"
	audit "github.com/dalemusser/planhub/internal/app/store/audit"
	"github.com/dalemusser/planhub/internal/app/system/httpjson"
	"github.com/dalemusser/planhub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const defaultPageSize = 50

// Handler serves the admin activity feed over the audit event store.
type Handler struct {
	Log    *zap.Logger
	ErrLog *apierrors.ErrorLogger
	Events *audit.Store
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		Log:    logger,
		ErrLog: apierrors.NewErrorLogger(logger),
		Events: audit.New(db),
	}
}

// ServeList handles GET /api/activity with optional project, actor,
// category, type, from, to, limit, and offset query parameters.
// Timestamps are RFC 3339.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	filter := audit.QueryFilter{
		Category:  query.Get(r, "category"),
		EventType: query.Get(r, "type"),
		Limit:     defaultPageSize,
	}

	if raw := query.Get(r, "project"); raw != "" {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			apierrors.RenderBadRequest(w, r, "Invalid project id.")
			return
		}
		filter.ProjectID = &id
	}
	if raw := query.Get(r, "actor"); raw != "" {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			apierrors.RenderBadRequest(w, r, "Invalid actor id.")
			return
		}
		filter.ActorID = &id
	}
	if raw := query.Get(r, "from"); raw != "" {
		ts, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			apierrors.RenderBadRequest(w, r, "from must be an RFC 3339 timestamp.")
			return
		}
		filter.StartTime = &ts
	}
	if raw := query.Get(r, "to"); raw != "" {
		ts, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			apierrors.RenderBadRequest(w, r, "to must be an RFC 3339 timestamp.")
			return
		}
		filter.EndTime = &ts
	}
	if raw := query.Get(r, "limit"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n < 1 || n > 500 {
			apierrors.RenderBadRequest(w, r, "limit must be between 1 and 500.")
			return
		}
		filter.Limit = n
	}
	if raw := query.Get(r, "offset"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n < 0 {
			apierrors.RenderBadRequest(w, r, "offset must not be negative.")
			return
		}
		filter.Offset = n
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	events, err := h.Events.Query(ctx, filter)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "activity: query failed", err)
		return
	}

	views := make([]eventView, 0, len(events))
	for _, e := range events {
		views = append(views, toEventView(e))
	}
	httpjson.OK(w, views)
}
