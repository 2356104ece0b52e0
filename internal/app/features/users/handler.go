// internal/app/features/users/handler.go
package users

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dalemusser/planhub/internal/app/features/apierrors"
	"github.com/dalemusser/planhub/internal/app/policy/userpolicy"
	userstore "github.com/dalemusser/planhub/internal/app/store/users"
	"github.com/dalemusser/planhub/internal/app/system/auditlog"
	"github.com/dalemusser/planhub/internal/app/system/authz"
	"github.com/dalemusser/planhub/internal/app/system/httpjson"
	"github.com/dalemusser/planhub/internal/app/system/status"
	"github.com/dalemusser/planhub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler implements the user management endpoints.
type Handler struct {
	Log    *zap.Logger
	ErrLog *apierrors.ErrorLogger
	Users  *userstore.Store
	Allow  authz.AllowList
	Audit  *auditlog.Logger
}

func NewHandler(db *mongo.Database, allow authz.AllowList, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Log:    logger,
		ErrLog: apierrors.NewErrorLogger(logger),
		Users:  userstore.New(db),
		Allow:  allow,
		Audit:  audit,
	}
}

// adminEquivalent reports whether the request's user passes the admin
// gate: elevated stored role, or an allow-listed email.
func (h *Handler) adminEquivalent(r *http.Request) (role, email string, userID primitive.ObjectID, ok bool) {
	role, email, userID, signedIn := authz.UserCtx(r)
	if !signedIn {
		return "", "", primitive.NilObjectID, false
	}
	return role, email, userID, authz.IsAdmin(r) || h.Allow.Contains(email)
}

// ServeList handles GET /api/users with optional status/role/q filters.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	if _, _, _, ok := authz.UserCtx(r); !ok {
		apierrors.RenderUnauthorized(w, r)
		return
	}
	if _, _, _, ok := h.adminEquivalent(r); !ok {
		apierrors.RenderForbidden(w, r)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Users.List(ctx, userstore.ListFilter{
		Status: query.Get(r, "status"),
		Role:   query.Get(r, "role"),
		Search: query.Get(r, "q"),
	})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "users: list failed", err)
		return
	}

	views := make([]userView, 0, len(list))
	for _, u := range list {
		views = append(views, toUserView(u))
	}
	httpjson.OK(w, views)
}

// ServeMe handles GET /api/users/me.
func (h *Handler) ServeMe(w http.ResponseWriter, r *http.Request) {
	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		apierrors.RenderUnauthorized(w, r)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			apierrors.RenderNotFound(w, r, "User not found.")
			return
		}
		h.ErrLog.LogServerError(w, r, "users: load self failed", err)
		return
	}
	httpjson.OK(w, toUserView(*u))
}

// ServePatch handles PATCH /api/users/{id} body {role?, status?}.
//
// The decision is delegated to userpolicy.CanModifyUser; no activity-log
// entry is written here.
func (h *Handler) ServePatch(w http.ResponseWriter, r *http.Request) {
	actorRole, actorEmail, _, signedIn := authz.UserCtx(r)
	if !signedIn {
		apierrors.RenderUnauthorized(w, r)
		return
	}

	targetID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		apierrors.RenderBadRequest(w, r, "Invalid user id.")
		return
	}

	var req patchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "users: patch body decode failed", err, "Invalid request body.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	target, err := h.Users.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			apierrors.RenderNotFound(w, r, "User not found.")
			return
		}
		h.ErrLog.LogServerError(w, r, "users: load target failed", err)
		return
	}

	allowed := userpolicy.CanModifyUser(actorRole, h.Allow.Contains(actorEmail), target.Role, userpolicy.Change{
		Role:   req.Role,
		Status: req.Status,
	})
	if !allowed {
		apierrors.RenderForbidden(w, r)
		return
	}

	chg := userstore.Change{Role: req.Role, Status: req.Status}
	if chg.IsEmpty() {
		httpjson.Success(w)
		return
	}

	if err := h.Users.Apply(ctx, targetID, chg); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			apierrors.RenderNotFound(w, r, "User not found.")
			return
		}
		h.ErrLog.LogBadRequest(w, r, "users: patch rejected", err, "Invalid role or status.")
		return
	}

	httpjson.Success(w)
}

// ServeApprove handles POST /api/users/approve
// body {targetUserId|userId, action:"approve"|"reject"}.
func (h *Handler) ServeApprove(w http.ResponseWriter, r *http.Request) {
	actorRole, actorEmail, actorID, signedIn := authz.UserCtx(r)
	if !signedIn {
		apierrors.RenderUnauthorized(w, r)
		return
	}

	var req approveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "users: approve body decode failed", err, "Invalid request body.")
		return
	}

	if !userpolicy.CanDecideApproval(actorRole, h.Allow.Contains(actorEmail)) {
		apierrors.RenderForbidden(w, r)
		return
	}

	var newStatus string
	switch req.Action {
	case "approve":
		newStatus = status.Active
	case "reject":
		newStatus = status.Rejected
	default:
		apierrors.RenderBadRequest(w, r, `action must be "approve" or "reject".`)
		return
	}

	targetID, err := primitive.ObjectIDFromHex(req.targetID())
	if err != nil {
		apierrors.RenderBadRequest(w, r, "Invalid or missing target user id.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Users.SetStatus(ctx, targetID, newStatus); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			apierrors.RenderNotFound(w, r, "User not found.")
			return
		}
		h.ErrLog.LogServerError(w, r, "users: approve update failed", err)
		return
	}

	if h.Audit != nil {
		h.Audit.UserDecision(ctx, r, actorID, targetID, newStatus == status.Active)
	}

	httpjson.OK(w, map[string]any{
		"success": true,
		"status":  newStatus,
	})
}
