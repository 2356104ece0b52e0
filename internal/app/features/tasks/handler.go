// internal/app/features/tasks/handler.go
package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/dalemusser/planhub/internal/app/features/apierrors"
	audit "github.com/dalemusser/planhub/internal/app/store/audit"
	projectstore "github.com/dalemusser/planhub/internal/app/store/projects"
	taskstore "github.com/dalemusser/planhub/internal/app/store/tasks"
	templatestore "github.com/dalemusser/planhub/internal/app/store/tasktemplates"
	"github.com/dalemusser/planhub/internal/app/system/auditlog"
	"github.com/dalemusser/planhub/internal/app/system/authz"
	"github.com/dalemusser/planhub/internal/app/system/htmlsanitize"
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

// Handler implements the task endpoints, including bulk instantiation
// from the template library.
type Handler struct {
	Log       *zap.Logger
	ErrLog    *apierrors.ErrorLogger
	Tasks     *taskstore.Store
	Projects  *projectstore.Store
	Templates *templatestore.Store
	Audit     *auditlog.Logger
}

func NewHandler(db *mongo.Database, auditLogger *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Log:       logger,
		ErrLog:    apierrors.NewErrorLogger(logger),
		Tasks:     taskstore.New(db),
		Projects:  projectstore.New(db),
		Templates: templatestore.New(db),
		Audit:     auditLogger,
	}
}

// ServeListByProject handles GET /api/projects/{id}/tasks with optional
// status and assignee filters.
func (h *Handler) ServeListByProject(w http.ResponseWriter, r *http.Request) {
	projectID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		apierrors.RenderBadRequest(w, r, "Invalid project id.")
		return
	}

	filter := taskstore.ListFilter{Status: query.Get(r, "status")}
	if raw := query.Get(r, "assignee"); raw != "" {
		assigneeID, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			apierrors.RenderBadRequest(w, r, "Invalid assignee id.")
			return
		}
		filter.AssigneeID = &assigneeID
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Tasks.ListByProject(ctx, projectID, filter)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "tasks: list failed", err)
		return
	}

	views := make([]taskView, 0, len(list))
	for _, t := range list {
		views = append(views, toTaskView(t))
	}
	httpjson.OK(w, views)
}

// ServeCreate handles POST /api/projects/{id}/tasks.
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
		h.ErrLog.LogBadRequest(w, r, "tasks: create body decode failed", err, "Invalid request body.")
		return
	}
	if result := inputval.Validate(req); result.HasErrors() {
		apierrors.RenderBadRequest(w, r, result.First())
		return
	}

	assignees, err := parseObjectIDs(req.AssigneeIDs)
	if err != nil {
		apierrors.RenderBadRequest(w, r, "Invalid assignee id.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if _, err := h.Projects.GetByID(ctx, projectID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			apierrors.RenderNotFound(w, r, "Project not found.")
			return
		}
		h.ErrLog.LogServerError(w, r, "tasks: load project failed", err)
		return
	}

	task := models.Task{
		ProjectID:   projectID,
		Title:       req.Title,
		Details:     htmlsanitize.Sanitize(req.Details),
		AssigneeIDs: assignees,
		TargetDate:  req.TargetDate,
		Status:      req.Status,
	}
	if req.AttachmentID != "" {
		attachmentID, _ := primitive.ObjectIDFromHex(req.AttachmentID)
		task.AttachmentID = &attachmentID
	}

	created, err := h.Tasks.Create(ctx, task)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "tasks: create failed", err)
		return
	}

	if h.Audit != nil {
		id := created.ID
		h.Audit.ContentEvent(ctx, r, audit.EventTaskCreated, actorID, projectID, &id,
			map[string]string{"title": created.Title})
	}

	httpjson.Created(w, toTaskView(created))
}

// ServeGet handles GET /api/tasks/{id}.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		apierrors.RenderBadRequest(w, r, "Invalid task id.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	t, err := h.Tasks.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			apierrors.RenderNotFound(w, r, "Task not found.")
			return
		}
		h.ErrLog.LogServerError(w, r, "tasks: load failed", err)
		return
	}
	httpjson.OK(w, toTaskView(*t))
}

// ServePatch handles PATCH /api/tasks/{id}. Status transitions into and
// out of done stamp or clear completedAt in the store.
func (h *Handler) ServePatch(w http.ResponseWriter, r *http.Request) {
	_, _, actorID, ok := authz.UserCtx(r)
	if !ok {
		apierrors.RenderUnauthorized(w, r)
		return
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		apierrors.RenderBadRequest(w, r, "Invalid task id.")
		return
	}

	var req patchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "tasks: patch body decode failed", err, "Invalid request body.")
		return
	}
	if req.Title != nil && *req.Title == "" {
		apierrors.RenderBadRequest(w, r, "Title is required.")
		return
	}

	upd := taskstore.Update{
		Title:      req.Title,
		TargetDate: req.TargetDate,
		Status:     req.Status,
	}
	if req.Details != nil {
		clean := htmlsanitize.Sanitize(*req.Details)
		upd.Details = &clean
	}
	if req.AttachmentID != nil {
		attachmentID, err := primitive.ObjectIDFromHex(*req.AttachmentID)
		if err != nil {
			apierrors.RenderBadRequest(w, r, "Invalid attachment id.")
			return
		}
		upd.AttachmentID = &attachmentID
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

	if err := h.Tasks.Update(ctx, id, upd); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			apierrors.RenderNotFound(w, r, "Task not found.")
			return
		}
		h.ErrLog.LogBadRequest(w, r, "tasks: patch rejected", err, "Invalid task update.")
		return
	}

	updated, err := h.Tasks.GetByID(ctx, id)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "tasks: reload after patch failed", err)
		return
	}

	if h.Audit != nil {
		h.Audit.ContentEvent(ctx, r, audit.EventTaskUpdated, actorID, updated.ProjectID, &id, nil)
	}

	httpjson.OK(w, toTaskView(*updated))
}

// ServeAssign handles POST /api/tasks/{id}/assignees. Assigning a user
// who is already on the task is a 409.
func (h *Handler) ServeAssign(w http.ResponseWriter, r *http.Request) {
	if _, _, _, ok := authz.UserCtx(r); !ok {
		apierrors.RenderUnauthorized(w, r)
		return
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		apierrors.RenderBadRequest(w, r, "Invalid task id.")
		return
	}

	var req assignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "tasks: assign body decode failed", err, "Invalid request body.")
		return
	}
	if result := inputval.Validate(req); result.HasErrors() {
		apierrors.RenderBadRequest(w, r, result.First())
		return
	}
	userID, _ := primitive.ObjectIDFromHex(req.UserID)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Tasks.AddAssignee(ctx, id, userID); err != nil {
		switch {
		case errors.Is(err, mongo.ErrNoDocuments):
			apierrors.RenderNotFound(w, r, "Task not found.")
		case errors.Is(err, taskstore.ErrAlreadyAssigned):
			apierrors.RenderConflict(w, r, err.Error())
		default:
			h.ErrLog.LogServerError(w, r, "tasks: assign failed", err)
		}
		return
	}

	httpjson.Success(w)
}

// ServeDelete handles DELETE /api/tasks/{id}.
func (h *Handler) ServeDelete(w http.ResponseWriter, r *http.Request) {
	_, _, actorID, ok := authz.UserCtx(r)
	if !ok {
		apierrors.RenderUnauthorized(w, r)
		return
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		apierrors.RenderBadRequest(w, r, "Invalid task id.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	t, err := h.Tasks.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			apierrors.RenderNotFound(w, r, "Task not found.")
			return
		}
		h.ErrLog.LogServerError(w, r, "tasks: load before delete failed", err)
		return
	}

	if err := h.Tasks.Delete(ctx, id); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			apierrors.RenderNotFound(w, r, "Task not found.")
			return
		}
		h.ErrLog.LogServerError(w, r, "tasks: delete failed", err)
		return
	}

	if h.Audit != nil {
		h.Audit.ContentEvent(ctx, r, audit.EventTaskDeleted, actorID, t.ProjectID, &id,
			map[string]string{"title": t.Title})
	}

	httpjson.Success(w)
}

// ServeCreateFromTemplates handles POST /api/tasks/create-from-templates
// body {projectId, categoryIds:[...]}.
//
// Templates from the requested categories are copied into tasks dated
// relative to the project's creation date and written in one bulk
// insert. No matching templates is a success with an empty list and no
// insert at all.
func (h *Handler) ServeCreateFromTemplates(w http.ResponseWriter, r *http.Request) {
	_, _, actorID, ok := authz.UserCtx(r)
	if !ok {
		apierrors.RenderUnauthorized(w, r)
		return
	}

	var req instantiateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "tasks: instantiate body decode failed", err, "Invalid request body.")
		return
	}
	if req.ProjectID == "" {
		apierrors.RenderBadRequest(w, r, "projectId is required.")
		return
	}
	if len(req.CategoryIDs) == 0 {
		apierrors.RenderBadRequest(w, r, "categoryIds must not be empty.")
		return
	}

	projectID, err := primitive.ObjectIDFromHex(req.ProjectID)
	if err != nil {
		apierrors.RenderBadRequest(w, r, "Invalid project id.")
		return
	}
	categoryIDs, err := parseObjectIDs(req.CategoryIDs)
	if err != nil {
		apierrors.RenderBadRequest(w, r, "Invalid category id.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	project, err := h.Projects.GetByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			apierrors.RenderNotFound(w, r, "Project not found.")
			return
		}
		h.ErrLog.LogServerError(w, r, "tasks: instantiate load project failed", err)
		return
	}

	tpls, err := h.Templates.ListByCategories(ctx, categoryIDs)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "tasks: instantiate load templates failed", err)
		return
	}

	built := buildTasksFromTemplates(project, tpls)
	created, err := h.Tasks.CreateMany(ctx, built)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "tasks: instantiate bulk insert failed", err)
		return
	}

	if len(created) > 0 && h.Audit != nil {
		h.Audit.ContentEvent(ctx, r, audit.EventTasksInstantiated, actorID, projectID, nil,
			map[string]string{"count": strconv.Itoa(len(created))})
	}

	views := make([]taskView, 0, len(created))
	for _, t := range created {
		views = append(views, toTaskView(t))
	}
	httpjson.OK(w, views)
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

