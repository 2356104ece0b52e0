// internal/app/features/assets/handler.go
package assets

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dalemusser/planhub/internal/app/features/apierrors"
	audit "github.com/dalemusser/planhub/internal/app/store/audit"
	assetstore "github.com/dalemusser/planhub/internal/app/store/assets"
	projectstore "github.com/dalemusser/planhub/internal/app/store/projects"
	"github.com/dalemusser/planhub/internal/app/system/auditlog"
	"github.com/dalemusser/planhub/internal/app/system/authz"
	"github.com/dalemusser/planhub/internal/app/system/httpjson"
	"github.com/dalemusser/planhub/internal/app/system/timeouts"
	"github.com/dalemusser/planhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const maxUploadBytes = 32 << 20

// Handler implements project file uploads backed by object storage.
type Handler struct {
	Log      *zap.Logger
	ErrLog   *apierrors.ErrorLogger
	Assets   *assetstore.Store
	Projects *projectstore.Store
	Storage  storage.Store
	Audit    *auditlog.Logger
}

func NewHandler(db *mongo.Database, store storage.Store, auditLogger *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Log:      logger,
		ErrLog:   apierrors.NewErrorLogger(logger),
		Assets:   assetstore.New(db),
		Projects: projectstore.New(db),
		Storage:  store,
		Audit:    auditLogger,
	}
}

// ServeUpload handles POST /api/projects/{id}/assets as a multipart
// form with a "file" part.
func (h *Handler) ServeUpload(w http.ResponseWriter, r *http.Request) {
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

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		h.ErrLog.LogBadRequest(w, r, "assets: parse multipart form failed", err, "Invalid upload.")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil || header == nil || header.Size == 0 {
		apierrors.RenderBadRequest(w, r, "A file is required.")
		return
	}
	defer file.Close()

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	if _, err := h.Projects.GetByID(ctx, projectID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			apierrors.RenderNotFound(w, r, "Project not found.")
			return
		}
		h.ErrLog.LogServerError(w, r, "assets: load project failed", err)
		return
	}

	info, err := uploadFile(ctx, h.Storage, header.Filename, file, header.Size,
		header.Header.Get("Content-Type"))
	if err != nil {
		h.ErrLog.LogServerError(w, r, "assets: storage write failed", err)
		return
	}

	created, err := h.Assets.Create(ctx, models.Asset{
		ProjectID:   projectID,
		FileName:    info.FileName,
		FilePath:    info.Path,
		ContentType: info.ContentType,
		Size:        info.Size,
		UploadedBy:  actorID,
	})
	if err != nil {
		// The bytes are in storage but the metadata write failed.
		// Clean up so we do not leak orphaned files.
		if dErr := h.Storage.Delete(ctx, info.Path); dErr != nil {
			h.Log.Warn("orphaned asset file left in storage",
				zap.String("path", info.Path), zap.Error(dErr))
		}
		h.ErrLog.LogServerError(w, r, "assets: metadata write failed", err)
		return
	}

	if h.Audit != nil {
		id := created.ID
		h.Audit.ContentEvent(ctx, r, audit.EventAssetUploaded, actorID, projectID, &id,
			map[string]string{"file_name": created.FileName})
	}

	httpjson.Created(w, toAssetView(created))
}

// ServeList handles GET /api/projects/{id}/assets.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	projectID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		apierrors.RenderBadRequest(w, r, "Invalid project id.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Assets.ListByProject(ctx, projectID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "assets: list failed", err)
		return
	}

	views := make([]assetView, 0, len(list))
	for _, a := range list {
		views = append(views, toAssetView(a))
	}
	httpjson.OK(w, views)
}

// ServeDownload handles GET /api/assets/{id}/download. Local storage is
// served directly; other backends get a short-lived signed URL redirect.
func (h *Handler) ServeDownload(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		apierrors.RenderBadRequest(w, r, "Invalid asset id.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	a, err := h.Assets.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			apierrors.RenderNotFound(w, r, "Asset not found.")
			return
		}
		h.ErrLog.LogServerError(w, r, "assets: load failed", err)
		return
	}

	filename := a.FileName
	if filename == "" {
		filename = "download"
	}
	contentDisposition := `attachment; filename="` + filename + `"`

	// Downloads must not be cached; the underlying file can be replaced.
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.Header().Set("Pragma", "no-cache")
	w.Header().Set("Expires", "0")

	if localStorage, ok := h.Storage.(*storage.Local); ok {
		fullPath, err := localStorage.GetFullPath(a.FilePath)
		if err != nil {
			h.ErrLog.LogServerError(w, r, "assets: resolve local path failed", err)
			return
		}
		w.Header().Set("Content-Disposition", contentDisposition)
		http.ServeFile(w, r, fullPath)
		return
	}

	signedURL, err := h.Storage.PresignedURL(ctx, a.FilePath, &storage.PresignOptions{
		Expires:            15 * time.Minute,
		ContentDisposition: contentDisposition,
	})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "assets: sign download URL failed", err)
		return
	}
	http.Redirect(w, r, signedURL, http.StatusSeeOther)
}

// ServeDelete handles DELETE /api/assets/{id}. Metadata goes first; the
// stored bytes are removed best effort afterwards.
func (h *Handler) ServeDelete(w http.ResponseWriter, r *http.Request) {
	_, _, actorID, ok := authz.UserCtx(r)
	if !ok {
		apierrors.RenderUnauthorized(w, r)
		return
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		apierrors.RenderBadRequest(w, r, "Invalid asset id.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	a, err := h.Assets.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			apierrors.RenderNotFound(w, r, "Asset not found.")
			return
		}
		h.ErrLog.LogServerError(w, r, "assets: load before delete failed", err)
		return
	}

	if err := h.Assets.Delete(ctx, id); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			apierrors.RenderNotFound(w, r, "Asset not found.")
			return
		}
		h.ErrLog.LogServerError(w, r, "assets: delete failed", err)
		return
	}

	if h.Storage != nil {
		if err := h.Storage.Delete(ctx, a.FilePath); err != nil {
			h.Log.Warn("failed to delete asset file",
				zap.String("asset_id", id.Hex()),
				zap.String("file_path", a.FilePath),
				zap.Error(err))
		}
	}

	if h.Audit != nil {
		h.Audit.ContentEvent(ctx, r, audit.EventAssetDeleted, actorID, a.ProjectID, &id,
			map[string]string{"file_name": a.FileName})
	}

	httpjson.Success(w)
}
