// internal/app/features/assets/types.go
package assets

import (
	"time"

	"github.com/dalemusser/planhub/internal/domain/models"
)

// assetView is the public asset representation. The storage key stays
// server-side; clients fetch bytes via the download endpoint.
type assetView struct {
	ID          string    `json:"id"`
	ProjectID   string    `json:"projectId"`
	FileName    string    `json:"fileName"`
	ContentType string    `json:"contentType,omitempty"`
	Size        int64     `json:"size"`
	UploadedBy  string    `json:"uploadedBy"`
	CreatedAt   time.Time `json:"createdAt"`
}

func toAssetView(a models.Asset) assetView {
	return assetView{
		ID:          a.ID.Hex(),
		ProjectID:   a.ProjectID.Hex(),
		FileName:    a.FileName,
		ContentType: a.ContentType,
		Size:        a.Size,
		UploadedBy:  a.UploadedBy.Hex(),
		CreatedAt:   a.CreatedAt,
	}
}
