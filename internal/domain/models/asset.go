// internal/domain/models/asset.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Asset is an uploaded file attached to a project.
//
// The bytes live in object storage (local disk or S3 depending on
// configuration); this record holds the metadata and the storage path.
type Asset struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProjectID   primitive.ObjectID `bson:"project_id" json:"project_id"`
	FileName    string             `bson:"file_name" json:"file_name"` // original upload name
	FilePath    string             `bson:"file_path" json:"-"`         // storage key, not exposed
	ContentType string             `bson:"content_type,omitempty" json:"content_type,omitempty"`
	Size        int64              `bson:"size" json:"size"`
	UploadedBy  primitive.ObjectID `bson:"uploaded_by" json:"uploaded_by"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
