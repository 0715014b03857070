package store

import (
	"context"

	"github.com/mwantia/notevault/pkg/db/models"
)

// AssetStore owns the lifecycle of individual attachments.
type AssetStore interface {
	Create(ctx context.Context, ownerID, parentRecordID, name, mimeType string, data []byte) (*models.FileAsset, error)
	Fetch(ctx context.Context, id, ownerID string) (*models.FileAsset, error)
	// SoftDelete deactivates the asset and returns its metadata. Deleting an
	// inactive asset succeeds without changes.
	SoftDelete(ctx context.Context, id, ownerID string) (*models.FileAsset, error)
	// ListActiveByIDs returns the active assets of ownerID among ids, in the
	// order of ids. Unknown, inactive and foreign ids are dropped silently.
	ListActiveByIDs(ctx context.Context, ids []string, ownerID string) ([]models.FileAsset, error)
	// ListActiveByOwner returns metadata (no bytes) for every active asset of ownerID, newest first.
	ListActiveByOwner(ctx context.Context, ownerID string) ([]models.FileAsset, error)
}

// RecordStore owns data records and their attachment reference lists.
type RecordStore interface {
	Create(ctx context.Context, ownerID, title, content string) (*models.DataRecord, error)
	Get(ctx context.Context, id, ownerID string) (*models.DataRecord, error)
	ListByOwner(ctx context.Context, ownerID string) ([]models.DataRecord, error)
	Update(ctx context.Context, id, ownerID string, update RecordUpdate) (*models.DataRecord, error)
	Delete(ctx context.Context, id, ownerID string) (*CascadeReport, error)

	AppendAttachmentRefs(ctx context.Context, id, ownerID string, assetIDs []string) (*models.DataRecord, error)
	DetachAttachmentRef(ctx context.Context, id, assetID string) error
	SetLegacyInlineFile(ctx context.Context, id, ownerID string, file *models.LegacyInlineFile) (*models.DataRecord, error)
}

// RecordUpdate carries the fields a plain record update may change. Nil
// fields are left untouched.
type RecordUpdate struct {
	Title   *string
	Content *string
}
