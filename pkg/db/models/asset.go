package models

import "time"

// FileAsset is one stored attachment. Rows are never removed; Active=false
// marks a soft-deleted asset.
type FileAsset struct {
	ID             string `gorm:"primaryKey;type:text"`
	OwnerID        string `gorm:"type:text;not null;index:idx_assets_owner_active"`
	ParentRecordID string `gorm:"type:text;index:idx_assets_parent_active"`

	OriginalName string `gorm:"type:text;not null"`
	StoredName   string `gorm:"type:text;not null"`
	MimeType     string `gorm:"type:text;not null"`
	SizeBytes    int64  `gorm:"not null"`

	// Data is empty when the bytes live in an external blob store under StorageKey.
	Data       []byte
	StorageKey string `gorm:"type:text"`

	Active     bool      `gorm:"not null;default:true;index:idx_assets_owner_active;index:idx_assets_parent_active"`
	UploadedAt time.Time `gorm:"not null"`
}

func (FileAsset) TableName() string {
	return "file_assets"
}
