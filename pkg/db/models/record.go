package models

import (
	"time"

	"gorm.io/datatypes"
)

// DataRecord is a user-owned note with an ordered list of attachment references.
//
// The File* columns hold the inline single-file mirror written by the first
// schema generation and kept for older readers. They are a denormalized
// copy of the asset named by LegacyAssetID (empty for rows that predate
// file_assets) and never the source of truth.
type DataRecord struct {
	ID             string                      `gorm:"primaryKey;type:text"`
	OwnerID        string                      `gorm:"type:text;not null;index:idx_records_owner_created"`
	Title          string                      `gorm:"type:text;not null"`
	Content        string                      `gorm:"type:text"`
	AttachmentRefs datatypes.JSONSlice[string] `gorm:"column:attachment_refs"`

	// Legacy inline file
	FileName      string `gorm:"type:text"`
	FileData      []byte
	FileMimeType  string `gorm:"type:text"`
	FileSize      int64
	LegacyAssetID string `gorm:"type:text"`

	CreatedAt time.Time `gorm:"not null;index:idx_records_owner_created"`
	UpdatedAt time.Time
}

func (DataRecord) TableName() string {
	return "data_records"
}

// LegacyInlineFile is the single-file snapshot stored on a DataRecord.
type LegacyInlineFile struct {
	Name     string
	Data     []byte
	MimeType string
	Size     int64
	AssetID  string
}

// LegacyInlineFile returns the inline mirror, or nil when the record has none.
func (r *DataRecord) LegacyInlineFile() *LegacyInlineFile {
	if r.FileName == "" {
		return nil
	}
	return &LegacyInlineFile{
		Name:     r.FileName,
		Data:     r.FileData,
		MimeType: r.FileMimeType,
		Size:     r.FileSize,
		AssetID:  r.LegacyAssetID,
	}
}

// SetLegacyInlineFile overwrites the inline mirror; nil clears it.
func (r *DataRecord) SetLegacyInlineFile(file *LegacyInlineFile) {
	if file == nil {
		r.FileName = ""
		r.FileData = nil
		r.FileMimeType = ""
		r.FileSize = 0
		r.LegacyAssetID = ""
		return
	}
	r.FileName = file.Name
	r.FileData = file.Data
	r.FileMimeType = file.MimeType
	r.FileSize = file.Size
	r.LegacyAssetID = file.AssetID
}

// Refs returns a copy of the attachment reference list.
func (r *DataRecord) Refs() []string {
	refs := make([]string, len(r.AttachmentRefs))
	copy(refs, r.AttachmentRefs)
	return refs
}
