package migrations

import (
	"time"

	"gorm.io/gorm"
)

// Snapshots of the tables as each schema generation created them. They must
// not follow later model changes; the live shapes are in pkg/db/models.

// inlineRecord is the first generation: one optional file stored inline.
type inlineRecord struct {
	ID           string `gorm:"primaryKey;type:text"`
	OwnerID      string `gorm:"type:text;not null;index:idx_records_owner_created"`
	Title        string `gorm:"type:text;not null"`
	Content      string `gorm:"type:text"`
	FileName     string `gorm:"type:text"`
	FileData     []byte
	FileMimeType string `gorm:"type:text"`
	FileSize     int64
	CreatedAt    time.Time `gorm:"not null;index:idx_records_owner_created"`
	UpdatedAt    time.Time
}

func (inlineRecord) TableName() string { return "data_records" }

// referenceRecord adds the ordered attachment reference list.
type referenceRecord struct {
	ID             string `gorm:"primaryKey;type:text"`
	AttachmentRefs string `gorm:"column:attachment_refs;type:json"`
	LegacyAssetID  string `gorm:"type:text"`
}

func (referenceRecord) TableName() string { return "data_records" }

// referenceAsset is the second generation file table, before soft deletion.
type referenceAsset struct {
	ID             string `gorm:"primaryKey;type:text"`
	OwnerID        string `gorm:"type:text;not null"`
	ParentRecordID string `gorm:"type:text"`
	OriginalName   string `gorm:"type:text;not null"`
	StoredName     string `gorm:"type:text;not null"`
	MimeType       string `gorm:"type:text;not null"`
	SizeBytes      int64  `gorm:"not null"`
	Data           []byte
	StorageKey     string    `gorm:"type:text"`
	UploadedAt     time.Time `gorm:"not null"`
}

func (referenceAsset) TableName() string { return "file_assets" }

// softDeleteAsset is the third generation file table with the active flag.
type softDeleteAsset struct {
	ID             string `gorm:"primaryKey;type:text"`
	OwnerID        string `gorm:"type:text;not null;index:idx_assets_owner_active"`
	ParentRecordID string `gorm:"type:text;index:idx_assets_parent_active"`
	OriginalName   string `gorm:"type:text;not null"`
	StoredName     string `gorm:"type:text;not null"`
	MimeType       string `gorm:"type:text;not null"`
	SizeBytes      int64  `gorm:"not null"`
	Data           []byte
	StorageKey     string    `gorm:"type:text"`
	Active         bool      `gorm:"not null;default:true;index:idx_assets_owner_active;index:idx_assets_parent_active"`
	UploadedAt     time.Time `gorm:"not null"`
}

func (softDeleteAsset) TableName() string { return "file_assets" }

// allMigrations returns all migrations in order
func allMigrations() []Migration {
	return []Migration{
		{
			Version:     1,
			Description: "Data records with inline single file",
			Up: func(db *gorm.DB) error {
				return db.AutoMigrate(&inlineRecord{})
			},
			Down: func(db *gorm.DB) error {
				return db.Migrator().DropTable(&inlineRecord{})
			},
		},
		{
			Version:     2,
			Description: "File assets and attachment references",
			Up: func(db *gorm.DB) error {
				if err := db.AutoMigrate(&referenceAsset{}, &referenceRecord{}); err != nil {
					return err
				}
				return db.Model(&referenceRecord{}).
					Where("attachment_refs IS NULL").
					Update("attachment_refs", "[]").Error
			},
			Down: func(db *gorm.DB) error {
				if err := db.Migrator().DropColumn(&referenceRecord{}, "attachment_refs"); err != nil {
					return err
				}
				if err := db.Migrator().DropColumn(&referenceRecord{}, "legacy_asset_id"); err != nil {
					return err
				}
				return db.Migrator().DropTable(&referenceAsset{})
			},
		},
		{
			Version:     3,
			Description: "Soft deletion of file assets",
			Up: func(db *gorm.DB) error {
				return db.AutoMigrate(&softDeleteAsset{})
			},
			Down: func(db *gorm.DB) error {
				if err := db.Migrator().DropIndex(&softDeleteAsset{}, "idx_assets_owner_active"); err != nil {
					return err
				}
				if err := db.Migrator().DropIndex(&softDeleteAsset{}, "idx_assets_parent_active"); err != nil {
					return err
				}
				return db.Migrator().DropColumn(&softDeleteAsset{}, "active")
			},
		},
	}
}
