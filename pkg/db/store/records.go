package store

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mwantia/notevault/pkg/db/models"
	"github.com/mwantia/notevault/pkg/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// GormRecordStore implements RecordStore on top of GORM. Cascades to
// attachments go through the AssetStore.
type GormRecordStore struct {
	db     *gorm.DB
	assets AssetStore
	log    log.LoggerService
	now    func() time.Time
}

// CascadeAttempt is the outcome of soft-deleting one attachment while its
// parent record was deleted.
type CascadeAttempt struct {
	AssetID string
	Err     error
}

// CascadeReport collects every cascade attempt of a record deletion.
type CascadeReport struct {
	RecordID string
	Attempts []CascadeAttempt
}

// Failed returns the attempts that did not deactivate their asset.
func (r *CascadeReport) Failed() []CascadeAttempt {
	var failed []CascadeAttempt
	for _, attempt := range r.Attempts {
		if attempt.Err != nil {
			failed = append(failed, attempt)
		}
	}
	return failed
}

func NewRecordStore(db *gorm.DB, assets AssetStore, logger log.LoggerService) *GormRecordStore {
	return &GormRecordStore{
		db:     db,
		assets: assets,
		log:    logger,
		now: func() time.Time {
			return time.Now().UTC()
		},
	}
}

func (s *GormRecordStore) Create(ctx context.Context, ownerID, title, content string) (*models.DataRecord, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("%w: owner is required", ErrValidation)
	}
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}

	now := s.now()
	record := &models.DataRecord{
		ID:             uuid.NewString(),
		OwnerID:        ownerID,
		Title:          title,
		Content:        content,
		AttachmentRefs: datatypes.JSONSlice[string]{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.db.WithContext(ctx).Create(record).Error; err != nil {
		return nil, unavailable(err)
	}
	return record, nil
}

func (s *GormRecordStore) Get(ctx context.Context, id, ownerID string) (*models.DataRecord, error) {
	var record models.DataRecord
	if err := findOwned(ctx, s.db, &record, id, ownerID); err != nil {
		return nil, err
	}
	return &record, nil
}

func (s *GormRecordStore) ListByOwner(ctx context.Context, ownerID string) ([]models.DataRecord, error) {
	records := []models.DataRecord{}
	if ownerID == "" {
		return records, nil
	}

	err := s.db.WithContext(ctx).
		Scopes(ownedBy(ownerID)).
		Order("created_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, unavailable(err)
	}
	return records, nil
}

func (s *GormRecordStore) Update(ctx context.Context, id, ownerID string, update RecordUpdate) (*models.DataRecord, error) {
	record, err := s.Get(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	changes := map[string]any{}
	if update.Title != nil {
		if strings.TrimSpace(*update.Title) == "" {
			return nil, fmt.Errorf("%w: title is required", ErrValidation)
		}
		changes["title"] = *update.Title
		record.Title = *update.Title
	}
	if update.Content != nil {
		changes["content"] = *update.Content
		record.Content = *update.Content
	}
	if len(changes) == 0 {
		return record, nil
	}

	record.UpdatedAt = s.now()
	changes["updated_at"] = record.UpdatedAt

	if err := s.save(ctx, id, ownerID, changes); err != nil {
		return nil, err
	}
	return record, nil
}

// Delete removes the record, then soft-deletes every referenced attachment.
// Cascade failures are logged and reported but never fail the deletion.
func (s *GormRecordStore) Delete(ctx context.Context, id, ownerID string) (*CascadeReport, error) {
	record, err := s.Get(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	result := s.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Delete(&models.DataRecord{})
	if result.Error != nil {
		return nil, unavailable(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}

	report := &CascadeReport{RecordID: id}
	for _, assetID := range record.AttachmentRefs {
		_, err := s.assets.SoftDelete(ctx, assetID, ownerID)
		report.Attempts = append(report.Attempts, CascadeAttempt{AssetID: assetID, Err: err})
	}

	for _, attempt := range report.Failed() {
		s.log.Warn("Failed to soft-delete attachment '%s' of deleted record '%s': %v", attempt.AssetID, id, attempt.Err)
	}

	return report, nil
}

func (s *GormRecordStore) AppendAttachmentRefs(ctx context.Context, id, ownerID string, assetIDs []string) (*models.DataRecord, error) {
	record, err := s.Get(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	if len(assetIDs) == 0 {
		return record, nil
	}

	refs := append(record.Refs(), assetIDs...)
	record.AttachmentRefs = datatypes.JSONSlice[string](refs)
	record.UpdatedAt = s.now()

	err = s.save(ctx, id, ownerID, map[string]any{
		"attachment_refs": record.AttachmentRefs,
		"updated_at":      record.UpdatedAt,
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

// DetachAttachmentRef removes assetID from the record's references. A missing
// record or reference is not an error. When the detached asset is the one
// mirrored inline, the mirror is cleared with it.
func (s *GormRecordStore) DetachAttachmentRef(ctx context.Context, id, assetID string) error {
	if id == "" {
		return nil
	}

	var record models.DataRecord
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return unavailable(err)
	}

	refs := record.Refs()
	kept := slices.DeleteFunc(slices.Clone(refs), func(ref string) bool {
		return ref == assetID
	})
	mirrored := record.LegacyAssetID != "" && record.LegacyAssetID == assetID

	if len(kept) == len(refs) && !mirrored {
		return nil
	}

	changes := map[string]any{
		"attachment_refs": datatypes.JSONSlice[string](kept),
		"updated_at":      s.now(),
	}
	if mirrored {
		changes["file_name"] = ""
		changes["file_data"] = nil
		changes["file_mime_type"] = ""
		changes["file_size"] = 0
		changes["legacy_asset_id"] = ""
	}

	return s.save(ctx, id, record.OwnerID, changes)
}

func (s *GormRecordStore) SetLegacyInlineFile(ctx context.Context, id, ownerID string, file *models.LegacyInlineFile) (*models.DataRecord, error) {
	record, err := s.Get(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	record.SetLegacyInlineFile(file)
	record.UpdatedAt = s.now()

	err = s.save(ctx, id, ownerID, map[string]any{
		"file_name":       record.FileName,
		"file_data":       record.FileData,
		"file_mime_type":  record.FileMimeType,
		"file_size":       record.FileSize,
		"legacy_asset_id": record.LegacyAssetID,
		"updated_at":      record.UpdatedAt,
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

// save writes changes with last-write-wins semantics; concurrent writers of
// the same record are not serialized.
func (s *GormRecordStore) save(ctx context.Context, id, ownerID string, changes map[string]any) error {
	result := s.db.WithContext(ctx).
		Model(&models.DataRecord{}).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Updates(changes)
	if result.Error != nil {
		return unavailable(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
