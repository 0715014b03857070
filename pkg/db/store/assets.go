package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mwantia/notevault/pkg/db/models"
	"github.com/mwantia/notevault/pkg/log"
	"github.com/mwantia/notevault/pkg/storage"
	"gorm.io/gorm"
)

// DefaultMaxFileSize is the per-file ceiling applied when none is configured.
const DefaultMaxFileSize int64 = 10 << 20

// GormAssetStore implements AssetStore on top of GORM. Bytes are kept inline
// in file_assets.data unless an ObjectStore is configured.
type GormAssetStore struct {
	db      *gorm.DB
	objects storage.ObjectStore
	maxSize int64
	log     log.LoggerService
	now     func() time.Time
}

type AssetStoreOption func(*GormAssetStore)

// WithObjectStore moves attachment bytes into objects.
func WithObjectStore(objects storage.ObjectStore) AssetStoreOption {
	return func(s *GormAssetStore) {
		s.objects = objects
	}
}

// WithMaxFileSize overrides DefaultMaxFileSize.
func WithMaxFileSize(size int64) AssetStoreOption {
	return func(s *GormAssetStore) {
		if size > 0 {
			s.maxSize = size
		}
	}
}

func NewAssetStore(db *gorm.DB, logger log.LoggerService, opts ...AssetStoreOption) *GormAssetStore {
	s := &GormAssetStore{
		db:      db,
		maxSize: DefaultMaxFileSize,
		log:     logger,
		now: func() time.Time {
			return time.Now().UTC()
		},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// MaxFileSize returns the configured per-file ceiling.
func (s *GormAssetStore) MaxFileSize() int64 {
	return s.maxSize
}

func (s *GormAssetStore) Create(ctx context.Context, ownerID, parentRecordID, name, mimeType string, data []byte) (*models.FileAsset, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("%w: owner is required", ErrValidation)
	}
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: file name is required", ErrValidation)
	}
	if int64(len(data)) > s.maxSize {
		return nil, fmt.Errorf("%w: '%s' is %d bytes, limit is %d", ErrPayloadTooLarge, name, len(data), s.maxSize)
	}

	now := s.now()
	asset := &models.FileAsset{
		ID:             uuid.NewString(),
		OwnerID:        ownerID,
		ParentRecordID: parentRecordID,
		OriginalName:   name,
		StoredName:     fmt.Sprintf("%d_%s", now.UnixMilli(), name),
		MimeType:       mimeType,
		SizeBytes:      int64(len(data)),
		Active:         true,
		UploadedAt:     now,
	}

	if s.objects != nil {
		asset.StorageKey = fmt.Sprintf("%s/%s/%s", ownerID, asset.ID, asset.StoredName)
		if err := s.objects.Put(ctx, asset.StorageKey, data, mimeType); err != nil {
			return nil, unavailable(err)
		}
	} else {
		asset.Data = data
	}

	if err := s.db.WithContext(ctx).Create(asset).Error; err != nil {
		if s.objects != nil {
			if derr := s.objects.Delete(ctx, asset.StorageKey); derr != nil {
				s.log.Warn("Failed to remove orphaned object '%s': %v", asset.StorageKey, derr)
			}
		}
		return nil, unavailable(err)
	}

	asset.Data = data
	return asset, nil
}

func (s *GormAssetStore) Fetch(ctx context.Context, id, ownerID string) (*models.FileAsset, error) {
	var asset models.FileAsset
	if err := findOwned(ctx, s.db, &asset, id, ownerID, activeOnly); err != nil {
		return nil, err
	}
	if err := s.hydrate(ctx, &asset); err != nil {
		return nil, err
	}
	return &asset, nil
}

func (s *GormAssetStore) SoftDelete(ctx context.Context, id, ownerID string) (*models.FileAsset, error) {
	var asset models.FileAsset
	if err := findOwned(ctx, s.db, &asset, id, ownerID, withoutData); err != nil {
		return nil, err
	}
	if !asset.Active {
		return &asset, nil
	}

	err := s.db.WithContext(ctx).
		Model(&models.FileAsset{}).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Update("active", false).Error
	if err != nil {
		return nil, unavailable(err)
	}

	asset.Active = false
	return &asset, nil
}

func (s *GormAssetStore) ListActiveByIDs(ctx context.Context, ids []string, ownerID string) ([]models.FileAsset, error) {
	if len(ids) == 0 || ownerID == "" {
		return []models.FileAsset{}, nil
	}

	var found []models.FileAsset
	err := s.db.WithContext(ctx).
		Scopes(ownedBy(ownerID), activeOnly).
		Where("id IN ?", ids).
		Find(&found).Error
	if err != nil {
		return nil, unavailable(err)
	}

	byID := make(map[string]models.FileAsset, len(found))
	for _, asset := range found {
		byID[asset.ID] = asset
	}

	assets := make([]models.FileAsset, 0, len(found))
	for _, id := range ids {
		asset, ok := byID[id]
		if !ok {
			continue
		}
		if err := s.hydrate(ctx, &asset); err != nil {
			s.log.Warn("Dropping attachment '%s' from listing: %v", id, err)
			continue
		}
		assets = append(assets, asset)
	}

	return assets, nil
}

func (s *GormAssetStore) ListActiveByOwner(ctx context.Context, ownerID string) ([]models.FileAsset, error) {
	var assets []models.FileAsset
	if ownerID == "" {
		return assets, nil
	}

	err := s.db.WithContext(ctx).
		Scopes(ownedBy(ownerID), activeOnly, withoutData).
		Order("uploaded_at DESC").
		Find(&assets).Error
	if err != nil {
		return nil, unavailable(err)
	}
	return assets, nil
}

// hydrate loads the bytes of assets kept in the object store.
func (s *GormAssetStore) hydrate(ctx context.Context, asset *models.FileAsset) error {
	if asset.StorageKey == "" {
		return nil
	}
	if s.objects == nil {
		return unavailable(fmt.Errorf("asset '%s' is stored externally but no object store is configured", asset.ID))
	}

	data, err := s.objects.Get(ctx, asset.StorageKey)
	if err != nil {
		return unavailable(err)
	}
	asset.Data = data
	return nil
}

func activeOnly(db *gorm.DB) *gorm.DB {
	return db.Where("active = ?", true)
}

func withoutData(db *gorm.DB) *gorm.DB {
	return db.Omit("data")
}

func ownedBy(ownerID string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("owner_id = ?", ownerID)
	}
}

// findOwned resolves id against the rows of ownerID. It is the only place ids
// are resolved, so a missing row and a foreign row both surface as ErrNotFound.
func findOwned(ctx context.Context, db *gorm.DB, dst any, id, ownerID string, scopes ...func(*gorm.DB) *gorm.DB) error {
	if id == "" || ownerID == "" {
		return ErrNotFound
	}

	err := db.WithContext(ctx).
		Scopes(ownedBy(ownerID)).
		Scopes(scopes...).
		Where("id = ?", id).
		First(dst).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return unavailable(err)
	}
	return nil
}
