package vault

import (
	"context"
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"github.com/mwantia/notevault/pkg/db/models"
	"github.com/mwantia/notevault/pkg/db/store"
	"github.com/mwantia/notevault/pkg/log"
)

const (
	DefaultMaxFiles = 10
	defaultMimeType = "application/octet-stream"
)

// Coordinator runs the multi-step operations that span records and assets.
//
// Nothing is locked: two calls mutating the same record may both read its
// reference list and the later write wins. Uploads are not rolled back when
// a later step fails; whatever was persisted stays persisted.
type Coordinator struct {
	records store.RecordStore
	assets  store.AssetStore
	log     log.LoggerService
	limits  Limits
}

func NewCoordinator(records store.RecordStore, assets store.AssetStore, logger log.LoggerService, limits Limits) *Coordinator {
	if limits.MaxFiles <= 0 {
		limits.MaxFiles = DefaultMaxFiles
	}
	if limits.MaxFileSize <= 0 {
		limits.MaxFileSize = store.DefaultMaxFileSize
	}

	return &Coordinator{
		records: records,
		assets:  assets,
		log:     logger,
		limits:  limits,
	}
}

// CreateWithFiles creates a record and uploads files under it in order.
//
// Limits are checked before anything is written. If an upload fails the
// remaining files are skipped, the files already stored are still attached,
// and the returned view is accompanied by the error.
func (c *Coordinator) CreateWithFiles(ctx context.Context, ownerID, title, content string, files []File) (*RecordView, error) {
	if err := c.validateFiles(files, 0); err != nil {
		return nil, err
	}

	record, err := c.records.Create(ctx, ownerID, title, content)
	if err != nil {
		return nil, err
	}
	recordsCreatedTotal.Inc()
	c.log.Debug("Created record '%s' for owner '%s'", record.ID, ownerID)

	if len(files) == 0 {
		return c.view(ctx, record), nil
	}

	uploaded, uploadErr := c.upload(ctx, ownerID, record.ID, files)
	if len(uploaded) > 0 {
		ids := make([]string, 0, len(uploaded))
		for _, asset := range uploaded {
			ids = append(ids, asset.ID)
		}

		updated, err := c.records.AppendAttachmentRefs(ctx, record.ID, ownerID, ids)
		if err != nil {
			return c.view(ctx, record), fmt.Errorf("failed to attach %d uploaded files to record '%s': %w", len(ids), record.ID, err)
		}
		record = updated
	}

	if len(files) == 1 && len(uploaded) == 1 {
		asset := uploaded[0]
		updated, err := c.records.SetLegacyInlineFile(ctx, record.ID, ownerID, &models.LegacyInlineFile{
			Name:     asset.OriginalName,
			Data:     asset.Data,
			MimeType: asset.MimeType,
			Size:     asset.SizeBytes,
			AssetID:  asset.ID,
		})
		if err != nil {
			return c.view(ctx, record), fmt.Errorf("failed to mirror single file of record '%s': %w", record.ID, err)
		}
		record = updated
	}

	return c.view(ctx, record), uploadErr
}

// AppendFiles uploads files under an existing record and appends them to its
// references. The inline mirror is a creation-time snapshot and is left alone.
// Partial failures behave as in CreateWithFiles.
func (c *Coordinator) AppendFiles(ctx context.Context, recordID, ownerID string, files []File) (*RecordView, error) {
	if err := c.validateFiles(files, 1); err != nil {
		return nil, err
	}

	record, err := c.records.Get(ctx, recordID, ownerID)
	if err != nil {
		return nil, err
	}

	uploaded, uploadErr := c.upload(ctx, ownerID, record.ID, files)
	if len(uploaded) > 0 {
		ids := make([]string, 0, len(uploaded))
		for _, asset := range uploaded {
			ids = append(ids, asset.ID)
		}

		updated, err := c.records.AppendAttachmentRefs(ctx, record.ID, ownerID, ids)
		if err != nil {
			return c.view(ctx, record), fmt.Errorf("failed to attach %d uploaded files to record '%s': %w", len(ids), record.ID, err)
		}
		record = updated
	}

	return c.view(ctx, record), uploadErr
}

// DeleteFile soft-deletes one asset and detaches it from its parent record.
// Repeating the call is harmless.
func (c *Coordinator) DeleteFile(ctx context.Context, assetID, ownerID string) error {
	asset, err := c.assets.SoftDelete(ctx, assetID, ownerID)
	if err != nil {
		return err
	}
	assetsSoftDeletedTotal.Inc()

	if asset.ParentRecordID == "" {
		return nil
	}
	if err := c.records.DetachAttachmentRef(ctx, asset.ParentRecordID, asset.ID); err != nil {
		return fmt.Errorf("failed to detach file '%s' from record '%s': %w", asset.ID, asset.ParentRecordID, err)
	}
	return nil
}

// FetchFileBytes returns the content of an active asset.
func (c *Coordinator) FetchFileBytes(ctx context.Context, assetID, ownerID string) (*Payload, error) {
	asset, err := c.assets.Fetch(ctx, assetID, ownerID)
	if err != nil {
		return nil, err
	}
	return &Payload{
		Name:     asset.OriginalName,
		MimeType: asset.MimeType,
		Size:     asset.SizeBytes,
		Data:     asset.Data,
	}, nil
}

// FetchLegacyFile returns the inline file of a record.
func (c *Coordinator) FetchLegacyFile(ctx context.Context, recordID, ownerID string) (*Payload, error) {
	record, err := c.records.Get(ctx, recordID, ownerID)
	if err != nil {
		return nil, err
	}

	inline := record.LegacyInlineFile()
	if inline == nil {
		return nil, store.ErrNotFound
	}
	return &Payload{
		Name:     inline.Name,
		MimeType: inline.MimeType,
		Size:     inline.Size,
		Data:     inline.Data,
	}, nil
}

func (c *Coordinator) GetRecord(ctx context.Context, recordID, ownerID string) (*RecordView, error) {
	record, err := c.records.Get(ctx, recordID, ownerID)
	if err != nil {
		return nil, err
	}
	return c.view(ctx, record), nil
}

// ListRecords returns the owner's records, newest first.
func (c *Coordinator) ListRecords(ctx context.Context, ownerID string) ([]RecordView, error) {
	records, err := c.records.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	views := make([]RecordView, 0, len(records))
	for i := range records {
		views = append(views, *c.view(ctx, &records[i]))
	}
	return views, nil
}

// UpdateRecord changes title and content only.
func (c *Coordinator) UpdateRecord(ctx context.Context, recordID, ownerID string, update store.RecordUpdate) (*RecordView, error) {
	record, err := c.records.Update(ctx, recordID, ownerID, update)
	if err != nil {
		return nil, err
	}
	return c.view(ctx, record), nil
}

// DeleteRecord removes a record and soft-deletes its attachments.
func (c *Coordinator) DeleteRecord(ctx context.Context, recordID, ownerID string) (*store.CascadeReport, error) {
	report, err := c.records.Delete(ctx, recordID, ownerID)
	if err != nil {
		return nil, err
	}
	cascadeFailuresTotal.Add(float64(len(report.Failed())))
	return report, nil
}

// ListFiles returns metadata of every active asset of the owner.
func (c *Coordinator) ListFiles(ctx context.Context, ownerID string) ([]models.FileAsset, error) {
	return c.assets.ListActiveByOwner(ctx, ownerID)
}

// upload stores files in order and stops at the first failure.
func (c *Coordinator) upload(ctx context.Context, ownerID, recordID string, files []File) ([]*models.FileAsset, error) {
	uploaded := make([]*models.FileAsset, 0, len(files))
	for i, file := range files {
		asset, err := c.assets.Create(ctx, ownerID, recordID, file.name(), file.mimeType(), file.Data)
		if err != nil {
			assetUploadFailuresTotal.Inc()
			c.log.Warn("Upload %d/%d ('%s') for record '%s' failed, skipping the rest: %v", i+1, len(files), file.Name, recordID, err)
			return uploaded, fmt.Errorf("upload of '%s' failed after %d of %d files: %w", file.Name, len(uploaded), len(files), err)
		}
		uploaded = append(uploaded, asset)
	}

	assetsUploadedTotal.Add(float64(len(uploaded)))
	return uploaded, nil
}

func (c *Coordinator) validateFiles(files []File, min int) error {
	if len(files) < min {
		return fmt.Errorf("%w: no files uploaded", store.ErrValidation)
	}
	if len(files) > c.limits.MaxFiles {
		return fmt.Errorf("%w: %d files exceed the limit of %d per call", store.ErrValidation, len(files), c.limits.MaxFiles)
	}

	for _, file := range files {
		if file.name() == "" {
			return fmt.Errorf("%w: file name is required", store.ErrValidation)
		}
		if !validName(file.name()) {
			return fmt.Errorf("%w: '%s' is not a valid file name", store.ErrValidation, file.Name)
		}
		if int64(len(file.Data)) > c.limits.MaxFileSize {
			return fmt.Errorf("%w: %w: '%s' is %d bytes, limit is %d", store.ErrValidation, store.ErrPayloadTooLarge, file.Name, len(file.Data), c.limits.MaxFileSize)
		}
	}
	return nil
}

func (c *Coordinator) view(ctx context.Context, record *models.DataRecord) *RecordView {
	attachments, err := ResolveAttachments(ctx, record, c.assets)
	if err != nil {
		resolveFailuresTotal.Inc()
		c.log.Warn("Failed to resolve attachments of record '%s': %v", record.ID, err)
		attachments = []Attachment{}
	}
	return &RecordView{
		Record:      record,
		Attachments: attachments,
	}
}

func (f File) name() string {
	name := strings.TrimSpace(f.Name)
	if name == "" {
		return ""
	}
	return filepath.Base(name)
}

// validName rejects names that still point at a directory after name().
func validName(name string) bool {
	if name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, `/\`)
}

// mimeType falls back to the extension, then to application/octet-stream.
func (f File) mimeType() string {
	if f.MimeType != "" {
		return f.MimeType
	}
	if byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(f.Name))); byExt != "" {
		return byExt
	}
	return defaultMimeType
}
