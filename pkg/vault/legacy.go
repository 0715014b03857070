package vault

import (
	"context"

	"github.com/mwantia/notevault/pkg/db/models"
)

// AssetLister is the read side of the asset store used to resolve references.
type AssetLister interface {
	ListActiveByIDs(ctx context.Context, ids []string, ownerID string) ([]models.FileAsset, error)
}

// ResolveAttachments unifies both stored shapes of a record's files. Records
// with references resolve through assets; otherwise the inline file, if any,
// becomes a single attachment without an id. It never writes.
func ResolveAttachments(ctx context.Context, record *models.DataRecord, assets AssetLister) ([]Attachment, error) {
	if len(record.AttachmentRefs) > 0 {
		resolved, err := assets.ListActiveByIDs(ctx, record.Refs(), record.OwnerID)
		if err != nil {
			return nil, err
		}

		attachments := make([]Attachment, 0, len(resolved))
		for _, asset := range resolved {
			attachments = append(attachments, Attachment{
				ID:       asset.ID,
				Name:     asset.OriginalName,
				MimeType: asset.MimeType,
				Size:     asset.SizeBytes,
				Data:     asset.Data,
			})
		}
		return attachments, nil
	}

	if inline := record.LegacyInlineFile(); inline != nil {
		return []Attachment{{
			Name:     inline.Name,
			MimeType: inline.MimeType,
			Size:     inline.Size,
			Data:     inline.Data,
		}}, nil
	}

	return []Attachment{}, nil
}
