package vault

import "github.com/mwantia/notevault/pkg/db/models"

// File is one uploaded file as received from the transport.
type File struct {
	Name     string
	MimeType string
	Data     []byte
}

// Attachment is the unified view of a record's files. ID is empty for the
// inline file of records that predate file assets; such files are fetched
// through the record id instead.
type Attachment struct {
	ID       string
	Name     string
	MimeType string
	Size     int64
	Data     []byte
}

// Legacy reports whether the attachment comes from the inline single-file mirror.
func (a Attachment) Legacy() bool {
	return a.ID == ""
}

// RecordView is a record together with its resolved attachments.
type RecordView struct {
	Record      *models.DataRecord
	Attachments []Attachment
}

// Payload is the raw content of one file.
type Payload struct {
	Name     string
	MimeType string
	Size     int64
	Data     []byte
}

// Limits bound a single create or append call.
type Limits struct {
	MaxFiles    int
	MaxFileSize int64
}
