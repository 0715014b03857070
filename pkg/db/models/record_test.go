package models

import (
	"bytes"
	"testing"
)

func TestLegacyInlineFileRoundTrip(t *testing.T) {
	record := &DataRecord{ID: "r-1"}
	if record.LegacyInlineFile() != nil {
		t.Fatalf("expected no inline file on a fresh record")
	}

	record.SetLegacyInlineFile(&LegacyInlineFile{
		Name:     "a.txt",
		Data:     []byte("hello"),
		MimeType: "text/plain",
		Size:     5,
		AssetID:  "a-1",
	})

	got := record.LegacyInlineFile()
	if got == nil {
		t.Fatalf("expected inline file")
	}
	if got.Name != "a.txt" || got.MimeType != "text/plain" || got.Size != 5 || got.AssetID != "a-1" {
		t.Fatalf("unexpected inline file: %+v", got)
	}
	if !bytes.Equal(got.Data, []byte("hello")) {
		t.Fatalf("unexpected inline data: %q", got.Data)
	}

	record.SetLegacyInlineFile(nil)
	if record.LegacyInlineFile() != nil {
		t.Fatalf("expected inline file to be cleared")
	}
}

func TestRefsReturnsCopy(t *testing.T) {
	record := &DataRecord{AttachmentRefs: []string{"a", "b"}}
	refs := record.Refs()
	refs[0] = "z"

	if record.AttachmentRefs[0] != "a" {
		t.Fatalf("Refs must not alias the record slice")
	}
}
