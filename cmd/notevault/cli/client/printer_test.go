package client

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/mwantia/notevault/pkg/db/store"
)

func TestFormatSize(t *testing.T) {
	if got := formatSize(2048, false); got != "2048" {
		t.Fatalf("raw size = %q", got)
	}
	if got := formatSize(2048, true); got != "2.0 KiB" {
		t.Fatalf("human size = %q", got)
	}
}

func TestPrintCascadeListsFailures(t *testing.T) {
	var buf bytes.Buffer
	printCascade(&buf, &store.CascadeReport{
		RecordID: "r-1",
		Attempts: []store.CascadeAttempt{
			{AssetID: "a-1"},
			{AssetID: "a-2", Err: errors.New("boom")},
		},
	})

	out := buf.String()
	if !strings.Contains(out, "1 of 2 attachments deactivated") {
		t.Fatalf("missing summary: %q", out)
	}
	if !strings.Contains(out, "a-2: boom") {
		t.Fatalf("missing failure line: %q", out)
	}
}
