package log

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	config "github.com/mwantia/notevault/internal/config/server"
)

func TestLoggerServiceFiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerServiceWithWriter("notevault", config.LogServerConfig{Level: "warn"}, &buf)

	logger.Info("hidden %d", 1)
	logger.Warn("shown %d", 2)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info entry should be filtered: %q", out)
	}
	if !strings.Contains(out, "shown 2") {
		t.Fatalf("warn entry missing: %q", out)
	}
}

func TestLoggerServiceNamedJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerServiceWithWriter("notevault", config.LogServerConfig{Level: "debug", JSON: true}, &buf)

	logger.Named("vault").Debug("record %s created", "r-1")

	var entry logEntry
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("decode entry: %v", err)
	}
	if entry.Service != "notevault/vault" {
		t.Fatalf("service = %q, want %q", entry.Service, "notevault/vault")
	}
	if entry.Level != "DEBUG" {
		t.Fatalf("level = %q, want DEBUG", entry.Level)
	}
	if entry.Message != "record r-1 created" {
		t.Fatalf("message = %q", entry.Message)
	}
}

func TestParseFallsBackToInfo(t *testing.T) {
	if got := Parse("verbose"); got != Info {
		t.Fatalf("Parse(verbose) = %v, want INFO", got)
	}
	if got := Parse(" ERROR "); got != Error {
		t.Fatalf("Parse(ERROR) = %v, want ERROR", got)
	}
}
