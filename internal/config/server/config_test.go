package server

import (
	"testing"

	"github.com/spf13/viper"
)

func TestLoadServerConfigDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	cfg, err := LoadServerConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Metadata.Type != MetadataTypeSQLite {
		t.Fatalf("metadata.type = %q, want %q", cfg.Metadata.Type, MetadataTypeSQLite)
	}
	if cfg.Limits.MaxFiles != 10 {
		t.Fatalf("limits.max_files = %d, want 10", cfg.Limits.MaxFiles)
	}
	size, err := cfg.Limits.MaxFileSizeBytes()
	if err != nil {
		t.Fatalf("max file size: %v", err)
	}
	if size != 10<<20 {
		t.Fatalf("max file size = %d, want %d", size, 10<<20)
	}
}

func TestValidateRejectsUnknownBlobType(t *testing.T) {
	cfg := GetServerDefault()
	cfg.Blob.Type = "tape"

	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected validation error for blob type %q", cfg.Blob.Type)
	}
}

func TestValidateRequiresPostgresDSN(t *testing.T) {
	cfg := GetServerDefault()
	cfg.Metadata.Type = MetadataTypePostgres

	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected validation error without postgres dsn")
	}

	cfg.Metadata.Postgres.DSN = "postgres://notevault@localhost:5432/notevault"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestMaxFileSizeBytesRejectsGarbage(t *testing.T) {
	limits := LimitsServerConfig{MaxFiles: 10, MaxFileSize: "lots"}
	if _, err := limits.MaxFileSizeBytes(); err == nil {
		t.Fatalf("expected parse error")
	}
}
