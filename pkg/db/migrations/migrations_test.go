package migrations

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/mwantia/notevault/pkg/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "migrations.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

func TestMigrateAppliesEveryGeneration(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	m := NewMigrator(db)

	if err := m.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	statuses, err := m.Status(ctx)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if len(statuses) != m.Latest() {
		t.Fatalf("expected %d statuses, got %d", m.Latest(), len(statuses))
	}
	for _, status := range statuses {
		if !status.Applied {
			t.Fatalf("migration %d not applied", status.Version)
		}
	}

	if !db.Migrator().HasColumn("file_assets", "active") {
		t.Fatalf("expected file_assets.active after migrating")
	}
	if !db.Migrator().HasColumn("data_records", "attachment_refs") {
		t.Fatalf("expected data_records.attachment_refs after migrating")
	}

	// Running again is a no-op.
	if err := m.Migrate(ctx); err != nil {
		t.Fatalf("second migrate: %v", err)
	}
}

func TestMigrateBackfillsReferencesOfInlineRecords(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	m := NewMigrator(db)

	if err := m.MigrateTo(ctx, 1); err != nil {
		t.Fatalf("migrate to 1: %v", err)
	}
	if db.Migrator().HasTable("file_assets") {
		t.Fatalf("file_assets must not exist in the first generation")
	}

	err := db.Exec(`INSERT INTO data_records (id, owner_id, title, file_name, file_data, file_mime_type, file_size, created_at)
		VALUES ('r-1', 'owner-a', 'Old', 'old.txt', X'6869', 'text/plain', 2, '2024-01-01 00:00:00')`).Error
	if err != nil {
		t.Fatalf("insert inline record: %v", err)
	}

	if err := m.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	var refs string
	if err := db.Raw("SELECT attachment_refs FROM data_records WHERE id = ?", "r-1").Scan(&refs).Error; err != nil {
		t.Fatalf("read refs: %v", err)
	}
	if refs != "[]" {
		t.Fatalf("attachment_refs = %q, want []", refs)
	}
}

func TestRollbackRemovesSoftDeleteColumn(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	m := NewMigrator(db)

	if err := m.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := m.Rollback(ctx); err != nil {
		t.Fatalf("rollback: %v", err)
	}

	if db.Migrator().HasColumn("file_assets", "active") {
		t.Fatalf("expected file_assets.active to be dropped")
	}

	statuses, err := m.Status(ctx)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if statuses[len(statuses)-1].Applied {
		t.Fatalf("latest migration still marked as applied")
	}
}

func TestMigrateToRejectsTargetBelowCurrent(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	m := NewMigrator(db)

	if err := m.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := m.MigrateTo(ctx, 1); err == nil {
		t.Fatalf("expected an error when migrating below the applied version")
	}

	current, err := m.Current(ctx)
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	if current != m.Latest() {
		t.Fatalf("current = %d, want %d", current, m.Latest())
	}
	if !db.Migrator().HasColumn("file_assets", "active") {
		t.Fatalf("a rejected target must not change the schema")
	}
}

func TestCurrentTracksPartialMigration(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	m := NewMigrator(db)

	current, err := m.Current(ctx)
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	if current != 0 {
		t.Fatalf("empty schema reported version %d", current)
	}

	if err := m.MigrateTo(ctx, 2); err != nil {
		t.Fatalf("migrate to 2: %v", err)
	}
	if current, _ = m.Current(ctx); current != 2 {
		t.Fatalf("current = %d, want 2", current)
	}
}

func TestLatestGenerationCoversAssetModel(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	if err := NewMigrator(db).Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	for _, model := range []any{&models.FileAsset{}, &models.DataRecord{}} {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(model); err != nil {
			t.Fatalf("parse %T: %v", model, err)
		}
		for _, column := range stmt.Schema.DBNames {
			if !db.Migrator().HasColumn(model, column) {
				t.Fatalf("%s.%s is missing after the latest generation", stmt.Schema.Table, column)
			}
		}
	}

	for _, index := range []string{"idx_assets_owner_active", "idx_assets_parent_active"} {
		if !db.Migrator().HasIndex(&models.FileAsset{}, index) {
			t.Fatalf("index %s is missing", index)
		}
	}
}
