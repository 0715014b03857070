package store

import (
	"context"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/mwantia/notevault/pkg/db/migrations"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DialectSQLite   = "sqlite"
	DialectPostgres = "postgres"
)

// Database wraps the GORM connection shared by the record and asset stores.
type Database struct {
	db      *gorm.DB
	dialect string
}

// DatabaseConfig selects the dialect and connection settings.
type DatabaseConfig struct {
	Dialect      string
	SQLitePath   string
	PostgresDSN  string
	MaxOpenConns int
	LogLevel     logger.LogLevel
}

// NewDatabase opens a metadata database for the configured dialect.
func NewDatabase(cfg DatabaseConfig) (*Database, error) {
	var dialector gorm.Dialector

	switch cfg.Dialect {
	case DialectSQLite, "":
		if cfg.SQLitePath == "" {
			return nil, fmt.Errorf("sqlite path is required")
		}
		cfg.Dialect = DialectSQLite
		dialector = sqlite.Open(cfg.SQLitePath)
	case DialectPostgres:
		if cfg.PostgresDSN == "" {
			return nil, fmt.Errorf("postgres dsn is required")
		}
		dialector = postgres.Open(cfg.PostgresDSN)
	default:
		return nil, fmt.Errorf("unsupported dialect '%s'", cfg.Dialect)
	}

	// Default to silent logging
	if cfg.LogLevel == 0 {
		cfg.LogLevel = logger.Silent
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(cfg.LogLevel),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", cfg.Dialect, err)
	}

	if cfg.Dialect == DialectPostgres && cfg.MaxOpenConns > 0 {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get database instance: %w", err)
		}
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}

	return &Database{
		db:      db,
		dialect: cfg.Dialect,
	}, nil
}

// DB returns the underlying GORM database instance
func (s *Database) DB() *gorm.DB {
	return s.db
}

// Connect initializes the database connection
func (s *Database) Connect(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	if s.dialect == DialectSQLite {
		sqlDB.SetMaxOpenConns(1) // SQLite only supports 1 writer
		sqlDB.SetMaxIdleConns(1)
	}
	sqlDB.SetConnMaxLifetime(time.Hour)

	return sqlDB.PingContext(ctx)
}

// Close closes the database connection
func (s *Database) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	return sqlDB.Close()
}

// Init connects the database once it is first resolved from a service container.
func (s *Database) Init(ctx context.Context) error {
	return s.Connect(ctx)
}

// Cleanup closes the database during service container shutdown.
func (s *Database) Cleanup(ctx context.Context) error {
	return s.Close()
}

// Migrate applies all pending schema generations.
func (s *Database) Migrate(ctx context.Context) error {
	return migrations.NewMigrator(s.db).Migrate(ctx)
}

// Migrator exposes status and rollback for the db commands.
func (s *Database) Migrator() *migrations.Migrator {
	return migrations.NewMigrator(s.db)
}

// Health checks database connectivity
func (s *Database) Health(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	return sqlDB.PingContext(ctx)
}
