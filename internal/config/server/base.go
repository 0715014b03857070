package server

import (
	"fmt"

	"github.com/spf13/viper"
)

type BaseServerConfig struct {
	ShutdownTimeout string `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	Owner           string `mapstructure:"owner"            yaml:"owner"`

	Log      LogServerConfig      `mapstructure:"log"      yaml:"log"`
	Metadata MetadataServerConfig `mapstructure:"metadata" yaml:"metadata"`
	Blob     BlobServerConfig     `mapstructure:"blob"     yaml:"blob"`
	Limits   LimitsServerConfig   `mapstructure:"limits"   yaml:"limits"`
	Metrics  MetricsServerConfig  `mapstructure:"metrics"  yaml:"metrics"`
}

func LoadServerConfig() (*BaseServerConfig, error) {
	cfg := &BaseServerConfig{}

	setDefaults()

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the settings that cannot be fixed up by defaults.
func (cfg *BaseServerConfig) Validate() error {
	switch cfg.Metadata.Type {
	case MetadataTypeSQLite:
		if cfg.Metadata.SQLite.Path == "" {
			return fmt.Errorf("metadata.sqlite.path is required")
		}
	case MetadataTypePostgres:
		if cfg.Metadata.Postgres.DSN == "" {
			return fmt.Errorf("metadata.postgres.dsn is required")
		}
	default:
		return fmt.Errorf("unsupported metadata type '%s'", cfg.Metadata.Type)
	}

	switch cfg.Blob.Type {
	case BlobTypeDatabase:
	case BlobTypeMinio:
		if cfg.Blob.Minio.Endpoint == "" || cfg.Blob.Minio.Bucket == "" {
			return fmt.Errorf("blob.minio.endpoint and blob.minio.bucket are required")
		}
	default:
		return fmt.Errorf("unsupported blob type '%s'", cfg.Blob.Type)
	}

	if cfg.Limits.MaxFiles <= 0 {
		return fmt.Errorf("limits.max_files must be positive")
	}
	if _, err := cfg.Limits.MaxFileSizeBytes(); err != nil {
		return err
	}

	return nil
}
