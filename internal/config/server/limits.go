package server

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

type LimitsServerConfig struct {
	MaxFiles    int    `mapstructure:"max_files"     yaml:"max_files"`
	MaxFileSize string `mapstructure:"max_file_size" yaml:"max_file_size"`
}

// MaxFileSizeBytes parses MaxFileSize ("10MiB", "512KB", "1048576").
func (cfg LimitsServerConfig) MaxFileSizeBytes() (int64, error) {
	size, err := humanize.ParseBytes(cfg.MaxFileSize)
	if err != nil {
		return 0, fmt.Errorf("invalid limits.max_file_size '%s': %w", cfg.MaxFileSize, err)
	}
	if size == 0 {
		return 0, fmt.Errorf("limits.max_file_size must be positive")
	}
	return int64(size), nil
}
