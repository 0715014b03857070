package server

import "github.com/spf13/viper"

func GetServerDefault() BaseServerConfig {
	return BaseServerConfig{
		ShutdownTimeout: "10s",
		Owner:           "",

		Log: LogServerConfig{
			Level:      "INFO",
			TimeFormat: "2006-01-02 15:04:05",
			File:       "",
			NoColor:    false,
			JSON:       false,
			NoTerminal: false,
			Rotation: LogServerRotationConfig{
				MaxSize:    128,
				MaxBackups: 5,
				MaxAge:     16,
				Compress:   false,
			},
		},
		Metadata: MetadataServerConfig{
			Type: MetadataTypeSQLite,
			SQLite: MetadataSQLiteConfig{
				Path: "notevault.db",
			},
		},
		Blob: BlobServerConfig{
			Type: BlobTypeDatabase,
			Minio: BlobMinioConfig{
				Bucket: "notevault",
				UseSSL: false,
			},
		},
		Limits: LimitsServerConfig{
			MaxFiles:    10,
			MaxFileSize: "10MiB",
		},
		Metrics: MetricsServerConfig{
			Address: "",
		},
	}
}

func setDefaults() {
	defaults := GetServerDefault()

	viper.SetDefault("shutdown_timeout", defaults.ShutdownTimeout)
	viper.SetDefault("owner", defaults.Owner)

	viper.SetDefault("log.level", defaults.Log.Level)
	viper.SetDefault("log.time_format", defaults.Log.TimeFormat)
	viper.SetDefault("log.file", defaults.Log.File)
	viper.SetDefault("log.no_color", defaults.Log.NoColor)
	viper.SetDefault("log.json", defaults.Log.JSON)
	viper.SetDefault("log.no_terminal", defaults.Log.NoTerminal)
	viper.SetDefault("log.rotation.max_size", defaults.Log.Rotation.MaxSize)
	viper.SetDefault("log.rotation.max_backups", defaults.Log.Rotation.MaxBackups)
	viper.SetDefault("log.rotation.max_age", defaults.Log.Rotation.MaxAge)
	viper.SetDefault("log.rotation.compress", defaults.Log.Rotation.Compress)

	viper.SetDefault("metadata.type", defaults.Metadata.Type)
	viper.SetDefault("metadata.sqlite.path", defaults.Metadata.SQLite.Path)
	viper.SetDefault("metadata.postgres.dsn", defaults.Metadata.Postgres.DSN)

	viper.SetDefault("blob.type", defaults.Blob.Type)
	viper.SetDefault("blob.minio.endpoint", defaults.Blob.Minio.Endpoint)
	viper.SetDefault("blob.minio.access_key", defaults.Blob.Minio.AccessKey)
	viper.SetDefault("blob.minio.secret_key", defaults.Blob.Minio.SecretKey)
	viper.SetDefault("blob.minio.bucket", defaults.Blob.Minio.Bucket)
	viper.SetDefault("blob.minio.use_ssl", defaults.Blob.Minio.UseSSL)

	viper.SetDefault("limits.max_files", defaults.Limits.MaxFiles)
	viper.SetDefault("limits.max_file_size", defaults.Limits.MaxFileSize)

	viper.SetDefault("metrics.address", defaults.Metrics.Address)
}
