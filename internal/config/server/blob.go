package server

const (
	BlobTypeDatabase = "database"
	BlobTypeMinio    = "minio"
)

// BlobServerConfig selects where attachment bytes live. The "database" type
// keeps them inline in the file_assets table.
type BlobServerConfig struct {
	Type  string          `mapstructure:"type"  yaml:"type"`
	Minio BlobMinioConfig `mapstructure:"minio" yaml:"minio"`
}

type BlobMinioConfig struct {
	Endpoint  string `mapstructure:"endpoint"   yaml:"endpoint"`
	AccessKey string `mapstructure:"access_key" yaml:"access_key"`
	SecretKey string `mapstructure:"secret_key" yaml:"secret_key"`
	Bucket    string `mapstructure:"bucket"     yaml:"bucket"`
	UseSSL    bool   `mapstructure:"use_ssl"    yaml:"use_ssl"`
}
