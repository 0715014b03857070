package server

type MetricsServerConfig struct {
	Address string `mapstructure:"address" yaml:"address"`
}
