package config

import "time"

// Config is the main application configuration struct.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Artifacts ArtifactsConfig `mapstructure:"artifacts"`
	Datasets  DatasetsConfig  `mapstructure:"datasets"`
	Features  FeaturesConfig  `mapstructure:"features"`
	UI        UIConfig        `mapstructure:"ui"`
	Samples   SamplesConfig   `mapstructure:"samples"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Cache     CacheConfig     `mapstructure:"cache"`
}

type ServerConfig struct {
	Address         string        `mapstructure:"address"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// ArtifactsConfig locates the files exported by the training pipeline.
// Model, ModelInfo and CategoricalValues are mandatory.
type ArtifactsConfig struct {
	Model             string `mapstructure:"model"`
	ModelInfo         string `mapstructure:"model_info"`
	CategoricalValues string `mapstructure:"categorical_values"`
	MakeTypes         string `mapstructure:"make_types"`
}

// DatasetsConfig locates the optional CSV datasets.
type DatasetsConfig struct {
	Test      string `mapstructure:"test"`
	Reference string `mapstructure:"reference"`
}

type FeaturesConfig struct {
	ReferenceYear int `mapstructure:"reference_year"`
}

// UIConfig holds the year slider settings of the home page.
type UIConfig struct {
	MaxYear     int `mapstructure:"max_year"`
	DefaultYear int `mapstructure:"default_year"`
}

type SamplesConfig struct {
	Count int `mapstructure:"count"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// CacheConfig configures the optional Redis prediction cache.
type CacheConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Address  string        `mapstructure:"address"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}
