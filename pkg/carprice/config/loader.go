package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. CARPRICE_SERVER_ADDRESS.
const EnvPrefix = "CARPRICE"

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Second)
	v.SetDefault("server.shutdown_timeout", 5*time.Second)

	v.SetDefault("artifacts.model", "artifacts/model.json")
	v.SetDefault("artifacts.model_info", "artifacts/model_info.json")
	v.SetDefault("artifacts.categorical_values", "artifacts/categorical_values.json")
	v.SetDefault("artifacts.make_types", "")

	v.SetDefault("datasets.test", "artifacts/test_dataset_readable.csv")
	v.SetDefault("datasets.reference", "artifacts/UsedCarsSA_Clean_EN.csv")

	v.SetDefault("features.reference_year", 2025)
	v.SetDefault("ui.max_year", 2025)
	v.SetDefault("ui.default_year", 2023)
	v.SetDefault("samples.count", 10)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("metrics.enabled", true)

	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.address", "localhost:6379")
	v.SetDefault("cache.password", "")
	v.SetDefault("cache.db", 0)
	v.SetDefault("cache.ttl", time.Hour)
}

// Load reads .env, an optional config file and the environment into a Config.
// configFile may be empty, in which case config.yaml is searched for in
// ./configs and the working directory.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	loadEnvFile()

	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config %s: %w", configFile, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("error reading base config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// SERVER_ADDRESS predates the prefixed variables and still wins when set.
	if addr := os.Getenv("SERVER_ADDRESS"); addr != "" {
		cfg.Server.Address = addr
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func loadEnvFile() {
	for _, path := range []string{".env", "../.env"} {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

func validateConfig(cfg *Config) error {
	if cfg.Server.Address == "" {
		return fmt.Errorf("server.address is required")
	}
	if cfg.Artifacts.Model == "" {
		return fmt.Errorf("artifacts.model is required")
	}
	if cfg.Artifacts.ModelInfo == "" {
		return fmt.Errorf("artifacts.model_info is required")
	}
	if cfg.Artifacts.CategoricalValues == "" {
		return fmt.Errorf("artifacts.categorical_values is required")
	}
	if cfg.Samples.Count < 0 {
		return fmt.Errorf("samples.count must not be negative: %d", cfg.Samples.Count)
	}
	if cfg.Cache.Enabled && cfg.Cache.Address == "" {
		return fmt.Errorf("cache.address is required when the cache is enabled")
	}
	return nil
}
