package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "artifacts/model.json", cfg.Artifacts.Model)
	assert.Equal(t, "", cfg.Artifacts.MakeTypes)
	assert.Equal(t, 2025, cfg.Features.ReferenceYear)
	assert.Equal(t, 2025, cfg.UI.MaxYear)
	assert.Equal(t, 2023, cfg.UI.DefaultYear)
	assert.Equal(t, 10, cfg.Samples.Count)
	assert.True(t, cfg.Metrics.Enabled)
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, time.Hour, cfg.Cache.TTL)
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	file := filepath.Join(dir, "carprice.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
server:
  address: ":9090"
features:
  reference_year: 2024
cache:
  enabled: true
  ttl: 5m
`), 0o600))
	t.Setenv("CARPRICE_SAMPLES_COUNT", "3")
	t.Setenv("CARPRICE_LOGGING_LEVEL", "debug")

	cfg, err := Load(viper.New(), file)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Address)
	assert.Equal(t, 2024, cfg.Features.ReferenceYear)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, 3, cfg.Samples.Count)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadServerAddressOverride(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("SERVER_ADDRESS", ":7070")

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.Server.Address)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("CARPRICE_UI_DEFAULT_YEAR=2019\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("CARPRICE_UI_DEFAULT_YEAR") })

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)
	assert.Equal(t, 2019, cfg.UI.DefaultYear)
}

func TestLoadInvalid(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("CARPRICE_SAMPLES_COUNT", "-1")

	_, err := Load(viper.New(), "")
	assert.ErrorContains(t, err, "samples.count")

	_, err = Load(viper.New(), "missing.yaml")
	assert.Error(t, err)
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatalf("restore working directory: %v", err)
		}
	})
}
