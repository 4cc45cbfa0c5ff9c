package service

import (
	"context"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekruzvatanshoev/carprice/pkg/carprice/config"
	apperrors "github.com/nekruzvatanshoev/carprice/pkg/carprice/errors"
	"github.com/nekruzvatanshoev/carprice/pkg/carprice/logger"
	"github.com/nekruzvatanshoev/carprice/pkg/carprice/logger/loggertest"
	"github.com/nekruzvatanshoev/carprice/pkg/carprice/metrics"
)

func testdata(name string) string {
	return filepath.Join("testdata", name)
}

func testConfig() *config.Config {
	return &config.Config{
		Artifacts: config.ArtifactsConfig{
			Model:             testdata("model.json"),
			ModelInfo:         testdata("model_info.json"),
			CategoricalValues: testdata("categorical_values.json"),
		},
		Datasets: config.DatasetsConfig{
			Test:      testdata("test_dataset_readable.csv"),
			Reference: testdata("reference.csv"),
		},
		Features: config.FeaturesConfig{ReferenceYear: 2025},
		UI:       config.UIConfig{MaxYear: 2025, DefaultYear: 2023},
		Samples:  config.SamplesConfig{Count: 10},
	}
}

func loadApp(t *testing.T, cfg *config.Config) *App {
	t.Helper()
	app, err := Load(context.Background(), cfg, loggertest.New(t))
	require.NoError(t, err)
	t.Cleanup(func() { app.Close() })
	return app
}

func validFields() map[string]string {
	return map[string]string{
		"Make":        "Toyota",
		"Type":        "Land Cruiser",
		"Year":        "2020",
		"Engine_Size": "4.6",
		"Mileage":     "50000",
	}
}

func TestLoad(t *testing.T) {
	app := loadApp(t, testConfig())

	assert.Equal(t, "Ridge Regression", app.Metadata.Name())
	assert.Equal(t, 2015, app.MinYear)
	assert.Equal(t, 2025, app.MaxYear)
	assert.Equal(t, 2023, app.DefaultYear)
	assert.Equal(t, []string{"Camry", "Land Cruiser"}, app.MakeTypes["Toyota"])
	assert.Equal(t, []string{"BMW", "Hyundai", "Toyota"}, app.Values["Make"])
	assert.Nil(t, app.Cache)
}

func TestLoadMandatoryArtifacts(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"Model", func(c *config.Config) { c.Artifacts.Model = testdata("missing.json") }},
		{"ModelInfo", func(c *config.Config) { c.Artifacts.ModelInfo = testdata("missing.json") }},
		{"CategoricalValues", func(c *config.Config) { c.Artifacts.CategoricalValues = testdata("missing.json") }},
		{"ModelInfoIsNotMetadata", func(c *config.Config) { c.Artifacts.ModelInfo = testdata("model.json") }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := testConfig()
			tc.mutate(cfg)
			_, err := Load(context.Background(), cfg, logger.NewNoOpLogger())
			assert.Error(t, err)
		})
	}
}

func TestLoadOptionalDatasets(t *testing.T) {
	cfg := testConfig()
	cfg.Datasets.Test = testdata("missing.csv")
	cfg.Datasets.Reference = ""
	app := loadApp(t, cfg)

	assert.Nil(t, app.Test)
	assert.Nil(t, app.Reference)
	assert.Equal(t, 1990, app.MinYear)
	assert.Empty(t, app.MakeTypes)

	cfg = testConfig()
	cfg.Datasets.Test = testdata("test_no_year.csv")
	app = loadApp(t, cfg)
	assert.Equal(t, 2000, app.MinYear)
}

func TestLoadPrecomputedMakeTypes(t *testing.T) {
	cfg := testConfig()
	cfg.Artifacts.MakeTypes = testdata("make_types.json")
	app := loadApp(t, cfg)
	assert.Equal(t, []string{"Camry"}, app.TypesForMake("Toyota"))
	// Not in the precomputed map: filtered from the reference dataset.
	assert.Equal(t, []string{"X5", "5"}, app.TypesForMake("BMW"))

	cfg.Artifacts.MakeTypes = testdata("missing.json")
	app = loadApp(t, cfg)
	assert.Equal(t, []string{"Camry", "Land Cruiser"}, app.TypesForMake("Toyota"))
}

func TestPredict(t *testing.T) {
	app := loadApp(t, testConfig())
	app.Metrics = metrics.New()

	pred, err := app.Predict(context.Background(), validFields())
	require.NoError(t, err)
	assert.Equal(t, int64(23500000), pred.Price.Raw)
	assert.Equal(t, "23,500,000", pred.Price.Formatted)
	assert.False(t, pred.Cached)
	assert.Equal(t, 1.0, testutil.ToFloat64(app.Metrics.Predictions.WithLabelValues("success")))
}

func TestPredictErrors(t *testing.T) {
	app := loadApp(t, testConfig())
	app.Metrics = metrics.New()

	tests := []struct {
		name    string
		mutate  func(map[string]string)
		code    apperrors.ErrorCode
		message string
	}{
		{"Missing", func(f map[string]string) { f["Mileage"] = "" }, apperrors.ErrCodeMissingField, "Missing value for Mileage"},
		{"UnknownMake", func(f map[string]string) { f["Make"] = "Lada" }, apperrors.ErrCodeUnknownCategory, "Unknown value for Make: Lada"},
		{"BadYear", func(f map[string]string) { f["Year"] = "soon" }, apperrors.ErrCodeInvalidNumber, "Invalid numeric value for Year: soon"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fields := validFields()
			tc.mutate(fields)
			pred, err := app.Predict(context.Background(), fields)
			assert.Nil(t, pred)
			require.Error(t, err)
			assert.Equal(t, tc.message, err.Error())
			assert.True(t, apperrors.HasCode(err, tc.code))
		})
	}
	assert.Equal(t, 1.0, testutil.ToFloat64(app.Metrics.Predictions.WithLabelValues("UNKNOWN_CATEGORY")))
}

type constPredictor float64

func (c constPredictor) Predict([]float64) (float64, error) { return float64(c), nil }
func (c constPredictor) NumFeatures() int                   { return 0 }

func TestPredictRejectsUnrepresentableOutput(t *testing.T) {
	app := loadApp(t, testConfig())
	app.Metrics = metrics.New()

	for _, out := range []float64{math.NaN(), math.Inf(1), math.Inf(-1), 1e300} {
		app.Predictor = constPredictor(out)
		pred, err := app.Predict(context.Background(), validFields())
		assert.Nil(t, pred)
		require.Error(t, err)
		assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInternal), err)
	}
	assert.Equal(t, 4.0, testutil.ToFloat64(app.Metrics.Predictions.WithLabelValues("INTERNAL_ERROR")))
}

func TestPredictUsesCache(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	cfg := testConfig()
	cfg.Cache = config.CacheConfig{Enabled: true, Address: mr.Addr(), TTL: time.Minute}
	app := loadApp(t, cfg)
	require.NotNil(t, app.Cache)

	first, err := app.Predict(context.Background(), validFields())
	require.NoError(t, err)
	assert.False(t, first.Cached)
	assert.Len(t, mr.Keys(), 1)

	second, err := app.Predict(context.Background(), validFields())
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Price, second.Price)
}

func TestCacheUnavailableAtStartup(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	cfg := testConfig()
	cfg.Cache = config.CacheConfig{Enabled: true, Address: addr, TTL: time.Minute}
	app := loadApp(t, cfg)
	assert.Nil(t, app.Cache)

	_, err = app.Predict(context.Background(), validFields())
	assert.NoError(t, err)
}
