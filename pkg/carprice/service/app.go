// Package service holds the process-wide, read-only state of the prediction
// service and the operations served from it.
package service

import (
	"context"
	"fmt"
	"os"

	"github.com/nekruzvatanshoev/carprice/pkg/carprice/cache"
	"github.com/nekruzvatanshoev/carprice/pkg/carprice/config"
	"github.com/nekruzvatanshoev/carprice/pkg/carprice/dal"
	"github.com/nekruzvatanshoev/carprice/pkg/carprice/features"
	"github.com/nekruzvatanshoev/carprice/pkg/carprice/logger"
	"github.com/nekruzvatanshoev/carprice/pkg/carprice/metrics"
	"github.com/nekruzvatanshoev/carprice/pkg/carprice/model"
)

// Year range used when the evaluation dataset is missing or has no Year column.
const (
	fallbackMinYear        = 1990
	fallbackMaxYear        = 2025
	datasetDefaultMinYear  = 2000
	datasetDefaultMaxYear  = 2025
	testDatasetDisplayName = "Test dataset"
)

// App is the application context built once at startup. Nothing in it is
// mutated after Load returns.
type App struct {
	Metadata  *model.Metadata
	Predictor model.Predictor
	Assembler *features.Assembler

	Values    dal.CategoricalValues
	MakeTypes dal.MakeTypes
	Reference *dal.Dataset
	Test      *dal.Dataset

	MinYear     int
	MaxYear     int
	DefaultYear int
	SampleCount int

	Cache   cache.PredictionCache
	Metrics *metrics.Metrics
	Log     logger.Logger
}

// Load builds the App. Missing mandatory artifacts abort startup; optional
// datasets are logged and left nil.
func Load(ctx context.Context, cfg *config.Config, log logger.Logger) (*App, error) {
	meta, err := model.LoadMetadata(cfg.Artifacts.ModelInfo)
	if err != nil {
		return nil, fmt.Errorf("load model metadata: %w", err)
	}
	artifact, err := model.LoadArtifact(cfg.Artifacts.Model)
	if err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}
	predictor, err := artifact.Predictor()
	if err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}
	if n := predictor.NumFeatures(); n > 0 && n != len(meta.Features) {
		return nil, fmt.Errorf("model expects %d features but metadata declares %d", n, len(meta.Features))
	}
	if meta.ModelName == "" {
		meta.ModelName = artifact.ModelName
	}

	assembler, err := features.NewAssembler(meta.Schema(cfg.Features.ReferenceYear))
	if err != nil {
		return nil, fmt.Errorf("build feature assembler: %w", err)
	}

	values, err := dal.LoadCategoricalValues(cfg.Artifacts.CategoricalValues)
	if err != nil {
		return nil, fmt.Errorf("load categorical values: %w", err)
	}

	app := &App{
		Metadata:    meta,
		Predictor:   predictor,
		Assembler:   assembler,
		Values:      values,
		MakeTypes:   dal.MakeTypes{},
		MinYear:     fallbackMinYear,
		MaxYear:     fallbackMaxYear,
		DefaultYear: cfg.UI.DefaultYear,
		SampleCount: cfg.Samples.Count,
		Log:         log,
	}

	app.Test = loadOptionalCSV(log, "test", cfg.Datasets.Test)
	if app.Test != nil {
		app.MinYear, app.MaxYear = datasetDefaultMinYear, datasetDefaultMaxYear
		if lo, hi, ok := app.Test.IntRange(dal.ColumnYear); ok {
			app.MinYear, app.MaxYear = lo, hi
		}
	}
	if cfg.UI.MaxYear > 0 {
		app.MaxYear = cfg.UI.MaxYear
	}

	app.Reference = loadOptionalCSV(log, "reference", cfg.Datasets.Reference)
	if app.Reference != nil {
		app.MakeTypes = dal.BuildMakeTypes(app.Reference)
		app.Values.ApplyReference(app.Reference)
	}

	if cfg.Artifacts.MakeTypes != "" {
		mt, err := dal.LoadMakeTypes(cfg.Artifacts.MakeTypes)
		if err != nil {
			log.Warn("make types unavailable", map[string]interface{}{"path": cfg.Artifacts.MakeTypes, "error": err.Error()})
		} else {
			app.MakeTypes = mt
		}
	}

	if cfg.Cache.Enabled {
		rc := cache.NewRedis(cfg.Cache, meta.Name())
		if err := rc.Ping(ctx); err != nil {
			log.Warn("prediction cache disabled", map[string]interface{}{"address": cfg.Cache.Address, "error": err.Error()})
			rc.Close()
		} else {
			app.Cache = rc
		}
	}

	log.Info("model loaded", map[string]interface{}{
		"model":        meta.Name(),
		"features":     len(meta.Features),
		"is_log_model": meta.IsLogModel,
		"test_rows":    rowCount(app.Test),
		"makes":        len(app.MakeTypes),
	})
	return app, nil
}

// Close releases the cache connection, if any.
func (a *App) Close() error {
	if a.Cache != nil {
		return a.Cache.Close()
	}
	return nil
}

func loadOptionalCSV(log logger.Logger, name, path string) *dal.Dataset {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		log.Warn("dataset not found", map[string]interface{}{"dataset": name, "path": path})
		return nil
	}
	ds, err := dal.LoadCSV(path)
	if err != nil {
		log.Error("error loading dataset", map[string]interface{}{"dataset": name, "path": path, "error": err.Error()})
		return nil
	}
	return ds
}

func rowCount(ds *dal.Dataset) int {
	if ds == nil {
		return 0
	}
	return ds.Len()
}
