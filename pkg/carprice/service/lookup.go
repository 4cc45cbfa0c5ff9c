package service

import (
	"github.com/nekruzvatanshoev/carprice/pkg/carprice/dal"
	apperrors "github.com/nekruzvatanshoev/carprice/pkg/carprice/errors"
	"github.com/nekruzvatanshoev/carprice/pkg/carprice/features"
)

// HomeView is everything the home page needs to render its form.
type HomeView struct {
	CategoricalValues dal.CategoricalValues
	MinYear           int
	MaxYear           int
	DefaultYear       int
	MakeTypeMap       dal.MakeTypes
	NumericFields     []string
}

// ModelInfo describes the loaded model for diagnostic display.
type ModelInfo struct {
	ModelName  string  `json:"model_name"`
	R2Score    float64 `json:"r2_score"`
	RMSE       float64 `json:"rmse"`
	MAE        float64 `json:"mae"`
	IsLogModel bool    `json:"is_log_model"`
}

// HomeView returns the dropdown catalog, year range and make → type map.
func (a *App) HomeView() HomeView {
	return HomeView{
		CategoricalValues: a.Values,
		MinYear:           a.MinYear,
		MaxYear:           a.MaxYear,
		DefaultYear:       a.DefaultYear,
		MakeTypeMap:       a.MakeTypes,
		NumericFields:     a.numericInputs(),
	}
}

// numericInputs lists the numerical features the user types in. Year has
// its own slider and Car_Age is derived from it.
func (a *App) numericInputs() []string {
	out := []string{}
	for _, name := range a.Metadata.NumericalFeatures {
		if name == features.FieldYear || name == features.FieldCarAge {
			continue
		}
		out = append(out, name)
	}
	return out
}

// TypesForMake returns the body types of a make: from the precomputed map,
// else by filtering the reference dataset, else the full Type catalog.
func (a *App) TypesForMake(mk string) []string {
	if types, ok := a.MakeTypes[mk]; ok {
		return types
	}
	if a.Reference != nil {
		return a.Reference.TypesForMake(mk)
	}
	if types, ok := a.Values[dal.ColumnType]; ok {
		return types
	}
	return []string{}
}

// Samples returns evaluation rows for display, or an unavailable error when
// no evaluation dataset was loaded.
func (a *App) Samples() ([]dal.Car, error) {
	if a.Test == nil {
		return nil, apperrors.NewDatasetUnavailableError(testDatasetDisplayName)
	}
	return a.Test.Samples(a.SampleCount), nil
}

// ModelInfo returns the model's name and evaluation metrics.
func (a *App) ModelInfo() ModelInfo {
	return ModelInfo{
		ModelName:  a.Metadata.Name(),
		R2Score:    a.Metadata.Metrics.R2,
		RMSE:       a.Metadata.Metrics.RMSE,
		MAE:        a.Metadata.Metrics.MAE,
		IsLogModel: a.Metadata.IsLogModel,
	}
}
