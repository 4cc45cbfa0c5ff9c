package model

import (
	"github.com/nekruzvatanshoev/carprice/pkg/carprice/features"
)

// DefaultModelName is reported when the metadata does not name the model.
const DefaultModelName = "Car Price Prediction Model"

// Metrics are the evaluation scores recorded at training time.
type Metrics struct {
	R2   float64 `json:"r2"`
	RMSE float64 `json:"rmse"`
	MAE  float64 `json:"mae"`
}

// Metadata describes how the model was trained and how its inputs must be built.
type Metadata struct {
	ModelName           string              `json:"model_name"`
	Features            []string            `json:"features"`
	CategoricalFeatures []string            `json:"categorical_features"`
	NumericalFeatures   []string            `json:"numerical_features"`
	IsLogModel          bool                `json:"is_log_model"`
	LabelEncoders       map[string][]string `json:"label_encoders"`
	Metrics             Metrics             `json:"metrics"`
}

// Name returns the display name of the model.
func (m *Metadata) Name() string {
	if m.ModelName == "" {
		return DefaultModelName
	}
	return m.ModelName
}

// Schema builds the assembler schema for the given reference year.
func (m *Metadata) Schema(referenceYear int) features.Schema {
	encoders := make(map[string]*features.LabelEncoder, len(m.LabelEncoders))
	for name, classes := range m.LabelEncoders {
		encoders[name] = features.NewLabelEncoder(name, classes)
	}
	return features.Schema{
		Categorical:   m.CategoricalFeatures,
		Features:      m.Features,
		Encoders:      encoders,
		ReferenceYear: referenceYear,
	}
}
