package model

import (
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	apperrors "github.com/nekruzvatanshoev/carprice/pkg/carprice/errors"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// Artifact is the serialized form of a trained model.
type Artifact struct {
	ModelName string        `json:"model_name"`
	Kind      string        `json:"kind"`
	Linear    *LinearModel  `json:"linear,omitempty"`
	Ensemble  *TreeEnsemble `json:"ensemble,omitempty"`
}

// Predictor returns the model held by the artifact.
func (a *Artifact) Predictor() (Predictor, error) {
	switch a.Kind {
	case KindLinear:
		if a.Linear == nil {
			return nil, fmt.Errorf("linear artifact without coefficients")
		}
		return a.Linear, nil
	case KindTreeEnsemble:
		if a.Ensemble == nil {
			return nil, fmt.Errorf("tree ensemble artifact without trees")
		}
		return a.Ensemble, nil
	}
	return nil, fmt.Errorf("unsupported model kind %q", a.Kind)
}

// LoadArtifact reads and validates a model artifact.
func LoadArtifact(path string) (*Artifact, error) {
	var a Artifact
	if err := loadValidated(path, "schemas/model.schema.json", &a); err != nil {
		return nil, err
	}
	if _, err := a.Predictor(); err != nil {
		return nil, apperrors.NewArtifactInvalidError(path, err.Error())
	}
	return &a, nil
}

// LoadMetadata reads and validates the model metadata.
func LoadMetadata(path string) (*Metadata, error) {
	var m Metadata
	if err := loadValidated(path, "schemas/model_info.schema.json", &m); err != nil {
		return nil, err
	}
	if err := m.Validate(); err != nil {
		return nil, apperrors.NewArtifactInvalidError(path, err.Error())
	}
	return &m, nil
}

// Validate checks that every categorical feature has a trained encoder.
func (m *Metadata) Validate() error {
	if len(m.Features) == 0 {
		return fmt.Errorf("feature list is empty")
	}
	var missing []string
	for _, name := range m.CategoricalFeatures {
		if _, ok := m.LabelEncoders[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("no label encoder for %s", strings.Join(missing, ", "))
	}
	return nil
}

func loadValidated(path, schemaPath string, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	schema, err := schemaFS.ReadFile(schemaPath)
	if err != nil {
		return fmt.Errorf("read schema %s: %w", schemaPath, err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return apperrors.NewArtifactInvalidError(path, err.Error())
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return apperrors.NewArtifactInvalidError(path, strings.Join(errs, "; "))
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
