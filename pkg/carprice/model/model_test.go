package model

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/nekruzvatanshoev/carprice/pkg/carprice/errors"
	"github.com/nekruzvatanshoev/carprice/pkg/carprice/features"
)

func TestLoadMetadata(t *testing.T) {
	m, err := LoadMetadata(filepath.Join("testdata", "model_info.json"))
	require.NoError(t, err)

	assert.Equal(t, "Gradient Boosting (log target)", m.Name())
	assert.True(t, m.IsLogModel)
	assert.Equal(t, []string{"Make", "Type"}, m.CategoricalFeatures)
	assert.Equal(t, 0.91, m.Metrics.R2)
	assert.Equal(t, 18250.5, m.Metrics.RMSE)
	assert.Equal(t, 9120.25, m.Metrics.MAE)

	a, err := features.NewAssembler(m.Schema(2025))
	require.NoError(t, err)
	vec, err := a.Assemble(map[string]string{"Make": "Toyota", "Year": "2021"})
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 0, 2021, 0, 0, 4}, vec)
}

func TestLoadMetadataErrors(t *testing.T) {
	tests := []struct {
		name   string
		file   string
		reason string
	}{
		{"MissingEncoder", "model_info_missing_encoder.json", "no label encoder for Type"},
		{"SchemaViolation", "model_info_bad.json", "categorical_features"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadMetadata(filepath.Join("testdata", tc.file))
			require.Error(t, err)
			assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeArtifactInvalid), err)
			assert.ErrorContains(t, err, tc.file)
			assert.ErrorContains(t, err, tc.reason)
		})
	}

	_, err := LoadMetadata(filepath.Join("testdata", "does_not_exist.json"))
	assert.Error(t, err)
}

func TestMetadataDefaultName(t *testing.T) {
	m := &Metadata{}
	assert.Equal(t, DefaultModelName, m.Name())
}

func TestLinearModel(t *testing.T) {
	a, err := LoadArtifact(filepath.Join("testdata", "linear.json"))
	require.NoError(t, err)
	p, err := a.Predictor()
	require.NoError(t, err)
	assert.Equal(t, 6, p.NumFeatures())

	// 1000 + 10*2 + 100*2.0 - 0.01*50000 - 50*4
	got, err := p.Predict([]float64{2, 1, 2021, 2.0, 50000, 4})
	require.NoError(t, err)
	assert.InDelta(t, 520.0, got, 1e-9)

	_, err = p.Predict([]float64{1, 2})
	assert.ErrorContains(t, err, "expects 6 features")
}

func TestTreeEnsembleMean(t *testing.T) {
	a, err := LoadArtifact(filepath.Join("testdata", "forest.json"))
	require.NoError(t, err)
	assert.Equal(t, "Random Forest", a.ModelName)
	p, err := a.Predictor()
	require.NoError(t, err)

	tests := []struct {
		name string
		in   []float64
		want float64
	}{
		{"LeftLeft", []float64{1.0, 1000}, 150},
		{"BoundaryGoesLeft", []float64{1.5, 50000}, 150},
		{"RightRight", []float64{3.0, 90000}, 150},
		{"RightLeft", []float64{3.0, 10}, 250},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := p.Predict(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestTreeEnsembleBoosted(t *testing.T) {
	stump := Tree{Nodes: []Node{
		{Feature: 0, Threshold: 0.5, Left: 1, Right: 2},
		{Left: -1, Right: -1, Value: -1},
		{Left: -1, Right: -1, Value: 1},
	}}
	e := &TreeEnsemble{
		Aggregation:  AggregateSum,
		BaseScore:    10,
		LearningRate: 0.1,
		Features:     1,
		Trees:        []Tree{stump, stump},
	}
	got, err := e.Predict([]float64{1})
	require.NoError(t, err)
	assert.InDelta(t, 10.2, got, 1e-9)
}

func TestTreeMalformed(t *testing.T) {
	loop := &TreeEnsemble{Trees: []Tree{{Nodes: []Node{{Feature: 0, Left: 0, Right: 0}}}}}
	_, err := loop.Predict([]float64{1})
	assert.Error(t, err)

	badFeature := &TreeEnsemble{Trees: []Tree{{Nodes: []Node{
		{Feature: 5, Left: 1, Right: 1},
		{Left: -1, Right: -1},
	}}}}
	_, err = badFeature.Predict([]float64{1})
	assert.ErrorContains(t, err, "feature 5")
}

func TestLoadArtifactErrors(t *testing.T) {
	tests := []struct {
		file   string
		reason string
	}{
		{"linear_missing_body.json", "linear"},
		{"unknown_kind.json", "kind"},
	}

	for _, tc := range tests {
		t.Run(tc.file, func(t *testing.T) {
			_, err := LoadArtifact(filepath.Join("testdata", tc.file))
			require.Error(t, err)
			assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeArtifactInvalid), err)
			// The message carries the validation reason after the path.
			assert.ErrorContains(t, err, "invalid artifact testdata/"+tc.file+": ")
			assert.ErrorContains(t, err, tc.reason)
		})
	}
}

func TestFinalize(t *testing.T) {
	tests := []struct {
		name      string
		output    float64
		isLog     bool
		raw       int64
		formatted string
	}{
		{"Plain", 23500000.4, false, 23500000, "23,500,000"},
		{"HalfToEven", 2.5, false, 2, "2"},
		{"Small", 999, false, 999, "999"},
		{"Negative", -1234.6, false, -1235, "-1,235"},
		{"LogZero", 0, true, 0, "0"},
		{"LogModel", math.Log1p(85000), true, 85000, "85,000"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Finalize(tc.output, tc.isLog)
			require.NoError(t, err)
			assert.Equal(t, tc.raw, got.Raw)
			assert.Equal(t, tc.formatted, got.Formatted)
		})
	}
}

func TestFinalizeMatchesInverse(t *testing.T) {
	for _, x := range []float64{0.5, 3.2, 9.9, 11.7, 13.05} {
		got, err := Finalize(x, true)
		require.NoError(t, err)
		assert.Equal(t, int64(math.RoundToEven(math.Exp(x)-1)), got.Raw, "x=%v", x)
		got, err = Finalize(x, false)
		require.NoError(t, err)
		assert.Equal(t, int64(math.RoundToEven(x)), got.Raw, "x=%v", x)
	}
}

func TestFinalizeRejectsUnrepresentableOutput(t *testing.T) {
	tests := []struct {
		name   string
		output float64
		isLog  bool
	}{
		{"NaN", math.NaN(), false},
		{"PositiveInf", math.Inf(1), false},
		{"NegativeInf", math.Inf(-1), false},
		{"AboveInt64", 1e19, false},
		{"BelowInt64", -1e19, false},
		{"LogOverflow", 800, true},
		{"LogNaN", math.NaN(), true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Finalize(tc.output, tc.isLog)
			require.Error(t, err)
			assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInternal), err)
			assert.Equal(t, Price{}, got)
		})
	}
}
