package service

import (
	"context"

	apperrors "github.com/nekruzvatanshoev/carprice/pkg/carprice/errors"
	"github.com/nekruzvatanshoev/carprice/pkg/carprice/model"
)

// Prediction is the result of one prediction request.
type Prediction struct {
	Price  model.Price
	Cached bool
}

// Predict runs the full pipeline over raw submitted fields: classification,
// feature engineering, encoding, vector assembly, model call and formatting.
// Every failure is returned as a *errors.StandardError.
func (a *App) Predict(ctx context.Context, fields map[string]string) (*Prediction, error) {
	pred, err := a.predict(ctx, fields)
	if err != nil {
		stdErr := apperrors.Normalize(err)
		a.Metrics.ObservePrediction(string(stdErr.Code), 0)
		return nil, stdErr
	}
	a.Metrics.ObservePrediction("success", pred.Price.Raw)
	return pred, nil
}

func (a *App) predict(ctx context.Context, fields map[string]string) (*Prediction, error) {
	vec, err := a.Assembler.Assemble(fields)
	if err != nil {
		return nil, err
	}

	output, cached := a.cachedOutput(ctx, vec)
	if !cached {
		output, err = a.Predictor.Predict(vec)
		if err != nil {
			return nil, err
		}
		a.storeOutput(ctx, vec, output)
	}

	price, err := model.Finalize(output, a.Metadata.IsLogModel)
	if err != nil {
		return nil, err
	}
	return &Prediction{Price: price, Cached: cached}, nil
}

// The cache is best effort: failures are logged and the model is called.
func (a *App) cachedOutput(ctx context.Context, vec []float64) (float64, bool) {
	if a.Cache == nil {
		return 0, false
	}
	output, ok, err := a.Cache.Get(ctx, vec)
	switch {
	case err != nil:
		a.Metrics.ObserveCache("error")
		a.Log.Warn("prediction cache lookup failed", map[string]interface{}{"error": err.Error()})
		return 0, false
	case ok:
		a.Metrics.ObserveCache("hit")
		return output, true
	}
	a.Metrics.ObserveCache("miss")
	return 0, false
}

func (a *App) storeOutput(ctx context.Context, vec []float64, output float64) {
	if a.Cache == nil {
		return
	}
	if err := a.Cache.Set(ctx, vec, output); err != nil {
		a.Log.Warn("prediction cache store failed", map[string]interface{}{"error": err.Error()})
	}
}
