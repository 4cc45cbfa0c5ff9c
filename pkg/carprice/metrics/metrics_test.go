package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObservePrediction(t *testing.T) {
	m := New()
	m.ObservePrediction("success", 85000)
	m.ObservePrediction("success", 120000)
	m.ObservePrediction("UNKNOWN_CATEGORY", 0)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Predictions.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Predictions.WithLabelValues("UNKNOWN_CATEGORY")))
	assert.Equal(t, uint64(2), priceSampleCount(t, m))
}

func priceSampleCount(t *testing.T, m *Metrics) uint64 {
	t.Helper()
	families, err := m.Registry.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() == "carprice_predicted_price" {
			return mf.GetMetric()[0].GetHistogram().GetSampleCount()
		}
	}
	t.Fatal("carprice_predicted_price not registered")
	return 0
}

func TestObserveCache(t *testing.T) {
	m := New()
	m.ObserveCache("hit")
	m.ObserveCache("miss")
	m.ObserveCache("miss")
	assert.Equal(t, 2.0, testutil.ToFloat64(m.CacheLookups.WithLabelValues("miss")))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.ObservePrediction("success", 1)
	m.ObserveCache("hit")
}

func TestIndependentRegistries(t *testing.T) {
	a, b := New(), New()
	a.ObserveCache("hit")
	assert.Equal(t, 0.0, testutil.ToFloat64(b.CacheLookups.WithLabelValues("hit")))
}
