package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the service's collectors. Each instance owns its registry,
// so tests can build as many as they like.
type Metrics struct {
	Registry *prometheus.Registry

	HTTPRequests        *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	Predictions         *prometheus.CounterVec
	PredictedPrice      prometheus.Histogram
	CacheLookups        *prometheus.CounterVec
}

// New registers every collector on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "carprice_http_requests_total",
				Help: "Total number of HTTP requests by route and status code",
			},
			[]string{"route", "method", "code"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "carprice_http_request_duration_seconds",
				Help:    "Duration of HTTP request handling in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route"},
		),
		Predictions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "carprice_predictions_total",
				Help: "Total number of prediction requests by outcome",
			},
			[]string{"outcome"},
		),
		PredictedPrice: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "carprice_predicted_price",
				Help:    "Distribution of predicted prices",
				Buckets: prometheus.ExponentialBuckets(5000, 2, 12),
			},
		),
		CacheLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "carprice_cache_lookups_total",
				Help: "Prediction cache lookups by result",
			},
			[]string{"result"},
		),
	}
}

// ObservePrediction records the outcome of one prediction request. The
// outcome is "success" or an error code.
func (m *Metrics) ObservePrediction(outcome string, price int64) {
	if m == nil {
		return
	}
	m.Predictions.WithLabelValues(outcome).Inc()
	if outcome == "success" {
		m.PredictedPrice.Observe(float64(price))
	}
}

// ObserveCache records a cache hit, miss or error.
func (m *Metrics) ObserveCache(result string) {
	if m == nil {
		return
	}
	m.CacheLookups.WithLabelValues(result).Inc()
}
