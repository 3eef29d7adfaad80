package llm

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics records generation calls.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics registers the generation metrics on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rpg_generation_requests_total",
				Help: "Total number of generation requests.",
			},
			[]string{"provider", "label", "status"},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "rpg_generation_request_duration_seconds",
				Help:    "Histogram of generation request durations.",
				Buckets: []float64{.25, .5, 1, 2, 5, 10, 20, 40, 80},
			},
			[]string{"provider", "label"},
		),
	}
}

// Instrument wraps g so every call is counted and timed.
func Instrument(g Generator, provider string, m *Metrics) Generator {
	return &instrumented{next: g, provider: provider, metrics: m}
}

type instrumented struct {
	next     Generator
	provider string
	metrics  *Metrics
}

func (i *instrumented) Generate(ctx context.Context, req Request) (string, error) {
	start := time.Now()
	text, err := i.next.Generate(ctx, req)

	status := "success"
	switch {
	case errors.Is(err, ErrMissingCredential):
		status = "missing_credential"
	case errors.Is(err, ErrEmptyResponse):
		status = "empty_response"
	case err != nil:
		status = "error"
	}
	i.metrics.requests.WithLabelValues(i.provider, req.Label, status).Inc()
	i.metrics.duration.WithLabelValues(i.provider, req.Label).Observe(time.Since(start).Seconds())
	return text, err
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
