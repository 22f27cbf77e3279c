package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for window and cycle administration.
type Metrics struct {
	WindowUpserts    *prometheus.CounterVec
	UpsertDuration   prometheus.Histogram
	CycleTransitions *prometheus.CounterVec
}

// New registers the window module metrics on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		WindowUpserts: f.NewCounterVec(prometheus.CounterOpts{
			Name: "reviewcycle_window_upserts_total",
			Help: "Window upserts by kind (review, goal, quarter) and result (written, unchanged, rejected, failed)",
		}, []string{"kind", "result"}),
		UpsertDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "reviewcycle_window_upsert_duration_seconds",
			Help:    "Duration of window upsert transactions",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		CycleTransitions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "reviewcycle_cycle_transitions_total",
			Help: "Cycle status transitions by target status",
		}, []string{"status"}),
	}
}

func (m *Metrics) RecordUpsert(kind, result string) {
	if m != nil {
		m.WindowUpserts.WithLabelValues(kind, result).Inc()
	}
}

// ObserveUpsert records the duration of an upsert. Call with time.Now() at the start.
func (m *Metrics) ObserveUpsert(start time.Time) {
	if m != nil {
		m.UpsertDuration.Observe(time.Since(start).Seconds())
	}
}

func (m *Metrics) RecordTransition(status string) {
	if m != nil {
		m.CycleTransitions.WithLabelValues(status).Inc()
	}
}
