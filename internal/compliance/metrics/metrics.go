package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics covers late-submission grants, compliance queries and the manager
// dashboard.
type Metrics struct {
	Grants            *prometheus.CounterVec
	Revocations       prometheus.Counter
	QueryDuration     *prometheus.HistogramVec
	DashboardDuration prometheus.Histogram
	CacheLookups      *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Grants: f.NewCounterVec(prometheus.CounterOpts{
			Name: "reviewcycle_late_submission_grants_total",
			Help: "Late-submission grant attempts by result (created, reactivated, conflict, rejected, failed)",
		}, []string{"result"}),
		Revocations: f.NewCounter(prometheus.CounterOpts{
			Name: "reviewcycle_late_submission_revocations_total",
			Help: "Late-submission grants revoked",
		}),
		QueryDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "reviewcycle_compliance_query_duration_seconds",
			Help:    "Duration of compliance stats and roster queries",
			Buckets: prometheus.DefBuckets,
		}, []string{"query", "kind"}),
		DashboardDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "reviewcycle_manager_dashboard_duration_seconds",
			Help:    "Duration of manager dashboard assembly",
			Buckets: prometheus.DefBuckets,
		}),
		CacheLookups: f.NewCounterVec(prometheus.CounterOpts{
			Name: "reviewcycle_submission_cache_lookups_total",
			Help: "Submission cache lookups by result (hit, miss, bypass, error)",
		}, []string{"result"}),
	}
}

func (m *Metrics) RecordGrant(result string) {
	if m != nil {
		m.Grants.WithLabelValues(result).Inc()
	}
}

func (m *Metrics) RecordRevocations(n int) {
	if m != nil {
		m.Revocations.Add(float64(n))
	}
}

func (m *Metrics) ObserveQuery(query, kind string, start time.Time) {
	if m != nil {
		m.QueryDuration.WithLabelValues(query, kind).Observe(time.Since(start).Seconds())
	}
}

func (m *Metrics) ObserveDashboard(start time.Time) {
	if m != nil {
		m.DashboardDuration.Observe(time.Since(start).Seconds())
	}
}

func (m *Metrics) RecordCacheLookup(result string) {
	if m != nil {
		m.CacheLookups.WithLabelValues(result).Inc()
	}
}
