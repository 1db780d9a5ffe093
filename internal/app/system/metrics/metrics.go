// Package metrics holds the Prometheus collectors for the record stores.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the collectors. A nil *Metrics is valid and records nothing,
// so stores built in tests do not need a registry.
type Metrics struct {
	ProfilesCreated  prometheus.Counter
	ProfilesDeleted  prometheus.Counter
	ProfilesImported prometheus.Counter
	ImportChunks     *prometheus.CounterVec
	ImportDuration   prometheus.Histogram
	CountReconciled  prometheus.Counter
	CountDrift       prometheus.Histogram
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ProfilesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "skprofiles_profiles_created_total",
			Help: "Profiles created one at a time.",
		}),
		ProfilesDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "skprofiles_profiles_deleted_total",
			Help: "Profiles deleted.",
		}),
		ProfilesImported: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "skprofiles_profiles_imported_total",
			Help: "Profiles written by bulk import.",
		}),
		ImportChunks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "skprofiles_import_chunks_total",
			Help: "Bulk-import chunk transactions by outcome.",
		}, []string{"outcome"}),
		ImportDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "skprofiles_import_duration_seconds",
			Help:    "Wall time of a whole bulk import.",
			Buckets: prometheus.DefBuckets,
		}),
		CountReconciled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "skprofiles_member_count_reconciled_total",
			Help: "Report member counts recomputed from the profiles collection.",
		}),
		CountDrift: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "skprofiles_member_count_drift",
			Help:    "Absolute difference between stored and true member count at reconciliation.",
			Buckets: []float64{0, 1, 5, 10, 50, 100, 500},
		}),
	}
	if reg != nil {
		reg.MustRegister(
			m.ProfilesCreated,
			m.ProfilesDeleted,
			m.ProfilesImported,
			m.ImportChunks,
			m.ImportDuration,
			m.CountReconciled,
			m.CountDrift,
		)
	}
	return m
}

func (m *Metrics) ProfileCreated() {
	if m != nil {
		m.ProfilesCreated.Inc()
	}
}

func (m *Metrics) ProfileDeleted() {
	if m != nil {
		m.ProfilesDeleted.Inc()
	}
}

// ChunkCommitted records a committed import chunk of n profiles.
func (m *Metrics) ChunkCommitted(n int) {
	if m != nil {
		m.ImportChunks.WithLabelValues("committed").Inc()
		m.ProfilesImported.Add(float64(n))
	}
}

func (m *Metrics) ChunkFailed() {
	if m != nil {
		m.ImportChunks.WithLabelValues("failed").Inc()
	}
}

func (m *Metrics) ImportFinished(seconds float64) {
	if m != nil {
		m.ImportDuration.Observe(seconds)
	}
}

// Reconciled records a member-count reconciliation and how far off it was.
func (m *Metrics) Reconciled(drift int) {
	if m != nil {
		if drift < 0 {
			drift = -drift
		}
		m.CountReconciled.Inc()
		m.CountDrift.Observe(float64(drift))
	}
}
