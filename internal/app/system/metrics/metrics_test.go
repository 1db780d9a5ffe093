package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ProfileCreated()
	m.ProfileDeleted()
	m.ChunkCommitted(100)
	m.ChunkFailed()
	m.ImportFinished(1.5)
	m.Reconciled(-3)
}

func TestCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ProfileCreated()
	m.ProfileCreated()
	m.ChunkCommitted(100)
	m.ChunkCommitted(50)
	m.ChunkFailed()

	if got := testutil.ToFloat64(m.ProfilesCreated); got != 2 {
		t.Errorf("profiles created = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.ProfilesImported); got != 150 {
		t.Errorf("profiles imported = %v, want 150", got)
	}
	if got := testutil.ToFloat64(m.ImportChunks.WithLabelValues("committed")); got != 2 {
		t.Errorf("committed chunks = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.ImportChunks.WithLabelValues("failed")); got != 1 {
		t.Errorf("failed chunks = %v, want 1", got)
	}
}
