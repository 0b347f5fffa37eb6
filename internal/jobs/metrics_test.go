package jobmetrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestTrackerRecordsOutcome(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	require.NoError(t, m.Track("ledger:warmup").End(nil))
	boom := errors.New("boom")
	require.ErrorIs(t, m.Track("ledger:warmup").End(boom), boom)

	require.Equal(t, 1.0, testutil.ToFloat64(m.runs.WithLabelValues("ledger:warmup", "success")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.runs.WithLabelValues("ledger:warmup", "failure")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.failures.WithLabelValues("ledger:warmup")))
}

func TestEnqueued(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	m.Enqueued("ledger:warmup", nil)
	m.Enqueued("ledger:warmup", errors.New("redis down"))

	require.Equal(t, 1.0, testutil.ToFloat64(m.enqueued.WithLabelValues("ledger:warmup", "ok")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.enqueued.WithLabelValues("ledger:warmup", "error")))
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	require.NoError(t, m.Track("x").End(nil))
	m.Enqueued("x", nil)
}
