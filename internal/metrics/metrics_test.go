package metrics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	m := New()

	assert.NotNil(t, m.Registry)
	assert.NotNil(t, m.SnapshotsTotal)
	assert.NotNil(t, m.EntitiesSkippedTotal)
	assert.NotNil(t, m.TripsOutputTotal)
	assert.NotNil(t, m.PingsTotal)
	assert.NotNil(t, m.RunDurationSeconds)
	assert.Nil(t, m.logger)
}

func TestCounters(t *testing.T) {
	m := New()
	m.SnapshotsTotal.WithLabelValues("trip_updates_url", OutcomeProcessed).Add(3)
	m.SnapshotsTotal.WithLabelValues("trip_updates_url", OutcomeDecodeError).Inc()
	m.PingsTotal.WithLabelValues(PingDuplicate).Inc()

	assert.Equal(t, 3.0, testutil.ToFloat64(m.SnapshotsTotal.WithLabelValues("trip_updates_url", OutcomeProcessed)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SnapshotsTotal.WithLabelValues("trip_updates_url", OutcomeDecodeError)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PingsTotal.WithLabelValues(PingDuplicate)))
}

func TestWriteTextfile(t *testing.T) {
	m := New()
	m.TripsOutputTotal.WithLabelValues("Missing").Add(2)

	require.NoError(t, m.WriteTextfile(""))

	path := filepath.Join(t.TempDir(), "tides.prom")
	require.NoError(t, m.WriteTextfile(path))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), `tides_trips_output_total{schedule_relationship="Missing"} 2`)
}
