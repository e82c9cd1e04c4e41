// Package metrics provides Prometheus metrics for reconciliation runs.
package metrics

import (
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

// Snapshot outcomes.
const (
	OutcomeProcessed    = "processed"
	OutcomeSkippedEarly = "skipped_early"
	OutcomePastWindow   = "past_window"
	OutcomeDecodeError  = "decode_error"
	OutcomeReadError    = "read_error"
)

// Ping outcomes.
const (
	PingEmitted   = "emitted"
	PingDuplicate = "duplicate"
)

// Metrics holds all Prometheus metrics for a process. Runs for different dates share it.
type Metrics struct {
	// Registry is the Prometheus registry for this metrics instance
	Registry *prometheus.Registry

	SnapshotsTotal       *prometheus.CounterVec
	EntitiesSkippedTotal *prometheus.CounterVec
	TripsOutputTotal     *prometheus.CounterVec
	PingsTotal           *prometheus.CounterVec
	RunDurationSeconds   *prometheus.GaugeVec

	logger *slog.Logger
}

// New creates and registers all metrics with a new registry.
func New() *Metrics {
	return NewWithLogger(nil)
}

// NewWithLogger creates metrics with a logger for error reporting.
func NewWithLogger(logger *slog.Logger) *Metrics {
	registry := prometheus.NewRegistry()

	snapshotsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tides_snapshots_total",
			Help: "Snapshots handled, by feed and outcome",
		},
		[]string{"feed", "outcome"},
	)

	entitiesSkippedTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tides_entities_skipped_total",
			Help: "Entities or stop-time updates skipped, by feed and reason",
		},
		[]string{"feed", "reason"},
	)

	tripsOutputTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tides_trips_output_total",
			Help: "Trips-performed rows written, by schedule relationship",
		},
		[]string{"schedule_relationship"},
	)

	pingsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tides_pings_total",
			Help: "Vehicle pings seen, by outcome",
		},
		[]string{"outcome"},
	)

	runDuration := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "tides_run_duration_seconds",
			Help: "Wall time of the last run for a service date",
		},
		[]string{"date"},
	)

	registry.MustRegister(
		snapshotsTotal,
		entitiesSkippedTotal,
		tripsOutputTotal,
		pingsTotal,
		runDuration,
	)

	return &Metrics{
		Registry:             registry,
		SnapshotsTotal:       snapshotsTotal,
		EntitiesSkippedTotal: entitiesSkippedTotal,
		TripsOutputTotal:     tripsOutputTotal,
		PingsTotal:           pingsTotal,
		RunDurationSeconds:   runDuration,
		logger:               logger,
	}
}

// WriteTextfile writes the registry in the node-exporter textfile format.
// An empty path is a no-op.
func (m *Metrics) WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.Registry); err != nil {
		if m.logger != nil {
			m.logger.Error("failed to write metrics textfile", "path", path, "error", err)
		}
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
