package converter

import (
	"context"
	"log/slog"

	"github.com/theoremus-urban-solutions/gtfsrt-to-tides/gtfsrt"
	"github.com/theoremus-urban-solutions/gtfsrt-to-tides/internal/logging"
	"github.com/theoremus-urban-solutions/gtfsrt-to-tides/internal/metrics"
	"github.com/theoremus-urban-solutions/gtfsrt-to-tides/snapshot"
)

// Engine drives the ordered pass over one feed's snapshots.
type Engine struct {
	reader  snapshot.Reader
	window  AnalysisWindow
	feed    string
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewEngine creates an engine. m may be nil.
func NewEngine(reader snapshot.Reader, window AnalysisWindow, feed string, m *metrics.Metrics, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		reader:  reader,
		window:  window,
		feed:    feed,
		metrics: m,
		logger:  logger.With(slog.String("component", "engine"), slog.String("feed", feed)),
	}
}

// Run feeds every in-window snapshot of refs to c, in order. refs must be sorted by capture
// time. Read and decode failures skip the snapshot; the first snapshot past the window ends
// the run. Cancellation is checked between snapshots and returned as the error.
func (e *Engine) Run(ctx context.Context, refs []snapshot.Ref, c Consumer) (RunStats, error) {
	var stats RunStats
	for _, ref := range refs {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		stats.Snapshots++

		payload, err := e.reader.Read(ctx, ref)
		if err != nil {
			if ctx.Err() != nil {
				return stats, ctx.Err()
			}
			stats.ReadErrors++
			e.count(metrics.OutcomeReadError)
			logging.LogWarning(e.logger, "skipping unreadable snapshot", err, slog.String("snapshot", ref.Name))
			continue
		}

		snap, err := gtfsrt.Decode(ref.Name, payload)
		if err != nil {
			stats.DecodeErrors++
			e.count(metrics.OutcomeDecodeError)
			logging.LogWarning(e.logger, "skipping undecodable snapshot", err, slog.String("snapshot", ref.Name))
			continue
		}

		switch e.window.Classify(snap.Timestamp) {
		case SkipEarly:
			stats.SkippedEarly++
			e.count(metrics.OutcomeSkippedEarly)
			continue
		case Stop:
			stats.PastWindow = true
			stats.StoppedAt = ref.Name
			e.count(metrics.OutcomePastWindow)
			logging.LogOperation(e.logger, "analysis_window_exhausted",
				slog.String("snapshot", ref.Name),
				slog.Int64("timestamp", snap.Timestamp),
				slog.Int64("window_end", e.window.End))
			return stats, nil
		}

		c.Consume(snap)
		stats.Processed++
		e.count(metrics.OutcomeProcessed)
	}
	return stats, nil
}

func (e *Engine) count(outcome string) {
	if e.metrics != nil {
		e.metrics.SnapshotsTotal.WithLabelValues(e.feed, outcome).Inc()
	}
}
