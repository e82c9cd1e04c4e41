package gtfsrttides

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/theoremus-urban-solutions/gtfsrt-to-tides/config"
	"github.com/theoremus-urban-solutions/gtfsrt-to-tides/converter"
	"github.com/theoremus-urban-solutions/gtfsrt-to-tides/formatter"
	"github.com/theoremus-urban-solutions/gtfsrt-to-tides/gtfs"
	"github.com/theoremus-urban-solutions/gtfsrt-to-tides/internal/clock"
	"github.com/theoremus-urban-solutions/gtfsrt-to-tides/internal/logging"
	"github.com/theoremus-urban-solutions/gtfsrt-to-tides/internal/metrics"
	"github.com/theoremus-urban-solutions/gtfsrt-to-tides/snapshot"
	"github.com/theoremus-urban-solutions/gtfsrt-to-tides/tides"
	"github.com/theoremus-urban-solutions/gtfsrt-to-tides/utils"
)

// ScheduleSource resolves the service day for an analysis date.
type ScheduleSource interface {
	Day(ctx context.Context, date time.Time) (*gtfs.ServiceDay, error)
}

// SnapshotStore lists and reads archived snapshots.
type SnapshotStore interface {
	snapshot.Lister
	snapshot.Reader
}

// DayResult summarizes one processed date.
type DayResult struct {
	Date      string
	Trips     []tides.TripPerformed
	Pings     []tides.VehicleLocation
	TripStats converter.RunStats
	PingStats converter.RunStats
	Duration  time.Duration
}

// Pipeline runs analysis dates against one configuration.
type Pipeline struct {
	cfg      *config.AppConfig
	schedule ScheduleSource
	store    SnapshotStore
	selector *snapshot.Selector
	writers  []formatter.Writer
	metrics  *metrics.Metrics
	clock    clock.Clock
	logger   *slog.Logger
}

// NewPipeline builds a pipeline from cfg with the on-disk snapshot store, the cached
// schedule provider and one writer per configured output format. m and clk may be nil.
func NewPipeline(ctx context.Context, cfg *config.AppConfig, m *metrics.Metrics, clk clock.Clock, logger *slog.Logger) (*Pipeline, error) {
	if clk == nil {
		clk = clock.RealClock{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	// SQLite commits first; file renames are the least likely commit to fail.
	var writers []formatter.Writer
	if cfg.WantsFormat(config.FormatSQLite) {
		w, err := formatter.OpenSQLite(ctx, cfg.Output.SQLitePath, clk, logger)
		if err != nil {
			return nil, fmt.Errorf("open sqlite output: %w", err)
		}
		writers = append(writers, w)
	}
	if cfg.WantsFormat(config.FormatCSV) {
		writers = append(writers, formatter.NewCSVWriter(cfg.TidesOutputFolder))
	}
	if cfg.WantsFormat(config.FormatJSON) {
		writers = append(writers, formatter.NewJSONWriter(cfg.TidesOutputFolder))
	}

	provider := gtfs.NewProvider(cfg.SchedulePath, cfg.Schedule.CacheDir, logger)
	return New(cfg, provider, snapshot.NewDirStore(cfg.RawDataPath), writers, m, clk, logger), nil
}

// New assembles a pipeline from explicit parts.
func New(cfg *config.AppConfig, schedule ScheduleSource, store SnapshotStore, writers []formatter.Writer, m *metrics.Metrics, clk clock.Clock, logger *slog.Logger) *Pipeline {
	if clk == nil {
		clk = clock.RealClock{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		cfg:      cfg,
		schedule: schedule,
		store:    store,
		selector: snapshot.NewSelector(store, logger),
		writers:  writers,
		metrics:  m,
		clock:    clk,
		logger:   logger.With(slog.String("component", "pipeline")),
	}
}

// ProcessDay reconciles date and hands the tables to every writer. Schedule and listing
// failures abort the date before anything is written.
func (p *Pipeline) ProcessDay(ctx context.Context, date time.Time) (*DayResult, error) {
	started := p.clock.Now()
	ds := utils.FormatServiceDate(date)
	logger := p.logger.With(slog.String("date", ds))

	day, err := p.schedule.Day(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("schedule for %s: %w", ds, err)
	}
	padding := p.cfg.WindowPadding()
	window, err := converter.NewAnalysisWindow(day, date, padding)
	if err != nil {
		return nil, fmt.Errorf("analysis window for %s: %w", ds, err)
	}
	loc, err := day.Location()
	if err != nil {
		return nil, err
	}
	endOffset := day.EndSeconds + int64(padding/time.Second)

	logging.LogOperation(logger, "day_started",
		slog.Int("scheduled_trips", len(day.Trips)),
		slog.Int64("window_start", window.Start),
		slog.Int64("window_end", window.End))

	res := &DayResult{Date: ds}

	if p.cfg.WantsTable(config.TableTrips) {
		feed := p.cfg.Feeds.TripUpdatesFolder
		refs, err := p.selector.Select(ctx, date, feed, endOffset)
		if err != nil {
			return nil, err
		}
		rec, err := converter.NewTripReconciler(day, date, logger)
		if err != nil {
			return nil, err
		}
		res.TripStats, err = converter.NewEngine(p.store, window, feed, p.metrics, logger).Run(ctx, refs, rec)
		if err != nil {
			return nil, err
		}
		final, err := converter.Classify(rec.Records(), day, date)
		if err != nil {
			return nil, err
		}
		res.Trips = converter.TripRows(final, loc)
		p.countSkipped(feed, rec.Skipped())
	}

	if p.cfg.WantsTable(config.TablePings) {
		feed := p.cfg.Feeds.VehiclePositionsFolder
		refs, err := p.selector.Select(ctx, date, feed, endOffset)
		if err != nil {
			return nil, err
		}
		dedup, err := converter.NewPingDeduplicator(day, date, logger)
		if err != nil {
			return nil, err
		}
		res.PingStats, err = converter.NewEngine(p.store, window, feed, p.metrics, logger).Run(ctx, refs, dedup)
		if err != nil {
			return nil, err
		}
		res.Pings = dedup.Pings()
		p.countSkipped(feed, dedup.Skipped())
		if p.metrics != nil {
			p.metrics.PingsTotal.WithLabelValues(metrics.PingEmitted).Add(float64(len(res.Pings)))
			p.metrics.PingsTotal.WithLabelValues(metrics.PingDuplicate).Add(float64(dedup.Duplicates()))
		}
	}

	if err := p.write(ctx, ds, res); err != nil {
		return nil, err
	}

	if p.metrics != nil {
		for _, r := range res.Trips {
			p.metrics.TripsOutputTotal.WithLabelValues(r.ScheduleRelationship).Inc()
		}
	}
	res.Duration = p.clock.Now().Sub(started)
	if p.metrics != nil {
		p.metrics.RunDurationSeconds.WithLabelValues(ds).Set(res.Duration.Seconds())
	}

	logging.LogOperation(logger, "day_completed",
		slog.Int("trips", len(res.Trips)),
		slog.Int("pings", len(res.Pings)),
		slog.Int("trip_snapshots", res.TripStats.Processed),
		slog.Int("ping_snapshots", res.PingStats.Processed),
		slog.Duration("duration", res.Duration))
	return res, nil
}

// write stages the tables in every writer and commits only when all of them staged.
// A failed commit aborts the writers that have not committed yet.
func (p *Pipeline) write(ctx context.Context, date string, res *DayResult) error {
	tables := formatter.Tables{
		Trips:     res.Trips,
		Pings:     res.Pings,
		WithTrips: p.cfg.WantsTable(config.TableTrips),
		WithPings: p.cfg.WantsTable(config.TablePings),
	}
	batches := make([]formatter.Batch, 0, len(p.writers))
	abort := func(pending []formatter.Batch) {
		for _, b := range pending {
			b.Abort()
		}
	}
	for _, w := range p.writers {
		b, err := w.Stage(ctx, date, tables)
		if err != nil {
			abort(batches)
			return fmt.Errorf("stage output for %s: %w", date, err)
		}
		batches = append(batches, b)
	}
	for i, b := range batches {
		if err := b.Commit(); err != nil {
			abort(batches[i+1:])
			return fmt.Errorf("commit output for %s: %w", date, err)
		}
	}
	return nil
}

func (p *Pipeline) countSkipped(feed string, skipped map[string]int) {
	if p.metrics == nil {
		return
	}
	for reason, n := range skipped {
		p.metrics.EntitiesSkippedTotal.WithLabelValues(feed, reason).Add(float64(n))
	}
}

// Close releases every writer.
func (p *Pipeline) Close() error {
	var errs []error
	for _, w := range p.writers {
		if err := w.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
