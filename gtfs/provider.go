package gtfs

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/theoremus-urban-solutions/gtfsrt-to-tides/internal/logging"
	"github.com/theoremus-urban-solutions/gtfsrt-to-tides/utils"
)

// Provider resolves the schedule zip for a date, consulting the gob cache when configured.
type Provider struct {
	pathFor  func(date string) string
	cacheDir string
	logger   *slog.Logger
}

// NewProvider creates a provider. pathFor maps a YYYY-MM-DD date to its GTFS zip;
// an empty cacheDir disables caching.
func NewProvider(pathFor func(date string) string, cacheDir string, logger *slog.Logger) *Provider {
	if logger == nil {
		logger = slog.Default()
	}
	return &Provider{
		pathFor:  pathFor,
		cacheDir: cacheDir,
		logger:   logger.With(slog.String("component", "schedule_provider")),
	}
}

// Day returns the ServiceDay for date.
func (p *Provider) Day(ctx context.Context, date time.Time) (*ServiceDay, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ds := utils.FormatServiceDate(date)
	path := p.pathFor(ds)
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("schedule for %s: %w", ds, err)
	}

	if p.cacheDir != "" {
		day, err := LoadServiceDay(p.cacheDir, ds, info)
		if err == nil {
			logging.LogOperation(p.logger, "schedule_cache_hit",
				slog.String("date", ds),
				slog.Int("trips", len(day.Trips)))
			return day, nil
		}
		p.logger.Debug("schedule cache miss", "date", ds, "error", err)
	}

	start := time.Now()
	sched, err := LoadSchedule(path)
	if err != nil {
		return nil, err
	}
	day, err := sched.Day(date)
	if err != nil {
		return nil, err
	}
	logging.LogOperation(p.logger, "schedule_loaded",
		slog.String("date", ds),
		slog.String("path", path),
		slog.Int("trips", len(day.Trips)),
		slog.String("timezone", day.Timezone),
		slog.Duration("elapsed", time.Since(start)))

	if p.cacheDir != "" {
		if err := SaveServiceDay(p.cacheDir, day, info); err != nil {
			logging.LogWarning(p.logger, "failed to write schedule cache", err, slog.String("date", ds))
		}
	}
	return day, nil
}
