package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	gtfsrttides "github.com/theoremus-urban-solutions/gtfsrt-to-tides"
	"github.com/theoremus-urban-solutions/gtfsrt-to-tides/config"
	"github.com/theoremus-urban-solutions/gtfsrt-to-tides/internal/clock"
	"github.com/theoremus-urban-solutions/gtfsrt-to-tides/internal/logging"
	"github.com/theoremus-urban-solutions/gtfsrt-to-tides/internal/metrics"
	"github.com/theoremus-urban-solutions/gtfsrt-to-tides/utils"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "config.yml", "path to the YAML or JSON run configuration")
	date := flag.String("date", "", "analysis date YYYY-MM-DD (overrides config)")
	through := flag.String("through", "", "last date of an inclusive range starting at -date")
	tables := flag.String("tables", "", "comma-separated tables to produce: trips,pings (overrides config)")
	parallel := flag.Int("parallel", 0, "dates processed concurrently (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *date != "" {
		cfg.Date = *date
	}
	if *tables != "" {
		cfg.Output.Tables = splitList(*tables)
	}
	if *parallel > 0 {
		cfg.Parallelism = *parallel
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}

	logger := logging.InitLogging(cfg.Logging.Level, cfg.Logging.Format)

	dates, err := dateRange(cfg.Date, *through)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = logging.WithLogger(ctx, logger)

	m := metrics.NewWithLogger(logger)
	p, err := gtfsrttides.NewPipeline(ctx, cfg, m, clock.RealClock{}, logger)
	if err != nil {
		return err
	}
	defer logging.SafeCloseWithLogging(p, logger, "pipeline")

	runErr := processDates(ctx, p, dates, cfg.Parallelism)

	if err := m.WriteTextfile(cfg.Metrics.TextfilePath); err != nil {
		logging.LogError(logger, "failed to write metrics textfile", err,
			slog.String("path", cfg.Metrics.TextfilePath))
	}
	return runErr
}

// processDates runs every date even when some fail; the failures are joined.
func processDates(ctx context.Context, p *gtfsrttides.Pipeline, dates []time.Time, limit int) error {
	logger := logging.FromContext(ctx)
	var (
		g    errgroup.Group
		mu   sync.Mutex
		errs []error
	)
	g.SetLimit(max(limit, 1))
	for _, d := range dates {
		g.Go(func() error {
			res, err := p.ProcessDay(ctx, d)
			if err != nil {
				logging.LogError(logger, "date failed", err, slog.String("date", utils.FormatServiceDate(d)))
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
				return nil
			}
			logging.LogOperation(logger, "date_done",
				slog.String("date", res.Date),
				slog.Int("trips", len(res.Trips)),
				slog.Int("pings", len(res.Pings)))
			return nil
		})
	}
	_ = g.Wait()
	return errors.Join(errs...)
}

// dateRange expands [from, through] into days. An empty through means only from.
func dateRange(from, through string) ([]time.Time, error) {
	start, err := utils.ParseServiceDate(from)
	if err != nil {
		return nil, err
	}
	if through == "" {
		return []time.Time{start}, nil
	}
	end, err := utils.ParseServiceDate(through)
	if err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, fmt.Errorf("-through %s is before -date %s", through, from)
	}
	var dates []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(strings.ToLower(part)); part != "" {
			out = append(out, part)
		}
	}
	return out
}
