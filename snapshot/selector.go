package snapshot

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/theoremus-urban-solutions/gtfsrt-to-tides/internal/logging"
	"github.com/theoremus-urban-solutions/gtfsrt-to-tides/utils"
)

const secondsPerDay = 24 * 60 * 60

// Selector assembles the ordered snapshot list for an analysis date.
type Selector struct {
	lister Lister
	logger *slog.Logger
}

// NewSelector creates a selector over lister.
func NewSelector(lister Lister, logger *slog.Logger) *Selector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Selector{lister: lister, logger: logger.With(slog.String("component", "snapshot_selector"))}
}

// Select lists the analysis date's snapshots for feed, then appends the snapshots of each
// following day k while endSeconds > k*24h. A missing listing for the analysis date is an
// error; a missing or unreadable following day ends the extension. The result is sorted
// by day folder, then file name.
func (s *Selector) Select(ctx context.Context, date time.Time, feed string, endSeconds int64) ([]Ref, error) {
	refs, err := s.lister.List(ctx, date, feed)
	if err != nil {
		return nil, fmt.Errorf("snapshots for %s/%s: %w", utils.FormatServiceDate(date), feed, err)
	}
	days := 1
	for k := 1; endSeconds > int64(k)*secondsPerDay; k++ {
		next := date.AddDate(0, 0, k)
		more, err := s.lister.List(ctx, next, feed)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			s.logger.Debug("stopping day extension",
				"feed", feed,
				"date", utils.FormatServiceDate(next),
				"error", err)
			break
		}
		refs = append(refs, more...)
		days++
	}

	sort.SliceStable(refs, func(i, j int) bool {
		if refs[i].Date != refs[j].Date {
			return refs[i].Date < refs[j].Date
		}
		return refs[i].Name < refs[j].Name
	})

	logging.LogOperation(s.logger, "snapshots_selected",
		slog.String("date", utils.FormatServiceDate(date)),
		slog.String("feed", feed),
		slog.Int("days", days),
		slog.Int("count", len(refs)))
	return refs, nil
}
