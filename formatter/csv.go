package formatter

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/theoremus-urban-solutions/gtfsrt-to-tides/tides"
)

// CSVWriter writes <Folder>/<date>/<table>.csv.
type CSVWriter struct {
	Folder string
}

// NewCSVWriter creates a CSV writer rooted at folder.
func NewCSVWriter(folder string) *CSVWriter {
	return &CSVWriter{Folder: folder}
}

// Stage implements Writer.
func (w *CSVWriter) Stage(ctx context.Context, date string, t Tables) (Batch, error) {
	if err := checkTables(t); err != nil {
		return nil, err
	}
	var stages []func() (stagedFile, error)
	if t.WithTrips {
		stages = append(stages, func() (stagedFile, error) {
			return stageCSV(w.path(date, TripsPerformedTable), tides.TripsPerformedHeader, t.Trips)
		})
	}
	if t.WithPings {
		stages = append(stages, func() (stagedFile, error) {
			return stageCSV(w.path(date, VehicleLocationsTable), tides.VehicleLocationsHeader, t.Pings)
		})
	}
	return stageFiles(ctx, stages...)
}

// Close implements Writer.
func (w *CSVWriter) Close() error { return nil }

func (w *CSVWriter) path(date, table string) string {
	return filepath.Join(w.Folder, date, table+".csv")
}

func stageCSV[R interface{ Record() []string }](path string, header []string, rows []R) (stagedFile, error) {
	return stageFile(path, func(f *os.File) error {
		cw := csv.NewWriter(f)
		if err := cw.Write(header); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
		for _, r := range rows {
			if err := cw.Write(r.Record()); err != nil {
				return fmt.Errorf("write row: %w", err)
			}
		}
		cw.Flush()
		return cw.Error()
	})
}
