package formatter

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
)

// JSONWriter writes <Folder>/<date>/<table>.jsonl, one object per row.
type JSONWriter struct {
	Folder string
}

// NewJSONWriter creates a JSON Lines writer rooted at folder.
func NewJSONWriter(folder string) *JSONWriter {
	return &JSONWriter{Folder: folder}
}

// Stage implements Writer.
func (w *JSONWriter) Stage(ctx context.Context, date string, t Tables) (Batch, error) {
	if err := checkTables(t); err != nil {
		return nil, err
	}
	var stages []func() (stagedFile, error)
	if t.WithTrips {
		stages = append(stages, func() (stagedFile, error) {
			return stageJSONLines(filepath.Join(w.Folder, date, TripsPerformedTable+".jsonl"), t.Trips)
		})
	}
	if t.WithPings {
		stages = append(stages, func() (stagedFile, error) {
			return stageJSONLines(filepath.Join(w.Folder, date, VehicleLocationsTable+".jsonl"), t.Pings)
		})
	}
	return stageFiles(ctx, stages...)
}

// Close implements Writer.
func (w *JSONWriter) Close() error { return nil }

func stageJSONLines[R any](path string, rows []R) (stagedFile, error) {
	return stageFile(path, func(f *os.File) error {
		bw := bufio.NewWriter(f)
		enc := json.NewEncoder(bw)
		for _, r := range rows {
			if err := enc.Encode(r); err != nil {
				return err
			}
		}
		return bw.Flush()
	})
}
