package formatter

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/theoremus-urban-solutions/gtfsrt-to-tides/tides"
)

// Table file base names.
const (
	TripsPerformedTable   = "trips_performed"
	VehicleLocationsTable = "vehicle_locations"
)

// Tables are the rows of one service date. A table is written only when its With flag is
// set, so an empty table still replaces earlier output.
type Tables struct {
	Trips     []tides.TripPerformed
	Pings     []tides.VehicleLocation
	WithTrips bool
	WithPings bool
}

// Batch is output staged by a Writer. Nothing is visible until Commit; Abort discards it.
// Exactly one of Commit or Abort must be called.
type Batch interface {
	Commit() error
	Abort()
}

// Writer persists the tables of one service date in two steps so several writers can
// agree before any of them publishes.
type Writer interface {
	Stage(ctx context.Context, date string, t Tables) (Batch, error)
	Close() error
}

// Write stages and commits t in one call.
func Write(ctx context.Context, w Writer, date string, t Tables) error {
	b, err := w.Stage(ctx, date, t)
	if err != nil {
		return err
	}
	return b.Commit()
}

type stagedFile struct {
	tmp  string
	path string
}

// fileBatch renames its temp files into place on Commit.
type fileBatch struct {
	files []stagedFile
}

func (b *fileBatch) Commit() error {
	for i, f := range b.files {
		if err := os.Rename(f.tmp, f.path); err != nil {
			for _, rest := range b.files[i:] {
				os.Remove(rest.tmp)
			}
			return fmt.Errorf("rename %s: %w", f.path, err)
		}
	}
	return nil
}

func (b *fileBatch) Abort() {
	for _, f := range b.files {
		os.Remove(f.tmp)
	}
}

// stageFile writes path's future content to a temp file in the same directory.
func stageFile(path string, write func(f *os.File) error) (stagedFile, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return stagedFile{}, fmt.Errorf("create output dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return stagedFile{}, fmt.Errorf("create temp file: %w", err)
	}

	err = write(tmp)
	if err == nil {
		err = tmp.Sync()
	}
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmp.Name())
		return stagedFile{}, fmt.Errorf("write %s: %w", path, err)
	}
	return stagedFile{tmp: tmp.Name(), path: path}, nil
}

// stageFiles runs each stage in order and aborts the staged ones on the first failure.
func stageFiles(ctx context.Context, stages ...func() (stagedFile, error)) (Batch, error) {
	b := &fileBatch{}
	for _, stage := range stages {
		if err := ctx.Err(); err != nil {
			b.Abort()
			return nil, err
		}
		f, err := stage()
		if err != nil {
			b.Abort()
			return nil, err
		}
		b.files = append(b.files, f)
	}
	return b, nil
}

var errNoTables = errors.New("no table selected")

func checkTables(t Tables) error {
	if !t.WithTrips && !t.WithPings {
		return errNoTables
	}
	return nil
}
