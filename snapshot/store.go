package snapshot

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/theoremus-urban-solutions/gtfsrt-to-tides/utils"
)

// ErrNoSnapshots is returned when a (date, feed) listing does not exist.
var ErrNoSnapshots = errors.New("no snapshot listing")

// Ref identifies one stored snapshot.
type Ref struct {
	// Date is the day folder the file was found under.
	Date string
	Feed string
	Name string
	Path string
}

// Lister lists the snapshots stored for a date and feed.
type Lister interface {
	List(ctx context.Context, date time.Time, feed string) ([]Ref, error)
}

// Reader returns the raw bytes of a snapshot.
type Reader interface {
	Read(ctx context.Context, ref Ref) ([]byte, error)
}

// DirStore serves snapshots from the downloader's folder layout.
type DirStore struct {
	Root string
}

// NewDirStore creates a store rooted at root.
func NewDirStore(root string) *DirStore {
	return &DirStore{Root: root}
}

// List returns the files under <root>/<date>/<feed>, skipping directories and dotfiles.
func (s *DirStore) List(ctx context.Context, date time.Time, feed string) ([]Ref, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ds := utils.FormatServiceDate(date)
	dir := filepath.Join(s.Root, ds, feed)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNoSnapshots, dir)
		}
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}
	refs := make([]Ref, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		refs = append(refs, Ref{
			Date: ds,
			Feed: feed,
			Name: e.Name(),
			Path: filepath.Join(dir, e.Name()),
		})
	}
	return refs, nil
}

// Read returns the file contents of ref.
func (s *DirStore) Read(ctx context.Context, ref Ref) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b, err := os.ReadFile(ref.Path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot %s: %w", ref.Name, err)
	}
	return b, nil
}
