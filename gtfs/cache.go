package gtfs

import (
	"encoding/gob"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// cacheEntry pairs a ServiceDay with the identity of the zip it came from.
type cacheEntry struct {
	Source  string
	Size    int64
	ModTime int64
	Day     ServiceDay
}

// SerializeServiceDay writes day to w using gob encoding, tagged with its source zip.
func SerializeServiceDay(w io.Writer, day *ServiceDay, source os.FileInfo) error {
	entry := cacheEntry{Day: *day}
	if source != nil {
		entry.Source = source.Name()
		entry.Size = source.Size()
		entry.ModTime = source.ModTime().UnixNano()
	}
	if err := gob.NewEncoder(w).Encode(&entry); err != nil {
		return fmt.Errorf("failed to encode ServiceDay: %w", err)
	}
	return nil
}

// DeserializeServiceDay reads a ServiceDay written by SerializeServiceDay. When source is
// non-nil the entry must have been written for a zip with the same name, size and mtime.
func DeserializeServiceDay(r io.Reader, source os.FileInfo) (*ServiceDay, error) {
	var entry cacheEntry
	if err := gob.NewDecoder(r).Decode(&entry); err != nil {
		return nil, fmt.Errorf("failed to decode ServiceDay: %w", err)
	}
	if source != nil && (entry.Source != source.Name() || entry.Size != source.Size() || entry.ModTime != source.ModTime().UnixNano()) {
		return nil, fmt.Errorf("cached ServiceDay %s is stale", entry.Day.Date)
	}
	day := entry.Day
	day.buildIndex()
	return &day, nil
}

// cachePath is <dir>/<YYYY-MM-DD>.gob.
func cachePath(dir, date string) string {
	return filepath.Join(dir, date+".gob")
}

// SaveServiceDay writes day into dir atomically.
func SaveServiceDay(dir string, day *ServiceDay, source os.FileInfo) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, day.Date+".*.tmp")
	if err != nil {
		return fmt.Errorf("create cache file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if err := SerializeServiceDay(tmp, day, source); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close cache file: %w", err)
	}
	return os.Rename(tmp.Name(), cachePath(dir, day.Date))
}

// LoadServiceDay reads the cached ServiceDay for date from dir.
func LoadServiceDay(dir, date string, source os.FileInfo) (*ServiceDay, error) {
	f, err := os.Open(cachePath(dir, date))
	if err != nil {
		return nil, fmt.Errorf("failed to read cache file: %w", err)
	}
	defer f.Close()
	return DeserializeServiceDay(f, source)
}
