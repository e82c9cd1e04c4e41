package config

import (
	"path/filepath"
	"strings"
	"time"
)

// Output formats.
const (
	FormatCSV    = "csv"
	FormatSQLite = "sqlite"
	FormatJSON   = "json"
)

// Output tables.
const (
	TableTrips = "trips"
	TablePings = "pings"
)

// FeedsConfig names the per-feed folders written by the downloader under each day folder.
type FeedsConfig struct {
	TripUpdatesFolder      string `yaml:"trip_updates_folder" validate:"required"`
	VehiclePositionsFolder string `yaml:"vehicle_positions_folder" validate:"required"`
}

// ScheduleConfig locates the static GTFS for a service date.
// Path may contain a {date} placeholder.
type ScheduleConfig struct {
	Path     string `yaml:"path"`
	CacheDir string `yaml:"cache_dir"`
}

// AnalysisConfig tunes the analysis window.
type AnalysisConfig struct {
	WindowPaddingMinutes int `yaml:"window_padding_minutes" validate:"gte=0,lte=1440"`
}

// OutputConfig selects which tables are produced and where they go.
type OutputConfig struct {
	Tables     []string `yaml:"tables" validate:"dive,oneof=trips pings"`
	Formats    []string `yaml:"formats" validate:"dive,oneof=csv sqlite json"`
	SQLitePath string   `yaml:"sqlite_path"`
}

// MetricsConfig contains metrics export configuration
type MetricsConfig struct {
	TextfilePath string `yaml:"textfile_path"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
	Format string `yaml:"format" validate:"omitempty,oneof=text json"`
}

// AppConfig is the root configuration structure
type AppConfig struct {
	RawDataPath       string `yaml:"raw_data_path" validate:"required"`
	Date              string `yaml:"date" validate:"required,datetime=2006-01-02"`
	TidesOutputFolder string `yaml:"tides_output_folder" validate:"required"`
	Parallelism       int    `yaml:"parallelism" validate:"gte=0"`

	Feeds    FeedsConfig    `yaml:"feeds"`
	Schedule ScheduleConfig `yaml:"schedule"`
	Analysis AnalysisConfig `yaml:"analysis"`
	Output   OutputConfig   `yaml:"output"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// WindowPadding is how far the analysis window extends past the scheduled service span.
func (c *AppConfig) WindowPadding() time.Duration {
	return time.Duration(c.Analysis.WindowPaddingMinutes) * time.Minute
}

// SchedulePath returns the GTFS zip for date (YYYY-MM-DD).
func (c *AppConfig) SchedulePath(date string) string {
	if c.Schedule.Path == "" {
		return filepath.Join(c.RawDataPath, date, "schedule", "gtfs.zip")
	}
	return strings.ReplaceAll(c.Schedule.Path, "{date}", date)
}

// WantsTable reports whether name is among the configured output tables.
func (c *AppConfig) WantsTable(name string) bool {
	return contains(c.Output.Tables, name)
}

// WantsFormat reports whether format is among the configured output formats.
func (c *AppConfig) WantsFormat(format string) bool {
	return contains(c.Output.Formats, format)
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
