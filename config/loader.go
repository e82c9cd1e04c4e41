package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Defaults applied when the file leaves a field empty.
const (
	DefaultTripUpdatesFolder      = "trip_updates_url"
	DefaultVehiclePositionsFolder = "vehicle_positions_url"
	DefaultWindowPaddingMinutes   = 120
)

// Load reads, overrides, defaults and validates the configuration at path.
func Load(path string) (*AppConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes raw config bytes and applies env overrides, defaults and validation.
func Parse(data []byte) (*AppConfig, error) {
	cfg := &AppConfig{Analysis: AnalysisConfig{WindowPaddingMinutes: -1}}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	applyEnv(cfg)
	applyDefaults(cfg)
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks struct tags and the cross-field rules tags cannot express.
func Validate(cfg *AppConfig) error {
	v := validator.New()
	if err := v.Struct(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if cfg.WantsFormat(FormatSQLite) && cfg.Output.SQLitePath == "" {
		return errors.New("invalid config: output.sqlite_path is required when formats include sqlite")
	}
	return nil
}

func applyEnv(cfg *AppConfig) {
	overrides := []struct {
		key string
		dst *string
	}{
		{"TIDES_RAW_DATA_PATH", &cfg.RawDataPath},
		{"TIDES_DATE", &cfg.Date},
		{"TIDES_OUTPUT_FOLDER", &cfg.TidesOutputFolder},
		{"TIDES_SCHEDULE_PATH", &cfg.Schedule.Path},
		{"TIDES_LOG_LEVEL", &cfg.Logging.Level},
	}
	for _, o := range overrides {
		if v, ok := os.LookupEnv(o.key); ok && v != "" {
			*o.dst = v
		}
	}
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Feeds.TripUpdatesFolder == "" {
		cfg.Feeds.TripUpdatesFolder = DefaultTripUpdatesFolder
	}
	if cfg.Feeds.VehiclePositionsFolder == "" {
		cfg.Feeds.VehiclePositionsFolder = DefaultVehiclePositionsFolder
	}
	// -1 marks "absent" so an explicit 0 disables padding.
	if cfg.Analysis.WindowPaddingMinutes < 0 {
		cfg.Analysis.WindowPaddingMinutes = DefaultWindowPaddingMinutes
	}
	if len(cfg.Output.Tables) == 0 {
		cfg.Output.Tables = []string{TableTrips, TablePings}
	}
	if len(cfg.Output.Formats) == 0 {
		cfg.Output.Formats = []string{FormatCSV}
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
	if cfg.Parallelism == 0 {
		cfg.Parallelism = 1
	}
}
