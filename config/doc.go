// Package config loads the run configuration for gtfsrt-to-tides.
//
// The file is YAML; the JSON configs of the earlier batch scripts
// ({"raw_data_path": ..., "date": ..., "tides_output_folder": ...}) load unchanged
// because JSON is valid YAML. A .env file next to the process, when present, is loaded
// first and TIDES_* variables override file values:
//
//	TIDES_RAW_DATA_PATH   raw_data_path
//	TIDES_DATE            date
//	TIDES_OUTPUT_FOLDER   tides_output_folder
//	TIDES_SCHEDULE_PATH   schedule.path
//	TIDES_LOG_LEVEL       logging.level
//
// Example:
//
//	cfg, err := config.Load("config.yml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.SchedulePath(cfg.Date))
package config
