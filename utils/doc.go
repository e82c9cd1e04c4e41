// Package utils provides internal utility functions for the gtfsrt-to-tides converter.
// This package is not intended to be imported by external code.
//
// It contains:
//   - Service date parsing and formatting
//   - GTFS time-of-day offsets resolved to absolute instants
//   - ISO-8601 formatting with a numeric UTC offset
package utils
