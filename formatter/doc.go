// Package formatter writes TIDES tables produced by a run.
//
// This package is organized into:
//   - formatter.go: the Writer and Batch interfaces and the temp-file staging helpers
//   - csv.go: CSV files, one per table and service date, renamed into place on commit
//   - json.go: JSON Lines files with the same layout
//   - sqlite.go: a SQLite database (modernc.org/sqlite) with per-date replacement
//
// Writing is two-step. Stage prepares the output without making it visible and Commit
// publishes it, so several writers can be staged before any of them commits. An aborted
// batch leaves the previous output for the date untouched.
package formatter
