// Package snapshot lists and reads stored GTFS-Realtime snapshot files and selects the
// ones that can contribute to an analysis date.
//
// The downloader stores one file per poll under
//
//	<root>/<YYYY-MM-DD>/<feed folder>/<YYYY-MM-DD-HH-MM-SS>[.pb|.gz]
//
// Trips scheduled late in the day keep reporting after midnight, so Selector folds in the
// following day folders while the required end offset runs past them.
package snapshot
