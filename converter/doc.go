// Package converter reconciles GTFS-Realtime snapshots against a service day's schedule
// and produces TIDES rows.
//
// # Overview
//
// A run for one analysis date is a single ordered pass over the selected snapshots:
//
//	Engine ─ read ─ gtfsrt.Decode ─ AnalysisWindow ─┬─ TripReconciler  ─ Classify ─ tides.TripPerformed
//	                                                └─ PingDeduplicator ───────────── tides.VehicleLocation
//
// The Engine owns the loop. For every snapshot it reads the payload, decodes it, and asks
// the AnalysisWindow what to do with the header timestamp: snapshots before the window are
// skipped, the first snapshot past the window ends the run, everything else goes to the
// Consumer. Unreadable or undecodable snapshots are logged, counted, and skipped.
//
// TripReconciler keeps one TripRecord per trip id, created on first sighting and updated in
// place afterwards. The start of a trip follows the lowest stop sequence seen with timing
// data and the end follows the highest; ties go to the later snapshot.
//
// PingDeduplicator emits one row per distinct (vehicle, position, timestamp).
//
// Classify runs once after the pass: Deleted trips are dropped, Canceled trips keep an empty
// trip_type, everything else is "In service", and scheduled trips never observed are added
// as Missing.
//
// # Usage
//
//	window, _ := converter.NewAnalysisWindow(day, date, 2*time.Hour)
//	engine := converter.NewEngine(store, window, "trip_updates_url", m, logger)
//	rec, _ := converter.NewTripReconciler(day, date, logger)
//	stats, err := engine.Run(ctx, refs, rec)
//	final, err := converter.Classify(rec.Records(), day, date)
//	rows := converter.TripRows(final, loc)
//
// Nothing in this package is safe for concurrent use. Run independent dates in parallel
// with separate values instead.
package converter
