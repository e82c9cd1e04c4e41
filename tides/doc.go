// Package tides defines the TIDES table rows produced by a reconciliation run.
//
// Two tables are produced per service date:
//
//   - trips_performed: one TripPerformed per observed or scheduled trip
//   - vehicle_locations: one VehicleLocation per unique vehicle ping
//
// Header returns the fixed column order of each table and Record renders a row in that
// order, with absent values as empty strings. Timestamps are ISO-8601 with a numeric
// offset in the schedule's reference timezone.
package tides
