/*
Package gtfs answers the schedule questions a reconciliation run needs for one service date.

A Schedule wraps a parsed static GTFS zip (github.com/OneBusAway/go-gtfs). Day resolves the
calendar and calendar_dates tables for a date and returns a ServiceDay: the active trips with
their route, shape, block and first/last stop times, the reference timezone of the first
listed agency, and the overall service span.

# Basic Usage

	sched, err := gtfs.LoadSchedule("/data/raw/2024-07-04/schedule/gtfs.zip")
	if err != nil {
	    log.Fatal(err)
	}
	date, _ := utils.ParseServiceDate("2024-07-04")
	day, err := sched.Day(date)
	if errors.Is(err, gtfs.ErrSchedulePrecondition) {
	    // no trips or no timezone: nothing can be reconciled for this date
	}
	trip, ok := day.Lookup("T1")

# Caching

Parsing a large GTFS zip dominates the start-up of a run. Provider keeps a gob-encoded
ServiceDay per date in a cache directory and only re-parses the zip when the zip's size or
modification time differ from the cached entry.

	p := gtfs.NewProvider(cfg.SchedulePath, cfg.Schedule.CacheDir, logger)
	day, err := p.Day(ctx, date)

Times on a ServiceDay are GTFS offsets in seconds from the service day's origin
(noon minus 12h in the reference timezone) and may exceed 24h for trips past midnight.
*/
package gtfs
