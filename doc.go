// Package gtfsrttides reconciles a day of archived GTFS-Realtime snapshots against the static
// schedule and writes the TIDES trips_performed and vehicle_locations tables.
//
// A Pipeline wires the schedule provider, the snapshot store and the configured writers.
// ProcessDay runs one analysis date end to end:
//
//	cfg, _ := config.Load("config.yml")
//	p, _ := gtfsrttides.NewPipeline(ctx, cfg, metrics.New(), clock.RealClock{}, logger)
//	defer p.Close()
//	res, err := p.ProcessDay(ctx, date)
//
// Dates are independent; a Pipeline may process several of them concurrently.
package gtfsrttides
