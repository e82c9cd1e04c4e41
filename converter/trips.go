package converter

import (
	"log/slog"
	"time"

	"github.com/theoremus-urban-solutions/gtfsrt-to-tides/gtfs"
	"github.com/theoremus-urban-solutions/gtfsrt-to-tides/gtfsrt"
	"github.com/theoremus-urban-solutions/gtfsrt-to-tides/utils"
)

// TripReconciler folds trip-update entities into one TripRecord per trip id.
type TripReconciler struct {
	day         *gtfs.ServiceDay
	date        time.Time
	serviceDate string
	loc         *time.Location

	records map[string]*TripRecord
	order   []string
	skipped map[string]int

	logger *slog.Logger
}

// NewTripReconciler creates a reconciler for the service day on date.
func NewTripReconciler(day *gtfs.ServiceDay, date time.Time, logger *slog.Logger) (*TripReconciler, error) {
	loc, err := day.Location()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TripReconciler{
		day:         day,
		date:        date,
		serviceDate: utils.FormatServiceDate(date),
		loc:         loc,
		records:     make(map[string]*TripRecord),
		skipped:     make(map[string]int),
		logger:      logger.With(slog.String("component", "trip_reconciler")),
	}, nil
}

// Consume implements Consumer.
func (r *TripReconciler) Consume(snap *gtfsrt.Snapshot) {
	for _, e := range snap.Entities {
		if e.TripUpdate == nil {
			r.skip(SkipUnexpectedEntity, snap.Name, e.ID)
			continue
		}
		if e.TripUpdate.TripID == "" {
			r.skip(SkipMissingTripID, snap.Name, e.ID)
			continue
		}
		r.Observe(e.TripUpdate)
	}
}

// Observe applies one trip update.
func (r *TripReconciler) Observe(tu *gtfsrt.TripUpdateEntity) {
	rec, ok := r.records[tu.TripID]
	if !ok {
		rec = r.newRecord(tu)
		r.records[tu.TripID] = rec
		r.order = append(r.order, tu.TripID)
	} else if rec.VehicleID == "" {
		rec.VehicleID = tu.VehicleID
	}

	rec.ScheduleRelationship = tu.ScheduleRelationship.String()

	positional := !anySequenced(tu.StopTimeUpdates)
	for i, u := range tu.StopTimeUpdates {
		var seq uint32
		switch {
		case u.StopSequence != nil:
			seq = *u.StopSequence
		case positional:
			// stop_id-only feeds list updates in trip order
			seq = uint32(i)
		default:
			r.skipped[SkipMissingStopSequence]++
			continue
		}
		ts, ok := u.EventTime()
		if !ok {
			r.skipped[SkipMissingTiming]++
			continue
		}
		if rec.LowestSeq == nil || seq <= *rec.LowestSeq {
			lo := seq
			rec.LowestSeq = &lo
			rec.StartStopID = u.StopID
			rec.StartTime = ts
		}
		if rec.HighestSeq == nil || seq >= *rec.HighestSeq {
			hi := seq
			rec.HighestSeq = &hi
			rec.EndStopID = u.StopID
			rec.EndTime = ts
		}
	}
}

// anySequenced reports whether at least one update carries a stop_sequence. When none does,
// the update's index stands in for it; in a mixed list the unsequenced updates are skipped.
func anySequenced(updates []gtfsrt.StopTimeUpdate) bool {
	for _, u := range updates {
		if u.StopSequence != nil {
			return true
		}
	}
	return false
}

func (r *TripReconciler) newRecord(tu *gtfsrt.TripUpdateEntity) *TripRecord {
	rec := &TripRecord{
		ServiceDate:     r.serviceDate,
		TripIDPerformed: tu.TripID,
		VehicleID:       tu.VehicleID,
		RouteID:         tu.RouteID,
	}
	st, ok := r.day.Lookup(tu.TripID)
	if !ok {
		r.logger.Debug("unscheduled trip", "trip_id", tu.TripID)
		return rec
	}
	rec.TripIDScheduled = st.TripID
	if st.RouteID != "" {
		rec.RouteID = st.RouteID
	}
	rec.ShapeID = st.ShapeID
	rec.ScheduledStart = utils.GTFSTime(r.date, st.StartSeconds, r.loc).Unix()
	rec.ScheduledEnd = utils.GTFSTime(r.date, st.EndSeconds, r.loc).Unix()
	return rec
}

func (r *TripReconciler) skip(reason, snapshot, entityID string) {
	r.skipped[reason]++
	r.logger.Debug("skipping entity", "reason", reason, "snapshot", snapshot, "entity_id", entityID)
}

// Records returns the records in first-sighting order. The reconciler keeps ownership;
// callers must not mutate them while the reconciler is still consuming.
func (r *TripReconciler) Records() []*TripRecord {
	out := make([]*TripRecord, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.records[id])
	}
	return out
}

// Skipped returns skip counts by reason.
func (r *TripReconciler) Skipped() map[string]int {
	return r.skipped
}
