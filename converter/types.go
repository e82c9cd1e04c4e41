package converter

import (
	"github.com/theoremus-urban-solutions/gtfsrt-to-tides/gtfsrt"
)

// Consumer receives in-window snapshots in order.
type Consumer interface {
	Consume(snap *gtfsrt.Snapshot)
}

// TripRecord is the running state of one trip. Times are Unix seconds with 0 meaning absent.
type TripRecord struct {
	ServiceDate     string
	TripIDPerformed string
	// TripIDScheduled is empty when the trip id is not in the schedule for the date.
	TripIDScheduled string
	VehicleID       string
	RouteID         string
	ShapeID         string

	ScheduledStart int64
	ScheduledEnd   int64

	StartStopID string
	StartTime   int64
	EndStopID   string
	EndTime     int64

	TripType             string
	ScheduleRelationship string

	// LowestSeq and HighestSeq are nil until the first timed stop-time update,
	// standing for +inf and -inf respectively.
	LowestSeq  *uint32
	HighestSeq *uint32
}

// Scheduled reports whether the record is linked to a scheduled trip.
func (r *TripRecord) Scheduled() bool {
	return r.TripIDScheduled != ""
}

// Skip reasons reported through RunStats and metrics.
const (
	SkipUnexpectedEntity    = "unexpected_entity"
	SkipMissingTripID       = "missing_trip_id"
	SkipMissingTiming       = "missing_timing"
	SkipMissingStopSequence = "missing_stop_sequence"
)

// RunStats counts what the Engine did with each snapshot.
type RunStats struct {
	Snapshots    int
	Processed    int
	SkippedEarly int
	ReadErrors   int
	DecodeErrors int
	// PastWindow is set when the run ended on a snapshot after the window.
	PastWindow bool
	// StoppedAt names the snapshot that ended the run.
	StoppedAt string
}
