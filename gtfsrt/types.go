package gtfsrt

import "fmt"

// ScheduleRelationship mirrors TripDescriptor.ScheduleRelationship.
type ScheduleRelationship int32

const (
	Scheduled   ScheduleRelationship = 0
	Added       ScheduleRelationship = 1
	Unscheduled ScheduleRelationship = 2
	Canceled    ScheduleRelationship = 3
	Replacement ScheduleRelationship = 5
	Duplicated  ScheduleRelationship = 6
	Deleted     ScheduleRelationship = 7
)

var scheduleRelationshipNames = map[ScheduleRelationship]string{
	Scheduled:   "Scheduled",
	Added:       "Added",
	Unscheduled: "Unscheduled",
	Canceled:    "Canceled",
	Replacement: "Replacement",
	Duplicated:  "Duplicated",
	Deleted:     "Deleted",
}

// String returns the capitalized enum name used in TIDES tables.
func (r ScheduleRelationship) String() string {
	if s, ok := scheduleRelationshipNames[r]; ok {
		return s
	}
	return fmt.Sprintf("Unknown(%d)", int32(r))
}

// StopStatus mirrors VehiclePosition.VehicleStopStatus.
type StopStatus int32

const (
	IncomingAt  StopStatus = 0
	StoppedAt   StopStatus = 1
	InTransitTo StopStatus = 2
)

// String returns the TIDES label for the status.
func (s StopStatus) String() string {
	switch s {
	case IncomingAt:
		return "Incoming at"
	case StoppedAt:
		return "Stopped at"
	case InTransitTo:
		return "In transit to"
	}
	return fmt.Sprintf("Unknown(%d)", int32(s))
}

// Snapshot is one decoded feed message.
type Snapshot struct {
	// Name identifies the source file, for logs.
	Name string
	// Timestamp is the header capture time in Unix seconds; never 0 after Decode.
	Timestamp int64
	Entities  []Entity
}

// Entity is one feed entity. At most one of TripUpdate and Vehicle is usually set;
// both nil means an entity kind the pipeline does not consume.
type Entity struct {
	ID         string
	TripUpdate *TripUpdateEntity
	Vehicle    *VehiclePositionEntity
}

// TripUpdateEntity is the trip-update part of an entity.
type TripUpdateEntity struct {
	TripID  string
	RouteID string
	// VehicleID comes from the trip update's vehicle descriptor.
	VehicleID string
	// ScheduleRelationship defaults to Scheduled when the feed omits it.
	ScheduleRelationship ScheduleRelationship
	StopTimeUpdates      []StopTimeUpdate
}

// StopTimeUpdate is one stop-time update, in feed order.
type StopTimeUpdate struct {
	// StopSequence is nil when the update identifies its stop by stop_id only.
	StopSequence  *uint32
	StopID        string
	ArrivalTime   int64
	DepartureTime int64
}

// EventTime returns the arrival time, or the departure time when arrival is absent.
// ok is false when neither is present.
func (u StopTimeUpdate) EventTime() (t int64, ok bool) {
	if u.ArrivalTime != 0 {
		return u.ArrivalTime, true
	}
	if u.DepartureTime != 0 {
		return u.DepartureTime, true
	}
	return 0, false
}

// VehiclePositionEntity is the vehicle-position part of an entity.
type VehiclePositionEntity struct {
	VehicleID string
	TripID    string
	RouteID   string
	// ScheduleRelationship is set whenever the position carries a trip descriptor.
	ScheduleRelationship *ScheduleRelationship
	CurrentStopSequence  *uint32
	StopID               string
	CurrentStatus        *StopStatus
	// Position is nil when the feed omits it.
	Position *Position
	// Timestamp is the vehicle's own capture time in Unix seconds, 0 when absent.
	Timestamp int64
}

// Position is a reported vehicle location. Bearing and Speed are 0 when absent.
type Position struct {
	Latitude  float32
	Longitude float32
	Bearing   float32
	Speed     float32
}
