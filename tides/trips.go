package tides

// Labels written to trips_performed that are not GTFS-RT enum names.
const (
	RelationshipMissing = "Missing"
	TripTypeInService   = "In service"
)

// TripsPerformedHeader is the trips_performed column order.
var TripsPerformedHeader = []string{
	"service_date",
	"trip_id_performed",
	"vehicle_id",
	"trip_id_scheduled",
	"route_id",
	"shape_id",
	"trip_start_stop_id",
	"trip_end_stop_id",
	"schedule_trip_start",
	"schedule_trip_end",
	"actual_trip_start",
	"actual_trip_end",
	"trip_type",
	"schedule_relationship",
}

// TripPerformed is one trips_performed row.
type TripPerformed struct {
	ServiceDate          string `json:"service_date"`
	TripIDPerformed      string `json:"trip_id_performed"`
	VehicleID            string `json:"vehicle_id"`
	TripIDScheduled      string `json:"trip_id_scheduled"`
	RouteID              string `json:"route_id"`
	ShapeID              string `json:"shape_id"`
	TripStartStopID      string `json:"trip_start_stop_id"`
	TripEndStopID        string `json:"trip_end_stop_id"`
	ScheduleTripStart    string `json:"schedule_trip_start"`
	ScheduleTripEnd      string `json:"schedule_trip_end"`
	ActualTripStart      string `json:"actual_trip_start"`
	ActualTripEnd        string `json:"actual_trip_end"`
	TripType             string `json:"trip_type"`
	ScheduleRelationship string `json:"schedule_relationship"`
}

// Header returns the trips_performed columns.
func (TripPerformed) Header() []string { return TripsPerformedHeader }

// Record renders r in header order.
func (r TripPerformed) Record() []string {
	return []string{
		r.ServiceDate,
		r.TripIDPerformed,
		r.VehicleID,
		r.TripIDScheduled,
		r.RouteID,
		r.ShapeID,
		r.TripStartStopID,
		r.TripEndStopID,
		r.ScheduleTripStart,
		r.ScheduleTripEnd,
		r.ActualTripStart,
		r.ActualTripEnd,
		r.TripType,
		r.ScheduleRelationship,
	}
}
