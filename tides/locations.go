package tides

import "strconv"

// VehicleLocationsHeader is the vehicle_locations column order.
var VehicleLocationsHeader = []string{
	"location_ping",
	"service_date",
	"event_timestamp",
	"trip_id_performed",
	"trip_id_scheduled",
	"trip_stop_sequence",
	"scheduled_stop_sequence",
	"vehicle_id",
	"stop_id",
	"current_status",
	"latitude",
	"longitude",
	"heading",
	"speed",
	"schedule_relationship",
}

// VehicleLocation is one vehicle_locations row. Nil pointers render empty.
type VehicleLocation struct {
	LocationPing          string   `json:"location_ping"`
	ServiceDate           string   `json:"service_date"`
	EventTimestamp        string   `json:"event_timestamp"`
	TripIDPerformed       string   `json:"trip_id_performed"`
	TripIDScheduled       string   `json:"trip_id_scheduled"`
	TripStopSequence      *uint32  `json:"trip_stop_sequence"`
	ScheduledStopSequence *uint32  `json:"scheduled_stop_sequence"`
	VehicleID             string   `json:"vehicle_id"`
	StopID                string   `json:"stop_id"`
	CurrentStatus         string   `json:"current_status"`
	Latitude              *float32 `json:"latitude"`
	Longitude             *float32 `json:"longitude"`
	Heading               *float32 `json:"heading"`
	Speed                 *float32 `json:"speed"`
	ScheduleRelationship  string   `json:"schedule_relationship"`
}

// Header returns the vehicle_locations columns.
func (VehicleLocation) Header() []string { return VehicleLocationsHeader }

// Record renders r in header order.
func (r VehicleLocation) Record() []string {
	return []string{
		r.LocationPing,
		r.ServiceDate,
		r.EventTimestamp,
		r.TripIDPerformed,
		r.TripIDScheduled,
		formatUint(r.TripStopSequence),
		formatUint(r.ScheduledStopSequence),
		r.VehicleID,
		r.StopID,
		r.CurrentStatus,
		FormatFloat32(r.Latitude),
		FormatFloat32(r.Longitude),
		FormatFloat32(r.Heading),
		FormatFloat32(r.Speed),
		r.ScheduleRelationship,
	}
}

// FormatFloat32 renders the shortest decimal that round-trips to the same float32.
func FormatFloat32(v *float32) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(float64(*v), 'f', -1, 32)
}

func formatUint(v *uint32) string {
	if v == nil {
		return ""
	}
	return strconv.FormatUint(uint64(*v), 10)
}
