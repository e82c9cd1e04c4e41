package converter

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/theoremus-urban-solutions/gtfsrt-to-tides/gtfs"
	"github.com/theoremus-urban-solutions/gtfsrt-to-tides/gtfsrt"
	"github.com/theoremus-urban-solutions/gtfsrt-to-tides/tides"
	"github.com/theoremus-urban-solutions/gtfsrt-to-tides/utils"
)

// PingDeduplicator turns vehicle positions into unique vehicle_locations rows.
type PingDeduplicator struct {
	day         *gtfs.ServiceDay
	serviceDate string
	loc         *time.Location

	seen       map[string]struct{}
	pings      []tides.VehicleLocation
	duplicates int
	skipped    map[string]int

	logger *slog.Logger
}

// NewPingDeduplicator creates a deduplicator for the service day on date.
func NewPingDeduplicator(day *gtfs.ServiceDay, date time.Time, logger *slog.Logger) (*PingDeduplicator, error) {
	loc, err := day.Location()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PingDeduplicator{
		day:         day,
		serviceDate: utils.FormatServiceDate(date),
		loc:         loc,
		seen:        make(map[string]struct{}),
		skipped:     make(map[string]int),
		logger:      logger.With(slog.String("component", "ping_deduplicator")),
	}, nil
}

// PingIdentity is a pure function of vehicle id, position and timestamp.
func PingIdentity(v *gtfsrt.VehiclePositionEntity) string {
	var lat, lon, bearing, speed string
	if p := v.Position; p != nil {
		lat = tides.FormatFloat32(&p.Latitude)
		lon = tides.FormatFloat32(&p.Longitude)
		bearing = tides.FormatFloat32(&p.Bearing)
		speed = tides.FormatFloat32(&p.Speed)
	}
	return fmt.Sprintf("id:%s_position:%s,%s-%s-%s_T%d", v.VehicleID, lat, lon, bearing, speed, v.Timestamp)
}

// Consume implements Consumer.
func (d *PingDeduplicator) Consume(snap *gtfsrt.Snapshot) {
	for _, e := range snap.Entities {
		if e.Vehicle == nil {
			d.skipped[SkipUnexpectedEntity]++
			d.logger.Debug("skipping entity", "reason", SkipUnexpectedEntity, "snapshot", snap.Name, "entity_id", e.ID)
			continue
		}
		d.Observe(e.Vehicle)
	}
}

// Observe records v unless an identical ping was already emitted. It reports whether a
// row was emitted.
func (d *PingDeduplicator) Observe(v *gtfsrt.VehiclePositionEntity) bool {
	id := PingIdentity(v)
	if _, dup := d.seen[id]; dup {
		d.duplicates++
		return false
	}
	d.seen[id] = struct{}{}
	d.pings = append(d.pings, d.row(id, v))
	return true
}

func (d *PingDeduplicator) row(id string, v *gtfsrt.VehiclePositionEntity) tides.VehicleLocation {
	row := tides.VehicleLocation{
		LocationPing: id,
		VehicleID:    v.VehicleID,
	}
	if v.Timestamp != 0 {
		row.EventTimestamp = utils.Iso8601InLocation(v.Timestamp, d.loc)
	}
	if p := v.Position; p != nil {
		lat, lon, bearing, speed := p.Latitude, p.Longitude, p.Bearing, p.Speed
		row.Latitude, row.Longitude, row.Heading, row.Speed = &lat, &lon, &bearing, &speed
	}
	if v.TripID == "" {
		return row
	}

	row.ServiceDate = d.serviceDate
	row.TripIDPerformed = v.TripID
	row.StopID = v.StopID
	if v.CurrentStopSequence != nil {
		seq := *v.CurrentStopSequence
		row.TripStopSequence = &seq
	}
	if v.CurrentStatus != nil {
		row.CurrentStatus = v.CurrentStatus.String()
	}
	if v.ScheduleRelationship != nil {
		row.ScheduleRelationship = v.ScheduleRelationship.String()
	}
	if _, ok := d.day.Lookup(v.TripID); ok {
		row.TripIDScheduled = v.TripID
		if row.TripStopSequence != nil {
			seq := *row.TripStopSequence
			row.ScheduledStopSequence = &seq
		}
	}
	return row
}

// Pings returns the emitted rows in first-seen order.
func (d *PingDeduplicator) Pings() []tides.VehicleLocation {
	return d.pings
}

// Duplicates returns how many pings were discarded as already emitted.
func (d *PingDeduplicator) Duplicates() int {
	return d.duplicates
}

// Skipped returns skip counts by reason.
func (d *PingDeduplicator) Skipped() map[string]int {
	return d.skipped
}
