package gtfs

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrSchedulePrecondition is wrapped by every error that makes a service date unusable.
	ErrSchedulePrecondition = errors.New("schedule precondition failed")
	// ErrNoTrips means no trip runs on the requested date.
	ErrNoTrips = fmt.Errorf("%w: no trips scheduled", ErrSchedulePrecondition)
	// ErrNoTimezone means the feed has no agency or the first agency has no usable timezone.
	ErrNoTimezone = fmt.Errorf("%w: no agency timezone", ErrSchedulePrecondition)
)

// ScheduledTrip is one trip active on a service day.
type ScheduledTrip struct {
	TripID  string
	RouteID string
	ShapeID string
	BlockID string
	// StartSeconds is the first stop's departure, EndSeconds the last stop's arrival.
	StartSeconds int64
	EndSeconds   int64
}

// ServiceDay is the schedule for one date. Fields are exported for gob caching.
type ServiceDay struct {
	Date     string
	Timezone string
	// Trips are in feed order.
	Trips []ScheduledTrip
	// StartSeconds and EndSeconds span every active trip.
	StartSeconds int64
	EndSeconds   int64

	byID map[string]int
	loc  *time.Location
}

// Lookup returns the scheduled trip with the given id.
func (d *ServiceDay) Lookup(tripID string) (ScheduledTrip, bool) {
	if d.byID == nil {
		d.buildIndex()
	}
	i, ok := d.byID[tripID]
	if !ok {
		return ScheduledTrip{}, false
	}
	return d.Trips[i], true
}

// Location returns the reference timezone.
func (d *ServiceDay) Location() (*time.Location, error) {
	if d.loc != nil {
		return d.loc, nil
	}
	if d.Timezone == "" {
		return nil, ErrNoTimezone
	}
	loc, err := time.LoadLocation(d.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoTimezone, err)
	}
	d.loc = loc
	return loc, nil
}

func (d *ServiceDay) buildIndex() {
	d.byID = make(map[string]int, len(d.Trips))
	for i, t := range d.Trips {
		d.byID[t.TripID] = i
	}
}
