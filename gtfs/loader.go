package gtfs

import (
	"fmt"
	"os"
	"time"

	gogtfs "github.com/OneBusAway/go-gtfs"

	"github.com/theoremus-urban-solutions/gtfsrt-to-tides/utils"
)

// Schedule is a parsed static GTFS feed.
type Schedule struct {
	static *gogtfs.Static
}

// LoadSchedule reads and parses a GTFS zip from disk.
func LoadSchedule(path string) (*Schedule, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schedule %s: %w", path, err)
	}
	return NewScheduleFromBytes(b)
}

// NewScheduleFromBytes parses GTFS zip bytes.
func NewScheduleFromBytes(b []byte) (*Schedule, error) {
	static, err := gogtfs.ParseStatic(b, gogtfs.ParseStaticOptions{})
	if err != nil {
		return nil, fmt.Errorf("parse schedule: %w", err)
	}
	return &Schedule{static: static}, nil
}

// Day resolves the trips active on date. The returned error wraps ErrSchedulePrecondition
// when the date has no trips or the feed has no usable timezone.
func (s *Schedule) Day(date time.Time) (*ServiceDay, error) {
	if len(s.static.Agencies) == 0 || s.static.Agencies[0].Timezone == "" {
		return nil, ErrNoTimezone
	}
	day := &ServiceDay{
		Date:     utils.FormatServiceDate(date),
		Timezone: s.static.Agencies[0].Timezone,
	}
	if _, err := day.Location(); err != nil {
		return nil, err
	}

	active := map[string]bool{}
	for _, t := range s.static.Trips {
		if t.Service == nil || len(t.StopTimes) == 0 {
			continue
		}
		on, seen := active[t.Service.Id]
		if !seen {
			on = serviceActive(t.Service, date)
			active[t.Service.Id] = on
		}
		if !on {
			continue
		}

		st := ScheduledTrip{TripID: t.ID, BlockID: t.BlockID}
		if t.Route != nil {
			st.RouteID = t.Route.Id
		}
		if t.Shape != nil {
			st.ShapeID = t.Shape.ID
		}
		first, last := 0, 0
		for i, stopTime := range t.StopTimes {
			if stopTime.StopSequence < t.StopTimes[first].StopSequence {
				first = i
			}
			if stopTime.StopSequence > t.StopTimes[last].StopSequence {
				last = i
			}
		}
		st.StartSeconds = int64(t.StopTimes[first].DepartureTime / time.Second)
		st.EndSeconds = int64(t.StopTimes[last].ArrivalTime / time.Second)
		day.Trips = append(day.Trips, st)
	}
	if len(day.Trips) == 0 {
		return nil, fmt.Errorf("%w on %s", ErrNoTrips, day.Date)
	}

	day.StartSeconds, day.EndSeconds = day.Trips[0].StartSeconds, day.Trips[0].EndSeconds
	for _, t := range day.Trips[1:] {
		day.StartSeconds = min(day.StartSeconds, t.StartSeconds)
		day.EndSeconds = max(day.EndSeconds, t.EndSeconds)
	}
	day.buildIndex()
	return day, nil
}

// serviceActive applies calendar_dates exceptions first, then the weekly calendar.
func serviceActive(s *gogtfs.Service, date time.Time) bool {
	for _, d := range s.RemovedDates {
		if sameDay(d, date) {
			return false
		}
	}
	for _, d := range s.AddedDates {
		if sameDay(d, date) {
			return true
		}
	}
	if s.StartDate.IsZero() || s.EndDate.IsZero() {
		return false
	}
	if dayBefore(date, s.StartDate) || dayBefore(s.EndDate, date) {
		return false
	}
	switch date.Weekday() {
	case time.Monday:
		return s.Monday
	case time.Tuesday:
		return s.Tuesday
	case time.Wednesday:
		return s.Wednesday
	case time.Thursday:
		return s.Thursday
	case time.Friday:
		return s.Friday
	case time.Saturday:
		return s.Saturday
	case time.Sunday:
		return s.Sunday
	}
	return false
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func dayBefore(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC).Before(time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC))
}
