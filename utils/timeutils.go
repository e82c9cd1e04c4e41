package utils

import (
	"fmt"
	"time"
)

// ServiceDateLayout is the layout of analysis dates and of the snapshot day folders.
const ServiceDateLayout = "2006-01-02"

// Iso8601OffsetLayout renders seconds precision with a numeric offset, e.g. 2024-07-04T08:00:00-04:00.
const Iso8601OffsetLayout = "2006-01-02T15:04:05-07:00"

// ParseServiceDate parses a YYYY-MM-DD date into midnight UTC of that day.
func ParseServiceDate(s string) (time.Time, error) {
	d, err := time.Parse(ServiceDateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid service date %q: %w", s, err)
	}
	return d, nil
}

// FormatServiceDate returns the YYYY-MM-DD form of a service date.
func FormatServiceDate(d time.Time) string {
	return d.Format(ServiceDateLayout)
}

// ServiceDayOrigin returns the instant GTFS times on the given date are measured from:
// noon local time minus 12 hours. On DST transition days this differs from local midnight.
func ServiceDayOrigin(date time.Time, loc *time.Location) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, 12, 0, 0, 0, loc).Add(-12 * time.Hour)
}

// GTFSTime resolves a GTFS time-of-day offset (seconds, may exceed 24h) on the service date.
func GTFSTime(date time.Time, seconds int64, loc *time.Location) time.Time {
	return ServiceDayOrigin(date, loc).Add(time.Duration(seconds) * time.Second)
}

// Iso8601InLocation formats Unix seconds as ISO-8601 in loc with its offset.
func Iso8601InLocation(sec int64, loc *time.Location) string {
	return time.Unix(sec, 0).In(loc).Format(Iso8601OffsetLayout)
}

// Iso8601 formats t with its own offset.
func Iso8601(t time.Time) string {
	return t.Format(Iso8601OffsetLayout)
}
