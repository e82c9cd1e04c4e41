package converter

import (
	"time"

	"github.com/theoremus-urban-solutions/gtfsrt-to-tides/gtfs"
	"github.com/theoremus-urban-solutions/gtfsrt-to-tides/gtfsrt"
	"github.com/theoremus-urban-solutions/gtfsrt-to-tides/tides"
	"github.com/theoremus-urban-solutions/gtfsrt-to-tides/utils"
)

// Classify finalizes observed records and completes them with Missing records for scheduled
// trips never observed. It returns a new slice: observed trips in first-sighting order without
// Deleted ones, then Missing trips in schedule order. The input records are not modified.
func Classify(records []*TripRecord, day *gtfs.ServiceDay, date time.Time) ([]TripRecord, error) {
	loc, err := day.Location()
	if err != nil {
		return nil, err
	}
	serviceDate := utils.FormatServiceDate(date)

	out := make([]TripRecord, 0, len(records)+len(day.Trips))
	observed := make(map[string]struct{}, len(records))
	for _, rec := range records {
		observed[rec.TripIDPerformed] = struct{}{}
		switch rec.ScheduleRelationship {
		case gtfsrt.Deleted.String():
			continue
		case gtfsrt.Canceled.String():
			r := *rec
			r.TripType = ""
			out = append(out, r)
		default:
			r := *rec
			r.TripType = tides.TripTypeInService
			out = append(out, r)
		}
	}

	for _, st := range day.Trips {
		if _, ok := observed[st.TripID]; ok {
			continue
		}
		out = append(out, TripRecord{
			ServiceDate:          serviceDate,
			TripIDPerformed:      st.TripID,
			TripIDScheduled:      st.TripID,
			RouteID:              st.RouteID,
			ShapeID:              st.ShapeID,
			ScheduledStart:       utils.GTFSTime(date, st.StartSeconds, loc).Unix(),
			ScheduledEnd:         utils.GTFSTime(date, st.EndSeconds, loc).Unix(),
			ScheduleRelationship: tides.RelationshipMissing,
		})
	}
	return out, nil
}

// TripRows renders finalized records as trips_performed rows in loc.
func TripRows(records []TripRecord, loc *time.Location) []tides.TripPerformed {
	rows := make([]tides.TripPerformed, 0, len(records))
	for _, r := range records {
		rows = append(rows, tides.TripPerformed{
			ServiceDate:          r.ServiceDate,
			TripIDPerformed:      r.TripIDPerformed,
			VehicleID:            r.VehicleID,
			TripIDScheduled:      r.TripIDScheduled,
			RouteID:              r.RouteID,
			ShapeID:              r.ShapeID,
			TripStartStopID:      r.StartStopID,
			TripEndStopID:        r.EndStopID,
			ScheduleTripStart:    isoOrEmpty(r.ScheduledStart, loc),
			ScheduleTripEnd:      isoOrEmpty(r.ScheduledEnd, loc),
			ActualTripStart:      isoOrEmpty(r.StartTime, loc),
			ActualTripEnd:        isoOrEmpty(r.EndTime, loc),
			TripType:             r.TripType,
			ScheduleRelationship: r.ScheduleRelationship,
		})
	}
	return rows
}

func isoOrEmpty(sec int64, loc *time.Location) string {
	if sec == 0 {
		return ""
	}
	return utils.Iso8601InLocation(sec, loc)
}
