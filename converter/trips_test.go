package converter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theoremus-urban-solutions/gtfsrt-to-tides/gtfsrt"
)

func seq(v uint32) *uint32 { return &v }

func newReconciler(t *testing.T) *TripReconciler {
	t.Helper()
	r, err := NewTripReconciler(testDay(), serviceDate(t), nil)
	require.NoError(t, err)
	return r
}

func TestReconcilerSeedsScheduledTrip(t *testing.T) {
	r := newReconciler(t)
	r.Observe(&gtfsrt.TripUpdateEntity{TripID: "T1", RouteID: "RT-ROUTE", VehicleID: "V1"})

	recs := r.Records()
	require.Len(t, recs, 1)
	rec := recs[0]
	assert.Equal(t, testDate, rec.ServiceDate)
	assert.Equal(t, "T1", rec.TripIDScheduled)
	assert.True(t, rec.Scheduled())
	assert.Equal(t, "R1", rec.RouteID)
	assert.Equal(t, "S1", rec.ShapeID)
	assert.Equal(t, "V1", rec.VehicleID)
	assert.Equal(t, local(t, 8, 0, 0), rec.ScheduledStart)
	assert.Equal(t, local(t, 8, 30, 0), rec.ScheduledEnd)
	assert.Equal(t, "Scheduled", rec.ScheduleRelationship)
	assert.Nil(t, rec.LowestSeq)
	assert.Nil(t, rec.HighestSeq)
}

func TestReconcilerUnscheduledTrip(t *testing.T) {
	r := newReconciler(t)
	r.Observe(&gtfsrt.TripUpdateEntity{TripID: "X9", RouteID: "R7", ScheduleRelationship: gtfsrt.Added})

	rec := r.Records()[0]
	assert.False(t, rec.Scheduled())
	assert.Equal(t, "", rec.TripIDScheduled)
	assert.Equal(t, "R7", rec.RouteID)
	assert.Equal(t, "", rec.ShapeID)
	assert.Equal(t, int64(0), rec.ScheduledStart)
	assert.Equal(t, "Added", rec.ScheduleRelationship)
}

func TestReconcilerMonotoneExtrema(t *testing.T) {
	r := newReconciler(t)

	// Arrives middle-first, then the end, then the beginning.
	r.Observe(&gtfsrt.TripUpdateEntity{TripID: "T1", StopTimeUpdates: []gtfsrt.StopTimeUpdate{
		{StopSequence: seq(5), StopID: "B", ArrivalTime: 500},
	}})
	r.Observe(&gtfsrt.TripUpdateEntity{TripID: "T1", StopTimeUpdates: []gtfsrt.StopTimeUpdate{
		{StopSequence: seq(9), StopID: "C", ArrivalTime: 900},
	}})
	r.Observe(&gtfsrt.TripUpdateEntity{TripID: "T1", StopTimeUpdates: []gtfsrt.StopTimeUpdate{
		{StopSequence: seq(1), StopID: "A", DepartureTime: 100},
		{StopSequence: seq(5), StopID: "B", ArrivalTime: 510},
	}})

	rec := r.Records()[0]
	assert.Equal(t, "A", rec.StartStopID)
	assert.Equal(t, int64(100), rec.StartTime)
	assert.Equal(t, uint32(1), *rec.LowestSeq)
	assert.Equal(t, "C", rec.EndStopID)
	assert.Equal(t, int64(900), rec.EndTime)
	assert.Equal(t, uint32(9), *rec.HighestSeq)
}

func TestReconcilerTieGoesToLastSeen(t *testing.T) {
	r := newReconciler(t)
	r.Observe(&gtfsrt.TripUpdateEntity{TripID: "T1", StopTimeUpdates: []gtfsrt.StopTimeUpdate{
		{StopSequence: seq(1), StopID: "A", ArrivalTime: 100},
		{StopSequence: seq(9), StopID: "C", ArrivalTime: 900},
	}})
	r.Observe(&gtfsrt.TripUpdateEntity{TripID: "T1", StopTimeUpdates: []gtfsrt.StopTimeUpdate{
		{StopSequence: seq(1), StopID: "A", ArrivalTime: 130},
		{StopSequence: seq(9), StopID: "C", ArrivalTime: 960},
	}})

	rec := r.Records()[0]
	assert.Equal(t, int64(130), rec.StartTime)
	assert.Equal(t, int64(960), rec.EndTime)
}

func TestReconcilerSingleUpdateSetsBothEnds(t *testing.T) {
	r := newReconciler(t)
	r.Observe(&gtfsrt.TripUpdateEntity{TripID: "T1", StopTimeUpdates: []gtfsrt.StopTimeUpdate{
		{StopSequence: seq(3), StopID: "M", ArrivalTime: 300},
	}})
	rec := r.Records()[0]
	assert.Equal(t, "M", rec.StartStopID)
	assert.Equal(t, "M", rec.EndStopID)
}

func TestReconcilerSkipsUntimedUpdates(t *testing.T) {
	r := newReconciler(t)
	r.Observe(&gtfsrt.TripUpdateEntity{TripID: "T1", StopTimeUpdates: []gtfsrt.StopTimeUpdate{
		{StopSequence: seq(5), StopID: "B", ArrivalTime: 500},
		{StopSequence: seq(1), StopID: "A"},
		{StopSequence: seq(9), StopID: "C"},
		{StopID: "D", ArrivalTime: 999},
	}})

	rec := r.Records()[0]
	assert.Equal(t, "B", rec.StartStopID)
	assert.Equal(t, "B", rec.EndStopID)
	assert.Equal(t, uint32(5), *rec.LowestSeq)
	assert.Equal(t, uint32(5), *rec.HighestSeq)
	assert.Equal(t, 2, r.Skipped()[SkipMissingTiming])
	assert.Equal(t, 1, r.Skipped()[SkipMissingStopSequence])
}

func TestReconcilerStopIDOnlyUpdatesUseListOrder(t *testing.T) {
	r := newReconciler(t)
	r.Observe(&gtfsrt.TripUpdateEntity{TripID: "T1", StopTimeUpdates: []gtfsrt.StopTimeUpdate{
		{StopID: "A", ArrivalTime: 100},
		{StopID: "B", DepartureTime: 200},
		{StopID: "C"},
	}})

	rec := r.Records()[0]
	assert.Equal(t, "A", rec.StartStopID)
	assert.Equal(t, int64(100), rec.StartTime)
	assert.Equal(t, "B", rec.EndStopID)
	assert.Equal(t, int64(200), rec.EndTime)
	assert.Equal(t, uint32(0), *rec.LowestSeq)
	assert.Equal(t, uint32(1), *rec.HighestSeq)
	assert.Zero(t, r.Skipped()[SkipMissingStopSequence])
	assert.Equal(t, 1, r.Skipped()[SkipMissingTiming])
}

func TestReconcilerLastRelationshipWins(t *testing.T) {
	r := newReconciler(t)
	r.Observe(&gtfsrt.TripUpdateEntity{TripID: "T1", VehicleID: "V1"})
	r.Observe(&gtfsrt.TripUpdateEntity{TripID: "T1", VehicleID: "V2", ScheduleRelationship: gtfsrt.Canceled})

	rec := r.Records()[0]
	assert.Equal(t, "Canceled", rec.ScheduleRelationship)
	assert.Equal(t, "V1", rec.VehicleID, "vehicle id is not overwritten once known")
}

func TestReconcilerFillsMissingVehicle(t *testing.T) {
	r := newReconciler(t)
	r.Observe(&gtfsrt.TripUpdateEntity{TripID: "T1"})
	r.Observe(&gtfsrt.TripUpdateEntity{TripID: "T1", VehicleID: "V7"})
	assert.Equal(t, "V7", r.Records()[0].VehicleID)
}

func TestReconcilerConsumeSkipsUnexpectedEntities(t *testing.T) {
	r := newReconciler(t)
	r.Consume(&gtfsrt.Snapshot{Name: "s", Timestamp: 1, Entities: []gtfsrt.Entity{
		{ID: "alert"},
		{ID: "vp", Vehicle: &gtfsrt.VehiclePositionEntity{VehicleID: "V1"}},
		{ID: "blank", TripUpdate: &gtfsrt.TripUpdateEntity{}},
		{ID: "t2", TripUpdate: &gtfsrt.TripUpdateEntity{TripID: "T2"}},
		{ID: "t1", TripUpdate: &gtfsrt.TripUpdateEntity{TripID: "T1"}},
	}})

	recs := r.Records()
	require.Len(t, recs, 2)
	assert.Equal(t, "T2", recs[0].TripIDPerformed)
	assert.Equal(t, "T1", recs[1].TripIDPerformed)
	assert.Equal(t, 2, r.Skipped()[SkipUnexpectedEntity])
	assert.Equal(t, 1, r.Skipped()[SkipMissingTripID])
}
