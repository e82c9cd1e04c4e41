package converter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theoremus-urban-solutions/gtfsrt-to-tides/gtfsrt"
)

func newDedup(t *testing.T) *PingDeduplicator {
	t.Helper()
	d, err := NewPingDeduplicator(testDay(), serviceDate(t), nil)
	require.NoError(t, err)
	return d
}

func vehicle(id string, ts int64) *gtfsrt.VehiclePositionEntity {
	return &gtfsrt.VehiclePositionEntity{
		VehicleID: id,
		Timestamp: ts,
		Position:  &gtfsrt.Position{Latitude: 40.5, Longitude: -74.25, Bearing: 90, Speed: 12.5},
	}
}

func TestPingIdentity(t *testing.T) {
	v := vehicle("V1", 1720008000)
	assert.Equal(t, "id:V1_position:40.5,-74.25-90-12.5_T1720008000", PingIdentity(v))

	same := vehicle("V1", 1720008000)
	same.TripID = "T1"
	same.StopID = "B"
	assert.Equal(t, PingIdentity(v), PingIdentity(same), "trip linkage is not part of the identity")

	moved := vehicle("V1", 1720008000)
	moved.Position.Speed = 13
	assert.NotEqual(t, PingIdentity(v), PingIdentity(moved))

	assert.Equal(t, "id:V2_position:,--_T0", PingIdentity(&gtfsrt.VehiclePositionEntity{VehicleID: "V2"}))
}

func TestDedupIdempotence(t *testing.T) {
	d := newDedup(t)
	assert.True(t, d.Observe(vehicle("V1", local(t, 8, 0, 0))))
	assert.False(t, d.Observe(vehicle("V1", local(t, 8, 0, 0))))
	assert.True(t, d.Observe(vehicle("V1", local(t, 8, 0, 30))))

	assert.Len(t, d.Pings(), 2)
	assert.Equal(t, 1, d.Duplicates())
}

func TestDedupScheduledTripRow(t *testing.T) {
	d := newDedup(t)
	status := gtfsrt.StoppedAt
	rel := gtfsrt.Scheduled
	v := vehicle("V1", local(t, 8, 0, 0))
	v.TripID = "T1"
	v.StopID = "A"
	v.CurrentStopSequence = seq(1)
	v.CurrentStatus = &status
	v.ScheduleRelationship = &rel
	d.Observe(v)

	row := d.Pings()[0]
	assert.Equal(t, testDate, row.ServiceDate)
	assert.Equal(t, "2024-07-03T08:00:00-04:00", row.EventTimestamp)
	assert.Equal(t, "T1", row.TripIDPerformed)
	assert.Equal(t, "T1", row.TripIDScheduled)
	require.NotNil(t, row.TripStopSequence)
	require.NotNil(t, row.ScheduledStopSequence)
	assert.Equal(t, uint32(1), *row.TripStopSequence)
	assert.Equal(t, uint32(1), *row.ScheduledStopSequence)
	assert.Equal(t, "V1", row.VehicleID)
	assert.Equal(t, "A", row.StopID)
	assert.Equal(t, "Stopped at", row.CurrentStatus)
	assert.Equal(t, "Scheduled", row.ScheduleRelationship)
	assert.Equal(t, float32(90), *row.Heading)
}

func TestDedupUnscheduledTripRow(t *testing.T) {
	d := newDedup(t)
	v := vehicle("V1", local(t, 8, 0, 0))
	v.TripID = "X9"
	v.CurrentStopSequence = seq(3)
	d.Observe(v)

	row := d.Pings()[0]
	assert.Equal(t, "X9", row.TripIDPerformed)
	assert.Equal(t, "", row.TripIDScheduled)
	assert.Equal(t, uint32(3), *row.TripStopSequence)
	assert.Nil(t, row.ScheduledStopSequence)
}

func TestDedupOwnerlessPing(t *testing.T) {
	d := newDedup(t)
	v := vehicle("V1", local(t, 8, 0, 0))
	v.StopID = "A"
	v.CurrentStopSequence = seq(2)
	d.Observe(v)

	row := d.Pings()[0]
	assert.Equal(t, "", row.ServiceDate)
	assert.Equal(t, "", row.TripIDPerformed)
	assert.Equal(t, "", row.StopID)
	assert.Nil(t, row.TripStopSequence)
	assert.Equal(t, "", row.CurrentStatus)
	assert.Equal(t, "V1", row.VehicleID)
	assert.NotEmpty(t, row.EventTimestamp)
	assert.Equal(t, float32(40.5), *row.Latitude)
}

func TestDedupEventTimestampIsEntityTime(t *testing.T) {
	d := newDedup(t)
	d.Consume(&gtfsrt.Snapshot{
		Name:      "s",
		Timestamp: local(t, 8, 5, 0),
		Entities: []gtfsrt.Entity{
			{ID: "v", Vehicle: vehicle("V1", local(t, 8, 1, 15))},
			{ID: "tu", TripUpdate: &gtfsrt.TripUpdateEntity{TripID: "T1"}},
			{ID: "nots", Vehicle: vehicle("V2", 0)},
		},
	})

	pings := d.Pings()
	require.Len(t, pings, 2)
	assert.Equal(t, "2024-07-03T08:01:15-04:00", pings[0].EventTimestamp)
	assert.Equal(t, "", pings[1].EventTimestamp)
	assert.Equal(t, 1, d.Skipped()[SkipUnexpectedEntity])
}
