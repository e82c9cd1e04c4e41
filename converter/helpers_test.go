package converter

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/theoremus-urban-solutions/gtfsrt-to-tides/gtfs"
	"github.com/theoremus-urban-solutions/gtfsrt-to-tides/snapshot"
	"github.com/theoremus-urban-solutions/gtfsrt-to-tides/utils"
)

const testDate = "2024-07-03"

func testDay() *gtfs.ServiceDay {
	return &gtfs.ServiceDay{
		Date:     testDate,
		Timezone: "America/New_York",
		Trips: []gtfs.ScheduledTrip{
			{TripID: "T1", RouteID: "R1", ShapeID: "S1", StartSeconds: 8 * 3600, EndSeconds: 8*3600 + 30*60},
			{TripID: "T2", RouteID: "R1", ShapeID: "S1", StartSeconds: 9 * 3600, EndSeconds: 9*3600 + 30*60},
		},
		StartSeconds: 8 * 3600,
		EndSeconds:   9*3600 + 30*60,
	}
}

func serviceDate(t *testing.T) time.Time {
	t.Helper()
	d, err := utils.ParseServiceDate(testDate)
	require.NoError(t, err)
	return d
}

func newYork(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	return loc
}

// local returns the Unix time of hh:mm:ss on the test date in New York.
func local(t *testing.T, h, m, s int) int64 {
	t.Helper()
	return time.Date(2024, 7, 3, h, m, s, 0, newYork(t)).Unix()
}

// memStore serves snapshots from memory in the order given.
type memStore struct {
	payloads map[string][]byte
	failing  map[string]bool
}

func newMemStore() *memStore {
	return &memStore{payloads: map[string][]byte{}, failing: map[string]bool{}}
}

func (m *memStore) add(name string, payload []byte) snapshot.Ref {
	m.payloads[name] = payload
	return snapshot.Ref{Date: testDate, Feed: "feed", Name: name, Path: name}
}

func (m *memStore) Read(ctx context.Context, ref snapshot.Ref) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.failing[ref.Name] {
		return nil, errors.New("disk error")
	}
	return m.payloads[ref.Name], nil
}
