package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustLoad(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	require.NoError(t, err)
	return loc
}

func TestParseServiceDate(t *testing.T) {
	d, err := ParseServiceDate("2024-07-04")
	require.NoError(t, err)
	assert.Equal(t, "2024-07-04", FormatServiceDate(d))

	_, err = ParseServiceDate("07/04/2024")
	assert.Error(t, err)
}

func TestGTFSTime(t *testing.T) {
	ny := mustLoad(t, "America/New_York")
	d, _ := ParseServiceDate("2024-07-04")

	tests := []struct {
		name    string
		seconds int64
		want    string
	}{
		{"morning", 8 * 3600, "2024-07-04T08:00:00-04:00"},
		{"midnight", 0, "2024-07-04T00:00:00-04:00"},
		{"past midnight", 25*3600 + 30*60, "2024-07-05T01:30:00-04:00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Iso8601(GTFSTime(d, tt.seconds, ny)))
		})
	}
}

func TestServiceDayOriginOnDSTChange(t *testing.T) {
	ny := mustLoad(t, "America/New_York")
	// Spring forward: noon minus 12h lands at 23:00 the previous evening.
	d, _ := ParseServiceDate("2024-03-10")
	origin := ServiceDayOrigin(d, ny)
	assert.Equal(t, "2024-03-09T23:00:00-05:00", Iso8601(origin))
	assert.Equal(t, "2024-03-10T12:00:00-04:00", Iso8601(GTFSTime(d, 12*3600, ny)))
}

func TestIso8601InLocation(t *testing.T) {
	ny := mustLoad(t, "America/New_York")
	assert.Equal(t, "2024-07-04T08:00:00-04:00", Iso8601InLocation(1720094400, ny))
	assert.Equal(t, "2024-07-04T12:00:00+00:00", Iso8601InLocation(1720094400, time.UTC))
}
