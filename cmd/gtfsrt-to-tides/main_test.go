package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theoremus-urban-solutions/gtfsrt-to-tides/utils"
)

func TestDateRange(t *testing.T) {
	dates, err := dateRange("2024-02-28", "2024-03-01")
	require.NoError(t, err)
	var got []string
	for _, d := range dates {
		got = append(got, utils.FormatServiceDate(d))
	}
	assert.Equal(t, []string{"2024-02-28", "2024-02-29", "2024-03-01"}, got)

	single, err := dateRange("2024-07-03", "")
	require.NoError(t, err)
	assert.Len(t, single, 1)

	_, err = dateRange("2024-07-03", "2024-07-01")
	assert.Error(t, err)
	_, err = dateRange("07/03/2024", "")
	assert.Error(t, err)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"trips", "pings"}, splitList(" Trips, ,pings "))
	assert.Nil(t, splitList(""))
}
