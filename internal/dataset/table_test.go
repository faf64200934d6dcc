package dataset_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripcast/tripcast/internal/dataset"
)

func TestCSVRoundTrip(t *testing.T) {
	trips := []dataset.Trip{
		{StartTime: "06:05", RouteDistanceKm: 12, DayOfWeek: 2, AvgSpeedKmh: 45, RoadType: "city", TravelTimeMinutes: 21.33},
		{StartTime: "16:40", RouteDistanceKm: 48, DayOfWeek: 7, AvgSpeedKmh: 60, RoadType: "highway", TravelTimeMinutes: 53.08},
	}

	var buf bytes.Buffer
	require.NoError(t, dataset.WriteCSV(&buf, trips))

	got, err := dataset.ReadCSV(&buf)
	require.NoError(t, err)
	assert.Equal(t, trips, got)
}

func TestWriteCSV_Header(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, dataset.WriteCSV(&buf, nil))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	assert.Equal(t, "start_time,route_distance,day_of_week,avg_speed,road_type,travel_time", lines[0])
}

func TestReadCSV_RejectsBadHeader(t *testing.T) {
	input := "start_time,distance,day_of_week,avg_speed,road_type,travel_time\n"

	_, err := dataset.ReadCSV(strings.NewReader(input))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected header")
}

func TestReadCSV_RejectsBadRows(t *testing.T) {
	header := "start_time,route_distance,day_of_week,avg_speed,road_type,travel_time\n"

	tests := []struct {
		name string
		row  string
	}{
		{"bad time", "25:00,10,1,40,city,15\n"},
		{"bad day", "08:00,10,8,40,city,15\n"},
		{"bad road type", "08:00,10,1,40,ferry,15\n"},
		{"bad distance", "08:00,ten,1,40,city,15\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := dataset.ReadCSV(strings.NewReader(header + tt.row))
			assert.Error(t, err)
		})
	}
}

func TestFileRoundTrip(t *testing.T) {
	path := t.TempDir() + "/trips.csv"

	trips := []dataset.Trip{
		{StartTime: "09:30", RouteDistanceKm: 20, DayOfWeek: 4, AvgSpeedKmh: 55, RoadType: "rural", TravelTimeMinutes: 24.55},
	}

	require.NoError(t, dataset.WriteFile(path, trips))

	got, err := dataset.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, trips, got)
}
