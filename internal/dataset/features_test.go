package dataset_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripcast/tripcast/internal/dataset"
)

func TestTimeToDecimal(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{"00:00", 0.0},
		{"08:00", 8.0},
		{"08:30", 8.5},
		{"12:45", 12.75},
		{"23:59", 23.983333333333334},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := dataset.TimeToDecimal(tt.input)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestTimeToDecimal_Invalid(t *testing.T) {
	for _, input := range []string{"", "8", "24:00", "08:60", "-1:30", "ab:cd"} {
		t.Run(input, func(t *testing.T) {
			_, err := dataset.TimeToDecimal(input)
			assert.Error(t, err)
		})
	}
}

func TestEncodeRoadType(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{"highway", 1.0},
		{"city", 0.8},
		{"rural", 1.0},
		{"Highway", 1.0},
		{" CITY ", 0.8},
	}

	for _, tt := range tests {
		got, err := dataset.EncodeRoadType(tt.input)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "road type %q", tt.input)
	}

	_, err := dataset.EncodeRoadType("gravel")
	assert.ErrorIs(t, err, dataset.ErrUnknownRoadType)
}

func TestFeatures_Order(t *testing.T) {
	trip := dataset.Trip{
		StartTime:         "08:30",
		RouteDistanceKm:   25,
		DayOfWeek:         3,
		AvgSpeedKmh:       50,
		RoadType:          "city",
		TravelTimeMinutes: 42.5,
	}

	features, err := dataset.Features(trip)
	require.NoError(t, err)

	require.Len(t, features, len(dataset.FeatureNames))
	assert.Equal(t, []float64{8.5, 25, 3, 50, 0.8}, features)
}

func TestMatrix(t *testing.T) {
	trips := []dataset.Trip{
		{StartTime: "07:00", RouteDistanceKm: 10, DayOfWeek: 1, AvgSpeedKmh: 40, RoadType: "rural", TravelTimeMinutes: 16.2},
		{StartTime: "17:15", RouteDistanceKm: 30, DayOfWeek: 5, AvgSpeedKmh: 60, RoadType: "highway", TravelTimeMinutes: 33.7},
	}

	x, y, err := dataset.Matrix(trips)
	require.NoError(t, err)

	require.Len(t, x, 2)
	assert.Equal(t, []float64{16.2, 33.7}, y)
	assert.Equal(t, []float64{7, 10, 1, 40, 1.0}, x[0])
	assert.Equal(t, []float64{17.25, 30, 5, 60, 1.0}, x[1])
}

func TestMatrix_UnknownRoadType(t *testing.T) {
	trips := []dataset.Trip{
		{StartTime: "07:00", RouteDistanceKm: 10, DayOfWeek: 1, AvgSpeedKmh: 40, RoadType: "dirt"},
	}

	_, _, err := dataset.Matrix(trips)
	assert.ErrorIs(t, err, dataset.ErrUnknownRoadType)
}
