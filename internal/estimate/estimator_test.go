package estimate_test

import (
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripcast/tripcast/internal/estimate"
)

// stubPredictor returns a fixed prediction and records the features it saw.
type stubPredictor struct {
	prediction float64
	err        error
	features   []float64
}

func (s *stubPredictor) Predict(features []float64) (float64, error) {
	s.features = features
	if s.err != nil {
		return 0, s.err
	}
	return s.prediction, nil
}

func TestSpeedMultiplier(t *testing.T) {
	tests := []struct {
		vehicle estimate.VehicleType
		want    float64
	}{
		{estimate.VehicleCar, 1.0},
		{estimate.VehicleTruck, 0.7},
		{estimate.VehicleBike, 0.5},
	}

	for _, tt := range tests {
		got, err := estimate.SpeedMultiplier(tt.vehicle)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	_, err := estimate.SpeedMultiplier("scooter")
	assert.ErrorIs(t, err, estimate.ErrUnknownVehicle)
}

func TestEstimate(t *testing.T) {
	predictor := &stubPredictor{prediction: 75}
	est := estimate.NewEstimator(predictor, zerolog.Nop())

	result, err := est.Estimate(estimate.Request{
		StartTime:   8.0,
		DistanceKm:  60,
		DayOfWeek:   1,
		AvgSpeedKmh: 60,
		Vehicle:     estimate.VehicleCar,
	})
	require.NoError(t, err)

	assert.Equal(t, 60.0, result.AdjustedSpeedKmh)
	assert.Equal(t, 60.0, result.BaseTravelTime)

	// The model output is the delay itself, stacked on top of the base time.
	assert.Equal(t, 75.0, result.PredictedDelay)
	assert.Equal(t, 135.0, result.AdjustedTime)
	assert.Equal(t, "0 days, 2 hours, 15 minutes", result.Duration)
	assert.Equal(t, "Trip on Monday: the model predicts a traffic delay of 75.00 minutes.", result.Explanation)
}

func TestEstimate_NegativeDelay(t *testing.T) {
	est := estimate.NewEstimator(&stubPredictor{prediction: -90}, zerolog.Nop())

	result, err := est.Estimate(estimate.Request{
		StartTime:   10,
		DistanceKm:  30,
		DayOfWeek:   2,
		AvgSpeedKmh: 60,
		Vehicle:     estimate.VehicleCar,
	})
	require.NoError(t, err)

	assert.Equal(t, 30.0, result.BaseTravelTime)
	assert.Equal(t, -90.0, result.PredictedDelay)
	assert.Equal(t, -60.0, result.AdjustedTime)
	assert.Equal(t, "-0 days, 1 hours, 0 minutes", result.Duration)
}

func TestEstimate_VehicleAdjustsSpeedAndFeatures(t *testing.T) {
	predictor := &stubPredictor{prediction: 100}
	est := estimate.NewEstimator(predictor, zerolog.Nop())

	result, err := est.Estimate(estimate.Request{
		StartTime:   9.5,
		DistanceKm:  35,
		DayOfWeek:   4,
		AvgSpeedKmh: 50,
		Vehicle:     estimate.VehicleTruck,
	})
	require.NoError(t, err)

	assert.Equal(t, 35.0, result.AdjustedSpeedKmh)

	// The adjusted speed, not the nominal one, feeds the model.
	require.Len(t, predictor.features, 5)
	assert.Equal(t, 9.5, predictor.features[0])
	assert.Equal(t, 35.0, predictor.features[1])
	assert.Equal(t, 4.0, predictor.features[2])
	assert.Equal(t, 35.0, predictor.features[3])
	assert.Equal(t, 1.0, predictor.features[4])
}

func TestEstimate_InvalidInputs(t *testing.T) {
	est := estimate.NewEstimator(&stubPredictor{prediction: 10}, zerolog.Nop())

	base := estimate.Request{
		StartTime:   8,
		DistanceKm:  10,
		DayOfWeek:   1,
		AvgSpeedKmh: 50,
		Vehicle:     estimate.VehicleCar,
	}

	tests := []struct {
		name   string
		mutate func(*estimate.Request)
	}{
		{"day too low", func(r *estimate.Request) { r.DayOfWeek = 0 }},
		{"day too high", func(r *estimate.Request) { r.DayOfWeek = 8 }},
		{"zero speed", func(r *estimate.Request) { r.AvgSpeedKmh = 0 }},
		{"negative distance", func(r *estimate.Request) { r.DistanceKm = -1 }},
		{"start time past midnight", func(r *estimate.Request) { r.StartTime = 24 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := base
			tt.mutate(&req)
			_, err := est.Estimate(req)
			assert.ErrorIs(t, err, estimate.ErrInvalidInput)
		})
	}

	req := base
	req.Vehicle = "rocket"
	_, err := est.Estimate(req)
	assert.ErrorIs(t, err, estimate.ErrUnknownVehicle)
}

func TestEstimate_PredictorError(t *testing.T) {
	predictorErr := errors.New("model exploded")
	est := estimate.NewEstimator(&stubPredictor{err: predictorErr}, zerolog.Nop())

	_, err := est.Estimate(estimate.Request{
		StartTime:   8,
		DistanceKm:  10,
		DayOfWeek:   1,
		AvgSpeedKmh: 50,
		Vehicle:     estimate.VehicleCar,
	})
	assert.ErrorIs(t, err, predictorErr)
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		minutes float64
		want    string
	}{
		{0, "0 days, 0 hours, 0 minutes"},
		{59.9, "0 days, 0 hours, 59 minutes"},
		{75, "0 days, 1 hours, 15 minutes"},
		{1500, "1 days, 1 hours, 0 minutes"},
		{2941, "2 days, 1 hours, 1 minutes"},
		{-90, "-0 days, 1 hours, 30 minutes"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, estimate.FormatDuration(tt.minutes), "minutes %.1f", tt.minutes)
	}
}

func TestWeekdayName(t *testing.T) {
	assert.Equal(t, "Monday", estimate.WeekdayName(1))
	assert.Equal(t, "Sunday", estimate.WeekdayName(7))
	assert.Equal(t, "unknown", estimate.WeekdayName(0))
	assert.Equal(t, "unknown", estimate.WeekdayName(8))
}

func TestDayOfWeekFromDate(t *testing.T) {
	monday := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	sunday := time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 1, estimate.DayOfWeekFromDate(monday))
	assert.Equal(t, 7, estimate.DayOfWeekFromDate(sunday))
}
