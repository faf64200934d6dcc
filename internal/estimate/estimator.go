// Package estimate computes delay-adjusted travel times from a trained
// delay model.
package estimate

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/tripcast/tripcast/internal/dataset"
)

var (
	// ErrUnknownVehicle indicates a vehicle type without a speed multiplier.
	ErrUnknownVehicle = errors.New("unknown vehicle type")

	// ErrInvalidInput indicates estimation parameters outside their domain.
	ErrInvalidInput = errors.New("invalid estimation input")
)

// Predictor predicts a travel time in minutes from a feature vector.
// Implemented by model.Forest.
type Predictor interface {
	Predict(features []float64) (float64, error)
}

// VehicleType selects the speed multiplier applied to the nominal speed.
type VehicleType string

// Supported vehicle types.
const (
	VehicleCar   VehicleType = "car"
	VehicleTruck VehicleType = "truck"
	VehicleBike  VehicleType = "bike"
)

var vehicleSpeedMultipliers = map[VehicleType]float64{
	VehicleCar:   1.0,
	VehicleTruck: 0.7,
	VehicleBike:  0.5,
}

// SpeedMultiplier returns the speed multiplier for a vehicle type.
func SpeedMultiplier(v VehicleType) (float64, error) {
	m, ok := vehicleSpeedMultipliers[v]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownVehicle, v)
	}
	return m, nil
}

// Request holds the estimation inputs.
type Request struct {
	// StartTime is the departure time in decimal hours, e.g. 8.5 for 08:30.
	StartTime float64

	DistanceKm float64

	// DayOfWeek is 1 (Monday) through 7 (Sunday).
	DayOfWeek int

	// AvgSpeedKmh is the nominal speed before the vehicle multiplier.
	AvgSpeedKmh float64

	Vehicle VehicleType
}

// Result holds the estimation outputs.
type Result struct {
	AdjustedSpeedKmh float64

	// BaseTravelTime is distance over adjusted speed, in minutes.
	BaseTravelTime float64

	// PredictedDelay is the model's predicted delay in minutes.
	PredictedDelay float64

	// AdjustedTime is base time plus predicted delay, in minutes.
	AdjustedTime float64

	// Duration renders AdjustedTime as "D days, H hours, M minutes".
	Duration string

	Explanation string
}

// Estimator combines a trained delay model with the deterministic travel
// time arithmetic.
type Estimator struct {
	predictor Predictor
	logger    zerolog.Logger
}

// NewEstimator creates an Estimator.
func NewEstimator(predictor Predictor, logger zerolog.Logger) *Estimator {
	return &Estimator{
		predictor: predictor,
		logger:    logger.With().Str("component", "estimator").Logger(),
	}
}

// Estimate computes the delay-adjusted travel time for a request. The
// vehicle-adjusted speed feeds both the base time and the model's avg_speed
// feature. The model's scalar output is the predicted delay, added on top of
// the base time. The model has no road type at inference, so the road
// feature is pinned to dataset.DefaultRoadTypeEncoding.
func (e *Estimator) Estimate(req Request) (*Result, error) {
	if req.DayOfWeek < 1 || req.DayOfWeek > 7 {
		return nil, fmt.Errorf("%w: day of week %d", ErrInvalidInput, req.DayOfWeek)
	}
	if req.AvgSpeedKmh <= 0 {
		return nil, fmt.Errorf("%w: average speed %.2f", ErrInvalidInput, req.AvgSpeedKmh)
	}
	if req.DistanceKm < 0 {
		return nil, fmt.Errorf("%w: distance %.2f", ErrInvalidInput, req.DistanceKm)
	}
	if req.StartTime < 0 || req.StartTime >= 24 {
		return nil, fmt.Errorf("%w: start time %.2f", ErrInvalidInput, req.StartTime)
	}

	multiplier, err := SpeedMultiplier(req.Vehicle)
	if err != nil {
		return nil, err
	}

	adjustedSpeed := req.AvgSpeedKmh * multiplier
	baseTime := req.DistanceKm / adjustedSpeed * 60.0

	delay, err := e.predictor.Predict([]float64{
		req.StartTime,
		req.DistanceKm,
		float64(req.DayOfWeek),
		adjustedSpeed,
		dataset.DefaultRoadTypeEncoding,
	})
	if err != nil {
		return nil, fmt.Errorf("predict delay: %w", err)
	}

	adjusted := baseTime + delay

	e.logger.Debug().
		Float64("base_minutes", baseTime).
		Float64("delay_minutes", delay).
		Float64("adjusted_minutes", adjusted).
		Msg("estimate computed")

	return &Result{
		AdjustedSpeedKmh: adjustedSpeed,
		BaseTravelTime:   round2(baseTime),
		PredictedDelay:   round2(delay),
		AdjustedTime:     round2(adjusted),
		Duration:         FormatDuration(adjusted),
		Explanation: fmt.Sprintf(
			"Trip on %s: the model predicts a traffic delay of %.2f minutes.",
			WeekdayName(req.DayOfWeek), delay),
	}, nil
}

// FormatDuration renders minutes as "D days, H hours, M minutes", flooring
// each component. Negative inputs render the absolute decomposition with a
// leading minus.
func FormatDuration(minutes float64) string {
	prefix := ""
	if minutes < 0 {
		prefix = "-"
		minutes = -minutes
	}

	total := int(minutes)
	days := total / 1440
	hours := (total % 1440) / 60
	mins := total % 60

	return fmt.Sprintf("%s%d days, %d hours, %d minutes", prefix, days, hours, mins)
}

var weekdayNames = [...]string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

// WeekdayName returns the English name for a 1 (Monday) to 7 (Sunday) day.
func WeekdayName(day int) string {
	if day < 1 || day > 7 {
		return "unknown"
	}
	return weekdayNames[day-1]
}

// DayOfWeekFromDate maps a date to 1 (Monday) through 7 (Sunday).
func DayOfWeekFromDate(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
