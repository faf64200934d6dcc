package dataset

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrUnknownRoadType indicates a road type outside the dataset vocabulary.
var ErrUnknownRoadType = errors.New("unknown road type")

// FeatureNames is the feature order the delay model is trained on. Artifact
// loading rejects models trained on a different order.
var FeatureNames = []string{
	"start_time",
	"route_distance",
	"day_of_week",
	"avg_speed",
	"road_type",
}

// roadTypeEncoding maps road types to the numeric feature values used for
// training. Highway and rural intentionally share a value: existing model
// artifacts were trained with this table and remain compatible.
var roadTypeEncoding = map[string]float64{
	RoadHighway: 1.0,
	RoadCity:    0.8,
	RoadRural:   1.0,
}

// DefaultRoadTypeEncoding is the road_type feature value at inference time,
// where the request carries no road type.
const DefaultRoadTypeEncoding = 1.0

// TimeToDecimal converts "HH:MM" into decimal hours, e.g. "08:30" -> 8.5.
func TimeToDecimal(value string) (float64, error) {
	parts := strings.SplitN(value, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time %q: want HH:MM", value)
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", value, err)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", value, err)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("invalid time %q: out of range", value)
	}

	return float64(hour) + float64(minute)/60.0, nil
}

// EncodeRoadType returns the numeric feature value for a road type.
func EncodeRoadType(roadType string) (float64, error) {
	v, ok := roadTypeEncoding[strings.ToLower(strings.TrimSpace(roadType))]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownRoadType, roadType)
	}
	return v, nil
}

// Features extracts the model feature vector from a trip, in FeatureNames
// order.
func Features(t Trip) ([]float64, error) {
	start, err := TimeToDecimal(t.StartTime)
	if err != nil {
		return nil, err
	}
	road, err := EncodeRoadType(t.RoadType)
	if err != nil {
		return nil, err
	}

	return []float64{
		start,
		t.RouteDistanceKm,
		float64(t.DayOfWeek),
		t.AvgSpeedKmh,
		road,
	}, nil
}

// Matrix converts trips into a feature matrix and target vector.
func Matrix(trips []Trip) (x [][]float64, y []float64, err error) {
	x = make([][]float64, 0, len(trips))
	y = make([]float64, 0, len(trips))

	for i, t := range trips {
		features, err := Features(t)
		if err != nil {
			return nil, nil, fmt.Errorf("trip %d: %w", i, err)
		}
		x = append(x, features)
		y = append(y, t.TravelTimeMinutes)
	}

	return x, y, nil
}
