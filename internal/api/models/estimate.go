// Package models defines the wire types of the tripcast API.
package models

import "time"

// Point is a (lat, lng) pair on the wire.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// EstimateParams echoes the resolved request inputs back to the client.
type EstimateParams struct {
	Start       Point   `json:"start"`
	End         Point   `json:"end"`
	StartTime   string  `json:"startTime"`
	Date        string  `json:"date"`
	VehicleType string  `json:"vehicleType"`
	AvgSpeedKmh float64 `json:"avgSpeedKmh"`
}

// EstimateResponse is the payload of a travel-time estimation.
type EstimateResponse struct {
	// RouteAvailable is false when the routing provider failed and the
	// path and distances are zeroed.
	RouteAvailable bool `json:"routeAvailable"`

	// Path is the ordered [lat, lng] route geometry.
	Path [][]float64 `json:"path"`

	// Polyline is the precision-5 encoded route geometry.
	Polyline string `json:"polyline,omitempty"`

	DistanceKm            float64 `json:"distanceKm"`
	BaseTravelTimeMinutes float64 `json:"baseTravelTimeMinutes"`
	PredictedDelayMinutes float64 `json:"predictedDelayMinutes"`

	// AdjustedDuration is "D days, H hours, M minutes".
	AdjustedDuration string `json:"adjustedDuration"`

	Explanation string `json:"explanation"`

	Params EstimateParams `json:"params"`

	GeneratedAt time.Time `json:"generatedAt"`
}

// Health is the ops health payload.
type Health struct {
	Status  string         `json:"status"`
	Time    time.Time      `json:"time"`
	Details map[string]any `json:"details,omitempty"`
}

// HealthStatusOK is the healthy status value.
const HealthStatusOK = "ok"
