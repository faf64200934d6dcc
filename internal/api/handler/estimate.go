// Package handler provides HTTP handlers for the tripcast API.
package handler

import (
	"context"
	"errors"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/tripcast/tripcast/internal/api/models"
	"github.com/tripcast/tripcast/internal/api/response"
	"github.com/tripcast/tripcast/internal/dataset"
	"github.com/tripcast/tripcast/internal/estimate"
	"github.com/tripcast/tripcast/internal/routing"
	"github.com/tripcast/tripcast/pkg/polyline"
)

// Default request parameters: Budapest to Szeged, departing 08:00 by car.
const (
	defaultStartLat  = 47.4979
	defaultStartLng  = 19.0402
	defaultEndLat    = 46.2530
	defaultEndLng    = 20.1414
	defaultStartTime = "08:00"
	defaultVehicle   = estimate.VehicleCar
	defaultAvgSpeed  = 50.0
)

// RouteFetcher fetches a driving route. Implemented by routing.Service.
type RouteFetcher interface {
	FetchRoute(ctx context.Context, origin, destination routing.Coordinate) (*routing.Route, error)
	Name() string
}

// EstimateHandler handles travel-time estimation requests.
type EstimateHandler struct {
	routes    RouteFetcher
	estimator *estimate.Estimator
	logger    zerolog.Logger
}

// NewEstimateHandler creates an EstimateHandler.
func NewEstimateHandler(routes RouteFetcher, estimator *estimate.Estimator, logger zerolog.Logger) *EstimateHandler {
	return &EstimateHandler{
		routes:    routes,
		estimator: estimator,
		logger:    logger,
	}
}

// estimateInput holds the parsed and defaulted request parameters.
type estimateInput struct {
	origin      routing.Coordinate
	destination routing.Coordinate
	startTime   string  // "HH:MM"
	startHours  float64 // decimal hours
	date        string  // "YYYY-MM-DD"
	dayOfWeek   int
	vehicle     estimate.VehicleType
	avgSpeed    float64
}

// Estimate handles GET/POST /v1/estimate. Parameters arrive as query or
// form values; absent values fall back to the documented defaults.
func (h *EstimateHandler) Estimate(w http.ResponseWriter, r *http.Request) {
	input, fieldErrors := parseEstimateRequest(r)
	if len(fieldErrors) > 0 {
		response.BadRequest(w, r, "invalid estimation parameters", fieldErrors)
		return
	}

	// A provider failure is recoverable: the response carries an empty
	// path and zero distance instead of an error.
	routeAvailable := true
	var points []routing.Coordinate
	distanceKm := 0.0

	route, err := h.routes.FetchRoute(r.Context(), input.origin, input.destination)
	switch {
	case err == nil:
		points = route.Points
		distanceKm = route.DistanceKm
	case errors.Is(err, routing.ErrInvalidCoordinates):
		response.BadRequest(w, r, "coordinates are out of range", nil)
		return
	case routing.IsNoRoute(err):
		h.logger.Warn().Err(err).Msg("route unavailable, rendering empty path")
		routeAvailable = false
	default:
		h.logger.Error().Err(err).Msg("unexpected route lookup failure, rendering empty path")
		routeAvailable = false
	}

	result, err := h.estimator.Estimate(estimate.Request{
		StartTime:   input.startHours,
		DistanceKm:  distanceKm,
		DayOfWeek:   input.dayOfWeek,
		AvgSpeedKmh: input.avgSpeed,
		Vehicle:     input.vehicle,
	})
	if err != nil {
		if errors.Is(err, estimate.ErrInvalidInput) || errors.Is(err, estimate.ErrUnknownVehicle) {
			response.BadRequest(w, r, err.Error(), nil)
			return
		}
		// Inference failures are fatal for the request.
		h.logger.Error().Err(err).Msg("travel-time inference failed")
		response.InternalError(w, r, "failed to compute travel-time estimate")
		return
	}

	path := make([][]float64, 0, len(points))
	coords := make([]polyline.Coordinate, 0, len(points))
	for _, p := range points {
		path = append(path, []float64{p.Lat, p.Lng})
		coords = append(coords, polyline.Coordinate{Lat: p.Lat, Lng: p.Lng})
	}

	resp := models.EstimateResponse{
		RouteAvailable:        routeAvailable,
		Path:                  path,
		Polyline:              polyline.Encode(coords),
		DistanceKm:            round2(distanceKm),
		BaseTravelTimeMinutes: result.BaseTravelTime,
		PredictedDelayMinutes: result.PredictedDelay,
		AdjustedDuration:      result.Duration,
		Explanation:           result.Explanation,
		Params: models.EstimateParams{
			Start:       models.Point{Lat: input.origin.Lat, Lng: input.origin.Lng},
			End:         models.Point{Lat: input.destination.Lat, Lng: input.destination.Lng},
			StartTime:   input.startTime,
			Date:        input.date,
			VehicleType: string(input.vehicle),
			AvgSpeedKmh: input.avgSpeed,
		},
		GeneratedAt: time.Now().UTC(),
	}

	response.JSON(w, r, http.StatusOK, resp)
}

// parseEstimateRequest resolves parameters from the query/form values,
// applying defaults for absent fields and collecting validation errors for
// malformed ones.
func parseEstimateRequest(r *http.Request) (estimateInput, []models.FieldError) {
	var fieldErrors []models.FieldError

	input := estimateInput{
		origin:      routing.Coordinate{Lat: defaultStartLat, Lng: defaultStartLng},
		destination: routing.Coordinate{Lat: defaultEndLat, Lng: defaultEndLng},
		startTime:   defaultStartTime,
		vehicle:     defaultVehicle,
		avgSpeed:    defaultAvgSpeed,
	}

	parseFloat := func(field string, target *float64) {
		raw := r.FormValue(field)
		if raw == "" {
			return
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			fieldErrors = append(fieldErrors, models.FieldError{
				Field:   field,
				Message: "must be a number",
			})
			return
		}
		*target = v
	}

	parseFloat("start_lat", &input.origin.Lat)
	parseFloat("start_lng", &input.origin.Lng)
	parseFloat("end_lat", &input.destination.Lat)
	parseFloat("end_lng", &input.destination.Lng)
	parseFloat("avg_speed", &input.avgSpeed)

	if input.avgSpeed <= 0 {
		fieldErrors = append(fieldErrors, models.FieldError{
			Field:   "avg_speed",
			Message: "must be positive",
		})
	}

	if raw := r.FormValue("start_time"); raw != "" {
		input.startTime = raw
	}
	startHours, err := dataset.TimeToDecimal(input.startTime)
	if err != nil {
		fieldErrors = append(fieldErrors, models.FieldError{
			Field:   "start_time",
			Message: "must be HH:MM",
		})
	}
	input.startHours = startHours

	date := time.Now()
	if raw := r.FormValue("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			fieldErrors = append(fieldErrors, models.FieldError{
				Field:   "date",
				Message: "must be YYYY-MM-DD",
			})
		} else {
			date = parsed
		}
	}
	input.date = date.Format("2006-01-02")
	input.dayOfWeek = estimate.DayOfWeekFromDate(date)

	if raw := r.FormValue("vehicle_type"); raw != "" {
		input.vehicle = estimate.VehicleType(raw)
		if _, err := estimate.SpeedMultiplier(input.vehicle); err != nil {
			fieldErrors = append(fieldErrors, models.FieldError{
				Field:   "vehicle_type",
				Message: "must be one of car, truck, bike",
			})
		}
	}

	return input, fieldErrors
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
