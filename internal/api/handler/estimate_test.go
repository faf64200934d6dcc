package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripcast/tripcast/internal/api/handler"
	"github.com/tripcast/tripcast/internal/api/models"
	"github.com/tripcast/tripcast/internal/estimate"
	"github.com/tripcast/tripcast/internal/routing"
)

type fakeRoutes struct {
	route *routing.Route
	err   error
}

func (f *fakeRoutes) FetchRoute(_ context.Context, _, _ routing.Coordinate) (*routing.Route, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.route, nil
}

func (f *fakeRoutes) Name() string { return "fake" }

type fixedPredictor struct {
	prediction float64
	err        error
}

func (p *fixedPredictor) Predict(_ []float64) (float64, error) {
	return p.prediction, p.err
}

func newHandler(routes handler.RouteFetcher, predictor estimate.Predictor) *handler.EstimateHandler {
	est := estimate.NewEstimator(predictor, zerolog.Nop())
	return handler.NewEstimateHandler(routes, est, zerolog.Nop())
}

func budapestSzegedRoute() *routing.Route {
	return &routing.Route{
		Points: []routing.Coordinate{
			{Lat: 47.4979, Lng: 19.0402},
			{Lat: 46.2530, Lng: 20.1414},
		},
		DistanceKm: 174.2,
		Provider:   "fake",
		FetchedAt:  time.Now(),
	}
}

func TestEstimate_Defaults(t *testing.T) {
	h := newHandler(&fakeRoutes{route: budapestSzegedRoute()}, &fixedPredictor{prediction: 250})

	rec := httptest.NewRecorder()
	h.Estimate(rec, httptest.NewRequest(http.MethodGet, "/v1/estimate", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.EstimateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.True(t, resp.RouteAvailable)
	assert.Len(t, resp.Path, 2)
	assert.NotEmpty(t, resp.Polyline)
	assert.InDelta(t, 174.2, resp.DistanceKm, 1e-9)

	// 174.2 km at the default 50 km/h is 209.04 minutes; the predicted
	// delay of 250 stacks on top.
	assert.InDelta(t, 209.04, resp.BaseTravelTimeMinutes, 1e-9)
	assert.InDelta(t, 250.0, resp.PredictedDelayMinutes, 1e-9)
	assert.Equal(t, "0 days, 7 hours, 39 minutes", resp.AdjustedDuration)
	assert.Contains(t, resp.Explanation, "minutes")

	assert.Equal(t, 47.4979, resp.Params.Start.Lat)
	assert.Equal(t, 19.0402, resp.Params.Start.Lng)
	assert.Equal(t, 46.2530, resp.Params.End.Lat)
	assert.Equal(t, 20.1414, resp.Params.End.Lng)
	assert.Equal(t, "08:00", resp.Params.StartTime)
	assert.Equal(t, "car", resp.Params.VehicleType)
	assert.Equal(t, 50.0, resp.Params.AvgSpeedKmh)
}

func TestEstimate_RouteFailureStillEstimates(t *testing.T) {
	h := newHandler(&fakeRoutes{err: routing.ErrProviderUnavailable}, &fixedPredictor{prediction: 30})

	rec := httptest.NewRecorder()
	h.Estimate(rec, httptest.NewRequest(http.MethodGet, "/v1/estimate", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.EstimateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.False(t, resp.RouteAvailable)
	assert.Empty(t, resp.Path)
	assert.Zero(t, resp.DistanceKm)
	assert.Zero(t, resp.BaseTravelTimeMinutes)
}

func TestEstimate_NoRouteFound(t *testing.T) {
	h := newHandler(&fakeRoutes{err: routing.ErrNoRouteFound}, &fixedPredictor{prediction: 30})

	rec := httptest.NewRecorder()
	h.Estimate(rec, httptest.NewRequest(http.MethodGet, "/v1/estimate", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.EstimateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.RouteAvailable)
	assert.Empty(t, resp.Path)
}

func TestEstimate_UnexpectedRouteError(t *testing.T) {
	h := newHandler(&fakeRoutes{err: assert.AnError}, &fixedPredictor{prediction: 30})

	rec := httptest.NewRecorder()
	h.Estimate(rec, httptest.NewRequest(http.MethodGet, "/v1/estimate", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.EstimateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.RouteAvailable)
}

func TestEstimate_InvalidCoordinates(t *testing.T) {
	h := newHandler(&fakeRoutes{err: routing.ErrInvalidCoordinates}, &fixedPredictor{prediction: 30})

	req := httptest.NewRequest(http.MethodGet, "/v1/estimate?start_lat=91", nil)
	rec := httptest.NewRecorder()
	h.Estimate(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
}

func TestEstimate_QueryParamsOverrideDefaults(t *testing.T) {
	h := newHandler(&fakeRoutes{route: budapestSzegedRoute()}, &fixedPredictor{prediction: 400})

	// 2024-01-06 is a Saturday.
	target := "/v1/estimate?start_time=17:30&date=2024-01-06&vehicle_type=truck&avg_speed=60"
	rec := httptest.NewRecorder()
	h.Estimate(rec, httptest.NewRequest(http.MethodGet, target, nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.EstimateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	// 174.2 km at 60*0.7 km/h is 248.857 minutes.
	assert.InDelta(t, 248.86, resp.BaseTravelTimeMinutes, 0.01)
	assert.Contains(t, resp.Explanation, "Saturday")
	assert.Equal(t, "truck", resp.Params.VehicleType)
	assert.Equal(t, "17:30", resp.Params.StartTime)
	assert.Equal(t, "2024-01-06", resp.Params.Date)
}

func TestEstimate_FormBody(t *testing.T) {
	h := newHandler(&fakeRoutes{route: budapestSzegedRoute()}, &fixedPredictor{prediction: 250})

	form := url.Values{
		"vehicle_type": {"bike"},
		"avg_speed":    {"20"},
	}
	req := httptest.NewRequest(http.MethodPost, "/v1/estimate", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := httptest.NewRecorder()
	h.Estimate(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.EstimateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "bike", resp.Params.VehicleType)

	// 174.2 km at 20*0.5 km/h is 1045.2 minutes.
	assert.InDelta(t, 1045.2, resp.BaseTravelTimeMinutes, 1e-9)
}

func TestEstimate_ValidationErrors(t *testing.T) {
	h := newHandler(&fakeRoutes{route: budapestSzegedRoute()}, &fixedPredictor{prediction: 250})

	tests := []struct {
		name   string
		target string
	}{
		{"non-numeric latitude", "/v1/estimate?start_lat=abc"},
		{"bad start time", "/v1/estimate?start_time=25:99"},
		{"bad date", "/v1/estimate?date=06-01-2024"},
		{"unknown vehicle", "/v1/estimate?vehicle_type=boat"},
		{"negative speed", "/v1/estimate?avg_speed=-5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.Estimate(rec, httptest.NewRequest(http.MethodGet, tt.target, nil))

			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var problem models.Problem
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
			assert.Equal(t, models.ProblemTypeValidation, problem.Type)
		})
	}
}

func TestEstimate_PredictorFailure(t *testing.T) {
	h := newHandler(&fakeRoutes{route: budapestSzegedRoute()}, &fixedPredictor{err: assert.AnError})

	rec := httptest.NewRecorder()
	h.Estimate(rec, httptest.NewRequest(http.MethodGet, "/v1/estimate", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var problem models.Problem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	assert.Equal(t, models.ProblemTypeInternal, problem.Type)
}
