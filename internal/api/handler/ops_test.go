package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripcast/tripcast/internal/api/handler"
	"github.com/tripcast/tripcast/internal/api/models"
)

func TestHealthCheck(t *testing.T) {
	h := handler.NewOpsHandler("1.2.3", "2026-01-01T00:00:00Z", func() bool { return true })

	rec := httptest.NewRecorder()
	h.HealthCheck(rec, httptest.NewRequest(http.MethodGet, "/v1/ops/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var health models.Health
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	assert.Equal(t, models.HealthStatusOK, health.Status)
	assert.Equal(t, "1.2.3", health.Details["version"])
}

func TestReadinessCheck(t *testing.T) {
	loaded := false
	h := handler.NewOpsHandler("1.2.3", "", func() bool { return loaded })

	rec := httptest.NewRecorder()
	h.ReadinessCheck(rec, httptest.NewRequest(http.MethodGet, "/v1/ops/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	loaded = true
	rec = httptest.NewRecorder()
	h.ReadinessCheck(rec, httptest.NewRequest(http.MethodGet, "/v1/ops/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
