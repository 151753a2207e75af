package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"battery-stress/internal/api/models"
	"battery-stress/internal/lpsolve"
)

func testRouter(h *StressHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/v1/stress", h.RunStress)
	r.GET("/api/v1/runs/:id", h.GetRun)
	return r
}

func validRequest() string {
	return `{
		"battery": {
			"power_max_mw": 1,
			"energy_capacity_mwh": 2,
			"charge_efficiency": 0.95,
			"discharge_efficiency": 0.95,
			"soc_min_mwh": 0,
			"soc_max_mwh": 2,
			"initial_soc_mwh": 0
		},
		"run": {
			"periods": 6,
			"scenarios": 5,
			"seed": 42,
			"interval_hours": 1,
			"base_price": 60,
			"spike_size": 100
		},
		"regimes": {
			"da_volatility": [10],
			"rt_noise_scale": [5],
			"spike_probability": [0, 0.1]
		}
	}`
}

func TestRunStress_OK(t *testing.T) {
	h := NewStressHandler(lpsolve.NewSimplex(), nil, zerolog.Nop())
	router := testRouter(h)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/stress", strings.NewReader(validRequest()))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp models.StressResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Rows, 2)
	assert.Empty(t, resp.Failed)
	assert.Empty(t, resp.RunID, "no store wired, no run id")
	assert.Equal(t, "dv10_rn5_sp0", resp.Rows[0].RegimeID)
	assert.Equal(t, "dv10_rn5_sp0.1", resp.Rows[1].RegimeID)
	for _, r := range resp.Rows {
		assert.GreaterOrEqual(t, r.OptionValue, -1e-6)
	}
}

func TestRunStress_MalformedJSON(t *testing.T) {
	h := NewStressHandler(lpsolve.NewSimplex(), nil, zerolog.Nop())
	router := testRouter(h)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/stress", strings.NewReader(`{"battery": `))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "INVALID_REQUEST", resp.Error.Code)
}

func TestRunStress_InvalidConfig(t *testing.T) {
	h := NewStressHandler(lpsolve.NewSimplex(), nil, zerolog.Nop())
	router := testRouter(h)

	// Negative power is rejected by the battery validator.
	body := strings.Replace(validRequest(), `"power_max_mw": 1`, `"power_max_mw": -1`, 1)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/stress", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "INVALID_CONFIG", resp.Error.Code)
}

func TestGetRun_NoStore(t *testing.T) {
	h := NewStressHandler(lpsolve.NewSimplex(), nil, zerolog.Nop())
	router := testRouter(h)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/runs/abc", nil))

	require.Equal(t, http.StatusNotFound, w.Code)

	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)
}
