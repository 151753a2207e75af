package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"battery-stress/internal/api/models"
	"battery-stress/internal/lpsolve"
	"battery-stress/internal/model"
	"battery-stress/internal/results"
	"battery-stress/internal/scenario"
	"battery-stress/internal/stress"
	"battery-stress/pkg/id"
)

// StressHandler runs sweeps on request and serves persisted runs.
// Store may be nil, in which case runs are not persisted.
type StressHandler struct {
	Solver lpsolve.Solver
	Store  *results.Store
	Log    zerolog.Logger
}

func NewStressHandler(solver lpsolve.Solver, store *results.Store, log zerolog.Logger) *StressHandler {
	return &StressHandler{Solver: solver, Store: store, Log: log}
}

// RunStress handles POST /api/v1/stress. The sweep runs synchronously;
// clients size their grids accordingly.
func (h *StressHandler) RunStress(c *gin.Context) {
	var req models.StressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "INVALID_REQUEST", Message: err.Error()},
		})
		return
	}

	runner := &stress.Runner{
		Battery: model.BatteryParams{
			PowerMaxMW:          req.Battery.PowerMaxMW,
			EnergyCapacityMWh:   req.Battery.EnergyCapacityMWh,
			ChargeEfficiency:    req.Battery.ChargeEfficiency,
			DischargeEfficiency: req.Battery.DischargeEfficiency,
			SOCMinMWh:           req.Battery.SOCMinMWh,
			SOCMaxMWh:           req.Battery.SOCMaxMWh,
			InitialSOCMWh:       req.Battery.InitialSOCMWh,
			TerminalSOCMinMWh:   req.Battery.TerminalSOCMinMWh,
		},
		Run: stress.RunParams{
			Periods:       req.Run.Periods,
			Scenarios:     req.Run.Scenarios,
			Seed:          req.Run.Seed,
			IntervalHours: req.Run.IntervalHours,
			BasePrice:     req.Run.BasePrice,
			SolveBudget:   time.Duration(req.Run.SolveBudgetSeconds * float64(time.Second)),
			Workers:       req.Run.Workers,
		},
		Solver: h.Solver,
		Gen:    scenario.Synthetic{BasePrice: req.Run.BasePrice},
		Log:    h.Log,
	}

	regimes := expandRegimes(req)
	report, err := runner.Sweep(c.Request.Context(), regimes)
	if err != nil {
		status := http.StatusInternalServerError
		code := "SWEEP_ERROR"
		if errors.Is(err, model.ErrConfig) {
			status = http.StatusBadRequest
			code = "INVALID_CONFIG"
		}
		c.JSON(status, models.ErrorResponse{
			Error: models.ErrorDetail{Code: code, Message: err.Error()},
		})
		return
	}

	resp := models.StressResponse{Rows: make([]models.ResultRow, 0, len(report.Rows))}
	for _, r := range report.Rows {
		resp.Rows = append(resp.Rows, models.RowFromModel(r))
	}
	for _, f := range report.Failed {
		resp.Failed = append(resp.Failed, models.Diagnostic{RegimeID: f.RegimeID, Stage: f.Stage, Reason: f.Reason})
	}

	if h.Store != nil {
		runID := id.New()
		rec := results.RunRecord{
			RunID:     runID,
			CreatedAt: time.Now().UTC(),
			Periods:   req.Run.Periods,
			Scenarios: req.Run.Scenarios,
			Seed:      req.Run.Seed,
		}
		if err := h.Store.RecordRun(rec); err != nil {
			h.Log.Error().Err(err).Msg("persist run")
		} else if err := h.Store.RecordRows(runID, report.Rows); err != nil {
			h.Log.Error().Err(err).Str("run_id", runID).Msg("persist rows")
		} else {
			resp.RunID = runID
		}
	}

	c.JSON(http.StatusOK, resp)
}

// GetRun handles GET /api/v1/runs/:id.
func (h *StressHandler) GetRun(c *gin.Context) {
	if h.Store == nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "NOT_FOUND", Message: "run persistence is not enabled"},
		})
		return
	}
	runID := c.Param("id")
	if _, err := h.Store.GetRun(runID); err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "NOT_FOUND", Message: err.Error()},
		})
		return
	}
	rows, err := h.Store.ListRows(runID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "STORE_ERROR", Message: err.Error()},
		})
		return
	}
	resp := models.StressResponse{RunID: runID, Rows: make([]models.ResultRow, 0, len(rows))}
	for _, r := range rows {
		resp.Rows = append(resp.Rows, models.RowFromModel(r))
	}
	c.JSON(http.StatusOK, resp)
}

func expandRegimes(req models.StressRequest) []model.RegimeConfig {
	var out []model.RegimeConfig
	for _, dv := range req.Regimes.DAVolatility {
		for _, rn := range req.Regimes.RTNoiseScale {
			for _, sp := range req.Regimes.SpikeProbability {
				out = append(out, model.RegimeConfig{
					ID:               model.RegimeID(dv, rn, sp),
					DAVolatility:     dv,
					RTNoiseScale:     rn,
					SpikeProbability: sp,
					SpikeSize:        req.Run.SpikeSize,
				})
			}
		}
	}
	return out
}
