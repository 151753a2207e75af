package models

import "battery-stress/internal/model"

// StressResponse carries the solved result table plus per-regime failures.
type StressResponse struct {
	RunID  string       `json:"run_id,omitempty"`
	Rows   []ResultRow  `json:"rows"`
	Failed []Diagnostic `json:"failed,omitempty"`
}

type ResultRow struct {
	RegimeID            string  `json:"regime_id"`
	DAVolatility        float64 `json:"da_volatility"`
	RTNoiseScale        float64 `json:"rt_noise_scale"`
	SpikeProbability    float64 `json:"spike_probability"`
	DAOnlyPnL           float64 `json:"da_only_pnl"`
	ExpectedTwoStagePnL float64 `json:"expected_two_stage_pnl"`
	P5                  float64 `json:"p5"`
	P50                 float64 `json:"p50"`
	P95                 float64 `json:"p95"`
	Worst               float64 `json:"worst"`
	Best                float64 `json:"best"`
	OptionValue         float64 `json:"option_value"`
}

type Diagnostic struct {
	RegimeID string `json:"regime_id"`
	Stage    string `json:"stage"`
	Reason   string `json:"reason"`
}

// ErrorResponse is the error envelope for all endpoints.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func RowFromModel(r model.StressResultRow) ResultRow {
	return ResultRow{
		RegimeID:            r.RegimeID,
		DAVolatility:        r.DAVolatility,
		RTNoiseScale:        r.RTNoiseScale,
		SpikeProbability:    r.SpikeProbability,
		DAOnlyPnL:           r.DAOnlyPnL,
		ExpectedTwoStagePnL: r.ExpectedTwoStagePnL,
		P5:                  r.P5,
		P50:                 r.P50,
		P95:                 r.P95,
		Worst:               r.Worst,
		Best:                r.Best,
		OptionValue:         r.OptionValue,
	}
}
