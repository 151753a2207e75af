package models

// StressRequest is the POST /api/v1/stress payload. It mirrors the YAML
// config shape: battery parameters, run-wide knobs, and the regime grid.
type StressRequest struct {
	Battery BatteryParams `json:"battery"`
	Run     RunOptions    `json:"run"`
	Regimes RegimeGrid    `json:"regimes"`
}

type BatteryParams struct {
	PowerMaxMW          float64 `json:"power_max_mw"`
	EnergyCapacityMWh   float64 `json:"energy_capacity_mwh"`
	ChargeEfficiency    float64 `json:"charge_efficiency"`
	DischargeEfficiency float64 `json:"discharge_efficiency"`
	SOCMinMWh           float64 `json:"soc_min_mwh"`
	SOCMaxMWh           float64 `json:"soc_max_mwh"`
	InitialSOCMWh       float64 `json:"initial_soc_mwh"`
	TerminalSOCMinMWh   float64 `json:"terminal_soc_min_mwh,omitempty"`
}

type RunOptions struct {
	Periods            int     `json:"periods"`
	Scenarios          int     `json:"scenarios"`
	Seed               int64   `json:"seed"`
	IntervalHours      float64 `json:"interval_hours"`
	BasePrice          float64 `json:"base_price"`
	SpikeSize          float64 `json:"spike_size"`
	SolveBudgetSeconds float64 `json:"solve_budget_seconds,omitempty"`
	Workers            int     `json:"workers,omitempty"`
}

type RegimeGrid struct {
	DAVolatility     []float64 `json:"da_volatility"`
	RTNoiseScale     []float64 `json:"rt_noise_scale"`
	SpikeProbability []float64 `json:"spike_probability"`
}
