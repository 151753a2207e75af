// Package evaluate turns a solved two-stage dispatch plus realized prices
// into a per-scenario P&L distribution and its summary statistics.
package evaluate

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"battery-stress/internal/model"
	"battery-stress/internal/optimize"
)

// ErrEmptyScenarioSet is returned when there are no scenarios to evaluate.
var ErrEmptyScenarioSet = errors.New("empty scenario set")

// Distribution summarises the probability-weighted P&L across scenarios.
// Percentiles use linear interpolation on the weighted empirical CDF.
type Distribution struct {
	ScenarioPnL []float64
	Expected    float64
	P5          float64
	P50         float64
	P95         float64
	Worst       float64
	Best        float64
}

// Evaluate computes realized P&L per scenario for a solved two-stage result:
//
//	pnl[s] = sum_t da[t]*(dis_DA-ch_DA)*dt + sum_t rt[s][t]*(dis_ADJ-ch_ADJ)*dt
//
// First-stage energy settles at DA, adjustment energy at the realized RT
// price, mirroring the solver's objective. The expected value is the
// probability-weighted sum, which matches the LP objective up to solver
// tolerance.
func Evaluate(res optimize.SolverResult, prices *model.PriceScenarioSet, dtHours float64) (Distribution, error) {
	if prices == nil || prices.Scenarios() == 0 {
		return Distribution{}, ErrEmptyScenarioSet
	}
	if res.Vars == nil {
		return Distribution{}, fmt.Errorf("evaluate: result is %s, not optimal", res.Status)
	}
	T := prices.Periods()
	S := prices.Scenarios()
	if len(res.Vars.ChDA) != T || len(res.Vars.ChAdj) != S {
		return Distribution{}, fmt.Errorf("evaluate: variables sized %dx%d do not match %d scenarios x %d periods",
			len(res.Vars.ChAdj), len(res.Vars.ChDA), S, T)
	}

	daPnL := 0.0
	for t := 0; t < T; t++ {
		daPnL += prices.DAPrice[t] * (res.Vars.DisDA[t] - res.Vars.ChDA[t]) * dtHours
	}

	pnl := make([]float64, S)
	for s := 0; s < S; s++ {
		adj := 0.0
		for t := 0; t < T; t++ {
			adj += prices.RTPrice[s][t] * (res.Vars.DisAdj[s][t] - res.Vars.ChAdj[s][t]) * dtHours
		}
		pnl[s] = daPnL + adj
	}

	d := Distribution{
		ScenarioPnL: pnl,
		Expected:    floats.Dot(prices.Probability, pnl),
		Worst:       floats.Min(pnl),
		Best:        floats.Max(pnl),
	}

	// stat.Quantile needs x sorted with weights carried along.
	sorted := append([]float64(nil), pnl...)
	weights := append([]float64(nil), prices.Probability...)
	stat.SortWeighted(sorted, weights)
	d.P5 = stat.Quantile(0.05, stat.LinInterp, sorted, weights)
	d.P50 = stat.Quantile(0.50, stat.LinInterp, sorted, weights)
	d.P95 = stat.Quantile(0.95, stat.LinInterp, sorted, weights)

	return d, nil
}
