package evaluate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"battery-stress/internal/lpsolve"
	"battery-stress/internal/model"
	"battery-stress/internal/optimize"
)

func twoScenarioResult() (optimize.SolverResult, *model.PriceScenarioSet) {
	// Hand-built dispatch: charge 1 MWh at t0, discharge 1 MWh at t1, no
	// adjustments in scenario 0 and a 1 MWh discharge adjustment in
	// scenario 1 where the RT price is 160 at t1.
	prices := &model.PriceScenarioSet{
		DAPrice: []float64{20, 60},
		RTPrice: [][]float64{
			{20, 60},
			{20, 160},
		},
		Probability: []float64{0.75, 0.25},
	}
	vars := &optimize.DecisionVariables{
		ChDA:   []float64{1, 0},
		DisDA:  []float64{0, 1},
		ChAdj:  [][]float64{{0, 0}, {0, 0}},
		DisAdj: [][]float64{{0, 0}, {0, 1}},
	}
	return optimize.SolverResult{Status: lpsolve.StatusOptimal, Vars: vars}, prices
}

func TestEvaluate_PnLIdentity(t *testing.T) {
	t.Parallel()

	res, prices := twoScenarioResult()
	dist, err := Evaluate(res, prices, 1)
	require.NoError(t, err)

	// DA leg: -20 + 60 = 40 in both scenarios.
	// Scenario 1 adds RT revenue 160 * 1 MWh for the discharge adjustment.
	require.Len(t, dist.ScenarioPnL, 2)
	assert.InDelta(t, 40, dist.ScenarioPnL[0], 1e-9)
	assert.InDelta(t, 200, dist.ScenarioPnL[1], 1e-9)

	// Expected value is the probability-weighted sum, exactly.
	assert.InDelta(t, 0.75*40+0.25*200, dist.Expected, 1e-9)
	assert.InDelta(t, 40, dist.Worst, 1e-9)
	assert.InDelta(t, 200, dist.Best, 1e-9)
}

func TestEvaluate_Percentiles(t *testing.T) {
	t.Parallel()

	res, prices := twoScenarioResult()
	dist, err := Evaluate(res, prices, 1)
	require.NoError(t, err)

	// Percentiles interpolate on the weighted distribution, so they stay
	// inside [worst, best] and are ordered.
	assert.GreaterOrEqual(t, dist.P5, dist.Worst-1e-9)
	assert.LessOrEqual(t, dist.P95, dist.Best+1e-9)
	assert.LessOrEqual(t, dist.P5, dist.P50+1e-9)
	assert.LessOrEqual(t, dist.P50, dist.P95+1e-9)
}

func TestEvaluate_SingleScenarioDegenerate(t *testing.T) {
	t.Parallel()

	prices := &model.PriceScenarioSet{
		DAPrice:     []float64{30},
		RTPrice:     [][]float64{{30}},
		Probability: []float64{1},
	}
	vars := &optimize.DecisionVariables{
		ChDA:   []float64{0},
		DisDA:  []float64{0},
		ChAdj:  [][]float64{{0}},
		DisAdj: [][]float64{{0}},
	}
	dist, err := Evaluate(optimize.SolverResult{Status: lpsolve.StatusOptimal, Vars: vars}, prices, 1)
	require.NoError(t, err)

	assert.InDelta(t, 0, dist.Expected, 1e-9)
	assert.InDelta(t, dist.P5, dist.P95, 1e-9)
}

func TestEvaluate_Errors(t *testing.T) {
	t.Parallel()

	t.Run("empty scenario set", func(t *testing.T) {
		t.Parallel()
		res, _ := twoScenarioResult()
		_, err := Evaluate(res, &model.PriceScenarioSet{}, 1)
		require.ErrorIs(t, err, ErrEmptyScenarioSet)
	})

	t.Run("non-optimal result", func(t *testing.T) {
		t.Parallel()
		_, prices := twoScenarioResult()
		_, err := Evaluate(optimize.SolverResult{Status: lpsolve.StatusInfeasible}, prices, 1)
		require.Error(t, err)
	})

	t.Run("shape mismatch", func(t *testing.T) {
		t.Parallel()
		res, prices := twoScenarioResult()
		res.Vars.ChAdj = res.Vars.ChAdj[:1]
		_, err := Evaluate(res, prices, 1)
		require.Error(t, err)
	})
}
