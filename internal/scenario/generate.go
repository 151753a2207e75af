// Package scenario produces synthetic DA price paths and RT scenario
// matrices for stress testing. Generation is deterministic given an explicit
// seed; nothing here touches global random state.
package scenario

import (
	"fmt"
	"math/rand"

	"battery-stress/internal/model"
)

// Generator is the external contract the stress runner depends on. Any
// implementation must be deterministic for a given seed.
type Generator interface {
	Generate(regime model.RegimeConfig, periods, scenarios int, seed int64) (*model.PriceScenarioSet, error)
}

// Synthetic generates prices the same way the stress harness expects them:
// a damped random-walk DA path around BasePrice, and RT scenarios equal to
// DA plus gaussian noise plus occasional +-SpikeSize spikes.
type Synthetic struct {
	BasePrice float64
}

// Generate builds a scenario set with uniform probabilities. The DA path is
// drawn from seed and the RT matrix from seed+1, so two regimes sharing a
// DAVolatility see the same DA path, and regimes differing only in
// SpikeProbability share their noise and spike-threshold draws (a higher
// probability produces a superset of spikes).
func (g Synthetic) Generate(regime model.RegimeConfig, periods, scenarios int, seed int64) (*model.PriceScenarioSet, error) {
	if err := regime.Validate(); err != nil {
		return nil, err
	}
	if periods <= 0 {
		return nil, fmt.Errorf("%w: periods must be > 0", model.ErrConfig)
	}
	if scenarios <= 0 {
		return nil, fmt.Errorf("%w: scenarios must be > 0", model.ErrConfig)
	}

	da := DAPricePath(periods, g.BasePrice, regime.DAVolatility, seed)
	rt := rtScenarios(da, scenarios, regime, seed+1)

	prob := make([]float64, scenarios)
	for s := range prob {
		prob[s] = 1 / float64(scenarios)
	}

	return &model.PriceScenarioSet{DAPrice: da, RTPrice: rt, Probability: prob}, nil
}

// DAPricePath is a mean-reverting-ish damped random walk around base.
func DAPricePath(periods int, base, vol float64, seed int64) []float64 {
	rng := rand.New(rand.NewSource(seed))
	p := make([]float64, periods)
	cum := 0.0
	for t := range p {
		cum += 0.15 * vol * rng.NormFloat64()
		p[t] = base + cum
	}
	return p
}

// rtScenarios draws RT = DA + noise + spikes. The three blocks (noise,
// spike thresholds, spike signs) are drawn in fixed order so that changing
// SpikeProbability alone never shifts the underlying streams.
func rtScenarios(da []float64, scenarios int, regime model.RegimeConfig, seed int64) [][]float64 {
	rng := rand.New(rand.NewSource(seed))
	T := len(da)

	noise := make([][]float64, scenarios)
	for s := range noise {
		noise[s] = make([]float64, T)
		for t := range noise[s] {
			noise[s][t] = regime.RTNoiseScale * rng.NormFloat64()
		}
	}

	threshold := make([][]float64, scenarios)
	for s := range threshold {
		threshold[s] = make([]float64, T)
		for t := range threshold[s] {
			threshold[s][t] = rng.Float64()
		}
	}

	sign := make([][]float64, scenarios)
	for s := range sign {
		sign[s] = make([]float64, T)
		for t := range sign[s] {
			if rng.Intn(2) == 0 {
				sign[s][t] = -1
			} else {
				sign[s][t] = 1
			}
		}
	}

	rt := make([][]float64, scenarios)
	for s := range rt {
		rt[s] = make([]float64, T)
		for t := range rt[s] {
			rt[s][t] = da[t] + noise[s][t]
			if threshold[s][t] < regime.SpikeProbability {
				rt[s][t] += sign[s][t] * regime.SpikeSize
			}
		}
	}
	return rt
}
