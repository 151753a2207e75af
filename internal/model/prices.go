package model

import (
	"fmt"
	"math"
)

// ProbabilityTolerance is how far scenario probabilities may drift from
// summing to exactly one before the set is rejected.
const ProbabilityTolerance = 1e-6

// PriceScenarioSet holds a DA price path plus an RT price matrix with one row
// per scenario. Produced by a scenario generator; consumed read-only by the
// solvers and the evaluator.
type PriceScenarioSet struct {
	DAPrice     []float64   // length T
	RTPrice     [][]float64 // [scenario][period], each row length T
	Probability []float64   // one weight per scenario
}

func (ps *PriceScenarioSet) Periods() int   { return len(ps.DAPrice) }
func (ps *PriceScenarioSet) Scenarios() int { return len(ps.RTPrice) }

func (ps *PriceScenarioSet) Validate() error {
	if ps == nil || len(ps.DAPrice) == 0 {
		return fmt.Errorf("%w: scenario set has no DA prices", ErrConfig)
	}
	if len(ps.RTPrice) == 0 {
		return fmt.Errorf("%w: scenario set has no RT scenarios", ErrConfig)
	}
	if len(ps.Probability) != len(ps.RTPrice) {
		return fmt.Errorf("%w: %d probabilities for %d scenarios", ErrConfig, len(ps.Probability), len(ps.RTPrice))
	}
	T := len(ps.DAPrice)
	for s, row := range ps.RTPrice {
		if len(row) != T {
			return fmt.Errorf("%w: RT scenario %d has %d periods, want %d", ErrConfig, s, len(row), T)
		}
	}
	sum := 0.0
	for s, p := range ps.Probability {
		if p < 0 {
			return fmt.Errorf("%w: probability of scenario %d is negative", ErrConfig, s)
		}
		sum += p
	}
	if math.Abs(sum-1) > ProbabilityTolerance {
		return fmt.Errorf("%w: probabilities sum to %g, want 1", ErrConfig, sum)
	}
	return nil
}
