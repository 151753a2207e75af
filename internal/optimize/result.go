// Package optimize builds the battery dispatch LPs and hands them to an
// lpsolve.Solver. It owns the formulations only; it never implements a
// simplex of its own.
package optimize

import "battery-stress/internal/lpsolve"

// DecisionVariables is the solved dispatch. ChDA/DisDA are first-stage and
// shared across every scenario by construction (they are single LP columns,
// which is what enforces non-anticipativity). ChAdj/DisAdj/SOC are indexed
// [scenario][period]; SOC rows have length T+1 and include the initial state.
//
// For the DA-only problem the adjustment matrices are nil and SOC holds a
// single row.
type DecisionVariables struct {
	ChDA   []float64
	DisDA  []float64
	ChAdj  [][]float64
	DisAdj [][]float64
	SOC    [][]float64
}

// SolverResult is the outcome of one formulation + solve. Vars is nil unless
// Status is lpsolve.StatusOptimal.
type SolverResult struct {
	Status    lpsolve.Status
	Objective float64
	Vars      *DecisionVariables
}
