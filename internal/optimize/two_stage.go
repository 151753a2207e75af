package optimize

import (
	"fmt"

	"battery-stress/internal/lpsolve"
	"battery-stress/internal/model"
)

// SolveTwoStage builds and solves the deterministic-equivalent two-stage
// stochastic LP.
//
// First-stage columns ch_DA[t], dis_DA[t] are shared by every scenario;
// second-stage columns ch_ADJ[s][t], dis_ADJ[s][t] exist per scenario. For
// each scenario and period the total charge and discharge powers are capped
// at PowerMaxMW and the per-scenario SOC corridor must hold with the total
// dispatch.
//
// Objective (maximised):
//
//	sum_s prob[s] * [ sum_t da[t]*(dis_DA-ch_DA)*dt
//	                + sum_t rt[s][t]*(dis_ADJ-ch_ADJ)*dt ]
//
// First-stage energy settles at the DA price, adjustment energy at the
// realized RT price. Adjustments carry the full RT price, not just the
// RT-DA spread: a spread-only valuation would let a zero-spread charge
// adjustment feed a DA-priced discharge at no objective cost.
func SolveTwoStage(solver lpsolve.Solver, batt model.BatteryParams, prices *model.PriceScenarioSet, dtHours float64) (SolverResult, error) {
	if err := batt.Validate(); err != nil {
		return SolverResult{}, err
	}
	if err := prices.Validate(); err != nil {
		return SolverResult{}, err
	}
	if dtHours <= 0 {
		return SolverResult{}, fmt.Errorf("%w: interval hours must be > 0", model.ErrConfig)
	}

	T := prices.Periods()
	S := prices.Scenarios()

	// Column layout: ch_DA | dis_DA | ch_ADJ per scenario | dis_ADJ per
	// scenario | shifted SOC per scenario. soc(s, t) is the state after
	// period t minus the SOC floor, so it has lower bound zero like every
	// other column.
	chDA := func(t int) int { return t }
	disDA := func(t int) int { return T + t }
	chAdj := func(s, t int) int { return 2*T + s*T + t }
	disAdj := func(s, t int) int { return 2*T + S*T + s*T + t }
	soc := func(s, t int) int { return 2*T + 2*S*T + s*T + t }

	numVars := 2*T + 3*S*T
	p := &lpsolve.Problem{
		NumVars:   numVars,
		Objective: make([]float64, numVars),
	}

	// Probabilities sum to one, so the shared DA term carries its full price.
	for t := 0; t < T; t++ {
		p.Objective[chDA(t)] = -prices.DAPrice[t] * dtHours
		p.Objective[disDA(t)] = prices.DAPrice[t] * dtHours
	}
	for s := 0; s < S; s++ {
		for t := 0; t < T; t++ {
			w := prices.Probability[s] * prices.RTPrice[s][t] * dtHours
			p.Objective[chAdj(s, t)] = -w
			p.Objective[disAdj(s, t)] = w
		}
	}

	cc := batt.ChargeEfficiency * dtHours
	dc := dtHours / batt.DischargeEfficiency
	socSpan := batt.SOCMaxMWh - batt.SOCMinMWh

	for s := 0; s < S; s++ {
		for t := 0; t < T; t++ {
			// Total physical power limits and the SOC ceiling.
			p.Constraints = append(p.Constraints,
				lpsolve.Constraint{
					Terms: []lpsolve.Term{{Var: chDA(t), Coeff: 1}, {Var: chAdj(s, t), Coeff: 1}},
					Sense: lpsolve.LE,
					RHS:   batt.PowerMaxMW,
				},
				lpsolve.Constraint{
					Terms: []lpsolve.Term{{Var: disDA(t), Coeff: 1}, {Var: disAdj(s, t), Coeff: 1}},
					Sense: lpsolve.LE,
					RHS:   batt.PowerMaxMW,
				},
				lpsolve.Constraint{
					Terms: []lpsolve.Term{{Var: soc(s, t), Coeff: 1}},
					Sense: lpsolve.LE,
					RHS:   socSpan,
				},
			)

			// SOC dynamics on the total dispatch, one equality per period.
			terms := []lpsolve.Term{
				{Var: soc(s, t), Coeff: 1},
				{Var: chDA(t), Coeff: -cc},
				{Var: chAdj(s, t), Coeff: -cc},
				{Var: disDA(t), Coeff: dc},
				{Var: disAdj(s, t), Coeff: dc},
			}
			rhs := 0.0
			if t == 0 {
				rhs = batt.InitialSOCMWh - batt.SOCMinMWh
			} else {
				terms = append(terms, lpsolve.Term{Var: soc(s, t-1), Coeff: -1})
			}
			p.Constraints = append(p.Constraints, lpsolve.Constraint{Terms: terms, Sense: lpsolve.EQ, RHS: rhs})
		}
		if batt.TerminalSOCMinMWh > 0 {
			p.Constraints = append(p.Constraints, lpsolve.Constraint{
				Terms: []lpsolve.Term{{Var: soc(s, T-1), Coeff: 1}},
				Sense: lpsolve.GE,
				RHS:   batt.TerminalSOCMinMWh - batt.SOCMinMWh,
			})
		}
	}

	sol, err := solver.Solve(p)
	if err != nil {
		return SolverResult{}, err
	}
	if sol.Status != lpsolve.StatusOptimal {
		return SolverResult{Status: sol.Status}, nil
	}

	vars := &DecisionVariables{
		ChDA:   sol.Values[:T],
		DisDA:  sol.Values[T : 2*T],
		ChAdj:  make([][]float64, S),
		DisAdj: make([][]float64, S),
		SOC:    make([][]float64, S),
	}
	for s := 0; s < S; s++ {
		vars.ChAdj[s] = sol.Values[chAdj(s, 0) : chAdj(s, 0)+T]
		vars.DisAdj[s] = sol.Values[disAdj(s, 0) : disAdj(s, 0)+T]
		vars.SOC[s] = socTrajectory(batt, dtHours, vars.ChDA, vars.DisDA, vars.ChAdj[s], vars.DisAdj[s])
	}
	return SolverResult{Status: lpsolve.StatusOptimal, Objective: sol.Objective, Vars: vars}, nil
}
