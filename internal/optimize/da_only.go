package optimize

import (
	"fmt"

	"battery-stress/internal/lpsolve"
	"battery-stress/internal/model"
)

// SolveDAOnly solves the deterministic day-ahead arbitrage LP for a single
// price path: maximise sum_t price[t]*(dis[t]-ch[t])*dt subject to power
// limits and the SOC corridor.
//
// SOC enters as explicit columns shifted by the floor (the column for
// period t holds soc[t+1] - SOCMinMWh), so every LP variable keeps lower
// bound zero as the simplex backend expects. The recursion
//
//	soc[t+1] = soc[t] + (etaC*ch[t] - dis[t]/etaD) * dt
//
// becomes one sparse equality row per period; substituting it out instead
// yields dense cumulative rows that are near-collinear across periods and
// push the simplex into singular bases.
func SolveDAOnly(solver lpsolve.Solver, batt model.BatteryParams, daPrice []float64, dtHours float64) (SolverResult, error) {
	if err := batt.Validate(); err != nil {
		return SolverResult{}, err
	}
	T := len(daPrice)
	if T == 0 {
		return SolverResult{}, fmt.Errorf("%w: no DA prices", model.ErrConfig)
	}
	if dtHours <= 0 {
		return SolverResult{}, fmt.Errorf("%w: interval hours must be > 0", model.ErrConfig)
	}

	// Column layout: ch[t] = t, dis[t] = T + t, shifted SOC after period t =
	// 2T + t.
	ch := func(t int) int { return t }
	dis := func(t int) int { return T + t }
	soc := func(t int) int { return 2*T + t }

	p := &lpsolve.Problem{
		NumVars:   3 * T,
		Objective: make([]float64, 3*T),
	}
	for t := 0; t < T; t++ {
		p.Objective[ch(t)] = -daPrice[t] * dtHours
		p.Objective[dis(t)] = daPrice[t] * dtHours
	}

	socSpan := batt.SOCMaxMWh - batt.SOCMinMWh
	for t := 0; t < T; t++ {
		p.Constraints = append(p.Constraints,
			lpsolve.Constraint{
				Terms: []lpsolve.Term{{Var: ch(t), Coeff: 1}},
				Sense: lpsolve.LE,
				RHS:   batt.PowerMaxMW,
			},
			lpsolve.Constraint{
				Terms: []lpsolve.Term{{Var: dis(t), Coeff: 1}},
				Sense: lpsolve.LE,
				RHS:   batt.PowerMaxMW,
			},
			lpsolve.Constraint{
				Terms: []lpsolve.Term{{Var: soc(t), Coeff: 1}},
				Sense: lpsolve.LE,
				RHS:   socSpan,
			},
		)

		// SOC dynamics, one equality per period.
		terms := []lpsolve.Term{
			{Var: soc(t), Coeff: 1},
			{Var: ch(t), Coeff: -batt.ChargeEfficiency * dtHours},
			{Var: dis(t), Coeff: dtHours / batt.DischargeEfficiency},
		}
		rhs := 0.0
		if t == 0 {
			rhs = batt.InitialSOCMWh - batt.SOCMinMWh
		} else {
			terms = append(terms, lpsolve.Term{Var: soc(t-1), Coeff: -1})
		}
		p.Constraints = append(p.Constraints, lpsolve.Constraint{Terms: terms, Sense: lpsolve.EQ, RHS: rhs})
	}
	if batt.TerminalSOCMinMWh > 0 {
		p.Constraints = append(p.Constraints, lpsolve.Constraint{
			Terms: []lpsolve.Term{{Var: soc(T-1), Coeff: 1}},
			Sense: lpsolve.GE,
			RHS:   batt.TerminalSOCMinMWh - batt.SOCMinMWh,
		})
	}

	sol, err := solver.Solve(p)
	if err != nil {
		return SolverResult{}, err
	}
	if sol.Status != lpsolve.StatusOptimal {
		return SolverResult{Status: sol.Status}, nil
	}

	vars := &DecisionVariables{
		ChDA:  sol.Values[:T],
		DisDA: sol.Values[T : 2*T],
	}
	vars.SOC = [][]float64{socTrajectory(batt, dtHours, vars.ChDA, vars.DisDA, nil, nil)}
	return SolverResult{Status: lpsolve.StatusOptimal, Objective: sol.Objective, Vars: vars}, nil
}

// socTrajectory replays the SOC recursion for one scenario. adjCh/adjDis may
// be nil for the DA-only case.
func socTrajectory(batt model.BatteryParams, dtHours float64, chDA, disDA, adjCh, adjDis []float64) []float64 {
	soc := make([]float64, len(chDA)+1)
	soc[0] = batt.InitialSOCMWh
	for t := range chDA {
		charge := chDA[t]
		discharge := disDA[t]
		if adjCh != nil {
			charge += adjCh[t]
		}
		if adjDis != nil {
			discharge += adjDis[t]
		}
		soc[t+1] = soc[t] + (batt.ChargeEfficiency*charge-discharge/batt.DischargeEfficiency)*dtHours
	}
	return soc
}
