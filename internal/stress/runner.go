// Package stress sweeps market regimes: for each regime it generates a
// scenario set, solves the DA-only baseline and the two-stage LP, evaluates
// the P&L distribution, and records one result row with the option value of
// flexibility. Failures are isolated per regime; a bad regime is reported as
// a diagnostic and excluded from the table, never aborting the sweep.
package stress

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"battery-stress/internal/evaluate"
	"battery-stress/internal/lpsolve"
	"battery-stress/internal/model"
	"battery-stress/internal/optimize"
	"battery-stress/internal/scenario"
)

// DefaultSolveBudget bounds one LP solve when RunParams.SolveBudget is zero.
const DefaultSolveBudget = 2 * time.Minute

var errSolveBudget = errors.New("solve budget exceeded")

// RunParams holds the sweep-wide knobs shared by every regime.
type RunParams struct {
	Periods       int
	Scenarios     int
	Seed          int64
	IntervalHours float64
	BasePrice     float64

	// SolveBudget caps each LP solve; timeout counts as an infeasible-
	// equivalent failure for that regime. Zero means DefaultSolveBudget.
	SolveBudget time.Duration

	// Workers is the number of regimes evaluated concurrently.
	// Zero means GOMAXPROCS.
	Workers int
}

func (p RunParams) validate() error {
	if p.Periods <= 0 {
		return fmt.Errorf("%w: periods must be > 0", model.ErrConfig)
	}
	if p.Scenarios <= 0 {
		return fmt.Errorf("%w: scenarios must be > 0", model.ErrConfig)
	}
	if p.IntervalHours <= 0 {
		return fmt.Errorf("%w: interval hours must be > 0", model.ErrConfig)
	}
	return nil
}

// Diagnostic records why a regime was excluded from the result table.
type Diagnostic struct {
	RegimeID string
	Stage    string // "generate", "da_only", "two_stage" or "evaluate"
	Reason   string
}

// Report is the outcome of one sweep: rows in regime-sweep order for every
// regime that solved, plus diagnostics for those that did not.
type Report struct {
	Rows   []model.StressResultRow
	Failed []Diagnostic
}

// Runner wires the collaborators for a sweep. Battery and Run are immutable
// for the Runner's lifetime; regimes may therefore run on parallel workers
// without locking.
type Runner struct {
	Battery model.BatteryParams
	Run     RunParams
	Solver  lpsolve.Solver
	Gen     scenario.Generator
	Log     zerolog.Logger
}

// Sweep evaluates the regimes in order. Results are collected by regime
// index, not completion order, so the table is deterministic under
// concurrency.
func (r *Runner) Sweep(ctx context.Context, regimes []model.RegimeConfig) (*Report, error) {
	if err := r.Battery.Validate(); err != nil {
		return nil, err
	}
	if err := r.Run.validate(); err != nil {
		return nil, err
	}
	if r.Solver == nil || r.Gen == nil {
		return nil, fmt.Errorf("%w: runner needs a solver and a generator", model.ErrConfig)
	}
	if len(regimes) == 0 {
		return nil, fmt.Errorf("%w: no regimes to sweep", model.ErrConfig)
	}
	for _, reg := range regimes {
		if err := reg.Validate(); err != nil {
			return nil, err
		}
	}

	// The DA path depends only on (seed, da_volatility), so the baseline
	// solve is shared across regimes with the same volatility.
	baselines := r.solveBaselines(ctx, regimes)

	workers := r.Run.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(regimes) {
		workers = len(regimes)
	}

	rows := make([]*model.StressResultRow, len(regimes))
	fails := make([]*Diagnostic, len(regimes))

	idxCh := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range idxCh {
				rows[i], fails[i] = r.runRegime(ctx, regimes[i], baselines[regimes[i].DAVolatility])
			}
		}()
	}
	for i := range regimes {
		idxCh <- i
	}
	close(idxCh)
	wg.Wait()

	report := &Report{}
	for i := range regimes {
		if rows[i] != nil {
			report.Rows = append(report.Rows, *rows[i])
		}
		if fails[i] != nil {
			report.Failed = append(report.Failed, *fails[i])
			r.Log.Warn().
				Str("regime", fails[i].RegimeID).
				Str("stage", fails[i].Stage).
				Str("reason", fails[i].Reason).
				Msg("regime excluded from result table")
		}
	}
	r.Log.Info().
		Int("regimes", len(regimes)).
		Int("solved", len(report.Rows)).
		Int("failed", len(report.Failed)).
		Msg("stress sweep finished")
	return report, nil
}

type baseline struct {
	pnl    float64
	status lpsolve.Status
	err    error
}

func (r *Runner) solveBaselines(ctx context.Context, regimes []model.RegimeConfig) map[float64]baseline {
	out := make(map[float64]baseline)
	for _, reg := range regimes {
		if _, ok := out[reg.DAVolatility]; ok {
			continue
		}
		da := scenario.DAPricePath(r.Run.Periods, r.Run.BasePrice, reg.DAVolatility, r.Run.Seed)
		res, err := r.withBudget(ctx, func() (optimize.SolverResult, error) {
			return optimize.SolveDAOnly(r.Solver, r.Battery, da, r.Run.IntervalHours)
		})
		out[reg.DAVolatility] = baseline{pnl: res.Objective, status: res.Status, err: err}
	}
	return out
}

func (r *Runner) runRegime(ctx context.Context, reg model.RegimeConfig, base baseline) (*model.StressResultRow, *Diagnostic) {
	fail := func(stage, reason string) (*model.StressResultRow, *Diagnostic) {
		return nil, &Diagnostic{RegimeID: reg.ID, Stage: stage, Reason: reason}
	}

	if base.err != nil {
		return fail("da_only", base.err.Error())
	}
	if base.status != lpsolve.StatusOptimal {
		return fail("da_only", base.status.String())
	}

	prices, err := r.Gen.Generate(reg, r.Run.Periods, r.Run.Scenarios, r.Run.Seed)
	if err != nil {
		return fail("generate", err.Error())
	}
	if err := prices.Validate(); err != nil {
		return fail("generate", err.Error())
	}

	res, err := r.withBudget(ctx, func() (optimize.SolverResult, error) {
		return optimize.SolveTwoStage(r.Solver, r.Battery, prices, r.Run.IntervalHours)
	})
	if err != nil {
		return fail("two_stage", err.Error())
	}
	if res.Status != lpsolve.StatusOptimal {
		return fail("two_stage", res.Status.String())
	}

	dist, err := evaluate.Evaluate(res, prices, r.Run.IntervalHours)
	if err != nil {
		return fail("evaluate", err.Error())
	}

	r.Log.Debug().
		Str("regime", reg.ID).
		Float64("da_only_pnl", base.pnl).
		Float64("expected_pnl", dist.Expected).
		Msg("regime solved")

	return &model.StressResultRow{
		RegimeID:            reg.ID,
		DAVolatility:        reg.DAVolatility,
		RTNoiseScale:        reg.RTNoiseScale,
		SpikeProbability:    reg.SpikeProbability,
		DAOnlyPnL:           base.pnl,
		ExpectedTwoStagePnL: dist.Expected,
		P5:                  dist.P5,
		P50:                 dist.P50,
		P95:                 dist.P95,
		Worst:               dist.Worst,
		Best:                dist.Best,
		OptionValue:         dist.Expected - base.pnl,
	}, nil
}

// withBudget runs one blocking solve against the per-regime time budget and
// the sweep context. The solve goroutine cannot be interrupted; on timeout
// it is abandoned and its buffered result dropped.
func (r *Runner) withBudget(ctx context.Context, solve func() (optimize.SolverResult, error)) (optimize.SolverResult, error) {
	budget := r.Run.SolveBudget
	if budget <= 0 {
		budget = DefaultSolveBudget
	}

	type outcome struct {
		res optimize.SolverResult
		err error
	}
	ch := make(chan outcome, 1)
	go func() {
		res, err := solve()
		ch <- outcome{res, err}
	}()

	timer := time.NewTimer(budget)
	defer timer.Stop()
	select {
	case o := <-ch:
		return o.res, o.err
	case <-ctx.Done():
		return optimize.SolverResult{Status: lpsolve.StatusInfeasible}, ctx.Err()
	case <-timer.C:
		return optimize.SolverResult{Status: lpsolve.StatusInfeasible}, errSolveBudget
	}
}
