package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"battery-stress/internal/config"
	"battery-stress/internal/evaluate"
	"battery-stress/internal/lpsolve"
	"battery-stress/internal/optimize"
	"battery-stress/internal/scenario"
)

var solveConfigPath string

func init() {
	cmdSolve.Flags().StringVar(&solveConfigPath, "config", "", "Path to YAML config (required)")
	_ = cmdSolve.MarkFlagRequired("config")
}

// solve runs a single regime (the first point of each grid axis) through
// both solvers and prints the comparison, without the full sweep.
var cmdSolve = &cobra.Command{
	Use:   "solve",
	Short: "Solve one regime and print DA-only vs two-stage P&L",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(solveConfigPath)
		if err != nil {
			return err
		}

		regime := cfg.ExpandRegimes()[0]
		batt := cfg.Battery.ToModelParams()
		solver := lpsolve.NewSimplex()

		gen := scenario.Synthetic{BasePrice: cfg.Run.BasePrice}
		prices, err := gen.Generate(regime, cfg.Run.Periods, cfg.Run.Scenarios, cfg.Run.Seed)
		if err != nil {
			return err
		}

		daRes, err := optimize.SolveDAOnly(solver, batt, prices.DAPrice, cfg.Run.IntervalHours)
		if err != nil {
			return err
		}
		if daRes.Status != lpsolve.StatusOptimal {
			return fmt.Errorf("DA-only solve: %s", daRes.Status)
		}

		tsRes, err := optimize.SolveTwoStage(solver, batt, prices, cfg.Run.IntervalHours)
		if err != nil {
			return err
		}
		if tsRes.Status != lpsolve.StatusOptimal {
			return fmt.Errorf("two-stage solve: %s", tsRes.Status)
		}

		dist, err := evaluate.Evaluate(tsRes, prices, cfg.Run.IntervalHours)
		if err != nil {
			return err
		}

		fmt.Printf("Regime: %s\n", regime.ID)
		fmt.Printf("DA-only P&L:            %.2f\n", daRes.Objective)
		fmt.Printf("Two-stage expected P&L: %.2f\n", dist.Expected)
		fmt.Printf("Option value:           %.2f\n", dist.Expected-daRes.Objective)
		fmt.Printf("P&L percentiles (p5/p50/p95): %.2f / %.2f / %.2f\n", dist.P5, dist.P50, dist.P95)
		fmt.Printf("Worst / best scenario:        %.2f / %.2f\n", dist.Worst, dist.Best)
		return nil
	},
}
