package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"battery-stress/internal/config"
	"battery-stress/internal/lpsolve"
	"battery-stress/internal/model"
	"battery-stress/internal/results"
	"battery-stress/internal/scenario"
	"battery-stress/internal/stress"
	"battery-stress/pkg/id"
)

var (
	stressConfigPath string
	stressCSVPath    string
	stressDBPath     string
	stressVerbose    bool
)

func init() {
	cmdStress.Flags().StringVar(&stressConfigPath, "config", "", "Path to YAML config (required)")
	cmdStress.Flags().StringVar(&stressCSVPath, "csv", "", "Override output.csv_path")
	cmdStress.Flags().StringVar(&stressDBPath, "db", "", "Override output.sqlite_path")
	cmdStress.Flags().BoolVar(&stressVerbose, "verbose", false, "Log each solved regime")
	_ = cmdStress.MarkFlagRequired("config")
}

var cmdStress = &cobra.Command{
	Use:   "stress",
	Short: "Run the multi-regime stress sweep and write the result table",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(stressConfigPath)
		if err != nil {
			return err
		}

		level := zerolog.InfoLevel
		if stressVerbose {
			level = zerolog.DebugLevel
		}
		log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()

		runner := &stress.Runner{
			Battery: cfg.Battery.ToModelParams(),
			Run:     cfg.Run.ToRunParams(),
			Solver:  lpsolve.NewSimplex(),
			Gen:     scenario.Synthetic{BasePrice: cfg.Run.BasePrice},
			Log:     log,
		}

		report, err := runner.Sweep(cmd.Context(), cfg.ExpandRegimes())
		if err != nil {
			return err
		}

		printTable(report.Rows)
		printTopByOptionValue(report.Rows, 10)
		for _, f := range report.Failed {
			fmt.Printf("FAILED %-24s stage=%-10s %s\n", f.RegimeID, f.Stage, f.Reason)
		}

		csvPath := cfg.Output.CSVPath
		if stressCSVPath != "" {
			csvPath = stressCSVPath
		}
		if csvPath != "" {
			if err := os.MkdirAll(filepath.Dir(csvPath), 0o755); err != nil {
				return err
			}
			if err := stress.WriteResultCSV(csvPath, report.Rows); err != nil {
				return err
			}
			fmt.Printf("\nWrote %d rows to %s\n", len(report.Rows), csvPath)
		}

		dbPath := cfg.Output.SQLitePath
		if stressDBPath != "" {
			dbPath = stressDBPath
		}
		if dbPath != "" {
			store, err := results.Open(dbPath)
			if err != nil {
				return err
			}
			defer store.Close()
			runID := id.New()
			rec := results.RunRecord{
				RunID:     runID,
				CreatedAt: time.Now().UTC(),
				Periods:   cfg.Run.Periods,
				Scenarios: cfg.Run.Scenarios,
				Seed:      cfg.Run.Seed,
			}
			if err := store.RecordRun(rec); err != nil {
				return err
			}
			if err := store.RecordRows(runID, report.Rows); err != nil {
				return err
			}
			fmt.Printf("Recorded run %s in %s\n", runID, dbPath)
		}
		return nil
	},
}

func printTable(rows []model.StressResultRow) {
	fmt.Printf("%-24s %-10s %-12s %-12s %-10s %-10s %-10s %-12s\n",
		"regime", "da_pnl", "ts_mean", "option_val", "p5", "p50", "p95", "worst/best")
	for _, r := range rows {
		fmt.Printf("%-24s %-10.2f %-12.2f %-12.2f %-10.2f %-10.2f %-10.2f %.1f/%.1f\n",
			r.RegimeID, r.DAOnlyPnL, r.ExpectedTwoStagePnL, r.OptionValue,
			r.P5, r.P50, r.P95, r.Worst, r.Best)
	}
}

func printTopByOptionValue(rows []model.StressResultRow, n int) {
	if len(rows) == 0 {
		return
	}
	top := append([]model.StressResultRow(nil), rows...)
	sort.SliceStable(top, func(i, j int) bool { return top[i].OptionValue > top[j].OptionValue })
	if n > len(top) {
		n = len(top)
	}
	fmt.Printf("\nTop %d regimes by option value:\n", n)
	for i := 0; i < n; i++ {
		r := top[i]
		fmt.Printf("%2d. %-24s option_value=%.2f (p5=%.2f p50=%.2f p95=%.2f)\n",
			i+1, r.RegimeID, r.OptionValue, r.P5, r.P50, r.P95)
	}
}
