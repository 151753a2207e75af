package stress

import (
	"encoding/csv"
	"os"
	"strconv"

	"battery-stress/internal/model"
)

// ResultCSVHeader is the persisted result-table column set, one row per
// successfully solved regime, in regime-sweep order.
var ResultCSVHeader = []string{
	"regime_id",
	"da_volatility",
	"rt_noise_scale",
	"spike_probability",
	"da_only_pnl",
	"expected_two_stage_pnl",
	"p5",
	"p50",
	"p95",
	"worst",
	"best",
	"option_value",
}

func WriteResultCSV(path string, rows []model.StressResultRow) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write(ResultCSVHeader); err != nil {
		return err
	}
	for _, r := range rows {
		record := []string{
			r.RegimeID,
			fmtFloat(r.DAVolatility),
			fmtFloat(r.RTNoiseScale),
			fmtFloat(r.SpikeProbability),
			fmtFloat(r.DAOnlyPnL),
			fmtFloat(r.ExpectedTwoStagePnL),
			fmtFloat(r.P5),
			fmtFloat(r.P50),
			fmtFloat(r.P95),
			fmtFloat(r.Worst),
			fmtFloat(r.Best),
			fmtFloat(r.OptionValue),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	return w.Error()
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
