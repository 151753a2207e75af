package model

// StressResultRow is one regime's line in the stress-test result table.
// Immutable once appended. Field order mirrors the persisted CSV columns.
type StressResultRow struct {
	RegimeID         string
	DAVolatility     float64
	RTNoiseScale     float64
	SpikeProbability float64

	DAOnlyPnL           float64
	ExpectedTwoStagePnL float64

	P5    float64
	P50   float64
	P95   float64
	Worst float64
	Best  float64

	// OptionValue = ExpectedTwoStagePnL - DAOnlyPnL.
	OptionValue float64
}
