package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validBattery() BatteryParams {
	return BatteryParams{
		PowerMaxMW:          10,
		EnergyCapacityMWh:   20,
		ChargeEfficiency:    0.95,
		DischargeEfficiency: 0.95,
		SOCMinMWh:           1,
		SOCMaxMWh:           19,
		InitialSOCMWh:       5,
	}
}

func TestBatteryParams_Validate(t *testing.T) {
	t.Parallel()

	require.NoError(t, validBattery().Validate())

	cases := []struct {
		name   string
		mutate func(*BatteryParams)
	}{
		{"zero power", func(p *BatteryParams) { p.PowerMaxMW = 0 }},
		{"negative capacity", func(p *BatteryParams) { p.EnergyCapacityMWh = -1 }},
		{"efficiency above one", func(p *BatteryParams) { p.ChargeEfficiency = 1.2 }},
		{"zero discharge efficiency", func(p *BatteryParams) { p.DischargeEfficiency = 0 }},
		{"soc min above max", func(p *BatteryParams) { p.SOCMinMWh = 19.5 }},
		{"soc max above capacity", func(p *BatteryParams) { p.SOCMaxMWh = 25 }},
		{"initial soc below floor", func(p *BatteryParams) { p.InitialSOCMWh = 0.5 }},
		{"terminal floor above max", func(p *BatteryParams) { p.TerminalSOCMinMWh = 19.5 }},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			p := validBattery()
			tc.mutate(&p)
			_, err := NewBatteryParams(p)
			require.ErrorIs(t, err, ErrConfig)
		})
	}
}

func TestRegimeID_Canonical(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "dv10_rn5_sp0.05", RegimeID(10, 5, 0.05))
	assert.Equal(t, "dv12.5_rn0_sp0", RegimeID(12.5, 0, 0))
}

func TestRegimeConfig_Validate(t *testing.T) {
	t.Parallel()

	good := RegimeConfig{ID: "r", DAVolatility: 10, RTNoiseScale: 5, SpikeProbability: 0.1, SpikeSize: 100}
	require.NoError(t, good.Validate())

	bad := good
	bad.SpikeProbability = 1.5
	require.ErrorIs(t, bad.Validate(), ErrConfig)

	bad = good
	bad.RTNoiseScale = -1
	require.ErrorIs(t, bad.Validate(), ErrConfig)
}

func TestPriceScenarioSet_Validate(t *testing.T) {
	t.Parallel()

	good := &PriceScenarioSet{
		DAPrice:     []float64{50, 60},
		RTPrice:     [][]float64{{50, 60}, {40, 80}},
		Probability: []float64{0.5, 0.5},
	}
	require.NoError(t, good.Validate())
	assert.Equal(t, 2, good.Periods())
	assert.Equal(t, 2, good.Scenarios())

	t.Run("ragged rows", func(t *testing.T) {
		t.Parallel()
		bad := &PriceScenarioSet{
			DAPrice:     []float64{50, 60},
			RTPrice:     [][]float64{{50}},
			Probability: []float64{1},
		}
		require.ErrorIs(t, bad.Validate(), ErrConfig)
	})

	t.Run("probabilities off by more than tolerance", func(t *testing.T) {
		t.Parallel()
		bad := &PriceScenarioSet{
			DAPrice:     []float64{50},
			RTPrice:     [][]float64{{50}, {60}},
			Probability: []float64{0.5, 0.6},
		}
		require.ErrorIs(t, bad.Validate(), ErrConfig)
	})

	t.Run("negative probability", func(t *testing.T) {
		t.Parallel()
		bad := &PriceScenarioSet{
			DAPrice:     []float64{50},
			RTPrice:     [][]float64{{50}, {60}},
			Probability: []float64{1.5, -0.5},
		}
		require.ErrorIs(t, bad.Validate(), ErrConfig)
	})
}
