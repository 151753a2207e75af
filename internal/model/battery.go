package model

import (
	"errors"
	"fmt"
)

// ErrConfig marks invalid configuration detected before any solve. Callers
// can match it with errors.Is to distinguish bad input from solver outcomes.
var ErrConfig = errors.New("invalid config")

// BatteryParams defines the physical parameters of the storage asset.
// Units:
// - PowerMaxMW: MW
// - EnergyCapacityMWh: MWh
// - Efficiencies: (0, 1]
// - SOC bounds and initial SOC: MWh (absolute energy, not fractions)
//
// Immutable once constructed; shared read-only across solver calls.
type BatteryParams struct {
	PowerMaxMW          float64
	EnergyCapacityMWh   float64
	ChargeEfficiency    float64
	DischargeEfficiency float64
	SOCMinMWh           float64
	SOCMaxMWh           float64
	InitialSOCMWh       float64

	// TerminalSOCMinMWh is an optional floor on end-of-horizon SOC.
	// Zero disables it.
	TerminalSOCMinMWh float64
}

// NewBatteryParams validates p and returns it unchanged if acceptable.
func NewBatteryParams(p BatteryParams) (BatteryParams, error) {
	if err := p.Validate(); err != nil {
		return BatteryParams{}, err
	}
	return p, nil
}

func (p BatteryParams) Validate() error {
	if p.PowerMaxMW <= 0 {
		return fmt.Errorf("%w: PowerMaxMW must be > 0", ErrConfig)
	}
	if p.EnergyCapacityMWh <= 0 {
		return fmt.Errorf("%w: EnergyCapacityMWh must be > 0", ErrConfig)
	}
	if p.ChargeEfficiency <= 0 || p.ChargeEfficiency > 1 {
		return fmt.Errorf("%w: ChargeEfficiency must be in (0, 1]", ErrConfig)
	}
	if p.DischargeEfficiency <= 0 || p.DischargeEfficiency > 1 {
		return fmt.Errorf("%w: DischargeEfficiency must be in (0, 1]", ErrConfig)
	}
	if p.SOCMinMWh < 0 || p.SOCMinMWh >= p.SOCMaxMWh || p.SOCMaxMWh > p.EnergyCapacityMWh {
		return fmt.Errorf("%w: SOC bounds must satisfy 0 <= min < max <= capacity", ErrConfig)
	}
	if p.InitialSOCMWh < p.SOCMinMWh || p.InitialSOCMWh > p.SOCMaxMWh {
		return fmt.Errorf("%w: initial SOC must be within [SOCMinMWh, SOCMaxMWh]", ErrConfig)
	}
	if p.TerminalSOCMinMWh < 0 || p.TerminalSOCMinMWh > p.SOCMaxMWh {
		return fmt.Errorf("%w: terminal SOC floor must be within [0, SOCMaxMWh]", ErrConfig)
	}
	return nil
}
