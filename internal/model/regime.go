package model

import "fmt"

// RegimeConfig identifies one synthetic market regime in a stress sweep.
// The parameters are passed opaquely to the scenario generator.
type RegimeConfig struct {
	ID               string
	DAVolatility     float64
	RTNoiseScale     float64
	SpikeProbability float64
	SpikeSize        float64
}

func (r RegimeConfig) Validate() error {
	if r.DAVolatility < 0 {
		return fmt.Errorf("%w: regime %q: DAVolatility must be >= 0", ErrConfig, r.ID)
	}
	if r.RTNoiseScale < 0 {
		return fmt.Errorf("%w: regime %q: RTNoiseScale must be >= 0", ErrConfig, r.ID)
	}
	if r.SpikeProbability < 0 || r.SpikeProbability > 1 {
		return fmt.Errorf("%w: regime %q: SpikeProbability must be in [0, 1]", ErrConfig, r.ID)
	}
	if r.SpikeSize < 0 {
		return fmt.Errorf("%w: regime %q: SpikeSize must be >= 0", ErrConfig, r.ID)
	}
	return nil
}

// RegimeID builds the canonical identifier used in result tables.
func RegimeID(daVol, rtNoise, spikeProb float64) string {
	return fmt.Sprintf("dv%g_rn%g_sp%g", daVol, rtNoise, spikeProb)
}
