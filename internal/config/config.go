package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"battery-stress/internal/model"
	"battery-stress/internal/stress"
)

// Config is the on-disk configuration shape (YAML).
type Config struct {
	// Optional: load battery parameters from a separate YAML file.
	// If both BatteryFile and Battery are provided, Battery overrides BatteryFile.
	BatteryFile string        `yaml:"battery_file"`
	Battery     BatteryConfig `yaml:"battery"`
	Run         RunConfig     `yaml:"run"`
	Regimes     RegimeGrid    `yaml:"regimes"`
	Output      OutputConfig  `yaml:"output"`
}

type BatteryConfig struct {
	Name                string  `yaml:"name"`
	PowerMaxMW          float64 `yaml:"power_max_mw"`
	EnergyCapacityMWh   float64 `yaml:"energy_capacity_mwh"`
	ChargeEfficiency    float64 `yaml:"charge_efficiency"`
	DischargeEfficiency float64 `yaml:"discharge_efficiency"`
	SOCMinMWh           float64 `yaml:"soc_min_mwh"`
	SOCMaxMWh           float64 `yaml:"soc_max_mwh"`
	InitialSOCMWh       float64 `yaml:"initial_soc_mwh"`
	TerminalSOCMinMWh   float64 `yaml:"terminal_soc_min_mwh"`
}

type RunConfig struct {
	Periods            int     `yaml:"periods"`
	Scenarios          int     `yaml:"scenarios"`
	Seed               int64   `yaml:"seed"`
	IntervalHours      float64 `yaml:"interval_hours"`
	BasePrice          float64 `yaml:"base_price"`
	SpikeSize          float64 `yaml:"spike_size"`
	SolveBudgetSeconds float64 `yaml:"solve_budget_seconds"`
	Workers            int     `yaml:"workers"`
}

// RegimeGrid is swept as the cross product da_volatility x rt_noise_scale x
// spike_probability, in that nesting order.
type RegimeGrid struct {
	DAVolatility     []float64 `yaml:"da_volatility"`
	RTNoiseScale     []float64 `yaml:"rt_noise_scale"`
	SpikeProbability []float64 `yaml:"spike_probability"`
}

type OutputConfig struct {
	CSVPath    string `yaml:"csv_path"`
	SQLitePath string `yaml:"sqlite_path"`
}

func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	// If initial_soc_mwh is not provided, default it to the SOC floor.
	// Starting at the floor avoids "free" starting inventory in the P&L.
	if c.Battery.InitialSOCMWh == 0 {
		c.Battery.InitialSOCMWh = c.Battery.SOCMinMWh
	}
	if c.Run.IntervalHours == 0 {
		c.Run.IntervalHours = 1
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads and merges config without validating it.
// Useful for debugging or printing partial configs.
func LoadUnchecked(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, err
	}
	if c.BatteryFile != "" {
		batteryPath := c.BatteryFile
		if !filepath.IsAbs(batteryPath) {
			// Prefer paths relative to the config file directory, falling
			// back to the path as given (relative to cwd).
			cand := filepath.Join(filepath.Dir(path), batteryPath)
			if _, err := os.Stat(cand); err == nil {
				batteryPath = cand
			}
		}
		loaded, err := loadBatteryFile(batteryPath)
		if err != nil {
			return nil, err
		}
		c.Battery = MergeBattery(loaded, c.Battery)
	}
	return &c, nil
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if _, err := model.NewBatteryParams(c.Battery.ToModelParams()); err != nil {
		return fmt.Errorf("battery config invalid: %w", err)
	}
	if c.Run.Periods <= 0 {
		return fmt.Errorf("%w: run.periods must be > 0", model.ErrConfig)
	}
	if c.Run.Scenarios <= 0 {
		return fmt.Errorf("%w: run.scenarios must be > 0", model.ErrConfig)
	}
	if len(c.Regimes.DAVolatility) == 0 || len(c.Regimes.RTNoiseScale) == 0 || len(c.Regimes.SpikeProbability) == 0 {
		return fmt.Errorf("%w: regimes grid must have at least one value per axis", model.ErrConfig)
	}
	for _, reg := range c.ExpandRegimes() {
		if err := reg.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (b BatteryConfig) ToModelParams() model.BatteryParams {
	return model.BatteryParams{
		PowerMaxMW:          b.PowerMaxMW,
		EnergyCapacityMWh:   b.EnergyCapacityMWh,
		ChargeEfficiency:    b.ChargeEfficiency,
		DischargeEfficiency: b.DischargeEfficiency,
		SOCMinMWh:           b.SOCMinMWh,
		SOCMaxMWh:           b.SOCMaxMWh,
		InitialSOCMWh:       b.InitialSOCMWh,
		TerminalSOCMinMWh:   b.TerminalSOCMinMWh,
	}
}

func (r RunConfig) ToRunParams() stress.RunParams {
	return stress.RunParams{
		Periods:       r.Periods,
		Scenarios:     r.Scenarios,
		Seed:          r.Seed,
		IntervalHours: r.IntervalHours,
		BasePrice:     r.BasePrice,
		SolveBudget:   time.Duration(r.SolveBudgetSeconds * float64(time.Second)),
		Workers:       r.Workers,
	}
}

// ExpandRegimes builds the ordered regime list from the grid.
func (c *Config) ExpandRegimes() []model.RegimeConfig {
	var out []model.RegimeConfig
	for _, dv := range c.Regimes.DAVolatility {
		for _, rn := range c.Regimes.RTNoiseScale {
			for _, sp := range c.Regimes.SpikeProbability {
				out = append(out, model.RegimeConfig{
					ID:               model.RegimeID(dv, rn, sp),
					DAVolatility:     dv,
					RTNoiseScale:     rn,
					SpikeProbability: sp,
					SpikeSize:        c.Run.SpikeSize,
				})
			}
		}
	}
	return out
}

type batteryFileWrapper struct {
	Battery BatteryConfig `yaml:"battery"`
}

func loadBatteryFile(path string) (BatteryConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return BatteryConfig{}, err
	}
	var w batteryFileWrapper
	if err := yaml.Unmarshal(raw, &w); err != nil {
		return BatteryConfig{}, err
	}
	return w.Battery, nil
}

// MergeBattery overlays non-zero fields from override onto base.
func MergeBattery(base, override BatteryConfig) BatteryConfig {
	out := base
	if override.Name != "" {
		out.Name = override.Name
	}
	if override.PowerMaxMW != 0 {
		out.PowerMaxMW = override.PowerMaxMW
	}
	if override.EnergyCapacityMWh != 0 {
		out.EnergyCapacityMWh = override.EnergyCapacityMWh
	}
	if override.ChargeEfficiency != 0 {
		out.ChargeEfficiency = override.ChargeEfficiency
	}
	if override.DischargeEfficiency != 0 {
		out.DischargeEfficiency = override.DischargeEfficiency
	}
	if override.SOCMinMWh != 0 {
		out.SOCMinMWh = override.SOCMinMWh
	}
	if override.SOCMaxMWh != 0 {
		out.SOCMaxMWh = override.SOCMaxMWh
	}
	if override.InitialSOCMWh != 0 {
		out.InitialSOCMWh = override.InitialSOCMWh
	}
	if override.TerminalSOCMinMWh != 0 {
		out.TerminalSOCMinMWh = override.TerminalSOCMinMWh
	}
	return out
}
