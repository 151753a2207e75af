package results

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id TEXT PRIMARY KEY,
	created_at DATETIME NOT NULL,
	periods INTEGER NOT NULL,
	scenarios INTEGER NOT NULL,
	seed INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS stress_rows (
	run_id TEXT NOT NULL,
	regime_id TEXT NOT NULL,
	da_volatility REAL NOT NULL,
	rt_noise_scale REAL NOT NULL,
	spike_probability REAL NOT NULL,
	da_only_pnl REAL NOT NULL,
	expected_two_stage_pnl REAL NOT NULL,
	p5 REAL NOT NULL,
	p50 REAL NOT NULL,
	p95 REAL NOT NULL,
	worst REAL NOT NULL,
	best REAL NOT NULL,
	option_value REAL NOT NULL,
	seq INTEGER NOT NULL,
	PRIMARY KEY (run_id, regime_id)
);

CREATE INDEX IF NOT EXISTS idx_stress_rows_run ON stress_rows(run_id);
`
