package results

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"battery-stress/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "results.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_RunRoundTrip(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	rec := RunRecord{
		RunID:     "01TESTRUN",
		CreatedAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		Periods:   24,
		Scenarios: 15,
		Seed:      42,
	}
	require.NoError(t, s.RecordRun(rec))

	got, err := s.GetRun("01TESTRUN")
	require.NoError(t, err)
	assert.Equal(t, rec.RunID, got.RunID)
	assert.Equal(t, rec.Periods, got.Periods)
	assert.Equal(t, rec.Scenarios, got.Scenarios)
	assert.Equal(t, rec.Seed, got.Seed)
	assert.True(t, rec.CreatedAt.Equal(got.CreatedAt))
}

func TestStore_GetRunMissing(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	_, err := s.GetRun("nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestStore_RowsKeepSweepOrder(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	require.NoError(t, s.RecordRun(RunRecord{RunID: "run1", CreatedAt: time.Now(), Periods: 4, Scenarios: 2, Seed: 1}))

	rows := []model.StressResultRow{
		{RegimeID: "dv25_rn5_sp0", DAVolatility: 25, OptionValue: 3.5},
		{RegimeID: "dv10_rn5_sp0", DAVolatility: 10, OptionValue: 1.25},
		{RegimeID: "dv15_rn5_sp0", DAVolatility: 15, OptionValue: 2},
	}
	require.NoError(t, s.RecordRows("run1", rows))

	got, err := s.ListRows("run1")
	require.NoError(t, err)
	require.Len(t, got, 3)
	// Insertion order, not lexical order.
	assert.Equal(t, rows, got)
}

func TestStore_DuplicateRegimeRejected(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	require.NoError(t, s.RecordRun(RunRecord{RunID: "run1", CreatedAt: time.Now()}))

	rows := []model.StressResultRow{
		{RegimeID: "dv10_rn5_sp0"},
		{RegimeID: "dv10_rn5_sp0"},
	}
	require.Error(t, s.RecordRows("run1", rows))

	// The transaction rolled back, so nothing was stored.
	got, err := s.ListRows("run1")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestStore_RowsScopedToRun(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	require.NoError(t, s.RecordRun(RunRecord{RunID: "a", CreatedAt: time.Now()}))
	require.NoError(t, s.RecordRun(RunRecord{RunID: "b", CreatedAt: time.Now()}))
	require.NoError(t, s.RecordRows("a", []model.StressResultRow{{RegimeID: "dv10_rn5_sp0"}}))
	require.NoError(t, s.RecordRows("b", []model.StressResultRow{{RegimeID: "dv20_rn5_sp0"}, {RegimeID: "dv30_rn5_sp0"}}))

	rowsA, err := s.ListRows("a")
	require.NoError(t, err)
	rowsB, err := s.ListRows("b")
	require.NoError(t, err)
	assert.Len(t, rowsA, 1)
	assert.Len(t, rowsB, 2)
}
