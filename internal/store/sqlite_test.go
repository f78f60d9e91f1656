package store

import (
	"path/filepath"
	"testing"

	"AutoFisher/internal/gamedata"
	"AutoFisher/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestBiomeStats_RoundTrip(t *testing.T) {
	s := newTestStore(t)

	loaded, err := s.LoadBiomeStats()
	require.NoError(t, err)
	assert.Empty(t, loaded)

	ocean := model.BiomeStats{
		TotalCatches: 120, TotalGold: 4800, TotalXP: 900,
		AvgGoldPerFish: 40, AvgXPPerFish: 7.5,
	}
	require.NoError(t, s.SaveBiomeStats(gamedata.Ocean, ocean))
	require.NoError(t, s.SaveBiomeStats(gamedata.River, model.BiomeStats{TotalCatches: 5}))

	loaded, err = s.LoadBiomeStats()
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, ocean, loaded[gamedata.Ocean])
}

func TestBiomeStats_UpsertOverwrites(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.SaveBiomeStats(gamedata.Sky, model.BiomeStats{TotalCatches: 10}))
	require.NoError(t, s.SaveBiomeStats(gamedata.Sky, model.BiomeStats{TotalCatches: 60, TotalGold: 300}))

	loaded, err := s.LoadBiomeStats()
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, uint64(60), loaded[gamedata.Sky].TotalCatches)
	assert.Equal(t, uint64(300), loaded[gamedata.Sky].TotalGold)
}

func TestHistoryLogging(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.LogCatch("Salmon", 3, 50, gamedata.Ocean, 9))
	require.NoError(t, s.LogCooldown(2.5, 3.5))
	require.NoError(t, s.LogSnapshot(21, 3548, gamedata.Ocean))

	var n int
	require.NoError(t, s.db.QueryRow(`SELECT count(*) FROM catch_history`).Scan(&n))
	assert.Equal(t, 1, n)
	require.NoError(t, s.db.QueryRow(`SELECT count(*) FROM cooldown_events`).Scan(&n))
	assert.Equal(t, 1, n)
	require.NoError(t, s.db.QueryRow(`SELECT count(*) FROM player_snapshots`).Scan(&n))
	assert.Equal(t, 1, n)
}
