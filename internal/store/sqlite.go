package store

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"AutoFisher/internal/gamedata"
	"AutoFisher/internal/model"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

// SQLiteStore persists biome stats and play history to a SQLite database.
type SQLiteStore struct {
	db  *sql.DB
	mu  sync.Mutex
	log zerolog.Logger
}

// NewSQLiteStore opens (or creates) the SQLite database and runs migrations.
func NewSQLiteStore(dbPath string, log zerolog.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so history reads don't block the bot's writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db, log: log.With().Str("component", "store").Logger()}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	s.log.Info().Str("path", dbPath).Msg("sqlite store opened")
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS biome_stats (
			biome             TEXT PRIMARY KEY,
			total_catches     INTEGER NOT NULL,
			total_gold        INTEGER NOT NULL,
			total_xp          INTEGER NOT NULL,
			avg_gold_per_fish REAL NOT NULL,
			avg_xp_per_fish   REAL NOT NULL,
			updated_at        INTEGER NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS catch_history (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp INTEGER NOT NULL,
			fish_name TEXT,
			quantity  INTEGER,
			xp        INTEGER,
			biome     TEXT,
			gold      INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_catch_ts ON catch_history(timestamp)`,

		`CREATE TABLE IF NOT EXISTS cooldown_events (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp      INTEGER NOT NULL,
			wait_time      REAL,
			total_cooldown REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_cooldown_ts ON cooldown_events(timestamp)`,

		`CREATE TABLE IF NOT EXISTS player_snapshots (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp INTEGER NOT NULL,
			level     INTEGER,
			balance   INTEGER,
			biome     TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_snapshot_ts ON player_snapshots(timestamp)`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}
	return nil
}

// LoadBiomeStats reads all persisted biome stats.
func (s *SQLiteStore) LoadBiomeStats() (map[gamedata.Biome]model.BiomeStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`SELECT biome, total_catches, total_gold, total_xp,
		avg_gold_per_fish, avg_xp_per_fish FROM biome_stats`)
	if err != nil {
		return nil, fmt.Errorf("query biome stats: %w", err)
	}
	defer rows.Close()

	out := make(map[gamedata.Biome]model.BiomeStats)
	for rows.Next() {
		var biome string
		var st model.BiomeStats
		if err := rows.Scan(&biome, &st.TotalCatches, &st.TotalGold, &st.TotalXP,
			&st.AvgGoldPerFish, &st.AvgXPPerFish); err != nil {
			return nil, fmt.Errorf("scan biome stats: %w", err)
		}
		out[gamedata.Biome(biome)] = st
	}
	return out, rows.Err()
}

// SaveBiomeStats upserts one biome's accumulated stats.
func (s *SQLiteStore) SaveBiomeStats(biome gamedata.Biome, st model.BiomeStats) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`INSERT INTO biome_stats
		(biome, total_catches, total_gold, total_xp, avg_gold_per_fish, avg_xp_per_fish, updated_at)
		VALUES (?,?,?,?,?,?,?)
		ON CONFLICT(biome) DO UPDATE SET
			total_catches=excluded.total_catches,
			total_gold=excluded.total_gold,
			total_xp=excluded.total_xp,
			avg_gold_per_fish=excluded.avg_gold_per_fish,
			avg_xp_per_fish=excluded.avg_xp_per_fish,
			updated_at=excluded.updated_at`,
		string(biome), st.TotalCatches, st.TotalGold, st.TotalXP,
		st.AvgGoldPerFish, st.AvgXPPerFish, time.Now().Unix(),
	)
	return err
}

func (s *SQLiteStore) LogCatch(fishName string, quantity, xp uint64, biome gamedata.Biome, gold uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`INSERT INTO catch_history
		(timestamp, fish_name, quantity, xp, biome, gold) VALUES (?,?,?,?,?,?)`,
		time.Now().Unix(), fishName, quantity, xp, string(biome), gold,
	)
	return err
}

func (s *SQLiteStore) LogCooldown(waitTime, totalCooldown float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`INSERT INTO cooldown_events
		(timestamp, wait_time, total_cooldown) VALUES (?,?,?)`,
		time.Now().Unix(), waitTime, totalCooldown,
	)
	return err
}

func (s *SQLiteStore) LogSnapshot(level int, balance uint64, biome gamedata.Biome) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`INSERT INTO player_snapshots
		(timestamp, level, balance, biome) VALUES (?,?,?,?)`,
		time.Now().Unix(), level, balance, string(biome),
	)
	return err
}

func (s *SQLiteStore) Close() error {
	s.log.Info().Msg("closing sqlite store")
	return s.db.Close()
}
