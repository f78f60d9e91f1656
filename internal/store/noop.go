package store

import (
	"AutoFisher/internal/gamedata"
	"AutoFisher/internal/model"
)

// NoopStore is a no-op implementation used when SQLite is not configured.
type NoopStore struct{}

func NewNoopStore() *NoopStore { return &NoopStore{} }

func (n *NoopStore) LoadBiomeStats() (map[gamedata.Biome]model.BiomeStats, error) {
	return map[gamedata.Biome]model.BiomeStats{}, nil
}
func (n *NoopStore) SaveBiomeStats(_ gamedata.Biome, _ model.BiomeStats) error    { return nil }
func (n *NoopStore) LogCatch(_ string, _, _ uint64, _ gamedata.Biome, _ uint64) error { return nil }
func (n *NoopStore) LogCooldown(_, _ float64) error                               { return nil }
func (n *NoopStore) LogSnapshot(_ int, _ uint64, _ gamedata.Biome) error          { return nil }
func (n *NoopStore) Close() error                                                 { return nil }
