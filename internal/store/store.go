package store

import (
	"AutoFisher/internal/gamedata"
	"AutoFisher/internal/model"
)

// Store persists learned biome economics and play history.
type Store interface {
	LoadBiomeStats() (map[gamedata.Biome]model.BiomeStats, error)
	SaveBiomeStats(biome gamedata.Biome, stats model.BiomeStats) error
	LogCatch(fishName string, quantity uint64, xp uint64, biome gamedata.Biome, gold uint64) error
	LogCooldown(waitTime, totalCooldown float64) error
	LogSnapshot(level int, balance uint64, biome gamedata.Biome) error
	Close() error
}
