// Package optimizer ranks candidate upgrades and moves by payback time and
// accumulates per-biome catch economics.
package optimizer

import (
	"sort"
	"sync"

	"AutoFisher/internal/gamedata"
	"AutoFisher/internal/model"

	"github.com/rs/zerolog"
)

const (
	// DefaultFishValue is the gold-per-fish prior used before a biome has
	// any observed catches.
	DefaultFishValue = 15.0
	// MinEffectiveCooldown floors the cooldown used for income rates.
	MinEffectiveCooldown = 2.0
	// RiskBridgeThresholdSeconds is the grind time above which staking the
	// shortfall beats grinding (4 hours).
	RiskBridgeThresholdSeconds = 14400.0
	// CheckpointEvery is how many catches accumulate before a biome's
	// stats are flushed to storage.
	CheckpointEvery = 50
)

// Loadout is the player state an income rate is computed from.
type Loadout struct {
	Rod        gamedata.Rod
	Boat       *gamedata.Boat // nil when no boat is owned
	Biome      gamedata.Biome
	CatchBonus float64
	SellBonus  float64
	HasteBonus float64
}

// Optimizer holds the learned per-biome stats and ranks moves.
type Optimizer struct {
	mu    sync.Mutex
	stats map[gamedata.Biome]*model.BiomeStats
	log   zerolog.Logger
}

// New creates an Optimizer seeded with previously persisted biome stats.
func New(seed map[gamedata.Biome]model.BiomeStats, log zerolog.Logger) *Optimizer {
	stats := make(map[gamedata.Biome]*model.BiomeStats, len(seed))
	for b, s := range seed {
		copied := s
		stats[b] = &copied
	}
	return &Optimizer{
		stats: stats,
		log:   log.With().Str("component", "optimizer").Logger(),
	}
}

// RecordCatch folds an observed catch into the biome's stats and returns a
// copy of the updated stats.
func (o *Optimizer) RecordCatch(biome gamedata.Biome, gold, xp, count uint64) model.BiomeStats {
	o.mu.Lock()
	defer o.mu.Unlock()

	s, ok := o.stats[biome]
	if !ok {
		s = &model.BiomeStats{}
		o.stats[biome] = s
	}
	s.Add(gold, xp, count)
	return *s
}

// Stats returns a copy of all accumulated biome stats.
func (o *Optimizer) Stats() map[gamedata.Biome]model.BiomeStats {
	o.mu.Lock()
	defer o.mu.Unlock()

	out := make(map[gamedata.Biome]model.BiomeStats, len(o.stats))
	for b, s := range o.stats {
		out[b] = *s
	}
	return out
}

func (o *Optimizer) avgValue(biome gamedata.Biome) float64 {
	if s, ok := o.stats[biome]; ok && s.TotalCatches > 0 && s.AvgGoldPerFish > 0 {
		return s.AvgGoldPerFish
	}
	return DefaultFishValue
}

// IncomeRate computes gold per second for a loadout.
func (o *Optimizer) IncomeRate(l Loadout) float64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.incomeRate(l)
}

func (o *Optimizer) incomeRate(l Loadout) float64 {
	info := gamedata.BiomeData(l.Biome)

	boatReduction := 0.0
	if l.Boat != nil {
		boatReduction = l.Boat.CooldownReduction
	}
	cd := info.BaseCooldown + info.CooldownPenalty - boatReduction - info.BaseCooldown*l.HasteBonus
	if cd < MinEffectiveCooldown {
		cd = MinEffectiveCooldown
	}

	fishPerCast := l.Rod.ExpectedFish * info.CatchRate * (1.0 + l.CatchBonus)
	valuePerFish := o.avgValue(l.Biome) * (1.0 + l.SellBonus)
	return fishPerCast * valuePerFish / cd
}

// RiskStake reports the stake for an even-odds wager that bridges the gap
// to targetCost faster than grinding would. A stake is proposed only when
// the grind time exceeds the threshold and the shortfall itself is
// affordable. Returns false otherwise.
func RiskStake(balance, targetCost uint64, rate float64) (uint64, bool) {
	if rate <= 0 || balance >= targetCost {
		return 0, false
	}
	shortfall := targetCost - balance
	if float64(shortfall)/rate <= RiskBridgeThresholdSeconds {
		return 0, false
	}
	if shortfall > balance {
		return 0, false
	}
	return shortfall, true
}

// Rank evaluates every rod and boat priced above the current one and every
// other biome, swapping exactly one dimension at a time, and returns the
// profitable candidates sorted ascending by payback time. Travel and
// risk-bridge candidates carry zero cost and zero ROI, so they sort first.
func (o *Optimizer) Rank(l Loadout, balance uint64) []model.Recommendation {
	o.mu.Lock()
	defer o.mu.Unlock()

	current := o.incomeRate(l)
	var recs []model.Recommendation

	addPurchase := func(action model.ActionType, target string, cost uint64, newRate float64) {
		if newRate <= current {
			return
		}
		if stake, ok := RiskStake(balance, cost, current); ok {
			recs = append(recs, model.Recommendation{
				Action: model.ActionRiskBridge,
				Target: target,
				Stake:  stake,
			})
		}
		recs = append(recs, model.Recommendation{
			Action:     action,
			Target:     target,
			Cost:       cost,
			ROISeconds: float64(cost) / (newRate - current),
		})
	}

	for _, rod := range gamedata.Rods {
		if rod.Price <= l.Rod.Price {
			continue
		}
		swapped := l
		swapped.Rod = rod
		addPurchase(model.ActionBuyRod, rod.Name, rod.Price, o.incomeRate(swapped))
	}

	currentBoatPrice := uint64(0)
	if l.Boat != nil {
		currentBoatPrice = l.Boat.Price
	}
	for i := range gamedata.Boats {
		b := gamedata.Boats[i]
		if b.Price <= currentBoatPrice {
			continue
		}
		swapped := l
		swapped.Boat = &b
		addPurchase(model.ActionBuyBoat, b.Name, b.Price, o.incomeRate(swapped))
	}

	for _, biome := range gamedata.Biomes {
		if biome == l.Biome {
			continue
		}
		swapped := l
		swapped.Biome = biome
		if o.incomeRate(swapped) > current {
			recs = append(recs, model.Recommendation{
				Action: model.ActionTravel,
				Target: string(biome),
			})
		}
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].ROISeconds < recs[j].ROISeconds
	})
	return recs
}
