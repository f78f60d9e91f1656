package model

// BotState is the orchestrator's current mode.
type BotState int

const (
	StateIdle BotState = iota
	StatePrimaryAction
	StateAwaitingCaptcha
	StateSelling
	StateShopping
)

func (s BotState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePrimaryAction:
		return "fishing"
	case StateAwaitingCaptcha:
		return "captcha"
	case StateSelling:
		return "selling"
	case StateShopping:
		return "shopping"
	default:
		return "unknown"
	}
}

// BiomeStats accumulates observed catch economics for one biome.
type BiomeStats struct {
	TotalCatches  uint64  `json:"total_catches"`
	TotalGold     uint64  `json:"total_gold"`
	TotalXP       uint64  `json:"total_xp"`
	AvgGoldPerFish float64 `json:"avg_gold_per_fish"`
	AvgXPPerFish   float64 `json:"avg_xp_per_fish"`
}

// Add folds one catch observation into the stats.
func (b *BiomeStats) Add(gold, xp, count uint64) {
	b.TotalCatches += count
	b.TotalGold += gold
	b.TotalXP += xp
	if b.TotalCatches > 0 {
		b.AvgGoldPerFish = float64(b.TotalGold) / float64(b.TotalCatches)
		b.AvgXPPerFish = float64(b.TotalXP) / float64(b.TotalCatches)
	}
}

// ActionType tags a recommendation.
type ActionType int

const (
	ActionBuyRod ActionType = iota
	ActionBuyBoat
	ActionTravel
	ActionRiskBridge
)

func (a ActionType) String() string {
	switch a {
	case ActionBuyRod:
		return "buy_rod"
	case ActionBuyBoat:
		return "buy_boat"
	case ActionTravel:
		return "travel"
	case ActionRiskBridge:
		return "risk_bridge"
	default:
		return "unknown"
	}
}

// Recommendation is one ranked move from the optimizer. Stake is set only
// for ActionRiskBridge and holds the exact shortfall to wager.
type Recommendation struct {
	Action     ActionType
	Target     string
	Cost       uint64
	Stake      uint64
	ROISeconds float64
}
