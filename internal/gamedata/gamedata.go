// Package gamedata holds the static reference tables for the game economy.
// All tables are read-only at runtime.
package gamedata

import "strings"

// Biome is a game location with its own cooldown profile and economy.
type Biome string

const (
	River    Biome = "River"
	Volcanic Biome = "Volcanic"
	Ocean    Biome = "Ocean"
	Sky      Biome = "Sky"
	Space    Biome = "Space"
	Alien    Biome = "Alien"
)

// Biomes lists every biome in unlock order.
var Biomes = []Biome{River, Volcanic, Ocean, Sky, Space, Alien}

// BiomeInfo describes a biome's cooldown profile and catch rate.
type BiomeInfo struct {
	BaseCooldown    float64
	CooldownPenalty float64
	CatchRate       float64
}

var biomeData = map[Biome]BiomeInfo{
	River:    {BaseCooldown: 3.0, CooldownPenalty: 0.0, CatchRate: 1.0},
	Volcanic: {BaseCooldown: 3.0, CooldownPenalty: 0.5, CatchRate: 0.60},
	Ocean:    {BaseCooldown: 3.0, CooldownPenalty: 1.0, CatchRate: 0.30},
	Sky:      {BaseCooldown: 3.0, CooldownPenalty: 2.0, CatchRate: 0.12},
	Space:    {BaseCooldown: 3.0, CooldownPenalty: 3.0, CatchRate: 0.065},
	Alien:    {BaseCooldown: 3.0, CooldownPenalty: 4.0, CatchRate: 0.03},
}

// BiomeData returns the info for a biome, falling back to River for
// anything unrecognized.
func BiomeData(b Biome) BiomeInfo {
	if info, ok := biomeData[b]; ok {
		return info
	}
	return biomeData[River]
}

// BiomeByName resolves a display name to a Biome. Unknown names map to River.
func BiomeByName(name string) Biome {
	for _, b := range Biomes {
		if strings.EqualFold(string(b), strings.TrimSpace(name)) {
			return b
		}
	}
	return River
}

// Rod is a purchasable fishing rod.
type Rod struct {
	Name            string
	Price           uint64
	ExpectedFish    float64 // expected fish per cast, midpoint of the drop range
	TreasureChance  float64
}

func rod(name string, price uint64, minFish, maxFish int, treasure float64) Rod {
	return Rod{
		Name:           name,
		Price:          price,
		ExpectedFish:   (float64(minFish) + float64(maxFish)) / 2.0,
		TreasureChance: treasure,
	}
}

// Rods lists every rod in price order. The Plastic Rod is the free starter.
var Rods = []Rod{
	rod("Plastic Rod", 0, 4, 10, 0.05),
	rod("Improved Rod", 500, 5, 10, 0.05),
	rod("Steel Rod", 8_000, 5, 8, 0.05),
	rod("Fiberglass Rod", 50_000, 7, 10, 0.05),
	rod("Heavy Rod", 100_000, 6, 9, 0.085),
	rod("Alloy Rod", 250_000, 4, 13, 0.05),
	rod("Lava Rod", 1_000_000, 7, 11, 0.05),
	rod("Magma Rod", 10_000_000, 10, 13, 0.05),
	rod("Oceanium Rod", 75_000_000, 11, 14, 0.05),
	rod("Golden Rod", 120_000_000, 4, 6, 0.13),
	rod("Superium Rod", 250_000_000, 8, 18, 0.055),
	rod("Infinity Rod", 1_000_000_000, 15, 18, 0.06),
	rod("Floating Rod", 50_000_000_000, 15, 30, 0.065),
	rod("Sky Rod", 250_000_000_000, 30, 34, 0.067),
	rod("Meteor Rod", 500_000_000_000, 20, 24, 0.15),
	rod("Space Rod", 1_000_000_000_000, 33, 37, 0.068),
	rod("Alien Rod", 5_000_000_000_000, 37, 42, 0.07),
}

// RodByName resolves a rod display name. Returns the starter rod when the
// name is unknown (profile not parsed yet).
func RodByName(name string) Rod {
	name = strings.TrimSpace(name)
	for _, r := range Rods {
		if strings.EqualFold(r.Name, name) {
			return r
		}
	}
	return Rods[0]
}

// Boat is a purchasable cooldown reducer. Each boat shaves a fixed amount
// off the cast cooldown.
type Boat struct {
	Name              string
	Price             uint64
	CooldownReduction float64
}

func boat(name string, price uint64) Boat {
	return Boat{Name: name, Price: price, CooldownReduction: 0.25}
}

// Boats lists every boat in price order.
var Boats = []Boat{
	boat("Rowboat", 5_000),
	boat("Fishing Boat", 25_000),
	boat("Speedboat", 100_000),
	boat("Pontoon", 250_000),
	boat("Sailboat", 1_000_000),
	boat("Yacht", 20_000_000),
	boat("Luxury Yacht", 100_000_000),
	boat("Cruise Ship", 500_000_000),
	boat("Gold Boat", 2_500_000_000),
	boat("Sky Cruiser", 10_000_000_000),
	boat("Satellite", 50_000_000_000),
	boat("Space Shuttle", 250_000_000_000),
	boat("Cruiser", 1_000_000_000_000),
	boat("Alien Raft", 2_500_000_000_000),
	boat("Alien Submarine", 5_000_000_000_000),
}

// BoatByName returns the named boat, or false when no boat matches.
func BoatByName(name string) (Boat, bool) {
	name = strings.TrimSpace(name)
	for _, b := range Boats {
		if strings.EqualFold(b.Name, name) {
			return b, true
		}
	}
	return Boat{}, false
}

// Fish is a sellable catch.
type Fish struct {
	Price uint64
	XP    uint64
}

// FishData maps fish display names to their sale price and XP.
var FishData = map[string]Fish{
	"Raw Fish":      {Price: 1, XP: 1},
	"Raw Salmon":    {Price: 3, XP: 2},
	"Salmon":        {Price: 3, XP: 2},
	"Cod":           {Price: 10, XP: 5},
	"Tropical Fish": {Price: 50, XP: 10},
	"Pufferfish":    {Price: 150, XP: 25},
	"Fiery Pufferfish": {Price: 250, XP: 50},
	"Hot Cod":          {Price: 500, XP: 100},
	"Squid":            {Price: 1_200, XP: 175},
	"Turtle":           {Price: 4_000, XP: 400},
	"Dolphin":          {Price: 20_000, XP: 800},
	"Guardian":         {Price: 29_000, XP: 1_100},
	"Emerald Squid":    {Price: 42_000, XP: 1_900},
	"Rainbow Fish":     {Price: 125_000, XP: 4_800},
	"Space Fish":       {Price: 200_000, XP: 8_000},
	"Galactic Crab":    {Price: 600_000, XP: 15_000},
	"Shark":            {Price: 2_000_000, XP: 35_000},
	"Alien Fish":       {Price: 5_000_000, XP: 65_000},
}

// FishPrice returns the sale price for a fish name, 0 if unknown.
func FishPrice(name string) uint64 {
	if f, ok := FishData[strings.TrimSpace(name)]; ok {
		return f.Price
	}
	return 0
}
