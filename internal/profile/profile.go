// Package profile owns the shared snapshot of the player state parsed from
// game replies, plus the captcha flag that suspends the action loop.
package profile

import (
	"sync"

	"AutoFisher/internal/gamedata"
	"AutoFisher/internal/parser"
)

// Snapshot is a point-in-time copy of the tracked player state.
type Snapshot struct {
	Balance uint64
	Level   int
	Biome   gamedata.Biome
	RodName string
}

// State guards the latest parsed player profile. All critical sections are
// short and never held across I/O.
type State struct {
	mu              sync.Mutex
	snap            Snapshot
	captchaDetected bool
}

// NewState creates a State starting in the given biome with the free rod.
func NewState() *State {
	return &State{snap: Snapshot{Biome: gamedata.River, RodName: "Plastic Rod"}}
}

// Snapshot returns a copy of the current player state.
func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}

// ApplyStats merges parsed profile fields into the snapshot. Fields the
// embed did not carry are left untouched.
func (s *State) ApplyStats(stats parser.PlayerStats) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if stats.HasBalance {
		s.snap.Balance = stats.Balance
	}
	if stats.HasLevel {
		s.snap.Level = stats.Level
	}
	if stats.Biome != "" {
		s.snap.Biome = gamedata.BiomeByName(stats.Biome)
	}
	if stats.RodName != "" {
		s.snap.RodName = stats.RodName
	}
}

// SetBiome records a biome optimistically after a self-issued travel.
func (s *State) SetBiome(b gamedata.Biome) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Biome = b
}

// SetRod records a rod optimistically after a self-issued purchase.
func (s *State) SetRod(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.RodName = name
}

// AdjustBalance applies a spend (negative) or gain to the tracked balance.
func (s *State) AdjustBalance(delta int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if delta < 0 && uint64(-delta) > s.snap.Balance {
		s.snap.Balance = 0
		return
	}
	s.snap.Balance = uint64(int64(s.snap.Balance) + delta)
}

// SetCaptcha raises or clears the captcha flag.
func (s *State) SetCaptcha(detected bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.captchaDetected = detected
}

// CaptchaDetected reports whether a captcha is pending.
func (s *State) CaptchaDetected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.captchaDetected
}
