// Package cooldown learns the server's true per-action delay from
// hit/success feedback and produces human-paced sleep durations.
package cooldown

import (
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	// HitPenaltyStep is added per consecutive cooldown hit.
	HitPenaltyStep = 0.5
	// JitterMin and JitterMax bound the per-cast human-variance jitter.
	JitterMin = 0.1
	JitterMax = 0.8
	// DecayStep is shaved off the estimate after a long success streak.
	DecayStep = 0.05
	// DecayStreak is the number of consecutive successes before probing lower.
	DecayStreak = 20
)

// Estimator tracks the estimated safe cooldown. The estimate never drops
// below the configured base and is not persisted across restarts.
type Estimator struct {
	mu              sync.Mutex
	baseCooldown    float64
	estimate        float64
	consecutiveHits uint32
	successStreak   uint32
	log             zerolog.Logger
}

// NewEstimator creates an estimator starting at the given base cooldown.
func NewEstimator(baseCooldown float64, log zerolog.Logger) *Estimator {
	return &Estimator{
		baseCooldown: baseCooldown,
		estimate:     baseCooldown,
		log:          log.With().Str("component", "cooldown").Logger(),
	}
}

// NextDelay returns the delay before the next action: the current estimate
// plus a penalty for consecutive hits plus jitter.
func (e *Estimator) NextDelay() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()

	penalty := float64(e.consecutiveHits) * HitPenaltyStep
	jitter := JitterMin + rand.Float64()*(JitterMax-JitterMin)
	return time.Duration((e.estimate + penalty + jitter) * float64(time.Second))
}

// ReportHit records a cooldown violation. A server-reported total cooldown
// above the local estimate overrides it.
func (e *Estimator) ReportHit(waitTime, totalCooldown float64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.consecutiveHits++
	e.successStreak = 0

	if totalCooldown > 0 && totalCooldown > e.estimate {
		e.log.Info().
			Float64("old", e.estimate).
			Float64("new", totalCooldown).
			Msg("raising cooldown estimate from server report")
		e.estimate = totalCooldown
	}
	e.log.Warn().
		Uint32("consecutive", e.consecutiveHits).
		Float64("wait", waitTime).
		Msg("cooldown hit")
}

// ReportSuccess records a successful action. Every DecayStreak-th
// consecutive success shaves DecayStep off the estimate, floored at the
// base cooldown, probing for the minimum safe pacing.
func (e *Estimator) ReportSuccess() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.successStreak++
	e.consecutiveHits = 0

	if e.successStreak >= DecayStreak {
		if e.estimate > e.baseCooldown {
			e.estimate -= DecayStep
			if e.estimate < e.baseCooldown {
				e.estimate = e.baseCooldown
			}
		}
		e.successStreak = 0
	}
}

// Estimate returns the current cooldown estimate in seconds.
func (e *Estimator) Estimate() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.estimate
}
