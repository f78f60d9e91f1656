package cooldown

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEstimator(base float64) *Estimator {
	return NewEstimator(base, zerolog.Nop())
}

func TestReportHit_ServerReportRaisesEstimate(t *testing.T) {
	e := newTestEstimator(3.5)
	require.Equal(t, 3.5, e.Estimate())

	e.ReportHit(1.2, 5.0)
	assert.Equal(t, 5.0, e.Estimate())

	// A lower server report never lowers the estimate.
	e.ReportHit(0.3, 4.0)
	assert.Equal(t, 5.0, e.Estimate())

	// Zero total cooldown is ignored.
	e.ReportHit(0.3, 0)
	assert.Equal(t, 5.0, e.Estimate())
}

func TestReportSuccess_DecaysEveryTwentieth(t *testing.T) {
	e := newTestEstimator(3.5)
	e.ReportHit(0, 5.0)

	for i := 0; i < DecayStreak; i++ {
		e.ReportSuccess()
	}
	assert.InDelta(t, 4.95, e.Estimate(), 1e-9)

	// 19 more successes do not decay again.
	for i := 0; i < DecayStreak-1; i++ {
		e.ReportSuccess()
	}
	assert.InDelta(t, 4.95, e.Estimate(), 1e-9)

	e.ReportSuccess()
	assert.InDelta(t, 4.90, e.Estimate(), 1e-9)
}

func TestDecayNeverBelowBase(t *testing.T) {
	e := newTestEstimator(3.5)
	e.ReportHit(0, 3.52)

	for i := 0; i < 10*DecayStreak; i++ {
		e.ReportSuccess()
	}
	assert.Equal(t, 3.5, e.Estimate())
}

func TestHitResetsStreak(t *testing.T) {
	e := newTestEstimator(3.5)
	e.ReportHit(0, 5.0)

	for i := 0; i < DecayStreak-1; i++ {
		e.ReportSuccess()
	}
	// A hit resets the streak, so 19 earlier successes no longer count.
	e.ReportHit(0.5, 0)
	e.ReportSuccess()
	assert.Equal(t, 5.0, e.Estimate())
}

func TestNextDelay_Bounds(t *testing.T) {
	e := newTestEstimator(3.5)

	for i := 0; i < 100; i++ {
		d := e.NextDelay()
		assert.GreaterOrEqual(t, d, time.Duration((3.5+JitterMin)*float64(time.Second)))
		assert.Less(t, d, time.Duration((3.5+JitterMax)*float64(time.Second)))
	}

	// Consecutive hits add a 0.5s penalty each.
	e.ReportHit(0, 0)
	e.ReportHit(0, 0)
	d := e.NextDelay()
	assert.GreaterOrEqual(t, d, time.Duration((3.5+2*HitPenaltyStep+JitterMin)*float64(time.Second)))
}
