package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCatch(t *testing.T) {
	desc := "You caught:\n3 <:salmon:1234> Salmon\n1 <:cod:5678> Cod\n+1,250 XP"
	ev, ok := ParseCatch(desc)
	require.True(t, ok)
	require.Len(t, ev.Fish, 2)
	assert.Equal(t, FishCount{Name: "Salmon", Count: 3}, ev.Fish[0])
	assert.Equal(t, FishCount{Name: "Cod", Count: 1}, ev.Fish[1])
	assert.Equal(t, uint64(1250), ev.XP)
}

func TestParseCatch_NotACatch(t *testing.T) {
	_, ok := ParseCatch("Welcome to the shop!")
	assert.False(t, ok)
}

func TestParseCooldown(t *testing.T) {
	ev, ok := ParseCooldown("You must wait **2.5**s before fishing again.\nCurrent cooldown: **3.5** seconds")
	require.True(t, ok)
	assert.Equal(t, 2.5, ev.WaitTime)
	assert.Equal(t, 3.5, ev.TotalCooldown)

	ev, ok = ParseCooldown("You must wait **0.8**s")
	require.True(t, ok)
	assert.Equal(t, 0.8, ev.WaitTime)
	assert.Equal(t, 0.0, ev.TotalCooldown)
}

func TestParseProfile(t *testing.T) {
	desc := "Balance: **$3,548**\nLevel 21, 320 XP to next level\n" +
		"Rod: <:rod:99> **Steel Rod**\nCurrent Biome: <:ocean:42> **Ocean**"
	stats := ParseProfile(desc)
	require.True(t, stats.HasBalance)
	assert.Equal(t, uint64(3548), stats.Balance)
	require.True(t, stats.HasLevel)
	assert.Equal(t, 21, stats.Level)
	assert.Equal(t, "Ocean", stats.Biome)
	assert.Equal(t, "Steel Rod", stats.RodName)
}

func TestSignals(t *testing.T) {
	assert.True(t, IsInventoryFull("Your inventory is full! Sell your fish."))
	assert.False(t, IsInventoryFull("You caught a fish"))
	assert.True(t, IsCaptcha("Anti-bot check", ""))
	assert.True(t, IsCaptcha("", "Please complete this captcha to continue"))
	assert.False(t, IsCaptcha("You caught", "3 fish"))
}
