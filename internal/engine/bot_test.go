package engine

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"AutoFisher/internal/config"
	"AutoFisher/internal/cooldown"
	"AutoFisher/internal/gamedata"
	"AutoFisher/internal/model"
	"AutoFisher/internal/optimizer"
	"AutoFisher/internal/parser"
	"AutoFisher/internal/profile"
	"AutoFisher/internal/scheduler"
	"AutoFisher/internal/store"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSubmitter struct {
	lookups   map[string]int
	submitted []string
	options   map[string][]model.InteractionOption
}

func newFakeSubmitter() *fakeSubmitter {
	return &fakeSubmitter{
		lookups: make(map[string]int),
		options: make(map[string][]model.InteractionOption),
	}
}

func (f *fakeSubmitter) LookupCommand(_ context.Context, _, name string) (*model.ApplicationCommand, error) {
	f.lookups[name]++
	return &model.ApplicationCommand{ID: "1", Name: name, Type: 1, Raw: json.RawMessage(`{}`)}, nil
}

func (f *fakeSubmitter) SubmitCommand(_ context.Context, _, _ string, cmd *model.ApplicationCommand, opts []model.InteractionOption) error {
	f.submitted = append(f.submitted, cmd.Name)
	f.options[cmd.Name] = opts
	return nil
}

func (f *fakeSubmitter) SubmitComponent(_ context.Context, _, _, _, _ string) error {
	return nil
}

type fakeSolver struct{ answer string }

func (f *fakeSolver) Solve(context.Context, string) (string, error) { return f.answer, nil }

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Discord.GuildID = "guild"
	cfg.Discord.ChannelID = "chan"
	cfg.Automation.BaseCooldown = 3.5
	cfg.Automation.AutoSell = true
	cfg.Automation.AutoBuy = true
	cfg.Automation.AutoTravel = true
	return cfg
}

func newTestBot(submit Submitter, solver CaptchaSolver) *Bot {
	nop := zerolog.Nop()
	return New(
		testConfig(),
		make(chan model.Event),
		submit,
		solver,
		cooldown.NewEstimator(3.5, nop),
		optimizer.New(nil, nop),
		profile.NewState(),
		scheduler.New(nop),
		store.NewNoopStore(),
		nop,
	)
}

func parserStats(balance uint64) parser.PlayerStats {
	return parser.PlayerStats{Balance: balance, HasBalance: true}
}

// cancelledCtx makes cycle skip its pacing sleeps; the fakes ignore ctx.
func cancelledCtx() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	return ctx
}

func messageEvent(t *testing.T, eventType, channelID string, embeds ...model.Embed) model.Event {
	t.Helper()
	data, err := json.Marshal(model.Message{ChannelID: channelID, Embeds: embeds})
	require.NoError(t, err)
	return model.Event{Op: model.OpDispatch, Type: eventType, Data: data}
}

func TestHandleEvent_CatchFeedsOptimizer(t *testing.T) {
	b := newTestBot(newFakeSubmitter(), nil)
	b.prof.SetBiome(gamedata.Ocean)

	b.handleEvent(messageEvent(t, "MESSAGE_CREATE", "chan", model.Embed{
		Description: "You caught:\n3 <:salmon:123> Salmon\n+50 XP",
	}))

	stats := b.opt.Stats()[gamedata.Ocean]
	assert.Equal(t, uint64(3), stats.TotalCatches)
	assert.Equal(t, uint64(9), stats.TotalGold)
	assert.Equal(t, uint64(50), stats.TotalXP)
	assert.InDelta(t, 3.0, stats.AvgGoldPerFish, 1e-9)
}

func TestHandleEvent_IgnoresOtherChannels(t *testing.T) {
	b := newTestBot(newFakeSubmitter(), nil)

	b.handleEvent(messageEvent(t, "MESSAGE_CREATE", "elsewhere", model.Embed{
		Description: "3 <:salmon:123> Salmon\n+50 XP",
	}))

	assert.Empty(t, b.opt.Stats())
}

func TestHandleEvent_CooldownRaisesEstimate(t *testing.T) {
	b := newTestBot(newFakeSubmitter(), nil)

	b.handleEvent(messageEvent(t, "MESSAGE_CREATE", "chan", model.Embed{
		Description: "You must wait **2.5**s\nCurrent cooldown: **5.0** seconds",
	}))

	assert.InDelta(t, 5.0, b.est.Estimate(), 1e-9)
}

func TestHandleEvent_ProfileStatsMerged(t *testing.T) {
	b := newTestBot(newFakeSubmitter(), nil)

	b.handleEvent(messageEvent(t, "MESSAGE_UPDATE", "chan", model.Embed{
		Description: "Level 21\nBalance: **$3,548**\nCurrent Biome: <:o:1> **Ocean**\nRod: <:r:2> **Steel Rod**",
	}))

	snap := b.prof.Snapshot()
	assert.Equal(t, uint64(3548), snap.Balance)
	assert.Equal(t, 21, snap.Level)
	assert.Equal(t, gamedata.Ocean, snap.Biome)
	assert.Equal(t, "Steel Rod", snap.RodName)
}

func TestHandleEvent_CaptchaRaisesFlag(t *testing.T) {
	b := newTestBot(newFakeSubmitter(), nil)

	b.handleEvent(messageEvent(t, "MESSAGE_CREATE", "chan", model.Embed{
		Title:       "Anti-bot check",
		Description: "Please verify",
		Image:       &model.EmbedImage{URL: "https://example.com/challenge.png"},
	}))

	assert.True(t, b.prof.CaptchaDetected())
	assert.Equal(t, "https://example.com/challenge.png", b.captchaImage)
}

func TestCycle_CaptchaPreemptsEverything(t *testing.T) {
	submit := newFakeSubmitter()
	b := newTestBot(submit, &fakeSolver{answer: "a1b2c3"})
	b.prof.SetCaptcha(true)
	b.captchaImage = "https://example.com/challenge.png"

	b.cycle(cancelledCtx())

	require.Equal(t, []string{"verify"}, submit.submitted)
	assert.Equal(t, "a1b2c3", submit.options["verify"][0].Value)
	assert.False(t, b.prof.CaptchaDetected())
}

func TestCycle_CaptchaWithoutSolverWaits(t *testing.T) {
	submit := newFakeSubmitter()
	b := newTestBot(submit, nil)
	b.prof.SetCaptcha(true)

	b.cycle(cancelledCtx())

	assert.Empty(t, submit.submitted)
	assert.Equal(t, model.StateAwaitingCaptcha, b.State())
	assert.True(t, b.prof.CaptchaDetected())
}

func TestCycle_SellsWhenInventoryFull(t *testing.T) {
	submit := newFakeSubmitter()
	b := newTestBot(submit, nil)
	b.inventoryFull = true

	b.cycle(cancelledCtx())

	require.Contains(t, submit.submitted, "sell")
	assert.Equal(t, "fish", submit.submitted[len(submit.submitted)-1])
	assert.False(t, b.inventoryFull)
}

func TestCycle_PrimaryCastWhenNothingAffordable(t *testing.T) {
	submit := newFakeSubmitter()
	b := newTestBot(submit, nil)

	b.cycle(cancelledCtx())

	assert.Equal(t, []string{"fish"}, submit.submitted)
}

func TestCycle_BuysTopRecommendationWhenAffordable(t *testing.T) {
	submit := newFakeSubmitter()
	b := newTestBot(submit, nil)
	b.prof.ApplyStats(parserStats(1000))

	b.cycle(cancelledCtx())

	require.Contains(t, submit.submitted, "buy")
	assert.Equal(t, "improved rod", submit.options["buy"][0].Value)

	snap := b.prof.Snapshot()
	assert.Equal(t, "Improved Rod", snap.RodName)
	assert.Equal(t, uint64(500), snap.Balance)
}

func TestExecuteRecommendation_RepeatSuppressed(t *testing.T) {
	submit := newFakeSubmitter()
	b := newTestBot(submit, nil)
	b.prof.ApplyStats(parserStats(100_000))

	rec := model.Recommendation{Action: model.ActionBuyRod, Target: "Steel Rod", Cost: 8000, ROISeconds: 100}
	b.executeRecommendation(cancelledCtx(), rec, b.prof.Snapshot())
	b.executeRecommendation(cancelledCtx(), rec, b.prof.Snapshot())

	assert.Len(t, submit.submitted, 1)

	// A different action type inside the window is not suppressed.
	travel := model.Recommendation{Action: model.ActionTravel, Target: "Ocean"}
	b.executeRecommendation(cancelledCtx(), travel, b.prof.Snapshot())
	assert.Len(t, submit.submitted, 2)
	assert.Equal(t, gamedata.Ocean, b.prof.Snapshot().Biome)
}

func TestSubmitNamed_CachesCommandLookups(t *testing.T) {
	submit := newFakeSubmitter()
	b := newTestBot(submit, nil)

	ctx := context.Background()
	require.NoError(t, b.submitNamed(ctx, "fish", nil))
	require.NoError(t, b.submitNamed(ctx, "fish", nil))

	assert.Equal(t, 1, submit.lookups["fish"])
	assert.Len(t, submit.submitted, 2)
}

func TestMaintenanceTask_RunsThroughScheduler(t *testing.T) {
	submit := newFakeSubmitter()
	b := newTestBot(submit, nil)

	task := b.MaintenanceTask("daily", 24*time.Hour)
	task.NextRun = time.Now().Add(-time.Second)
	b.sched.Add(task)

	b.sched.Tick(context.Background(), time.Now())
	assert.Equal(t, []string{"daily"}, submit.submitted)
	assert.Equal(t, 1, b.sched.Len())
}
