// Package engine drives the bot: it consumes gateway events, learns from
// them, and decides what to do each cycle.
package engine

import (
	"context"
	"encoding/json"
	"strings"
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
)

const (
	// actionRepeatWindow suppresses repeating the same action type too
	// quickly.
	actionRepeatWindow = 15 * time.Second

	// failurePause is the breather after a failed submission before the
	// next cycle retries naturally.
	failurePause = 2 * time.Second

	// captchaPause paces retries while a captcha blocks the loop.
	captchaPause = 5 * time.Second

	warmupDelay = 5 * time.Second
)

// Submitter is the action-submission surface the bot drives. Implemented
// by the Discord REST client.
type Submitter interface {
	LookupCommand(ctx context.Context, guildID, name string) (*model.ApplicationCommand, error)
	SubmitCommand(ctx context.Context, guildID, channelID string, cmd *model.ApplicationCommand, options []model.InteractionOption) error
	SubmitComponent(ctx context.Context, guildID, channelID, messageID, customID string) error
}

// CaptchaSolver answers captcha challenge images. May be nil, in which case
// the bot just waits for the operator.
type CaptchaSolver interface {
	Solve(ctx context.Context, imageURL string) (string, error)
}

// Bot owns the state machine and the decision cycle.
type Bot struct {
	cfg     *config.Config
	events  <-chan model.Event
	submit  Submitter
	solver  CaptchaSolver
	est     *cooldown.Estimator
	opt     *optimizer.Optimizer
	prof    *profile.State
	sched   *scheduler.Scheduler
	storage store.Store
	log     zerolog.Logger

	state         model.BotState
	commands      map[string]*model.ApplicationCommand
	boat          *gamedata.Boat
	inventoryFull bool
	captchaImage  string
	lastAction    model.ActionType
	lastActionAt  time.Time
	haveAction    bool
}

func New(
	cfg *config.Config,
	events <-chan model.Event,
	submit Submitter,
	solver CaptchaSolver,
	est *cooldown.Estimator,
	opt *optimizer.Optimizer,
	prof *profile.State,
	sched *scheduler.Scheduler,
	storage store.Store,
	log zerolog.Logger,
) *Bot {
	return &Bot{
		cfg:      cfg,
		events:   events,
		submit:   submit,
		solver:   solver,
		est:      est,
		opt:      opt,
		prof:     prof,
		sched:    sched,
		storage:  storage,
		log:      log.With().Str("component", "engine").Logger(),
		state:    model.StateIdle,
		commands: make(map[string]*model.ApplicationCommand),
	}
}

// State returns the current state machine mode.
func (b *Bot) State() model.BotState {
	return b.state
}

// Run executes decision cycles until ctx is cancelled. Submission failures
// are logged and the loop continues; only cancellation stops it.
func (b *Bot) Run(ctx context.Context) {
	b.log.Info().Dur("warmup", warmupDelay).Msg("bot starting")
	if !sleepCtx(ctx, warmupDelay) {
		return
	}

	for ctx.Err() == nil {
		b.drainEvents()
		b.cycle(ctx)
	}
}

// drainEvents consumes all pending gateway events without blocking.
func (b *Bot) drainEvents() {
	for {
		select {
		case ev := <-b.events:
			b.handleEvent(ev)
		default:
			return
		}
	}
}

// handleEvent feeds one gateway event into the estimator, the optimizer
// and the profile snapshot.
func (b *Bot) handleEvent(ev model.Event) {
	if ev.Op != model.OpDispatch {
		return
	}
	if ev.Type != "MESSAGE_CREATE" && ev.Type != "MESSAGE_UPDATE" {
		return
	}

	var msg model.Message
	if err := json.Unmarshal(ev.Data, &msg); err != nil {
		b.log.Warn().Err(err).Str("event", ev.Type).Msg("undecodable message event")
		return
	}
	if msg.ChannelID != b.cfg.Discord.ChannelID {
		return
	}

	for _, embed := range msg.Embeds {
		b.handleEmbed(embed)
	}
}

func (b *Bot) handleEmbed(embed model.Embed) {
	desc := embed.Description

	if parser.IsCaptcha(embed.Title, desc) {
		b.log.Warn().Msg("captcha detected")
		b.prof.SetCaptcha(true)
		if embed.Image != nil {
			b.captchaImage = embed.Image.URL
		}
		return
	}

	if catch, ok := parser.ParseCatch(desc); ok {
		b.recordCatch(catch)
	}

	if cd, ok := parser.ParseCooldown(desc); ok {
		b.est.ReportHit(cd.WaitTime, cd.TotalCooldown)
		if err := b.storage.LogCooldown(cd.WaitTime, cd.TotalCooldown); err != nil {
			b.log.Error().Err(err).Msg("log cooldown")
		}
	}

	if stats := parser.ParseProfile(desc); stats.HasBalance || stats.HasLevel ||
		stats.Biome != "" || stats.RodName != "" {
		b.prof.ApplyStats(stats)
	}

	if parser.IsInventoryFull(desc) {
		b.inventoryFull = true
	}
}

func (b *Bot) recordCatch(catch parser.CatchEvent) {
	biome := b.prof.Snapshot().Biome

	var gold, count uint64
	for i, fc := range catch.Fish {
		rowGold := gamedata.FishPrice(fc.Name) * fc.Count
		gold += rowGold
		count += fc.Count

		// XP is reported once per embed; attribute it to the first row.
		var xp uint64
		if i == 0 {
			xp = catch.XP
		}
		if err := b.storage.LogCatch(fc.Name, fc.Count, xp, biome, rowGold); err != nil {
			b.log.Error().Err(err).Msg("log catch")
		}
	}
	if count == 0 {
		return
	}

	b.est.ReportSuccess()
	stats := b.opt.RecordCatch(biome, gold, catch.XP, count)
	b.log.Info().
		Uint64("fish", count).
		Uint64("gold", gold).
		Uint64("xp", catch.XP).
		Str("biome", string(biome)).
		Msg("catch recorded")

	if stats.TotalCatches%optimizer.CheckpointEvery == 0 {
		if err := b.storage.SaveBiomeStats(biome, stats); err != nil {
			b.log.Error().Err(err).Str("biome", string(biome)).Msg("checkpoint failed")
		}
	}
}

// cycle runs one decision pass: captcha preempts everything, then the
// optimizer's top move, then selling, then the primary cast.
func (b *Bot) cycle(ctx context.Context) {
	if b.prof.CaptchaDetected() {
		b.state = model.StateAwaitingCaptcha
		b.handleCaptcha(ctx)
		sleepCtx(ctx, captchaPause)
		return
	}

	snap := b.prof.Snapshot()

	recs := b.opt.Rank(b.loadout(snap), snap.Balance)
	if len(recs) > 0 {
		b.executeRecommendation(ctx, recs[0], snap)
	}

	if b.inventoryFull && b.cfg.Automation.AutoSell {
		b.state = model.StateSelling
		if err := b.submitNamed(ctx, "sell", nil); err != nil {
			b.log.Error().Err(err).Msg("sell failed")
			sleepCtx(ctx, failurePause)
		} else {
			b.inventoryFull = false
		}
	}

	b.state = model.StatePrimaryAction
	if err := b.submitNamed(ctx, "fish", nil); err != nil {
		b.log.Error().Err(err).Msg("cast failed")
		sleepCtx(ctx, failurePause)
	}

	sleepCtx(ctx, b.est.NextDelay())
	b.sched.Tick(ctx, time.Now())
}

func (b *Bot) loadout(snap profile.Snapshot) optimizer.Loadout {
	return optimizer.Loadout{
		Rod:   gamedata.RodByName(snap.RodName),
		Boat:  b.boat,
		Biome: snap.Biome,
	}
}

// executeRecommendation autonomously runs the top move when policy allows
// it. The same action type is never repeated within the repeat window.
func (b *Bot) executeRecommendation(ctx context.Context, rec model.Recommendation, snap profile.Snapshot) {
	if b.haveAction && rec.Action == b.lastAction && time.Since(b.lastActionAt) < actionRepeatWindow {
		return
	}

	switch rec.Action {
	case model.ActionTravel:
		if !b.cfg.Automation.AutoTravel {
			return
		}
		// Fire and continue; the biome is applied optimistically.
		opts := []model.InteractionOption{{Type: 3, Name: "biome", Value: strings.ToLower(rec.Target)}}
		if err := b.submitNamed(ctx, "biome", opts); err != nil {
			b.log.Error().Err(err).Str("biome", rec.Target).Msg("travel failed")
			return
		}
		b.prof.SetBiome(gamedata.BiomeByName(rec.Target))
		b.log.Info().Str("biome", rec.Target).Msg("traveled")

	case model.ActionBuyRod, model.ActionBuyBoat:
		if !b.cfg.Automation.AutoBuy || snap.Balance < rec.Cost {
			return
		}
		b.state = model.StateShopping
		opts := []model.InteractionOption{{Type: 3, Name: "item", Value: strings.ToLower(rec.Target)}}
		if err := b.submitNamed(ctx, "buy", opts); err != nil {
			b.log.Error().Err(err).Str("item", rec.Target).Msg("purchase failed")
			return
		}
		b.prof.AdjustBalance(-int64(rec.Cost))
		if rec.Action == model.ActionBuyRod {
			b.prof.SetRod(rec.Target)
		} else if boat, ok := gamedata.BoatByName(rec.Target); ok {
			b.boat = &boat
		}
		b.log.Info().
			Str("item", rec.Target).
			Uint64("cost", rec.Cost).
			Float64("roi_seconds", rec.ROISeconds).
			Msg("purchased")

	case model.ActionRiskBridge:
		if !b.cfg.Automation.AllowRiskBridge || rec.Stake == 0 {
			return
		}
		opts := []model.InteractionOption{
			{Type: 4, Name: "amount", Value: rec.Stake},
			{Type: 3, Name: "choice", Value: "heads"},
		}
		if err := b.submitNamed(ctx, "coinflip", opts); err != nil {
			b.log.Error().Err(err).Uint64("stake", rec.Stake).Msg("wager failed")
			return
		}
		b.log.Warn().
			Uint64("stake", rec.Stake).
			Str("target", rec.Target).
			Msg("staked shortfall instead of grinding")

	default:
		return
	}

	b.lastAction = rec.Action
	b.lastActionAt = time.Now()
	b.haveAction = true
}

// handleCaptcha tries to solve the pending challenge. Without a solver or
// an image the loop just waits for the operator to clear the flag.
func (b *Bot) handleCaptcha(ctx context.Context) {
	if b.solver == nil || b.captchaImage == "" {
		b.log.Warn().Msg("captcha pending, waiting")
		return
	}

	answer, err := b.solver.Solve(ctx, b.captchaImage)
	if err != nil {
		b.log.Error().Err(err).Msg("captcha solve failed")
		return
	}

	opts := []model.InteractionOption{{Type: 3, Name: "answer", Value: answer}}
	if err := b.submitNamed(ctx, "verify", opts); err != nil {
		b.log.Error().Err(err).Msg("captcha answer submission failed")
		return
	}

	b.log.Info().Msg("captcha answered")
	b.captchaImage = ""
	b.prof.SetCaptcha(false)
	b.state = model.StatePrimaryAction
}

// submitNamed looks up (and caches) the named slash command, then submits
// it with the given options.
func (b *Bot) submitNamed(ctx context.Context, name string, opts []model.InteractionOption) error {
	cmd, ok := b.commands[name]
	if !ok {
		found, err := b.submit.LookupCommand(ctx, b.cfg.Discord.GuildID, name)
		if err != nil {
			return err
		}
		if found == nil {
			b.log.Error().Str("command", name).Msg("command not found in guild")
			return errCommandNotFound{name}
		}
		b.commands[name] = found
		cmd = found
	}
	return b.submit.SubmitCommand(ctx, b.cfg.Discord.GuildID, b.cfg.Discord.ChannelID, cmd, opts)
}

// MaintenanceTask builds a scheduler task that submits the named command
// on the given cadence. Tasks run from the decision loop via the
// scheduler tick, so they share the bot's command cache safely.
func (b *Bot) MaintenanceTask(name string, interval time.Duration) *scheduler.Task {
	return &scheduler.Task{
		Name:     name,
		NextRun:  time.Now().Add(interval),
		Interval: interval,
		Run: func(ctx context.Context) error {
			return b.submitNamed(ctx, name, nil)
		},
	}
}

type errCommandNotFound struct{ name string }

func (e errCommandNotFound) Error() string { return "command not found: " + e.name }

// sleepCtx sleeps for d unless ctx is cancelled first.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	select {
	case <-time.After(d):
		return true
	case <-ctx.Done():
		return false
	}
}
