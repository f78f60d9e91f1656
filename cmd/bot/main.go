package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"AutoFisher/internal/captcha"
	"AutoFisher/internal/config"
	"AutoFisher/internal/cooldown"
	"AutoFisher/internal/discord"
	"AutoFisher/internal/engine"
	"AutoFisher/internal/gamedata"
	"AutoFisher/internal/gateway"
	"AutoFisher/internal/model"
	"AutoFisher/internal/optimizer"
	"AutoFisher/internal/profile"
	"AutoFisher/internal/scheduler"
	"AutoFisher/internal/store"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("config validation")
	}

	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		logger = logger.Level(level)
	}
	logger.Info().Msg("AutoFisher starting")

	// Init store, falling back to noop when SQLite is unavailable
	var st store.Store
	if cfg.Database.SQLitePath != "" {
		ss, err := store.NewSQLiteStore(cfg.Database.SQLitePath, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("sqlite store unavailable, using noop")
			st = store.NewNoopStore()
		} else {
			st = ss
			defer ss.Close()
		}
	} else {
		st = store.NewNoopStore()
	}

	// Seed the optimizer with previously learned biome economics
	seed, err := st.LoadBiomeStats()
	if err != nil {
		logger.Warn().Err(err).Msg("load biome stats")
		seed = map[gamedata.Biome]model.BiomeStats{}
	}

	prof := profile.NewState()
	opt := optimizer.New(seed, logger)
	est := cooldown.NewEstimator(cfg.Automation.BaseCooldown, logger)
	sched := scheduler.New(logger)

	gw := gateway.NewClient(cfg.Discord.Token, logger)
	rest := discord.NewClient(cfg, logger)

	var solver engine.CaptchaSolver
	if cfg.Captcha.OCRAPIKey != "" {
		solver = captcha.NewSolver(cfg.Captcha.OCRAPIKey, logger)
	} else {
		logger.Warn().Msg("no OCR API key, captchas will block until cleared manually")
	}

	bot := engine.New(cfg, gw.Events(), rest, solver, est, opt, prof, sched, st, logger)

	// Maintenance actions on their own cadences
	if cfg.Automation.AutoDaily {
		sched.Add(bot.MaintenanceTask("daily", 24*time.Hour))
	}
	if cfg.Automation.AutoSell {
		sched.Add(bot.MaintenanceTask("sell", 10*time.Minute))
	}
	if cfg.Automation.BoostIntervalMinutes > 0 {
		sched.Add(bot.MaintenanceTask("boosts", time.Duration(cfg.Automation.BoostIntervalMinutes)*time.Minute))
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go gw.Run(ctx)
	go bot.Run(ctx)

	// Wall-clock jobs: flush learned stats and snapshot the player
	c := cron.New()
	if _, err := c.AddFunc("@every 10m", func() {
		for biome, stats := range opt.Stats() {
			if err := st.SaveBiomeStats(biome, stats); err != nil {
				logger.Error().Err(err).Str("biome", string(biome)).Msg("flush biome stats")
			}
		}
	}); err != nil {
		logger.Fatal().Err(err).Msg("register stats flush job")
	}
	if _, err := c.AddFunc("@hourly", func() {
		snap := prof.Snapshot()
		if err := st.LogSnapshot(snap.Level, snap.Balance, snap.Biome); err != nil {
			logger.Error().Err(err).Msg("log player snapshot")
		}
	}); err != nil {
		logger.Fatal().Err(err).Msg("register snapshot job")
	}
	c.Start()
	defer c.Stop()

	logger.Info().Msg("AutoFisher is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info().Msg("shutdown signal received, stopping")
	cancel()

	// Final flush so learned stats survive the restart
	for biome, stats := range opt.Stats() {
		if err := st.SaveBiomeStats(biome, stats); err != nil {
			logger.Error().Err(err).Str("biome", string(biome)).Msg("final flush")
		}
	}
	logger.Info().Msg("AutoFisher stopped")
}
