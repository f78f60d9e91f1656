package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Discord struct {
		Token     string `yaml:"token"`
		GuildID   string `yaml:"guild_id"`
		ChannelID string `yaml:"channel_id"`
		UserAgent string `yaml:"user_agent"`
	} `yaml:"discord"`
	Automation struct {
		BaseCooldown         float64 `yaml:"base_cooldown"`
		AutoDaily            bool    `yaml:"auto_daily"`
		AutoSell             bool    `yaml:"auto_sell"`
		AutoBuy              bool    `yaml:"auto_buy"`
		AutoTravel           bool    `yaml:"auto_travel"`
		AllowRiskBridge      bool    `yaml:"allow_risk_bridge"`
		BoostIntervalMinutes int     `yaml:"boost_interval_minutes"`
	} `yaml:"automation"`
	Captcha struct {
		OCRAPIKey string `yaml:"ocr_api_key"`
	} `yaml:"captcha"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Proxy    string `yaml:"proxy"`
	LogLevel string `yaml:"log_level"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("DISCORD_TOKEN"); v != "" {
		cfg.Discord.Token = v
	}
	if v := os.Getenv("DISCORD_GUILD_ID"); v != "" {
		cfg.Discord.GuildID = v
	}
	if v := os.Getenv("DISCORD_CHANNEL_ID"); v != "" {
		cfg.Discord.ChannelID = v
	}
	if v := os.Getenv("OCR_API_KEY"); v != "" {
		cfg.Captcha.OCRAPIKey = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}

	// Defaults
	if cfg.Automation.BaseCooldown == 0 {
		cfg.Automation.BaseCooldown = 3.5
	}
	if cfg.Discord.UserAgent == "" {
		cfg.Discord.UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/103.0.0.0 Safari/537.36"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/autofisher.db"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	return cfg, nil
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.Discord.Token == "" {
		return fmt.Errorf("discord.token is required")
	}
	if c.Discord.GuildID == "" {
		return fmt.Errorf("discord.guild_id is required")
	}
	if c.Discord.ChannelID == "" {
		return fmt.Errorf("discord.channel_id is required")
	}
	if c.Automation.BaseCooldown <= 0 {
		return fmt.Errorf("automation.base_cooldown must be positive")
	}
	return nil
}
