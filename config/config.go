// Package config holds all monitor configuration. Values come from an
// optional YAML file overlaid with environment variables; env wins so a
// deployment can tweak one knob without editing the file.
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// SliceLimits are the per-endpoint display bounds. They are enforced at
// the query level, not by truncating a larger result afterwards.
type SliceLimits struct {
	Positions       int `yaml:"positions"`        // closed positions per slice
	Trades          int `yaml:"trades"`           // recent trades per slice
	Decisions       int `yaml:"decisions"`        // ai-stream entries per slice
	ActivePositions int `yaml:"active_positions"` // live position snapshots
}

// Config holds the monitor service configuration.
type Config struct {
	StorePath   string `yaml:"store_path"`   // bot-written SQLite store
	ListenAddr  string `yaml:"listen_addr"`  // dashboard API
	MetricsAddr string `yaml:"metrics_addr"` // Prometheus scrape endpoint

	// Optional control-plane wiring. Empty RedisAddr disables publishing;
	// control endpoints still acknowledge.
	RedisAddr      string `yaml:"redis_addr"`
	RedisPassword  string `yaml:"redis_password"`
	ControlChannel string `yaml:"control_channel"`

	// Optional alert webhook for emergency actions.
	WebhookURL string `yaml:"webhook_url"`

	// Interval in seconds between live stats pushes to /ws clients.
	PushIntervalSecs int `yaml:"push_interval_secs"`

	Limits SliceLimits `yaml:"slice_limits"`
}

// Defaults mirror the bot's local-dev layout.
func defaults() *Config {
	return &Config{
		StorePath:        "data/sniper_bot.db",
		ListenAddr:       ":8080",
		MetricsAddr:      ":9091",
		ControlChannel:   "control:bot",
		PushIntervalSecs: 5,
		Limits: SliceLimits{
			Positions:       50,
			Trades:          20,
			Decisions:       20,
			ActivePositions: 3,
		},
	}
}

// Load builds the configuration: defaults, then the YAML file named by
// MONITOR_CONFIG (if set), then environment variable overrides.
func Load() (*Config, error) {
	cfg := defaults()

	if path := os.Getenv("MONITOR_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	cfg.StorePath = getEnv("STORE_PATH", cfg.StorePath)
	cfg.ListenAddr = getEnv("LISTEN_ADDR", cfg.ListenAddr)
	cfg.MetricsAddr = getEnv("METRICS_ADDR", cfg.MetricsAddr)
	cfg.RedisAddr = getEnv("REDIS_ADDR", cfg.RedisAddr)
	cfg.RedisPassword = getEnv("REDIS_PASSWORD", cfg.RedisPassword)
	cfg.ControlChannel = getEnv("CONTROL_CHANNEL", cfg.ControlChannel)
	cfg.WebhookURL = getEnv("WEBHOOK_URL", cfg.WebhookURL)
	cfg.PushIntervalSecs = getEnvInt("PUSH_INTERVAL_SECS", cfg.PushIntervalSecs)

	cfg.Limits.Positions = getEnvInt("LIMIT_POSITIONS", cfg.Limits.Positions)
	cfg.Limits.Trades = getEnvInt("LIMIT_TRADES", cfg.Limits.Trades)
	cfg.Limits.Decisions = getEnvInt("LIMIT_DECISIONS", cfg.Limits.Decisions)
	cfg.Limits.ActivePositions = getEnvInt("LIMIT_ACTIVE_POSITIONS", cfg.Limits.ActivePositions)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the server cannot run with.
func (c *Config) Validate() error {
	if c.StorePath == "" {
		return fmt.Errorf("store_path is required")
	}
	if c.ListenAddr == "" {
		return fmt.Errorf("listen_addr is required")
	}
	for name, v := range map[string]int{
		"slice_limits.positions":        c.Limits.Positions,
		"slice_limits.trades":           c.Limits.Trades,
		"slice_limits.decisions":        c.Limits.Decisions,
		"slice_limits.active_positions": c.Limits.ActivePositions,
	} {
		if v <= 0 {
			return fmt.Errorf("%s must be positive", name)
		}
	}
	if c.PushIntervalSecs <= 0 {
		return fmt.Errorf("push_interval_secs must be positive")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("[config] ignoring invalid %s=%q", key, v)
		return fallback
	}
	return n
}
