package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config struct to hold the configuration settings
type Config struct {
	Engine        EngineConfig          `yaml:"engine"`
	Modes         map[string]ModeConfig `yaml:"modes"`
	Roster        RosterConfig          `yaml:"roster"`
	Stats         StatsConfig           `yaml:"stats"`
	Server        ServerConfig          `yaml:"server"`
	Observability ObservabilityConfig   `yaml:"observability"`
}

// EngineConfig holds core engine settings.
type EngineConfig struct {
	DefaultMode  string  `yaml:"default_mode"`
	RoundSeconds float64 `yaml:"round_seconds"`
	MaxHealth    float64 `yaml:"max_health"`
	TickRate     float64 `yaml:"tick_rate"`
	DriveTicks   bool    `yaml:"drive_ticks"`
	BusBuffer    int64   `yaml:"bus_buffer"`
}

// ModeConfig describes one game mode. MaxRounds is the round wins needed to
// take the match; zero means the match has no fixed win target (survival,
// time attack). Timer is one of countdown, hidden, elapsed.
type ModeConfig struct {
	MaxRounds int    `yaml:"max_rounds"`
	Timer     string `yaml:"timer"`
}

// RosterConfig holds fighter roster settings.
type RosterConfig struct {
	Path string `yaml:"path"`
}

// StatsConfig holds session stats persistence settings.
type StatsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// ObservabilityConfig holds logging and metrics settings.
type ObservabilityConfig struct {
	LogLevel      string `yaml:"log_level"`
	RouterMetrics bool   `yaml:"router_metrics"`
}

// Default returns the built-in configuration: four stock modes, a 99 second
// countdown round, and the demo tick driver enabled.
func Default() *Config {
	return &Config{
		Engine: EngineConfig{
			DefaultMode:  "normal",
			RoundSeconds: 99,
			MaxHealth:    1000,
			TickRate:     60,
			DriveTicks:   true,
			BusBuffer:    256,
		},
		Modes: map[string]ModeConfig{
			"normal":      {MaxRounds: 2, Timer: "countdown"},
			"tournament":  {MaxRounds: 3, Timer: "countdown"},
			"survival":    {MaxRounds: 0, Timer: "hidden"},
			"time_attack": {MaxRounds: 0, Timer: "elapsed"},
		},
		Roster: RosterConfig{},
		Stats: StatsConfig{
			Enabled: true,
			Path:    "stats/session.json",
		},
		Server: ServerConfig{
			Addr: ":8090",
		},
		Observability: ObservabilityConfig{
			LogLevel:      "info",
			RouterMetrics: true,
		},
	}
}

// LoadConfig loads the configuration from a YAML file layered over the
// defaults. A missing file is not an error; environment variables win over
// both.
func LoadConfig(filename string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filename)
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	// --- OVERRIDE WITH ENV VARS IF PRESENT ---
	if v := os.Getenv("FIGHTCORE_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("FIGHTCORE_LOG_LEVEL"); v != "" {
		cfg.Observability.LogLevel = v
	}
	if v := os.Getenv("FIGHTCORE_DEFAULT_MODE"); v != "" {
		cfg.Engine.DefaultMode = v
	}
	if v := os.Getenv("FIGHTCORE_ROSTER_PATH"); v != "" {
		cfg.Roster.Path = v
	}
	if v := os.Getenv("FIGHTCORE_STATS_PATH"); v != "" {
		cfg.Stats.Path = v
	}
	if v := os.Getenv("FIGHTCORE_STATS_ENABLED"); v != "" {
		cfg.Stats.Enabled = v == "true"
	}
	if v := os.Getenv("FIGHTCORE_DRIVE_TICKS"); v != "" {
		cfg.Engine.DriveTicks = v == "true"
	}
	if v := os.Getenv("FIGHTCORE_TICK_RATE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Engine.TickRate = f
		}
	}
	if v := os.Getenv("FIGHTCORE_ROUND_SECONDS"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Engine.RoundSeconds = f
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the engine cannot run with.
func (c *Config) Validate() error {
	if c.Engine.TickRate <= 0 {
		return fmt.Errorf("engine.tick_rate must be positive, got %v", c.Engine.TickRate)
	}
	if c.Engine.RoundSeconds <= 0 {
		return fmt.Errorf("engine.round_seconds must be positive, got %v", c.Engine.RoundSeconds)
	}
	if c.Engine.MaxHealth <= 0 {
		return fmt.Errorf("engine.max_health must be positive, got %v", c.Engine.MaxHealth)
	}
	if c.Engine.BusBuffer < 0 {
		return fmt.Errorf("engine.bus_buffer must not be negative, got %d", c.Engine.BusBuffer)
	}
	if _, ok := c.Modes[c.Engine.DefaultMode]; !ok {
		return fmt.Errorf("engine.default_mode %q has no modes entry", c.Engine.DefaultMode)
	}
	for name, mode := range c.Modes {
		switch mode.Timer {
		case "countdown", "hidden", "elapsed":
		default:
			return fmt.Errorf("modes.%s.timer must be countdown, hidden, or elapsed, got %q", name, mode.Timer)
		}
		if mode.MaxRounds < 0 {
			return fmt.Errorf("modes.%s.max_rounds must not be negative, got %d", name, mode.MaxRounds)
		}
	}
	return nil
}
