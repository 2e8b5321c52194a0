package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	require.Equal(t, "normal", cfg.Engine.DefaultMode)
	require.Equal(t, 99.0, cfg.Engine.RoundSeconds)
	require.Len(t, cfg.Modes, 4)
	require.Equal(t, ":8090", cfg.Server.Addr)
}

func TestLoadConfigFileOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"engine:\n  default_mode: tournament\n  round_seconds: 60\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	require.Equal(t, "tournament", cfg.Engine.DefaultMode)
	require.Equal(t, 60.0, cfg.Engine.RoundSeconds)
	// Sections absent from the file keep their defaults.
	require.Equal(t, 1000.0, cfg.Engine.MaxHealth)
	require.Equal(t, 3, cfg.Modes["tournament"].MaxRounds)
}

func TestLoadConfigEnvWinsOverFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"engine:\n  default_mode: tournament\nserver:\n  addr: \":9000\"\n"), 0o644))

	t.Setenv("FIGHTCORE_DEFAULT_MODE", "survival")
	t.Setenv("FIGHTCORE_ADDR", ":7777")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	require.Equal(t, "survival", cfg.Engine.DefaultMode)
	require.Equal(t, ":7777", cfg.Server.Addr)
}

func TestValidateRejectsBrokenConfigs(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "zero tick rate",
			mutate:  func(c *Config) { c.Engine.TickRate = 0 },
			wantErr: "tick_rate",
		},
		{
			name:    "unknown default mode",
			mutate:  func(c *Config) { c.Engine.DefaultMode = "arcade" },
			wantErr: "default_mode",
		},
		{
			name: "unknown timer kind",
			mutate: func(c *Config) {
				c.Modes["normal"] = ModeConfig{MaxRounds: 2, Timer: "sundial"}
			},
			wantErr: "timer",
		},
		{
			name: "negative max rounds",
			mutate: func(c *Config) {
				c.Modes["normal"] = ModeConfig{MaxRounds: -1, Timer: "countdown"}
			},
			wantErr: "max_rounds",
		},
		{
			name:    "negative bus buffer",
			mutate:  func(c *Config) { c.Engine.BusBuffer = -1 },
			wantErr: "bus_buffer",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			require.ErrorContains(t, cfg.Validate(), tt.wantErr)
		})
	}
}
