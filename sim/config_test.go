package sim

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig_ClassicThreeLevels(t *testing.T) {
	cfg := DefaultConfig()

	want := Config{
		Levels: []LevelConfig{
			{QuantumTicks: 1},
			{QuantumTicks: 2},
			{QuantumTicks: 4},
		},
		TickUnitMs:         10,
		TickCap:            100000,
		IdleThreshold:      10,
		CountIdleTowardCap: true,
	}
	assert.Equal(t, want, cfg)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_OverridesDefaults(t *testing.T) {
	// GIVEN a config file that changes the levels and the tick unit
	path := filepath.Join(t.TempDir(), "sched.yaml")
	data := []byte(`levels:
  - quantum_ticks: 2
    label: HIGH
  - quantum_ticks: 8
tick_unit_ms: 5
tick_cap: 50
`)
	require.NoError(t, os.WriteFile(path, data, 0644))

	// WHEN it is loaded
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	// THEN file values win and absent keys keep their defaults
	assert.Equal(t, []LevelConfig{{QuantumTicks: 2, Label: "HIGH"}, {QuantumTicks: 8}}, cfg.Levels)
	assert.Equal(t, 5, cfg.TickUnitMs)
	assert.Equal(t, int64(50), cfg.TickCap)
	assert.Equal(t, 10, cfg.IdleThreshold)
	assert.True(t, cfg.CountIdleTowardCap, "absent count_idle_toward_cap must keep its default")
}

func TestLoadConfig_EmptyFile_KeepsAllDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, os.WriteFile(path, []byte(""), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfig_MissingFile_ReturnsError(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorContains(t, err, "read config")
}

func TestLoadConfig_MalformedYAML_ReturnsError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("levels: [quantum"), 0644))

	_, err := LoadConfig(path)
	assert.ErrorContains(t, err, "parse config")
}

func TestConfig_Validate_RejectsBadShapes(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "no levels",
			mutate:  func(c *Config) { c.Levels = nil },
			wantErr: "at least one priority level",
		},
		{
			name:    "zero quantum",
			mutate:  func(c *Config) { c.Levels[1].QuantumTicks = 0 },
			wantErr: "quantum_ticks must be >= 1",
		},
		{
			name:    "decreasing quanta",
			mutate:  func(c *Config) { c.Levels[2].QuantumTicks = 1 },
			wantErr: "must not decrease",
		},
		{
			name:    "reserved idle label",
			mutate:  func(c *Config) { c.Levels[0].Label = "IDLE" },
			wantErr: "reserved for idle",
		},
		{
			name: "duplicate labels",
			mutate: func(c *Config) {
				c.Levels[0].Label = "SAME"
				c.Levels[1].Label = "SAME"
			},
			wantErr: "share label",
		},
		{
			name:    "label colliding with a default label",
			mutate:  func(c *Config) { c.Levels[0].Label = "L1" },
			wantErr: "share label",
		},
		{
			name:    "zero tick unit",
			mutate:  func(c *Config) { c.TickUnitMs = 0 },
			wantErr: "tick_unit_ms",
		},
		{
			name:    "zero tick cap",
			mutate:  func(c *Config) { c.TickCap = 0 },
			wantErr: "tick_cap",
		},
		{
			name:    "negative idle threshold",
			mutate:  func(c *Config) { c.IdleThreshold = -1 },
			wantErr: "idle_threshold",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.ErrorContains(t, err, tt.wantErr)
			assert.ErrorContains(t, err, "invalid config")
		})
	}
}

func TestConfig_LevelLabel_DefaultAndCustom(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Levels[1].Label = "MID"

	assert.Equal(t, "L0", cfg.LevelLabel(0))
	assert.Equal(t, "MID", cfg.LevelLabel(1))
	assert.Equal(t, "L2", cfg.LevelLabel(2))
	// out-of-range indexes still render a positional label
	assert.Equal(t, "L9", cfg.LevelLabel(9))
}
