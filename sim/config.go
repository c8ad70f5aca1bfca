// Simulation configuration: priority levels and quanta, the tick unit, and
// the driver's termination bounds. Defaults mirror the classic three-level
// teaching setup (quanta of 1, 2, and 4 ticks at 10 ms per tick).

package sim

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/proywm/sched-simulation/sim/trace"
)

// LevelConfig describes one priority level.
type LevelConfig struct {
	// QuantumTicks is the fixed quantum granted on entry to this level.
	QuantumTicks int `yaml:"quantum_ticks" json:"quantum_ticks"`
	// Label overrides the trace label for this level (default "L<i>").
	Label string `yaml:"label,omitempty" json:"label,omitempty"`
}

// Config holds all scheduler and driver parameters.
type Config struct {
	// Levels lists priority levels from highest (index 0) to lowest.
	Levels []LevelConfig `yaml:"levels" json:"levels"`
	// TickUnitMs is the CPU time one tick represents.
	TickUnitMs int `yaml:"tick_unit_ms" json:"tick_unit_ms"`
	// TickCap bounds the total number of driver iterations.
	TickCap int64 `yaml:"tick_cap" json:"tick_cap"`
	// IdleThreshold is the number of consecutive idle ticks tolerated
	// (and traced) before the driver declares quiescence.
	IdleThreshold int `yaml:"idle_threshold" json:"idle_threshold"`
	// CountIdleTowardCap charges idle ticks against TickCap, matching the
	// reference trace. When false only dispatching ticks consume cap budget.
	CountIdleTowardCap bool `yaml:"count_idle_toward_cap" json:"count_idle_toward_cap"`
}

// DefaultConfig returns the classic three-level configuration.
func DefaultConfig() Config {
	return Config{
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
}

// LoadConfig reads a YAML file over the defaults: keys absent from the file
// keep their default values.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// LevelLabel returns the trace label for level i: the configured label if
// set, otherwise "L<i>".
func (c Config) LevelLabel(i int) string {
	if i >= 0 && i < len(c.Levels) && c.Levels[i].Label != "" {
		return c.Levels[i].Label
	}
	return fmt.Sprintf("L%d", i)
}

// ConfigError reports an invalid simulation configuration.
type ConfigError struct {
	Message string
}

func (e ConfigError) Error() string {
	return fmt.Sprintf("invalid config: %s", e.Message)
}

func errInvalidConfig(format string, args ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, args...)}
}

// Validate checks that the configuration describes a runnable scheduler.
func (c Config) Validate() error {
	if len(c.Levels) == 0 {
		return errInvalidConfig("at least one priority level is required")
	}
	for i, lvl := range c.Levels {
		if lvl.QuantumTicks < 1 {
			return errInvalidConfig("level %d: quantum_ticks must be >= 1", i)
		}
		if i > 0 && lvl.QuantumTicks < c.Levels[i-1].QuantumTicks {
			return errInvalidConfig("level %d: quantum_ticks must not decrease with level depth", i)
		}
	}
	seen := make(map[string]int, len(c.Levels))
	for i := range c.Levels {
		label := c.LevelLabel(i)
		if label == trace.IdleQueue {
			return errInvalidConfig("level %d: label %q is reserved for idle ticks", i, label)
		}
		if j, dup := seen[label]; dup {
			return errInvalidConfig("levels %d and %d share label %q", j, i, label)
		}
		seen[label] = i
	}
	if c.TickUnitMs < 1 {
		return errInvalidConfig("tick_unit_ms must be >= 1")
	}
	if c.TickCap < 1 {
		return errInvalidConfig("tick_cap must be >= 1")
	}
	if c.IdleThreshold < 0 {
		return errInvalidConfig("idle_threshold must be >= 0")
	}
	return nil
}
