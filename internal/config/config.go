package config

import (
	"fmt"

	"go.uber.org/zap/zapcore"
)

// Default configuration values.
const (
	DefaultMaxUndoEntries = 1000
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "console"
	DefaultTaskListAttr   = "task-list"
)

// Config is the complete Blocknest configuration.
type Config struct {
	Engine EngineConfig `yaml:"engine" toml:"engine"`
	Log    LogConfig    `yaml:"log" toml:"log"`
	HTML   HTMLConfig   `yaml:"html" toml:"html"`
}

// EngineConfig configures the block engine.
type EngineConfig struct {
	// MaxUndoEntries bounds the undo history.
	MaxUndoEntries int `yaml:"max_undo_entries" toml:"max_undo_entries"`

	// StrictInvariants panics on an invariant violation instead of rolling
	// the operation back.
	StrictInvariants bool `yaml:"strict_invariants" toml:"strict_invariants"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"`
}

// HTMLConfig configures HTML import and export.
type HTMLConfig struct {
	TaskListAttr string `yaml:"task_list_attr" toml:"task_list_attr"`
	Pretty       bool   `yaml:"pretty" toml:"pretty"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Engine: EngineConfig{
			MaxUndoEntries: DefaultMaxUndoEntries,
		},
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		HTML: HTMLConfig{
			TaskListAttr: DefaultTaskListAttr,
		},
	}
}

// Validate checks every setting.
func (c *Config) Validate() error {
	if c.Engine.MaxUndoEntries <= 0 {
		return fmt.Errorf("%w: engine.max_undo_entries must be positive, got %d",
			ErrInvalidValue, c.Engine.MaxUndoEntries)
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: log.level %q", ErrInvalidValue, c.Log.Level)
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("%w: log.format must be console or json, got %q",
			ErrInvalidValue, c.Log.Format)
	}
	if c.HTML.TaskListAttr == "" {
		return fmt.Errorf("%w: html.task_list_attr is empty", ErrInvalidValue)
	}
	return nil
}
