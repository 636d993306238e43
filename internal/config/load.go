package config

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/dshills/blocknest/internal/config/loader"
)

// EnvPrefix is the prefix of environment variable overrides.
const EnvPrefix = "BLOCKNEST_"

// Loader reads configuration from a file and the environment.
type Loader struct {
	fs  loader.FileSystem
	env *loader.EnvLoader
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithFileSystem sets the file system configuration files are read from.
func WithFileSystem(fs loader.FileSystem) LoaderOption {
	return func(l *Loader) {
		l.fs = fs
	}
}

// WithEnviron replaces the process environment with a fixed list of
// KEY=value pairs.
func WithEnviron(environ []string) LoaderOption {
	return func(l *Loader) {
		l.env = loader.NewEnvLoaderWithEnviron(EnvPrefix, environ)
	}
}

// NewLoader creates a configuration loader.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		fs:  loader.DefaultFS(),
		env: loader.NewEnvLoader(EnvPrefix),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads the configuration file at path using the process environment.
func Load(path string) (*Config, error) {
	return NewLoader().Load(path)
}

// Load reads the configuration file at path, applies environment overrides
// and validates the result. An empty path or a missing file yields the
// defaults plus overrides.
func (l *Loader) Load(path string) (*Config, error) {
	var data map[string]any
	if path != "" {
		fl, err := loader.ForPath(l.fs, path)
		if err != nil {
			return nil, err
		}
		if data, err = fl.Load(); err != nil {
			return nil, err
		}
	}

	env, err := l.env.Load()
	if err != nil {
		return nil, err
	}
	data = loader.DeepMerge(data, env)

	cfg := Default()
	if err := decode(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// decode overlays the settings in data onto cfg. Keys absent from data keep
// their current values.
func decode(data map[string]any, cfg *Config) error {
	if len(data) == 0 {
		return nil
	}
	raw, err := yaml.Marshal(data)
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidValue, err)
	}
	return nil
}
