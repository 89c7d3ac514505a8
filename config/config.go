// Package config loads the backend registration list from a TOML file,
// with environment overrides, and builds a multialloc.Table from it.
//
// Backends are registered in file order, so the first [[backend]] entry
// gets tag 0 and serves every goroutine that has not selected another.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/hashicorp/go-multierror"
	"github.com/kelseyhightower/envconfig"
	"github.com/samber/lo"
)

const envPrefix = "MULTIALLOC"

// Backend kinds understood by Build.
const (
	KindHeap  = "heap"
	KindPool  = "pool"
	KindArena = "arena"
	KindMmap  = "mmap"
	KindDebug = "debug"
)

var kinds = []string{KindHeap, KindPool, KindArena, KindMmap, KindDebug}

var (
	// ErrUnknownKind indicates a backend entry with an unrecognised kind.
	ErrUnknownKind = errors.New("config: unknown backend kind")

	// ErrBadWraps indicates a debug entry wrapping nothing or another debug backend.
	ErrBadWraps = errors.New("config: debug backend must wrap a non-debug kind")
)

// Config is the registration surface: an ordered list of named backends.
type Config struct {
	LogLevel string    `toml:"log_level" envconfig:"LOG_LEVEL"`
	Backends []Backend `toml:"backend" ignored:"true"`

	// OriginalPath is the file the configuration was read from, if any.
	OriginalPath string `toml:"-" ignored:"true"`
}

// Backend is one registration entry.
type Backend struct {
	Name string `toml:"name"`
	Kind string `toml:"kind"`

	// arena
	ChunkSize int `toml:"chunk_size"`
	Reserve   int `toml:"reserve"`

	// pool
	MaxPooled int `toml:"max_pooled"`

	// debug
	Wraps  string `toml:"wraps"`
	Poison bool   `toml:"poison"`
}

// Default registers a single heap backend.
var Default = Config{
	LogLevel: "info",
	Backends: []Backend{{Name: "heap", Kind: KindHeap}},
}

// env holds settings that only come from the environment.
type env struct {
	Config string `envconfig:"CONFIG"`
}

// Parse decodes a TOML document and applies environment overrides.
func Parse(data []byte) (*Config, error) {
	conf := &Config{LogLevel: Default.LogLevel}
	if err := toml.Unmarshal(data, conf); err != nil {
		return nil, fmt.Errorf("config: couldn't unmarshal config: %w", err)
	}
	if err := envconfig.Process(envPrefix, conf); err != nil {
		return nil, fmt.Errorf("config: failed to process config env vars: %w", err)
	}
	return conf, nil
}

// Load reads the configuration at path. An empty path falls back to
// MULTIALLOC_CONFIG, and when that is unset too, to Default.
func Load(path string) (*Config, error) {
	if path == "" {
		var e env
		if err := envconfig.Process(envPrefix, &e); err != nil {
			return nil, fmt.Errorf("config: failed to process config env vars: %w", err)
		}
		path = e.Config
	}
	if path == "" {
		return FromDefault()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	conf, err := Parse(data)
	if err != nil {
		return nil, err
	}
	conf.OriginalPath = path
	return conf, nil
}

// FromDefault returns a copy of Default with environment overrides applied.
func FromDefault() (*Config, error) {
	conf := Default
	conf.Backends = append([]Backend(nil), Default.Backends...)
	if err := envconfig.Process(envPrefix, &conf); err != nil {
		return nil, fmt.Errorf("config: failed to process config env vars: %w", err)
	}
	return &conf, nil
}

// Validate reports every problem with the backend list.
func (c *Config) Validate() error {
	var result *multierror.Error
	if len(c.Backends) == 0 {
		result = multierror.Append(result, errors.New("config: no backends"))
	}
	for i, b := range c.Backends {
		if b.Name == "" {
			result = multierror.Append(result, fmt.Errorf("config: backend %d has no name", i))
		}
		if !lo.Contains(kinds, b.Kind) {
			result = multierror.Append(result, fmt.Errorf("%w: %q (backend %q)", ErrUnknownKind, b.Kind, b.Name))
			continue
		}
		if b.Kind == KindDebug && (b.Wraps == KindDebug || !lo.Contains(kinds, b.Wraps)) {
			result = multierror.Append(result, fmt.Errorf("%w: %q wraps %q", ErrBadWraps, b.Name, b.Wraps))
		}
		if b.ChunkSize < 0 || b.Reserve < 0 || b.MaxPooled < 0 {
			result = multierror.Append(result, fmt.Errorf("config: backend %q has a negative size", b.Name))
		}
	}
	names := lo.Compact(lo.Map(c.Backends, func(b Backend, _ int) string { return b.Name }))
	for _, dup := range lo.FindDuplicates(names) {
		result = multierror.Append(result, fmt.Errorf("config: duplicate backend name %q", dup))
	}
	return result.ErrorOrNil()
}
