// Package config loads and persists pubassist settings from a TOML file in
// the platform config directory.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/pubspec-tools/pubassist/internal/core"
	"github.com/pubspec-tools/pubassist/internal/pub"
)

// Config represents the complete pubassist configuration.
type Config struct {
	Pub      PubConfig      `toml:"pub"`
	Cache    CacheConfig    `toml:"cache"`
	Registry RegistryConfig `toml:"registry"`
	Search   SearchConfig   `toml:"search"`
	Output   OutputConfig   `toml:"output"`
}

// PubConfig controls the post-write fetch behavior.
type PubConfig struct {
	// AutoRunPubGet runs `pub get` after every manifest write.
	AutoRunPubGet bool `toml:"auto_run_pub_get"`
}

// CacheConfig controls the registry response cache.
type CacheConfig struct {
	Enabled    bool `toml:"enabled"`
	TTLSeconds int  `toml:"ttl_seconds"`
}

// RegistryConfig points at the package registry.
type RegistryConfig struct {
	BaseURL        string `toml:"base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`

	// MaxSearchResults caps search hits per page; values above the hard
	// maximum are clamped when the client is built.
	MaxSearchResults int `toml:"max_search_results"`
}

// SearchConfig holds search defaults.
type SearchConfig struct {
	// DefaultMode is one of all, dart, flutter.
	DefaultMode string `toml:"default_mode"`
}

// OutputConfig contains output formatting settings.
type OutputConfig struct {
	// Color enables colored output (respects NO_COLOR env var).
	Color bool `toml:"color"`

	// Unicode enables unicode symbols in output.
	Unicode bool `toml:"unicode"`

	// Verbose enables detailed output.
	Verbose bool `toml:"verbose"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Pub: PubConfig{
			AutoRunPubGet: true,
		},
		Cache: CacheConfig{
			Enabled:    true,
			TTLSeconds: 3600,
		},
		Registry: RegistryConfig{
			BaseURL:          pub.DefaultURL,
			TimeoutSeconds:   10,
			MaxSearchResults: pub.DefaultMaxResults,
		},
		Search: SearchConfig{
			DefaultMode: string(core.ModeAll),
		},
		Output: OutputConfig{
			Color:   true,
			Unicode: true,
			Verbose: false,
		},
	}
}

// Load loads the configuration from the default path.
// If the config file doesn't exist, it returns the default configuration.
func Load() (*Config, error) {
	return LoadFrom(ConfigPath())
}

// LoadFrom loads the configuration from a specific path.
// If the config file doesn't exist, it returns the default configuration.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the configuration to the default path.
func (c *Config) Save() error {
	return c.SaveTo(ConfigPath())
}

// SaveTo writes the configuration to a specific path.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	return encoder.Encode(c)
}

// CacheTTL returns the configured cache lifetime.
func (c *Config) CacheTTL() time.Duration {
	if c.Cache.TTLSeconds <= 0 {
		return 3600 * time.Second
	}
	return time.Duration(c.Cache.TTLSeconds) * time.Second
}

// Timeout returns the per-request registry timeout.
func (c *Config) Timeout() time.Duration {
	if c.Registry.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.Registry.TimeoutSeconds) * time.Second
}

// Mode returns the default search mode, falling back to all on an
// unrecognized value.
func (c *Config) Mode() core.SearchMode {
	mode, ok := core.ParseSearchMode(c.Search.DefaultMode)
	if !ok {
		return core.ModeAll
	}
	return mode
}

// ShouldUseColor returns true if colored output should be used.
// Respects the NO_COLOR environment variable.
func (c *Config) ShouldUseColor() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return c.Output.Color
}
