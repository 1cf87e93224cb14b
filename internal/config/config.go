// Package config loads the terminal's YAML configuration file.
//
// Everything has a sensible default: a config file is only needed to point
// the terminal at a real upstream or relocate its data directory.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration with YAML support for strings like "30s".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var raw string
	if err := node.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config is the terminal configuration.
type Config struct {
	// DBPath is the SQLite database file holding the durable store.
	DBPath string `yaml:"db_path"`

	// UpstreamURL is the POS backend base URL.
	UpstreamURL string `yaml:"upstream_url"`

	// ResponseCacheDir holds the on-disk network-response cache.
	ResponseCacheDir string `yaml:"response_cache_dir"`

	// LocationID selects which location this terminal serves.
	LocationID string `yaml:"location_id"`

	// ProbeInterval is how often connectivity is re-checked.
	ProbeInterval Duration `yaml:"probe_interval"`

	// ReconcileInterval enables periodic reconciliation while online.
	// Zero disables the periodic pass; online transitions still trigger one.
	ReconcileInterval Duration `yaml:"reconcile_interval"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		DBPath:            "tillsync.db",
		UpstreamURL:       "http://localhost:8080",
		ResponseCacheDir:  "tillsync-cache",
		ProbeInterval:     Duration(15 * time.Second),
		ReconcileInterval: Duration(5 * time.Minute),
	}
}

// Load reads a YAML config file, layering it over the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration for nonsense values.
func (c Config) Validate() error {
	if c.DBPath == "" {
		return fmt.Errorf("config: db_path must not be empty")
	}
	if c.UpstreamURL == "" {
		return fmt.Errorf("config: upstream_url must not be empty")
	}
	if c.ProbeInterval < 0 || c.ReconcileInterval < 0 {
		return fmt.Errorf("config: intervals must not be negative")
	}
	return nil
}
