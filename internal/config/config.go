package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Defaults applied by Load when the file omits a value.
const (
	DefaultSyncInterval   = 30 * time.Second
	DefaultProbeInterval  = 10 * time.Second
	DefaultQueueRetention = 24 * time.Hour
)

// Config represents the global ~/.udc/config.toml.
type Config struct {
	SupabaseURL string `toml:"supabase_url"`
	SupabaseKey string `toml:"supabase_key"`

	// DataDir overrides ~/.udc as the local store location.
	DataDir string `toml:"data_dir"`

	SyncIntervalSeconds  int `toml:"sync_interval_seconds"`
	ProbeIntervalSeconds int `toml:"probe_interval_seconds"`
	QueueRetentionHours  int `toml:"queue_retention_hours"`
}

// SyncInterval returns the configured auto-sync cadence.
func (c *Config) SyncInterval() time.Duration {
	if c.SyncIntervalSeconds <= 0 {
		return DefaultSyncInterval
	}
	return time.Duration(c.SyncIntervalSeconds) * time.Second
}

// ProbeInterval returns the connectivity probe cadence.
func (c *Config) ProbeInterval() time.Duration {
	if c.ProbeIntervalSeconds <= 0 {
		return DefaultProbeInterval
	}
	return time.Duration(c.ProbeIntervalSeconds) * time.Second
}

// QueueRetention returns how long synced queue items are kept before
// compaction removes them.
func (c *Config) QueueRetention() time.Duration {
	if c.QueueRetentionHours <= 0 {
		return DefaultQueueRetention
	}
	return time.Duration(c.QueueRetentionHours) * time.Hour
}

// Validate checks the fields required to reach the remote service.
func (c *Config) Validate() error {
	if c.SupabaseURL == "" {
		return fmt.Errorf("supabase_url is required")
	}
	if c.SupabaseKey == "" {
		return fmt.Errorf("supabase_key is required")
	}
	return nil
}

// Load reads config from the given path. Returns zero config and error if file missing.
func Load(path string) (*Config, error) {
	var cfg Config
	_, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes config to the given path, creating parent dirs as needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	encErr := toml.NewEncoder(f).Encode(cfg)
	if closeErr := f.Close(); closeErr != nil && encErr == nil {
		return closeErr
	}
	return encErr
}
