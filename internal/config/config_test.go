package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.toml")

	cfg := &Config{
		SupabaseURL:         "https://example.supabase.co",
		SupabaseKey:         "anon-key",
		SyncIntervalSeconds: 15,
	}
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.SupabaseURL != cfg.SupabaseURL {
		t.Errorf("SupabaseURL = %q, want %q", loaded.SupabaseURL, cfg.SupabaseURL)
	}
	if loaded.SyncInterval() != 15*time.Second {
		t.Errorf("SyncInterval() = %v, want 15s", loaded.SyncInterval())
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load("/nonexistent/config.toml")
	if err == nil {
		t.Error("Load() expected error for missing file")
	}
}

func TestIntervalDefaults(t *testing.T) {
	cfg := &Config{}
	if cfg.SyncInterval() != DefaultSyncInterval {
		t.Errorf("SyncInterval() = %v, want %v", cfg.SyncInterval(), DefaultSyncInterval)
	}
	if cfg.ProbeInterval() != DefaultProbeInterval {
		t.Errorf("ProbeInterval() = %v, want %v", cfg.ProbeInterval(), DefaultProbeInterval)
	}
	if cfg.QueueRetention() != DefaultQueueRetention {
		t.Errorf("QueueRetention() = %v, want %v", cfg.QueueRetention(), DefaultQueueRetention)
	}
}

func TestValidate(t *testing.T) {
	if err := (&Config{}).Validate(); err == nil {
		t.Error("Validate() should fail without supabase_url")
	}
	if err := (&Config{SupabaseURL: "https://x"}).Validate(); err == nil {
		t.Error("Validate() should fail without supabase_key")
	}
	cfg := &Config{SupabaseURL: "https://x", SupabaseKey: "k"}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestSavePermissions(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.toml")

	if err := Save(path, &Config{SupabaseURL: "https://x", SupabaseKey: "k"}); err != nil {
		t.Fatal(err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("file permission = %o, want 0600", perm)
	}
}
