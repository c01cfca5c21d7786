package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, "env: local\nstorage_driver: memory\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.IsLocal() {
		t.Fatalf("expected local env, got %q", cfg.Env)
	}
	if cfg.HTTPServer.Address != "localhost:8080" {
		t.Fatalf("unexpected address %q", cfg.HTTPServer.Address)
	}
	if cfg.Catalog.HonorPageParams {
		t.Fatal("page params must not be honoured by default")
	}
	if cfg.Catalog.QueryTimeout != 5*time.Second {
		t.Fatalf("unexpected query timeout %v", cfg.Catalog.QueryTimeout)
	}
	if cfg.ObjectStore.Provider != ObjectStoreMinio {
		t.Fatalf("unexpected provider %q", cfg.ObjectStore.Provider)
	}
	if len(cfg.Media.AllowedVideoTypes) == 0 || len(cfg.Media.AllowedImageTypes) == 0 {
		t.Fatal("expected default allowed media types")
	}
	if cfg.RedisEnabled() {
		t.Fatal("redis must be disabled without an address")
	}
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	path := writeConfig(t, "storage_driver: mongo\n")

	if _, err := Load(path); err == nil {
		t.Fatal("expected error for unknown storage driver")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
	if _, err := Load(""); err == nil {
		t.Fatal("expected error for empty path")
	}
}
