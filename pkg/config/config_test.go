package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultMatchesSpecBudgets(t *testing.T) {
	cfg := Default()
	if cfg.Port != 25565 {
		t.Errorf("default port = %d, want 25565", cfg.Port)
	}
	if cfg.MaxBlockChanges != 65536 {
		t.Errorf("default max block changes = %d, want 65536", cfg.MaxBlockChanges)
	}
	if !cfg.DoFluidFlow {
		t.Error("default DoFluidFlow should be true")
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg != Default() {
		t.Error("missing file should produce exactly Default()")
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "picocore.yaml")
	const body = "port: 25566\nmax_players: 5\nallow_chests: false\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 25566 {
		t.Errorf("port = %d, want 25566", cfg.Port)
	}
	if cfg.MaxPlayers != 5 {
		t.Errorf("max players = %d, want 5", cfg.MaxPlayers)
	}
	if cfg.AllowChests {
		t.Error("allow_chests should be overridden to false")
	}
	if cfg.ViewDistance != Default().ViewDistance {
		t.Error("unspecified fields should keep their default values")
	}
}
