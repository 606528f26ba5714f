package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/joho/godotenv"
)

func TestLoad_Defaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DATA_PATH", dir)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.StoreBackend != BackendSQLite {
		t.Errorf("StoreBackend = %q, want %q", cfg.StoreBackend, BackendSQLite)
	}
	if cfg.SQLitePath != filepath.Join(dir, "overrides.db") {
		t.Errorf("SQLitePath = %q, want under data path", cfg.SQLitePath)
	}
	if cfg.SeedsDir != filepath.Join(dir, "seeds") {
		t.Errorf("SeedsDir = %q, want under data path", cfg.SeedsDir)
	}
	if !cfg.SeedOverlay {
		t.Error("SeedOverlay default = false, want true")
	}
	if cfg.Remote.Timeout != 30*time.Second {
		t.Errorf("Remote.Timeout = %v, want 30s", cfg.Remote.Timeout)
	}
}

func TestLoad_RemoteBackend(t *testing.T) {
	t.Setenv("DATA_PATH", t.TempDir())
	t.Setenv("STORE_BACKEND", "remote")
	t.Setenv("REMOTE_URL", "https://overrides.example.net")
	t.Setenv("REMOTE_TIMEOUT_SECONDS", "5")
	t.Setenv("SEED_OVERLAY", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.StoreBackend != BackendRemote {
		t.Errorf("StoreBackend = %q, want %q", cfg.StoreBackend, BackendRemote)
	}
	if cfg.Remote.BaseURL != "https://overrides.example.net" {
		t.Errorf("Remote.BaseURL = %q", cfg.Remote.BaseURL)
	}
	if cfg.Remote.Timeout != 5*time.Second {
		t.Errorf("Remote.Timeout = %v, want 5s", cfg.Remote.Timeout)
	}
	if cfg.SeedOverlay {
		t.Error("SeedOverlay = true, want false")
	}
}

// Deployment .env files carry tokens with embedded quotes; make sure the
// parser preserves them.
func TestGodotenvQuoting(t *testing.T) {
	content := `REMOTE_TOKEN='value with "double quotes"'`
	path := filepath.Join(t.TempDir(), ".env.test")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	env, err := godotenv.Read(path)
	if err != nil {
		t.Fatalf("Error reading env: %v", err)
	}

	expected := `value with "double quotes"`
	if env["REMOTE_TOKEN"] != expected {
		t.Errorf("Expected %s, got %s", expected, env["REMOTE_TOKEN"])
	}
}
