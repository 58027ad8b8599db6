package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadResolvesSettingsFile(t *testing.T) {
	base := t.TempDir()
	settings := `{"mbcheckPath": "./data/mbcheck", "logsPath": "/var/log/mbcheck", "usersPath": "./users.json"}`
	if err := os.WriteFile(filepath.Join(base, "settings.json"), []byte(settings), 0o644); err != nil {
		t.Fatalf("Failed to write settings: %v", err)
	}

	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("MBCHECK_BASE_DIR", base)
	t.Setenv("MBCHECK_DIR", "")
	t.Setenv("LOGS_DIR", "")
	t.Setenv("USERS_FILE", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	want := filepath.Join(base, "data", "mbcheck")
	if cfg.RecordsDir != want {
		t.Errorf("RecordsDir = %s, want %s", cfg.RecordsDir, want)
	}
	// Absolute paths stay untouched
	if cfg.LogsDir != "/var/log/mbcheck" {
		t.Errorf("LogsDir = %s, want /var/log/mbcheck", cfg.LogsDir)
	}
	if cfg.UsersFile != filepath.Join(base, "users.json") {
		t.Errorf("UsersFile = %s, want %s", cfg.UsersFile, filepath.Join(base, "users.json"))
	}
}

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	if _, err := Load(); err == nil {
		t.Error("Load should fail without JWT_SECRET")
	}
}

func TestLoadEnvOverridesSettings(t *testing.T) {
	base := t.TempDir()
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("MBCHECK_BASE_DIR", base)
	t.Setenv("MBCHECK_DIR", "/srv/records")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.RecordsDir != "/srv/records" {
		t.Errorf("RecordsDir = %s, want /srv/records", cfg.RecordsDir)
	}
}
