package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	NodeEnv   string
	Port      string
	JWTSecret string

	// BaseDir anchors every relative data path (the packaged station app
	// keeps its data next to the binary).
	BaseDir string

	RecordsDir string // MBCheck_<id>.txt program records
	LogsDir    string // per-day audit collections
	UsersFile  string // station user store (JSON)
}

// settingsFile mirrors the settings.json shipped with the packaged station
// app. Env vars win over it, it wins over defaults.
type settingsFile struct {
	MBCheckPath string `json:"mbcheckPath"`
	LogsPath    string `json:"logsPath"`
	UsersPath   string `json:"usersPath"`
}

// Load loads configuration from the environment and, when present, from
// settings.json in the base directory.
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	baseDir := getEnv("MBCHECK_BASE_DIR", ".")

	settings := settingsFile{
		MBCheckPath: "./mbcheck",
		LogsPath:    "./logs",
		UsersPath:   "./users.json",
	}

	settingsPath := getEnv("SETTINGS_PATH", filepath.Join(baseDir, "settings.json"))
	if data, err := os.ReadFile(settingsPath); err == nil {
		if err := json.Unmarshal(data, &settings); err != nil {
			log.Printf("⚠️ Ignoring unreadable settings file %s: %v", settingsPath, err)
		}
	}

	cfg := &Config{
		NodeEnv:    getEnv("NODE_ENV", "development"),
		Port:       getEnv("PORT", "8000"),
		JWTSecret:  jwtSecret,
		BaseDir:    baseDir,
		RecordsDir: getEnv("MBCHECK_DIR", settings.MBCheckPath),
		LogsDir:    getEnv("LOGS_DIR", settings.LogsPath),
		UsersFile:  getEnv("USERS_FILE", settings.UsersPath),
	}

	cfg.RecordsDir = cfg.resolve(cfg.RecordsDir)
	cfg.LogsDir = cfg.resolve(cfg.LogsDir)
	cfg.UsersFile = cfg.resolve(cfg.UsersFile)

	return cfg, nil
}

// resolve anchors a relative data path at the base directory.
func (c *Config) resolve(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.BaseDir, p)
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
