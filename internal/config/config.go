package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	envDataDir      = "CARTEIRA_DATA_DIR"
	envDBPath       = "CARTEIRA_DB_PATH"
	envHost         = "CARTEIRA_HOST"
	envPort         = "CARTEIRA_PORT"
	envWebDir       = "CARTEIRA_WEB_DIR"
	envGeminiAPIKey = "CARTEIRA_GEMINI_API_KEY"

	defaultDBName = "carteira.db"
	defaultHost   = "127.0.0.1"
	defaultPort   = 8000
)

// Config holds runtime configuration resolved from the environment.
type Config struct {
	DataDir      string
	DBPath       string
	Host         string
	Port         int
	WebDir       string
	GeminiAPIKey string
}

// Load reads an optional .env file and resolves configuration from the
// environment, applying defaults. Explicit environment variables win over
// .env entries.
func Load() (Config, error) {
	// Missing .env is not an error.
	_ = godotenv.Load()

	cfg := Config{
		DataDir:      strings.TrimSpace(os.Getenv(envDataDir)),
		DBPath:       strings.TrimSpace(os.Getenv(envDBPath)),
		Host:         strings.TrimSpace(os.Getenv(envHost)),
		Port:         defaultPort,
		WebDir:       strings.TrimSpace(os.Getenv(envWebDir)),
		GeminiAPIKey: strings.TrimSpace(os.Getenv(envGeminiAPIKey)),
	}

	if cfg.DataDir == "" {
		dir, err := defaultDataDir()
		if err != nil {
			return Config{}, err
		}
		cfg.DataDir = dir
	}
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return Config{}, err
	}

	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join(cfg.DataDir, defaultDBName)
	}
	if cfg.Host == "" {
		cfg.Host = defaultHost
	}
	if raw := strings.TrimSpace(os.Getenv(envPort)); raw != "" {
		if port, err := strconv.Atoi(raw); err == nil && port > 0 && port < 65536 {
			cfg.Port = port
		}
	}
	return cfg, nil
}

// LogDir returns the directory for log files under the data directory.
func (c Config) LogDir() string {
	return filepath.Join(c.DataDir, "logs")
}

func defaultDataDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".carteira"), nil
	}
	return filepath.Join(configDir, "carteira"), nil
}
