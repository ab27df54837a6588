package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	DataDir   string `yaml:"data_dir"`
	UploadDir string `yaml:"upload_dir"`
	AuditDB   string `yaml:"audit_db"`
	Addr      string `yaml:"addr"`
	LogLevel  string `yaml:"log_level"`
}

// Load loads configuration from multiple sources with precedence:
// 1. Environment variables
// 2. ./.env.local (dotenv) - walks up parent directories to find it
// 3. ~/.config/statusdeck/config.yaml (YAML)
func Load() (*Config, error) {
	cfg := &Config{
		Addr:     "127.0.0.1:8630",
		LogLevel: "info",
	}

	// Load .env.local if it exists (walking up parent directories)
	if envPath := findEnvLocal(); envPath != "" {
		_ = godotenv.Load(envPath)
	}

	// Load ~/.config/statusdeck/config.yaml if it exists
	if err := loadYAMLConfig(cfg); err != nil {
		// YAML config is optional, so we don't fail if it doesn't exist
	}

	// Override with environment variables
	if dataDir := os.Getenv("STATUSDECK_DATA_DIR"); dataDir != "" {
		cfg.DataDir = dataDir
	}
	if uploadDir := os.Getenv("STATUSDECK_UPLOAD_DIR"); uploadDir != "" {
		cfg.UploadDir = uploadDir
	}
	if auditDB := os.Getenv("STATUSDECK_AUDIT_DB"); auditDB != "" {
		cfg.AuditDB = auditDB
	}
	if addr := os.Getenv("STATUSDECK_ADDR"); addr != "" {
		cfg.Addr = addr
	}
	if logLevel := os.Getenv("STATUSDECK_LOG_LEVEL"); logLevel != "" {
		cfg.LogLevel = logLevel
	}

	// Set defaults if not configured
	if cfg.DataDir == "" {
		// Check for project-local data first
		if _, err := os.Stat(".statusdeck/data"); err == nil {
			cfg.DataDir = ".statusdeck/data"
		} else {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return nil, fmt.Errorf("failed to get home directory: %w", err)
			}
			cfg.DataDir = filepath.Join(homeDir, ".local", "share", "statusdeck", "data")
		}
	}

	if cfg.UploadDir == "" {
		cfg.UploadDir = filepath.Join(filepath.Dir(cfg.DataDir), "uploads")
	}

	if cfg.AuditDB == "" {
		cfg.AuditDB = filepath.Join(filepath.Dir(cfg.DataDir), "audit.db")
	}

	return cfg, nil
}

// loadYAMLConfig loads configuration from ~/.config/statusdeck/config.yaml
func loadYAMLConfig(cfg *Config) error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return err
	}

	configPath := filepath.Join(homeDir, ".config", "statusdeck", "config.yaml")
	data, err := os.ReadFile(configPath)
	if err != nil {
		return err
	}

	return yaml.Unmarshal(data, cfg)
}

// findEnvLocal walks up from the current directory looking for .env.local
func findEnvLocal() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		candidate := filepath.Join(dir, ".env.local")
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
