package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// MapsConfig holds the mapping widget configuration
type MapsConfig struct {
	APIKey string `yaml:"api_key"`
}

// Config holds all application configuration
type Config struct {
	Maps          MapsConfig
	DBPath        string
	StaticDir     string
	SettingsDir   string
	QuestionsPath string
	BotReplyDelay time.Duration
}

// Load loads configuration from environment and files
func Load() (*Config, error) {
	settingsDir := os.Getenv("SETTINGS_DIR")
	if settingsDir == "" {
		settingsDir = "settings"
	}

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "data/app.db"
	}

	staticDir := os.Getenv("STATIC_DIR")
	if staticDir == "" {
		staticDir = "static"
	}

	questionsPath := os.Getenv("QUESTIONS_PATH")
	if questionsPath == "" {
		questionsPath = filepath.Join(settingsDir, "questions.yaml")
	}

	// Fixed scripted-reply latency; overridable mainly for tests
	botReplyDelay := time.Second
	if delayStr := os.Getenv("BOT_REPLY_DELAY"); delayStr != "" {
		if d, err := time.ParseDuration(delayStr); err == nil {
			botReplyDelay = d
		}
	}

	cfg := &Config{
		DBPath:        dbPath,
		StaticDir:     staticDir,
		SettingsDir:   settingsDir,
		QuestionsPath: questionsPath,
		BotReplyDelay: botReplyDelay,
	}

	mapsCfg, err := loadMapsConfig(filepath.Join(settingsDir, "secrets", "maps.yaml"))
	if err != nil {
		return nil, err
	}
	cfg.Maps = *mapsCfg

	return cfg, nil
}

// loadMapsConfig loads the mapping widget key from a YAML file.
// A missing file leaves the key empty; the map view still renders.
func loadMapsConfig(path string) (*MapsConfig, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &MapsConfig{}, nil
	}
	if err != nil {
		return nil, err
	}

	var cfg MapsConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
