package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ============================================================
// Configuration
// ============================================================

type Config struct {
	Port         string `yaml:"port" validate:"required,numeric"`
	Environment  string `yaml:"env" validate:"required,oneof=development production test"`
	ReadTimeout  int    `yaml:"read_timeout" validate:"gte=1"`
	WriteTimeout int    `yaml:"write_timeout" validate:"gte=1"`
	LogLevel     string `yaml:"log_level" validate:"oneof=debug info warn error"`

	// Gateway
	EditorURL string `yaml:"editor_url" validate:"required,url"`

	// Editor service
	DBPath       string `yaml:"db_path" validate:"required"`
	StorageRoot  string `yaml:"storage_root" validate:"required"`
	HistoryLimit int    `yaml:"history_limit" validate:"gte=0"`
	MaxSessions  int    `yaml:"max_sessions" validate:"gte=0"`
}

var validate = validator.New()

// Defaults: значения по умолчанию до файла и окружения.
func Defaults() *Config {
	return &Config{
		Port:         "3000",
		Environment:  "development",
		ReadTimeout:  10,
		WriteTimeout: 10,
		LogLevel:     "info",
		EditorURL:    "http://localhost:3001",
		DBPath:       "data/db/designs.db",
		StorageRoot:  "data/designs",
		HistoryLimit: 200,
		MaxSessions:  0,
	}
}

// Load собирает конфигурацию: значения по умолчанию, затем YAML из CONFIG_FILE
// (если задан), затем переменные окружения.
func Load() (*Config, error) {
	return LoadWithDefaults(Defaults())
}

// LoadWithDefaults как Load, но с базовыми значениями сервиса (например, свой порт).
// Файл и окружение перекрывают их.
func LoadWithDefaults(cfg *Config) (*Config, error) {
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.Environment = getEnv("ENV", cfg.Environment)
	cfg.ReadTimeout = getEnvAsInt("READ_TIMEOUT", cfg.ReadTimeout)
	cfg.WriteTimeout = getEnvAsInt("WRITE_TIMEOUT", cfg.WriteTimeout)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.EditorURL = getEnv("EDITOR_URL", cfg.EditorURL)
	cfg.DBPath = getEnv("DB_PATH", cfg.DBPath)
	cfg.StorageRoot = getEnv("STORAGE_ROOT", cfg.StorageRoot)
	cfg.HistoryLimit = getEnvAsInt("HISTORY_LIMIT", cfg.HistoryLimit)
	cfg.MaxSessions = getEnvAsInt("MAX_SESSIONS", cfg.MaxSessions)

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// IsProduction: включает JSON-логи.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse yaml: %w", err)
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}
