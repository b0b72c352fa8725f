// Package config provides centralized configuration management.
//
// Configuration can be loaded from:
//  1. YAML file (config.yaml), with ${VAR} references expanded
//  2. Environment variables (fallback)
//
// A .env file in the working directory is loaded into the environment
// first, so both paths can reference it.
//
// Example usage:
//
//	cfg := config.LoadOrEnv()
//	dbPath := cfg.Storage.DatabasePath
//	cron := cfg.Scheduler.RedistributeCron
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the entire application configuration
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Storage       StorageConfig       `yaml:"storage"`
	Redis         RedisConfig         `yaml:"redis"`
	Planning      PlanningConfig      `yaml:"planning"`
	Scheduler     SchedulerConfig     `yaml:"scheduler"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port           int      `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// StorageConfig holds database configuration
type StorageConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// RedisConfig holds the connection used for period locks.
// When disabled, locks are process-local.
type RedisConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Address  string        `yaml:"address"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	LockTTL  time.Duration `yaml:"lock_ttl"`
	// LockWait bounds how long a recompute waits for a busy period.
	LockWait time.Duration `yaml:"lock_wait"`
}

// PlanningConfig holds allocator defaults
type PlanningConfig struct {
	DefaultCurrency         string `yaml:"default_currency"`
	RedistributeConcurrency int    `yaml:"redistribute_concurrency"`
}

// SchedulerConfig holds the nightly redistribution job settings
type SchedulerConfig struct {
	Enabled          bool   `yaml:"enabled"`
	RedistributeCron string `yaml:"redistribute_cron"`
}

// ObservabilityConfig holds observability settings
type ObservabilityConfig struct {
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads and parses the config file
func Load(path string) (*Config, error) {
	loadDotEnv()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Expand environment variables (e.g., ${REDIS_PASSWORD})
	expanded := os.ExpandEnv(string(data))

	cfg := Defaults()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return cfg, nil
}

// Defaults returns the configuration used when nothing overrides a value.
func Defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           8080,
			AllowedOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
		},
		Storage: StorageConfig{
			DatabasePath: "growthplan.db",
		},
		Redis: RedisConfig{
			Address:  "localhost:6379",
			LockTTL:  30 * time.Second,
			LockWait: 5 * time.Second,
		},
		Planning: PlanningConfig{
			DefaultCurrency:         "BDT",
			RedistributeConcurrency: 4,
		},
		Scheduler: SchedulerConfig{
			Enabled:          true,
			RedistributeCron: "5 0 * * *",
		},
		Observability: ObservabilityConfig{
			Logging: LoggingConfig{
				Level:  "info",
				Format: "text",
			},
		},
	}
}

// LoadFromEnv loads configuration from environment variables only
func LoadFromEnv() *Config {
	loadDotEnv()

	d := Defaults()
	return &Config{
		Server: ServerConfig{
			Port:           getEnvInt("PORT", d.Server.Port),
			AllowedOrigins: getEnvList("ALLOWED_ORIGINS", d.Server.AllowedOrigins),
		},
		Storage: StorageConfig{
			DatabasePath: getEnv("GROWTHPLAN_DB_PATH", d.Storage.DatabasePath),
		},
		Redis: RedisConfig{
			Enabled:  getEnvBool("REDIS_ENABLED", false),
			Address:  getEnv("REDIS_ADDRESS", d.Redis.Address),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getEnvInt("REDIS_DB", 0),
			LockTTL:  getEnvDuration("REDIS_LOCK_TTL", d.Redis.LockTTL),
			LockWait: getEnvDuration("REDIS_LOCK_WAIT", d.Redis.LockWait),
		},
		Planning: PlanningConfig{
			DefaultCurrency:         getEnv("DEFAULT_CURRENCY", d.Planning.DefaultCurrency),
			RedistributeConcurrency: getEnvInt("REDISTRIBUTE_CONCURRENCY", d.Planning.RedistributeConcurrency),
		},
		Scheduler: SchedulerConfig{
			Enabled:          getEnvBool("SCHEDULER_ENABLED", d.Scheduler.Enabled),
			RedistributeCron: getEnv("REDISTRIBUTE_CRON", d.Scheduler.RedistributeCron),
		},
		Observability: ObservabilityConfig{
			Logging: LoggingConfig{
				Level:  getEnv("LOG_LEVEL", d.Observability.Logging.Level),
				Format: getEnv("LOG_FORMAT", d.Observability.Logging.Format),
			},
		},
	}
}

// LoadOrEnv tries to load from config.yaml, falls back to environment variables
func LoadOrEnv() *Config {
	return LoadOrEnvWithPath("config.yaml")
}

// LoadOrEnvWithPath tries to load from specified path, falls back to environment variables
func LoadOrEnvWithPath(path string) *Config {
	if cfg, err := Load(path); err == nil {
		return cfg
	}
	return LoadFromEnv()
}

// loadDotEnv loads .env without overriding variables already set.
// A missing file is fine.
func loadDotEnv() {
	_ = godotenv.Load()
}

// getEnv retrieves an environment variable with a fallback default
func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

// getEnvInt retrieves an integer environment variable with a fallback default
func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		var result int
		if _, err := fmt.Sscanf(val, "%d", &result); err == nil {
			return result
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return fallback
}

// getEnvList splits a comma-separated variable
func getEnvList(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
