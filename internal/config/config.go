package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults applied when the config file omits a value.
const (
	DefaultListenAddr               = ":8085"
	DefaultJWTExpiryHours           = 24
	DefaultAverageFileSizeMB        = 2
	DefaultReconcileIntervalMinutes = 360
	DefaultReconcileMaxConcurrency  = 5
)

// Config is the root configuration document.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	JWT      JWTConfig      `yaml:"jwt"`
	Logging  LoggingConfig  `yaml:"logging"`
	Redis    RedisConfig    `yaml:"redis"`
	Quota    QuotaConfig    `yaml:"quota"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr string `yaml:"addr"` // Listen address.
}

// DatabaseConfig holds persistence settings.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"` // PostgreSQL or SQLite DSN.
}

// JWTConfig holds admin token settings.
type JWTConfig struct {
	Secret      string `yaml:"secret"`       // HS256 signing secret.
	ExpiryHours int    `yaml:"expiry-hours"` // Token lifetime in hours.
}

// Expiry returns the token lifetime as a duration.
func (c JWTConfig) Expiry() time.Duration {
	hours := c.ExpiryHours
	if hours <= 0 {
		hours = DefaultJWTExpiryHours
	}
	return time.Duration(hours) * time.Hour
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Level      string `yaml:"level"`       // logrus level name.
	File       string `yaml:"file"`        // Log file path; empty logs to stderr only.
	MaxSizeMB  int    `yaml:"max-size-mb"` // Rotation threshold.
	MaxBackups int    `yaml:"max-backups"` // Rotated files kept.
	MaxAgeDays int    `yaml:"max-age-days"` // Rotated file retention.
}

// RedisConfig holds the optional reconcile-lock backend.
type RedisConfig struct {
	Addr     string `yaml:"addr"`     // host:port; empty disables Redis.
	Password string `yaml:"password"` // Optional password.
	DB       int    `yaml:"db"`       // Database index.
}

// QuotaConfig holds quota engine settings.
type QuotaConfig struct {
	AverageFileSizeMB        int64            `yaml:"average-file-size-mb"`       // Storage approximation input.
	ReconcileIntervalMinutes int              `yaml:"reconcile-interval-minutes"` // Scheduled pass cadence.
	ReconcileMaxConcurrency  int              `yaml:"reconcile-max-concurrency"`  // Tenant fan-out bound.
	DefaultLimits            map[string]int64 `yaml:"default-limits"`             // Plan-default limits per resource type.
}

// ReconcileInterval returns the scheduled reconcile cadence.
func (c QuotaConfig) ReconcileInterval() time.Duration {
	minutes := c.ReconcileIntervalMinutes
	if minutes <= 0 {
		minutes = DefaultReconcileIntervalMinutes
	}
	return time.Duration(minutes) * time.Minute
}

// Load reads and validates a YAML config file.
func Load(path string) (*Config, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return nil, fmt.Errorf("config: empty path")
	}

	data, errRead := os.ReadFile(trimmed)
	if errRead != nil {
		return nil, fmt.Errorf("config: read %s: %w", trimmed, errRead)
	}

	var cfg Config
	if errUnmarshal := yaml.Unmarshal(data, &cfg); errUnmarshal != nil {
		return nil, fmt.Errorf("config: parse %s: %w", trimmed, errUnmarshal)
	}
	cfg.applyDefaults()

	if strings.TrimSpace(cfg.Database.DSN) == "" {
		return nil, fmt.Errorf("config: database.dsn is required")
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if strings.TrimSpace(c.Server.Addr) == "" {
		c.Server.Addr = DefaultListenAddr
	}
	if c.JWT.ExpiryHours <= 0 {
		c.JWT.ExpiryHours = DefaultJWTExpiryHours
	}
	if c.Quota.AverageFileSizeMB <= 0 {
		c.Quota.AverageFileSizeMB = DefaultAverageFileSizeMB
	}
	if c.Quota.ReconcileIntervalMinutes <= 0 {
		c.Quota.ReconcileIntervalMinutes = DefaultReconcileIntervalMinutes
	}
	if c.Quota.ReconcileMaxConcurrency <= 0 {
		c.Quota.ReconcileMaxConcurrency = DefaultReconcileMaxConcurrency
	}
	if strings.TrimSpace(c.Logging.Level) == "" {
		c.Logging.Level = "info"
	}
}
