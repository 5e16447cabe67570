// Package config loads the explorer configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/mwantia/backup-explorer/log"
)

const Prefix = "BACKUP_EXPLORER_"

type Config struct {
	// Logging
	LogLevel string
	LogFile  string
	LogJSON  bool

	// Explorer
	Database     string
	MaxLoaded    int
	PollInterval time.Duration
	QueueSize    int

	// Metrics endpoint, disabled when empty
	MetricsAddr string

	// Report exports
	ExportDir string

	S3Endpoint  string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string
	S3Prefix    string
	S3UseSSL    bool

	ConsulAddr   string
	ConsulToken  string
	ConsulPrefix string
}

// Load reads configuration from environment variables with defaults.
func Load() (*Config, error) {
	cfg := &Config{
		LogLevel:     envOr("LOG_LEVEL", "info"),
		LogFile:      envOr("LOG_FILE", ""),
		LogJSON:      envBool("LOG_JSON", false),
		Database:     envOr("DATABASE", ""),
		MaxLoaded:    envInt("MAX_LOADED", 5),
		PollInterval: envDuration("POLL_INTERVAL", 100*time.Millisecond),
		QueueSize:    envInt("QUEUE_SIZE", 64),
		MetricsAddr:  envOr("METRICS_ADDR", ""),
		ExportDir:    envOr("EXPORT_DIR", "reports"),
		S3Endpoint:   envOr("S3_ENDPOINT", ""),
		S3Bucket:     envOr("S3_BUCKET", "backup-explorer"),
		S3AccessKey:  envOr("S3_ACCESS_KEY", ""),
		S3SecretKey:  envOr("S3_SECRET_KEY", ""),
		S3Prefix:     envOr("S3_PREFIX", "reports"),
		S3UseSSL:     envBool("S3_USE_SSL", false),
		ConsulAddr:   envOr("CONSUL_ADDR", ""),
		ConsulToken:  envOr("CONSUL_TOKEN", ""),
		ConsulPrefix: envOr("CONSUL_PREFIX", "backup-explorer/reports"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error

	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("%sLOG_LEVEL: %w", Prefix, err))
	}
	if c.MaxLoaded < 1 {
		errs = append(errs, fmt.Errorf("%sMAX_LOADED must be at least 1, got %d", Prefix, c.MaxLoaded))
	}
	if c.QueueSize < 1 {
		errs = append(errs, fmt.Errorf("%sQUEUE_SIZE must be at least 1, got %d", Prefix, c.QueueSize))
	}
	if c.PollInterval <= 0 {
		errs = append(errs, fmt.Errorf("%sPOLL_INTERVAL must be positive, got %s", Prefix, c.PollInterval))
	}
	if c.S3Enabled() && c.S3Bucket == "" {
		errs = append(errs, fmt.Errorf("%sS3_BUCKET is required when %sS3_ENDPOINT is set", Prefix, Prefix))
	}

	return errors.Join(errs...)
}

// Level returns the parsed log level.
func (c *Config) Level() log.LogLevel {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.Info
	}
	return level
}

func (c *Config) S3Enabled() bool {
	return c.S3Endpoint != ""
}

func (c *Config) ConsulEnabled() bool {
	return c.ConsulAddr != ""
}

func envOr(key, fallback string) string {
	if v := os.Getenv(Prefix + key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(Prefix + key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

// envInt returns -1 for unparsable values so that Validate rejects them.
func envInt(key string, fallback int) int {
	v := os.Getenv(Prefix + key)
	if v == "" {
		return fallback
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return -1
	}
	return i
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(Prefix + key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return -1
	}
	return d
}
