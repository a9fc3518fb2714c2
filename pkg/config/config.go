package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	// Load environment variables from .env files when present.
	_ "github.com/joho/godotenv/autoload"
	"github.com/robfig/cron/v3"
)

// Config holds all application configuration
type Config struct {
	Server        ServerConfig
	Upload        UploadConfig
	Extraction    ExtractionConfig
	Observability ObservabilityConfig
}

type ServerConfig struct {
	Host               string
	Port               int
	RateLimitPerSecond int
	RateLimitBurst     int
	CORSAllowedOrigins []string
}

type UploadConfig struct {
	MaxBytes      int64
	Dir           string
	Retention     time.Duration
	SweepSchedule string
}

type ExtractionConfig struct {
	Sequential bool
}

type ObservabilityConfig struct {
	MetricsEnabled bool
	MetricsPort    int
	LogLevel       slog.Level
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:               getEnv("SERVER_HOST", "localhost"),
			Port:               getEnvAsInt("SERVER_PORT", 8080),
			RateLimitPerSecond: getEnvAsInt("SERVER_RATE_LIMIT_PER_SECOND", 10),
			RateLimitBurst:     getEnvAsInt("SERVER_RATE_LIMIT_BURST", 20),
			CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		},
		Upload: UploadConfig{
			MaxBytes:      getEnvAsInt64("UPLOAD_MAX_BYTES", 10<<20),
			Dir:           getEnv("UPLOAD_DIR", filepath.Join(os.TempDir(), "statement-uploads")),
			Retention:     getEnvAsDuration("UPLOAD_RETENTION", 15*time.Minute),
			SweepSchedule: getEnv("UPLOAD_SWEEP_SCHEDULE", "@every 5m"),
		},
		Extraction: ExtractionConfig{
			Sequential: getEnvAsBool("EXTRACTION_SEQUENTIAL", false),
		},
		Observability: ObservabilityConfig{
			MetricsEnabled: getEnvAsBool("METRICS_ENABLED", true),
			MetricsPort:    getEnvAsInt("METRICS_PORT", 9090),
			LogLevel:       getEnvAsLevel("LOG_LEVEL", slog.LevelInfo),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("SERVER_PORT out of range: %d", c.Server.Port))
	}
	if c.Server.RateLimitPerSecond <= 0 {
		errs = append(errs, errors.New("SERVER_RATE_LIMIT_PER_SECOND must be positive"))
	}
	if c.Server.RateLimitBurst < 1 {
		errs = append(errs, errors.New("SERVER_RATE_LIMIT_BURST must be at least 1"))
	}
	if c.Upload.MaxBytes <= 0 {
		errs = append(errs, errors.New("UPLOAD_MAX_BYTES must be positive"))
	}
	if c.Upload.Dir == "" {
		errs = append(errs, errors.New("UPLOAD_DIR is required"))
	}
	if c.Upload.Retention <= 0 {
		errs = append(errs, errors.New("UPLOAD_RETENTION must be positive"))
	}
	if _, err := cron.ParseStandard(c.Upload.SweepSchedule); err != nil {
		errs = append(errs, fmt.Errorf("UPLOAD_SWEEP_SCHEDULE: %w", err))
	}
	if c.Observability.MetricsEnabled && (c.Observability.MetricsPort <= 0 || c.Observability.MetricsPort > 65535) {
		errs = append(errs, fmt.Errorf("METRICS_PORT out of range: %d", c.Observability.MetricsPort))
	}
	if c.Observability.MetricsEnabled && c.Observability.MetricsPort == c.Server.Port {
		errs = append(errs, errors.New("METRICS_PORT must differ from SERVER_PORT"))
	}

	return errors.Join(errs...)
}

// Addr returns the listen address of the API server.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := os.Getenv(key)
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

func getEnvAsLevel(key string, defaultValue slog.Level) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(os.Getenv(key))); err == nil {
		return level
	}
	return defaultValue
}
