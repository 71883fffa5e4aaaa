package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultSyncDelay   = 2 * time.Second
	defaultSyncTimeout = 30 * time.Second
	defaultSchedule    = "0 * * * *"
	defaultHTTPAddress = ":3000"
)

// ErrMissingConfig is returned by Validate when a required setting is absent.
var ErrMissingConfig = errors.New("missing required configuration")

// Config struct to hold the configuration settings
type Config struct {
	Postgres      PostgresConfig      `yaml:"postgres"`
	BadgeAPI      BadgeAPIConfig      `yaml:"badge_api"`
	Sync          SyncConfig          `yaml:"sync"`
	Schedule      ScheduleConfig      `yaml:"schedule"`
	HTTP          HTTPConfig          `yaml:"http"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// PostgresConfig holds Postgres configuration.
type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

// BadgeAPIConfig holds the badge service location.
type BadgeAPIConfig struct {
	BaseURL string `yaml:"base_url"`
}

// SyncConfig controls pacing of the outbound badge sync calls.
type SyncConfig struct {
	Delay   time.Duration `yaml:"delay"`
	Timeout time.Duration `yaml:"timeout"`
	// MaxRPS switches the pacer to a token bucket when > 0.
	MaxRPS float64 `yaml:"max_rps"`
}

// ScheduleConfig holds the periodic job settings.
type ScheduleConfig struct {
	Cron       string `yaml:"cron"`
	RunOnStart bool   `yaml:"run_on_start"`
}

// HTTPConfig holds the read API listener settings.
type HTTPConfig struct {
	Address string `yaml:"address"`
}

// ObservabilityConfig holds configuration for observability components
type ObservabilityConfig struct {
	LogLevel       string `yaml:"log_level"`
	LogFormat      string `yaml:"log_format"` // text|json
	MetricsEnabled bool   `yaml:"metrics_enabled"`
	Environment    string `yaml:"environment"`
}

// LoadConfig loads the configuration from a YAML file.
// A .env file in the working directory is applied to the environment first.
// When the file does not exist, the configuration is read from the environment.
func LoadConfig(filename string) (*Config, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(filename)
	if err != nil {
		return loadConfigFromEnv()
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadConfigFromEnv loads the configuration from environment variables.
func loadConfigFromEnv() (*Config, error) {
	cfg := defaults()
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Sync: SyncConfig{
			Delay:   defaultSyncDelay,
			Timeout: defaultSyncTimeout,
		},
		Schedule: ScheduleConfig{
			Cron: defaultSchedule,
		},
		HTTP: HTTPConfig{
			Address: defaultHTTPAddress,
		},
		Observability: ObservabilityConfig{
			LogLevel:       "info",
			LogFormat:      "text",
			MetricsEnabled: true,
		},
	}
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Postgres.DSN = v
	}
	if v := os.Getenv("CATALYTICS_API_BASE_URL"); v != "" {
		cfg.BadgeAPI.BaseURL = v
	}
	if v := os.Getenv("SYNC_DELAY"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid SYNC_DELAY value: %w", err)
		}
		cfg.Sync.Delay = d
	}
	if v := os.Getenv("SYNC_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid SYNC_TIMEOUT value: %w", err)
		}
		cfg.Sync.Timeout = d
	}
	if v := os.Getenv("SYNC_MAX_RPS"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid SYNC_MAX_RPS value: %w", err)
		}
		cfg.Sync.MaxRPS = f
	}
	if v := os.Getenv("SCHEDULE_CRON"); v != "" {
		cfg.Schedule.Cron = v
	}
	if v := os.Getenv("SCHEDULE_RUN_ON_START"); v != "" {
		cfg.Schedule.RunOnStart = v == "true"
	}
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Observability.LogLevel = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Observability.LogFormat = v
	}
	if v := os.Getenv("METRICS_ENABLED"); v != "" {
		cfg.Observability.MetricsEnabled = v == "true"
	}
	if v := os.Getenv("ENV"); v != "" {
		cfg.Observability.Environment = v
	}
	return nil
}

// Validate reports the first required setting that is missing.
func (c *Config) Validate() error {
	if c.Postgres.DSN == "" {
		return fmt.Errorf("%w: DATABASE_URL", ErrMissingConfig)
	}
	if c.BadgeAPI.BaseURL == "" {
		return fmt.Errorf("%w: CATALYTICS_API_BASE_URL", ErrMissingConfig)
	}
	if c.Sync.Delay < 0 {
		return fmt.Errorf("sync delay must not be negative, got %s", c.Sync.Delay)
	}
	return nil
}
