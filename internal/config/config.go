// Package config defines the AuroraCast service configuration. It is
// loaded once at process start and immutable thereafter, following
// 12-Factor principles: OS environment takes priority over an optional
// .env file, and any invalid value fails startup immediately.
package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"auroracast/internal/types"
)

// SecretString is an alias for types.SecretString, the redacted secret
// type used for values that must never appear in logs.
type SecretString = types.SecretString

// Config is the top-level configuration struct. Sub-components receive
// only the subsets they require.
type Config struct {
	Environment string `envconfig:"APP_ENV" default:"local" validate:"oneof=local dev staging prod"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`

	Server   ServerConfig
	Location LocationConfig
	Upstream UpstreamConfig
	Store    StoreConfig
	Schedule ScheduleConfig
	Alerts   AlertsConfig
	AWS      AWSConfig
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8080"`
}

// LocationConfig is the single observation coordinate this deployment
// evaluates.
type LocationConfig struct {
	Lat float64 `envconfig:"LOCATION_LAT" validate:"min=-90,max=90"`
	Lon float64 `envconfig:"LOCATION_LON" validate:"min=-180,max=360"`
}

// UpstreamConfig holds the external data source endpoints and timeouts.
type UpstreamConfig struct {
	OvationURL   string        `envconfig:"OVATION_URL" default:"https://services.swpc.noaa.gov/json/ovation_aurora_latest.json" validate:"url"`
	WeatherURL   string        `envconfig:"WEATHER_URL" default:"https://api.open-meteo.com/v1/forecast" validate:"url"`
	FetchTimeout time.Duration `envconfig:"FETCH_TIMEOUT" default:"10s"`
}

// StoreConfig selects and tunes the persistence backend.
type StoreConfig struct {
	Backend     string       `envconfig:"STORE_BACKEND" default:"memory" validate:"oneof=memory postgres"`
	DatabaseURL SecretString `envconfig:"DATABASE_URL"`
	MaxConns    int          `envconfig:"DB_MAX_CONNS" default:"4"`
}

// ScheduleConfig holds the evaluation cadence and staleness horizon.
type ScheduleConfig struct {
	TickInterval time.Duration `envconfig:"TICK_INTERVAL" default:"5m"`
	StaleAfter   time.Duration `envconfig:"STALE_AFTER" default:"2h"`
}

// AlertsConfig holds the default alert gate settings, applied until a
// caller persists explicit ones.
type AlertsConfig struct {
	Enabled          bool   `envconfig:"ALERTS_ENABLED" default:"true"`
	ThresholdPercent int    `envconfig:"ALERT_THRESHOLD" default:"50" validate:"min=1,max=100"`
	QueueURL         string `envconfig:"ALERT_QUEUE_URL"`
}

// AWSConfig holds regional settings for the SQS alert channel. EndpointURL
// is only set for LocalStack-style local runs.
type AWSConfig struct {
	Region      string `envconfig:"AWS_REGION" default:"eu-north-1"`
	EndpointURL string `envconfig:"AWS_ENDPOINT_URL"`
}

// DefaultAlertState converts the configured alert defaults to the stored
// shape.
func (c *Config) DefaultAlertState() types.AlertState {
	return types.AlertState{
		Enabled:          c.Alerts.Enabled,
		ThresholdPercent: c.Alerts.ThresholdPercent,
	}
}

// Load reads the configuration from the environment.
//
// Steps in order:
//  1. Enforce UTC timezone to prevent drift bugs.
//  2. Load a .env file if present (non-fatal if absent; never overrides
//     existing environment variables).
//  3. Process envconfig struct tags.
//  4. Validate the populated struct.
func Load() (*Config, error) {
	time.Local = time.UTC

	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("config: processing environment: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}

	if cfg.Store.Backend == "postgres" && cfg.Store.DatabaseURL.Unmask() == "" {
		return nil, fmt.Errorf("config: DATABASE_URL is required when STORE_BACKEND=postgres")
	}

	return &cfg, nil
}
