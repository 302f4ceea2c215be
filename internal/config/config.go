package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type AppConfig struct {
	AppEnv   string `envconfig:"APP_ENV" default:"dev" validate:"oneof=dev prod"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn warning error"`

	Port        string        `envconfig:"PORT" default:"8080" validate:"required,numeric"`
	HTTPTimeout time.Duration `envconfig:"HTTP_TIMEOUT" default:"10s" validate:"gt=0"`

	// Auto-update generates a random reading every interval while enabled.
	AutoUpdateEnabled  bool          `envconfig:"AUTO_UPDATE_ENABLED" default:"false"`
	AutoUpdateInterval time.Duration `envconfig:"AUTO_UPDATE_INTERVAL" default:"3s" validate:"gt=0"`

	// Pressure seeded into the forecast before the first reading.
	ForecastBaseline float64 `envconfig:"FORECAST_BASELINE" default:"29.92"`

	// Reading recorded at startup.
	InitialTemperature float64 `envconfig:"INITIAL_TEMPERATURE" default:"72"`
	InitialHumidity    float64 `envconfig:"INITIAL_HUMIDITY" default:"65"`
	InitialPressure    float64 `envconfig:"INITIAL_PRESSURE" default:"30.4"`

	// Optional display sinks; empty disables them.
	DisplayWebhookURL string `envconfig:"DISPLAY_WEBHOOK_URL" validate:"omitempty,url"`
	MQTTBrokerURL     string `envconfig:"MQTT_BROKER_URL" validate:"omitempty,url"`
	MQTTClientID      string `envconfig:"MQTT_CLIENT_ID" default:"weather-station"`
	MQTTTopicPrefix   string `envconfig:"MQTT_TOPIC_PREFIX" default:"weather-station"`
}

var validate = validator.New()

// Load reads configuration from a .env file (if present) and the environment.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file loaded", "error", err)
	}
	return FromEnv()
}

// FromEnv populates and validates the config from the process environment only.
func FromEnv() (*AppConfig, error) {
	cfg := &AppConfig{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("invalid environment: %w", err)
	}
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Level returns the slog level named by LogLevel.
func (c *AppConfig) Level() slog.Level {
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
