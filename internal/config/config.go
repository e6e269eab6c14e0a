package config

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/elonfeng/techcast/pkg/source"
)

// Config is the root configuration.
type Config struct {
	Source   SourceConfig   `yaml:"source"`
	Database DatabaseConfig `yaml:"database"`
	Forecast ForecastConfig `yaml:"forecast"`
	Palette  PaletteConfig  `yaml:"palette"`
	Chart    ChartConfig    `yaml:"chart"`
	Schedule ScheduleConfig `yaml:"schedule"`
	Alerts   AlertsConfig   `yaml:"alerts"`
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
}

// SourceConfig selects where raw trend records come from.
type SourceConfig struct {
	Kind string `yaml:"kind"` // "analytics", "file" or "snapshot"
	URL  string `yaml:"url"`
	Path string `yaml:"path"`
}

// DatabaseConfig configures SQLite snapshot storage.
type DatabaseConfig struct {
	Path string `yaml:"path"`
	Keep int    `yaml:"keep"` // snapshots retained after each save, 0 = all
}

// ForecastConfig marks which part of a series is the projection.
type ForecastConfig struct {
	Year          int `yaml:"year"`
	ProjectedSpan int `yaml:"projected_span"`
}

// PaletteConfig overrides the built-in brand colors.
type PaletteConfig struct {
	Colors   map[string]string `yaml:"colors"`
	Fallback string            `yaml:"fallback"`
}

// ChartConfig sets the rendered image size.
type ChartConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

// ScheduleConfig configures the daemon's refresh loop.
type ScheduleConfig struct {
	RefreshInterval string `yaml:"refresh_interval"`
}

// ParseRefreshInterval returns the refresh interval as time.Duration.
func (s ScheduleConfig) ParseRefreshInterval() time.Duration {
	d, err := time.ParseDuration(s.RefreshInterval)
	if err != nil || d <= 0 {
		return 10 * time.Minute
	}
	return d
}

// AlertsConfig configures change notifications.
type AlertsConfig struct {
	Slack   SlackConfig   `yaml:"slack"`
	Webhook WebhookConfig `yaml:"webhook"`
	TopN    int           `yaml:"top_n"` // cards included in a notification
}

// SlackConfig for Slack webhook alerts.
type SlackConfig struct {
	Enabled    bool   `yaml:"enabled"`
	WebhookURL string `yaml:"webhook_url"`
}

// WebhookConfig for generic webhook alerts.
type WebhookConfig struct {
	Enabled bool   `yaml:"enabled"`
	URL     string `yaml:"url"`
	Secret  string `yaml:"secret"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port        int      `yaml:"port"`
	CORSOrigins []string `yaml:"cors_origins"`
}

// LogConfig configures slog output.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "text" or "json"
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Source: SourceConfig{
			Kind: "analytics",
			URL:  "http://127.0.0.1:5000/api/bq",
			Path: "./trends.json",
		},
		Database: DatabaseConfig{Path: "./techcast.db", Keep: 30},
		Forecast: ForecastConfig{Year: 2025, ProjectedSpan: 2},
		Chart:    ChartConfig{Width: 1024, Height: 576},
		Schedule: ScheduleConfig{RefreshInterval: "10m"},
		Alerts:   AlertsConfig{TopN: 3},
		Server:   ServerConfig{Port: 8080, CORSOrigins: []string{"*"}},
		Log:      LogConfig{Level: "info", Format: "text"},
	}
}

// Load reads configuration from a YAML file and applies env var overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the pipeline cannot work with.
func (c *Config) Validate() error {
	if !slices.Contains(source.AllKinds(), source.Kind(c.Source.Kind)) {
		return fmt.Errorf("unknown source kind %q", c.Source.Kind)
	}
	if c.Forecast.Year <= 0 {
		return fmt.Errorf("forecast year must be positive, got %d", c.Forecast.Year)
	}
	if c.Forecast.ProjectedSpan < 1 {
		return fmt.Errorf("forecast projected_span must be at least 1, got %d", c.Forecast.ProjectedSpan)
	}
	return nil
}

// applyEnvOverrides overrides config values with environment variables.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("TECHCAST_SOURCE_KIND"); v != "" {
		cfg.Source.Kind = v
	}
	if v := os.Getenv("TECHCAST_SOURCE_URL"); v != "" {
		cfg.Source.URL = v
	}
	if v := os.Getenv("TECHCAST_SOURCE_PATH"); v != "" {
		cfg.Source.Path = v
	}
	if v := os.Getenv("TECHCAST_DB_PATH"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("TECHCAST_FORECAST_YEAR"); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse TECHCAST_FORECAST_YEAR: %w", err)
		}
		cfg.Forecast.Year = year
	}
	if v := os.Getenv("TECHCAST_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("SLACK_WEBHOOK_URL"); v != "" {
		cfg.Alerts.Slack.WebhookURL = v
		cfg.Alerts.Slack.Enabled = true
	}
	if v := os.Getenv("TECHCAST_WEBHOOK_URL"); v != "" {
		cfg.Alerts.Webhook.URL = v
		cfg.Alerts.Webhook.Enabled = true
	}
	if v := os.Getenv("TECHCAST_WEBHOOK_SECRET"); v != "" {
		cfg.Alerts.Webhook.Secret = v
	}
	return nil
}
