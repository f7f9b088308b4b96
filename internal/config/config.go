package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds all configuration for the dashboard
type Config struct {
	Port                 string
	APIBaseURL           string
	APIKey               string
	APITimeout           time.Duration
	LogLevel             string
	LogFormat            string
	Environment          string
	FlashTTL             time.Duration
	FlashCleanupInterval time.Duration
	MetricsExporter      string
	MetricsAddr          string
	ShutdownTimeout      time.Duration
}

var defaults = map[string]interface{}{
	"PORT":                   "8080",
	"API_BASE_URL":           "http://localhost:3000",
	"API_KEY":                "",
	"API_TIMEOUT":            "10s",
	"LOG_LEVEL":              "info",
	"LOG_FORMAT":             "",
	"ENVIRONMENT":            "development",
	"FLASH_TTL":              "1m",
	"FLASH_CLEANUP_INTERVAL": "30s",
	"METRICS_EXPORTER":       "",
	"METRICS_ADDR":           ":9080",
	"SHUTDOWN_TIMEOUT":       "30s",
}

// flagKeys maps command line flags to configuration keys
var flagKeys = map[string]string{
	"port":         "PORT",
	"api-base-url": "API_BASE_URL",
	"log-level":    "LOG_LEVEL",
}

// LoadConfig loads configuration from the .env file, environment variables
// and any bound command line flags, in increasing priority.
func LoadConfig(flags *pflag.FlagSet) (*Config, error) {
	// Does not override variables already set in the environment
	if err := godotenv.Load(); err != nil {
		slog.Debug("Could not load .env file, continuing with system environment variables only", "error", err)
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	if flags != nil {
		for flagName, key := range flagKeys {
			if f := flags.Lookup(flagName); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", flagName, err)
				}
			}
		}
	}

	cfg := &Config{
		Port:            v.GetString("PORT"),
		APIBaseURL:      strings.TrimRight(v.GetString("API_BASE_URL"), "/"),
		APIKey:          v.GetString("API_KEY"),
		LogLevel:        v.GetString("LOG_LEVEL"),
		LogFormat:       v.GetString("LOG_FORMAT"),
		Environment:     v.GetString("ENVIRONMENT"),
		MetricsExporter: strings.ToLower(v.GetString("METRICS_EXPORTER")),
		MetricsAddr:     v.GetString("METRICS_ADDR"),
	}

	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
		if cfg.IsProduction() {
			cfg.LogFormat = "json"
		}
	}

	durations := []struct {
		key    string
		target *time.Duration
	}{
		{"API_TIMEOUT", &cfg.APITimeout},
		{"FLASH_TTL", &cfg.FlashTTL},
		{"FLASH_CLEANUP_INTERVAL", &cfg.FlashCleanupInterval},
		{"SHUTDOWN_TIMEOUT", &cfg.ShutdownTimeout},
	}
	for _, d := range durations {
		parsed, err := time.ParseDuration(v.GetString(d.key))
		if err != nil || parsed <= 0 {
			return nil, fmt.Errorf("invalid duration for %s: %q", d.key, v.GetString(d.key))
		}
		*d.target = parsed
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks values that would otherwise fail at first use
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid API_BASE_URL %q: must be an absolute http(s) URL", c.APIBaseURL)
	}

	switch c.MetricsExporter {
	case "", "grpc", "scraper", "none":
	default:
		return fmt.Errorf("invalid METRICS_EXPORTER %q: want grpc, scraper or none", c.MetricsExporter)
	}

	if c.Port == "" {
		return fmt.Errorf("PORT must not be empty")
	}

	return nil
}

// LogValues returns the configuration as slog key/value pairs. The API key is never logged.
func (c *Config) LogValues() []any {
	return []any{
		"port", c.Port,
		"environment", c.Environment,
		"logLevel", c.LogLevel,
		"logFormat", c.LogFormat,
		"apiBaseURL", c.APIBaseURL,
		"apiKeySet", c.APIKey != "",
		"apiTimeout", c.APITimeout.String(),
		"flashTTL", c.FlashTTL.String(),
		"metricsExporter", c.MetricsExporter,
	}
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
