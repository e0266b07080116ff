package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"earnings/internal/core"
)

type Config struct {
	// HTTP server
	Port            string
	ShutdownTimeout time.Duration

	LogLevel string

	// Display
	Currency   string
	USDINRRate float64
	Timezone   string

	// Data
	RosterFile  string
	SampleSeed  uint64
	SampleCount int

	// Dashboard memoization
	CacheSize int
	CacheTTL  time.Duration

	// AMQP, disabled when AMQPURL is empty
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
}

func Load() *Config {
	return &Config{
		Port:            getEnv("PORT", "8081"),
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),

		LogLevel: getEnv("LOG_LEVEL", "info"),

		Currency:   getEnv("CURRENCY", string(core.INR)),
		USDINRRate: getEnvFloat("USD_INR_RATE", core.DefaultUSDToINR),
		Timezone:   getEnv("TIMEZONE", "Local"),

		RosterFile:  getEnv("ROSTER_FILE", ""),
		SampleSeed:  getEnvUint("SAMPLE_SEED", 0),
		SampleCount: getEnvInt("SAMPLE_COUNT", 30),

		CacheSize: getEnvInt("CACHE_SIZE", 64),
		CacheTTL:  getEnvDuration("CACHE_TTL", time.Minute),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "earnings"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "dashboard_updates"),
	}
}

// Validate reports every problem at once.
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.ShutdownTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("invalid shutdown timeout %v: must be positive", c.ShutdownTimeout))
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of debug, info, warn, error", c.LogLevel))
	}

	if _, err := core.ParseCurrency(c.Currency); err != nil {
		errors = append(errors, fmt.Sprintf("invalid currency '%s': must be INR or USD", c.Currency))
	}

	if !(c.USDINRRate > 0) {
		errors = append(errors, fmt.Sprintf("invalid USD/INR rate %v: must be positive", c.USDINRRate))
	}

	if _, err := c.Location(); err != nil {
		errors = append(errors, fmt.Sprintf("invalid timezone '%s': %v", c.Timezone, err))
	}

	if c.RosterFile != "" {
		if _, err := os.Stat(c.RosterFile); os.IsNotExist(err) {
			errors = append(errors, fmt.Sprintf("roster file does not exist: %s", c.RosterFile))
		}
	}

	if c.SampleCount < 0 || c.SampleCount > 10000 {
		errors = append(errors, fmt.Sprintf("invalid sample count %d: must be between 0 and 10000", c.SampleCount))
	}

	if c.CacheSize < 1 {
		errors = append(errors, fmt.Sprintf("invalid cache size %d: must be at least 1", c.CacheSize))
	}
	if c.CacheTTL < time.Second {
		errors = append(errors, fmt.Sprintf("invalid cache ttl %v: must be at least 1 second", c.CacheTTL))
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}
	return nil
}

// Location resolves Timezone. "Local" and "" mean the process time zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

// DisplaySettings returns the startup currency and rate. Call after Validate.
func (c *Config) DisplaySettings() core.DisplaySettings {
	s := core.DefaultDisplaySettings()
	if cur, err := core.ParseCurrency(c.Currency); err == nil {
		s.Currency = cur
	}
	if c.USDINRRate > 0 {
		s.Rate = c.USDINRRate
	}
	return s
}

// AMQPEnabled reports whether dashboard updates are published.
func (c *Config) AMQPEnabled() bool {
	return c.AMQPURL != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvUint(key string, defaultValue uint64) uint64 {
	if value := os.Getenv(key); value != "" {
		if u, err := strconv.ParseUint(value, 10, 64); err == nil {
			return u
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
