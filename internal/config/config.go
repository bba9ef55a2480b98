// Package config provides configuration structures and loading for the gas price bot.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the gas price bot.
type Config struct {
	// Telegram bot token
	TelegramToken string
	// Destination channel for scheduled posts (0 disables scheduled posting)
	ChannelID int64
	// Target area for price lookups
	TargetArea string
	// Update interval in hours
	UpdateIntervalHours int
	// Timeout for a single price fetch
	FetchTimeout time.Duration
	// Price provider (mock, collectapi)
	PriceProvider string
	// API key for the CollectAPI provider
	GasAPIKey string
	// Maximum price variation for the mock provider
	MockVariation float64
	// HTTP server address
	HTTPAddr string
	// Log level (debug, info, warn, error)
	LogLevel string
	// Log format (json, console)
	LogFormat string
	// Render HTML-styled messages
	RichMessages bool
	// Telegram long-poll timeout
	PollTimeout time.Duration
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		TelegramToken:       "",
		ChannelID:           0,
		TargetArea:          "10001",
		UpdateIntervalHours: 6,
		FetchTimeout:        10 * time.Second,
		PriceProvider:       "mock",
		GasAPIKey:           "",
		MockVariation:       0.30,
		HTTPAddr:            ":8080",
		LogLevel:            "info",
		LogFormat:           "json",
		RichMessages:        false,
		PollTimeout:         10 * time.Second,
	}
}

// LoadFromEnv loads configuration from environment variables.
func (c *Config) LoadFromEnv() {
	if v := os.Getenv("TELEGRAM_TOKEN"); v != "" {
		c.TelegramToken = v
	}
	if v := os.Getenv("CHANNEL_ID"); v != "" {
		if i, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.ChannelID = i
		}
	}
	if v := os.Getenv("TARGET_AREA"); v != "" {
		c.TargetArea = v
	}
	if v := os.Getenv("UPDATE_INTERVAL_HOURS"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			c.UpdateIntervalHours = i
		}
	}
	if v := os.Getenv("FETCH_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.FetchTimeout = d
		}
	}
	if v := os.Getenv("PRICE_PROVIDER"); v != "" {
		c.PriceProvider = v
	}
	if v := os.Getenv("GAS_API_KEY"); v != "" {
		c.GasAPIKey = v
	}
	if v := os.Getenv("MOCK_VARIATION"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 {
			c.MockVariation = f
		}
	}
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		c.HTTPAddr = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		c.LogFormat = v
	}
	if v := os.Getenv("RICH_MESSAGES"); v != "" {
		c.RichMessages = strings.ToLower(v) == "true"
	}
	if v := os.Getenv("POLL_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.PollTimeout = d
		}
	}
}

// Validate checks the rules that must hold before the process connects.
// A missing channel is deliberately not an error: the bot still serves
// on-demand requests without one.
func (c *Config) Validate() error {
	if c.TelegramToken == "" {
		return errors.New("telegram token is required (TELEGRAM_TOKEN)")
	}
	if c.UpdateIntervalHours <= 0 {
		return fmt.Errorf("update interval must be positive, got %d", c.UpdateIntervalHours)
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("fetch timeout must be positive, got %s", c.FetchTimeout)
	}
	switch c.PriceProvider {
	case "mock":
	case "collectapi":
		if c.GasAPIKey == "" {
			return errors.New("GAS_API_KEY is required for the collectapi provider")
		}
	default:
		return fmt.Errorf("unknown price provider: %s", c.PriceProvider)
	}
	return nil
}

// UpdatePeriod returns the configured interval as a duration.
func (c *Config) UpdatePeriod() time.Duration {
	return time.Duration(c.UpdateIntervalHours) * time.Hour
}
