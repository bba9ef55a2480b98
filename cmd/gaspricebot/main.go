// Package main provides the entry point for the gas price bot CLI.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/fuelwatch/gaspricebot/internal/config"
)

var (
	// Version is set at build time.
	Version = "dev"
	// Commit is set at build time.
	Commit = "none"
	// BuildDate is set at build time.
	BuildDate = "unknown"
)

var cfg *config.Config

func main() {
	cfg = config.DefaultConfig()
	cfg.LoadFromEnv()

	rootCmd := &cobra.Command{
		Use:   "gaspricebot",
		Short: "Gas Price Bot - Local gas prices posted to your channel on a schedule",
		Long: `Gas Price Bot is a Telegram bot that fetches local gas prices and posts
them to a configured channel at regular intervals, while also answering
on-demand /now requests.

Features:
  - Scheduled price updates with a configurable interval
  - On-demand price checks via /now
  - Pluggable price providers (mock, CollectAPI)
  - Prometheus metrics endpoint
  - Status endpoint for operational visibility`,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfg.TelegramToken, "telegram-token", cfg.TelegramToken, "Telegram bot token")
	rootCmd.PersistentFlags().Int64Var(&cfg.ChannelID, "channel-id", cfg.ChannelID, "Destination channel for scheduled posts")
	rootCmd.PersistentFlags().StringVar(&cfg.TargetArea, "area", cfg.TargetArea, "Target area for price lookups")
	rootCmd.PersistentFlags().StringVar(&cfg.PriceProvider, "provider", cfg.PriceProvider, "Price provider (mock, collectapi)")
	rootCmd.PersistentFlags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (json, console)")
	rootCmd.PersistentFlags().StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP server address for /metrics, /status")
	rootCmd.PersistentFlags().BoolVar(&cfg.RichMessages, "rich", cfg.RichMessages, "Render HTML-styled messages")

	// Add subcommands
	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(postCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func setupLogger() zerolog.Logger {
	var logger zerolog.Logger

	// Set log level
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	// Set log format
	if cfg.LogFormat == "console" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
			With().
			Timestamp().
			Logger()
	} else {
		logger = zerolog.New(os.Stdout).
			With().
			Timestamp().
			Logger()
	}

	return logger
}
