package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/fuelwatch/gaspricebot/internal/bot"
	"github.com/fuelwatch/gaspricebot/internal/gateway/telegram"
	"github.com/fuelwatch/gaspricebot/internal/http"
	"github.com/fuelwatch/gaspricebot/internal/prices"
	"github.com/fuelwatch/gaspricebot/internal/prices/collectapi"
	"github.com/fuelwatch/gaspricebot/internal/prices/mockapi"
	"github.com/fuelwatch/gaspricebot/internal/scheduler"
)

func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start the gas price bot service",
		Long:  "Starts the bot: connects to Telegram, serves on-demand commands and posts scheduled price updates to the configured channel.",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := setupLogger()

			// Configuration errors are fatal before any connection attempt.
			if err := cfg.Validate(); err != nil {
				return err
			}

			logger.Info().
				Str("version", Version).
				Str("commit", Commit).
				Str("buildDate", BuildDate).
				Str("httpAddr", cfg.HTTPAddr).
				Str("area", cfg.TargetArea).
				Str("provider", cfg.PriceProvider).
				Int("updateIntervalHours", cfg.UpdateIntervalHours).
				Msg("starting gas price bot")

			if cfg.ChannelID == 0 {
				logger.Warn().Msg("no channel configured, scheduled posting disabled; on-demand commands still served")
			}

			// Connect the gateway (token is authenticated here)
			gw, err := telegram.New(telegram.Options{
				Token:       cfg.TelegramToken,
				PollTimeout: cfg.PollTimeout,
				Rich:        cfg.RichMessages,
			}, logger)
			if err != nil {
				return fmt.Errorf("connecting gateway: %w", err)
			}

			// Create the price provider
			provider, err := buildProvider(logger)
			if err != nil {
				return err
			}

			// Create the pipeline
			b := bot.New(bot.Options{
				Area:         cfg.TargetArea,
				ChannelID:    cfg.ChannelID,
				FetchTimeout: cfg.FetchTimeout,
				UpdatePeriod: cfg.UpdatePeriod(),
				Rich:         cfg.RichMessages,
			}, provider, gw, logger)

			// Create the scheduler, gated on gateway readiness
			sched := scheduler.New(b.PostUpdate, gw.Ready(), logger)

			// Create HTTP server and wire Prometheus metrics to the pipeline
			httpServer := http.NewServer(cfg.HTTPAddr, b, sched, gw, logger)
			b.SetPromRecorder(httpServer.Metrics())

			// Register command handlers
			gw.HandleCommand("/now", func(inv bot.Invocation) error {
				return b.HandleNow(context.Background(), inv)
			})
			gw.HandleCommand("/help", b.HandleHelp)
			gw.HandleCommand("/start", b.HandleHelp)

			// Setup signal handling
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

			// Arm the scheduler with the placeholder period, then retarget it
			// to the configured interval once the gateway is ready. The first
			// scheduled wait therefore uses the configured interval, never
			// the placeholder.
			sched.Start(scheduler.DefaultPeriod)
			go func() {
				select {
				case <-gw.Ready():
					sched.SetPeriod(cfg.UpdatePeriod())
				case <-ctx.Done():
				}
			}()

			// Start HTTP server in goroutine
			go func() {
				if err := httpServer.Start(); err != nil {
					logger.Error().Err(err).Msg("HTTP server error")
					cancel()
				}
			}()

			// Start polling in goroutine
			go gw.Start()

			// Wait for signal
			select {
			case sig := <-sigCh:
				logger.Info().Str("signal", sig.String()).Msg("received signal, shutting down")
			case <-ctx.Done():
			}

			// Graceful shutdown: disarm the timer first, then release the
			// gateway, then the HTTP server.
			sched.Stop()

			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer shutdownCancel()

			if err := gw.Stop(shutdownCtx); err != nil {
				logger.Error().Err(err).Msg("gateway shutdown error")
			}
			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				logger.Error().Err(err).Msg("HTTP server shutdown error")
			}

			logger.Info().Msg("shutdown complete")
			return nil
		},
	}

	return cmd
}

// buildProvider creates the configured price provider.
func buildProvider(logger zerolog.Logger) (prices.Provider, error) {
	switch cfg.PriceProvider {
	case "mock":
		return mockapi.New(cfg.MockVariation, logger), nil
	case "collectapi":
		return collectapi.New(cfg.GasAPIKey, logger), nil
	default:
		return nil, fmt.Errorf("unknown provider: %s", cfg.PriceProvider)
	}
}
