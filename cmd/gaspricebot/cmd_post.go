package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fuelwatch/gaspricebot/internal/bot"
	"github.com/fuelwatch/gaspricebot/internal/gateway/telegram"
)

func postCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "post",
		Short: "Run a one-time price post",
		Long:  "Runs a single fetch→format→send cycle against the configured channel. Useful for testing a deployment.",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := setupLogger()

			if err := cfg.Validate(); err != nil {
				return err
			}
			if cfg.ChannelID == 0 {
				return fmt.Errorf("--channel-id is required")
			}

			gw, err := telegram.New(telegram.Options{
				Token:       cfg.TelegramToken,
				PollTimeout: cfg.PollTimeout,
				Rich:        cfg.RichMessages,
			}, logger)
			if err != nil {
				return fmt.Errorf("connecting gateway: %w", err)
			}

			provider, err := buildProvider(logger)
			if err != nil {
				return err
			}

			b := bot.New(bot.Options{
				Area:         cfg.TargetArea,
				ChannelID:    cfg.ChannelID,
				FetchTimeout: cfg.FetchTimeout,
				UpdatePeriod: cfg.UpdatePeriod(),
				Rich:         cfg.RichMessages,
			}, provider, gw, logger)

			if err := b.PostUpdate(context.Background()); err != nil {
				return fmt.Errorf("posting update: %w", err)
			}

			logger.Info().Msg("post completed")
			return nil
		},
	}

	return cmd
}
