package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/taghvim/internal/api"
	"github.com/MikeSquared-Agency/taghvim/internal/bot"
	"github.com/MikeSquared-Agency/taghvim/internal/calendar"
	"github.com/MikeSquared-Agency/taghvim/internal/config"
	"github.com/MikeSquared-Agency/taghvim/internal/converter"
	"github.com/MikeSquared-Agency/taghvim/internal/era"
	"github.com/MikeSquared-Agency/taghvim/internal/hermes"
	"github.com/MikeSquared-Agency/taghvim/internal/metrics"
	"github.com/MikeSquared-Agency/taghvim/internal/presenter"
	"github.com/MikeSquared-Agency/taghvim/internal/telegram"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the Telegram bot and HTTP API",
		Run: func(cmd *cobra.Command, args []string) {
			runServe()
		},
	}
}

func newConvertCommand() *cobra.Command {
	var policy, locale string

	cmd := &cobra.Command{
		Use:   "convert <text...>",
		Short: "Convert a date from the command line",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := era.ParsePolicy(policy)
			if err != nil {
				return err
			}
			loc, err := calendar.ParseLocale(locale)
			if err != nil {
				return err
			}

			res, err := converter.New(p).Convert(strings.Join(args, " "))
			if err != nil {
				return errors.New(converter.UserMessage(err))
			}
			fmt.Fprint(cmd.OutOrStdout(), presenter.RenderPlain(res, loc))
			return nil
		},
	}
	cmd.SilenceUsage = true
	cmd.Flags().StringVar(&policy, "policy", envOr("ERA_POLICY", string(era.DefaultPolicy)), "era policy (threshold, bounded)")
	cmd.Flags().StringVar(&locale, "locale", envOr("REPLY_LOCALE", string(calendar.LocaleEnglish)), "long form locale (fa, en)")
	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the taghvim version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "taghvim %s\n", version)
		},
	}
}

func runServe() {
	cfg := config.Load()
	setupLogging(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("taghvim starting", "port", cfg.Port, "mode", cfg.Mode, "era_policy", cfg.Policy())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telegram
	tg := telegram.NewClient(cfg.TelegramToken, cfg.TelegramAPIURL, cfg.RateLimit, slog.Default())
	me, err := tg.GetMe(ctx)
	if err != nil {
		slog.Error("failed to reach telegram", "error", err)
		os.Exit(1)
	}
	slog.Info("telegram client ready", "username", me.Username)

	m := metrics.New()
	conv := converter.New(cfg.Policy())
	settings := bot.Settings{Locale: cfg.Locale(), Footer: cfg.ReplyFooter}

	// NATS/Hermes (optional, the bot works without an event bus)
	var events bot.Publisher
	var hermesClient *hermes.Client
	if cfg.NatsURL != "" {
		hermesClient, err = hermes.NewClient(ctx, cfg.NatsURL, cfg.NatsToken, slog.Default())
		if err != nil {
			slog.Error("failed to connect to NATS", "error", err)
			os.Exit(1)
		}
		defer hermesClient.Close()
		events = hermesClient
		slog.Info("NATS connected", "url", cfg.NatsURL)
	} else {
		slog.Warn("NATS not configured, conversion events disabled")
	}

	b := bot.New(conv, tg, events, m, settings, slog.Default())

	if hermesClient != nil {
		if err := hermesClient.Serve(hermes.SubjectConvertRequest, b.HandleConvertRequest); err != nil {
			slog.Error("failed to serve convert requests", "error", err)
			os.Exit(1)
		}
		if err := hermesClient.Publish(hermes.SubjectRegistered, map[string]any{
			"timestamp":  time.Now().UTC().Format(time.RFC3339),
			"port":       cfg.Port,
			"mode":       cfg.Mode,
			"era_policy": string(cfg.Policy()),
			"bot":        me.Username,
		}); err != nil {
			slog.Warn("failed to publish registration", "error", err)
		}
	}

	// HTTP API
	srv := api.NewServer(cfg.Port, b, m, cfg.Locale(), api.Status{
		Mode:      cfg.Mode,
		EraPolicy: string(cfg.Policy()),
		Locale:    string(cfg.Locale()),
		Version:   version,
	}, slog.Default())

	switch cfg.Mode {
	case config.ModeWebhook:
		srv.MountWebhook(api.WebhookPath, telegram.WebhookHandler(cfg.WebhookSecret, b, slog.Default()))
		if err := tg.SetWebhook(ctx, cfg.WebhookURL, cfg.WebhookSecret); err != nil {
			slog.Error("failed to register webhook", "error", err)
			os.Exit(1)
		}
		slog.Info("webhook registered", "url", cfg.WebhookURL)
	default:
		if err := tg.DeleteWebhook(ctx); err != nil {
			slog.Warn("failed to clear webhook", "error", err)
		}
		poller := telegram.NewPoller(tg, cfg.PollTimeout, slog.Default())
		go func() {
			if err := poller.Run(ctx, b); err != nil {
				slog.Error("poller stopped", "error", err)
			}
		}()
	}

	go func() {
		if err := srv.Start(); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	slog.Info("taghvim ready", "port", cfg.Port, "bot", me.Username)

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	slog.Info("shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Warn("HTTP shutdown error", "error", err)
	}
	slog.Info("taghvim stopped")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
