package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/sahayak-labs/sahayak/bot"
	"github.com/sahayak-labs/sahayak/httpapi"
	"github.com/sahayak-labs/sahayak/observability"
	"github.com/sahayak-labs/sahayak/transport"
)

func newServeCommand() *cobra.Command {
	var (
		configFile  string
		natsURL     string
		httpAddr    string
		catalogPath string
		verbose     bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the assistant: consume chat events from NATS and serve the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := bot.DefaultConfig()
			if configFile != "" {
				loaded, err := bot.LoadConfig(configFile)
				if err != nil {
					return err
				}
				cfg = *loaded
			}
			if natsURL != "" {
				cfg.NATS.URL = natsURL
			}
			if httpAddr != "" {
				cfg.HTTP.Addr = httpAddr
			}
			if catalogPath != "" {
				cfg.CatalogPath = catalogPath
			}

			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
			slog.SetDefault(logger)

			return serve(cmd.Context(), &cfg, logger)
		},
	}

	cmd.Flags().StringVarP(&configFile, "config", "c", "", "Path to JSON config file")
	cmd.Flags().StringVar(&natsURL, "nats-url", "", "NATS server URL (overrides config)")
	cmd.Flags().StringVar(&httpAddr, "http-addr", "", "HTTP listen address (overrides config)")
	cmd.Flags().StringVar(&catalogPath, "catalog", "", "Path to YAML loan catalog (overrides config)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	return cmd
}

func serve(ctx context.Context, cfg *bot.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry := prometheus.NewRegistry()
	promObserver, err := observability.NewPromObserver(registry)
	if err != nil {
		return fmt.Errorf("failed to create metrics observer: %w", err)
	}
	observer := observability.NewMultiObserver(
		observability.NewSlogObserver(logger),
		promObserver,
	)

	b, err := bot.New(cfg, bot.WithObserver(observer))
	if err != nil {
		return fmt.Errorf("failed to create bot: %w", err)
	}

	consumer := transport.NewNATSConsumer(cfg.NATS, b, transport.WithNATSObserver(observer))
	if err := consumer.Start(ctx); err != nil {
		return err
	}
	defer consumer.Close()
	logger.Info("consuming chat events", "subject", cfg.NATS.Subject, "url", cfg.NATS.URL)

	server := httpapi.New(cfg.HTTP, registry, httpapi.WithObserver(observer))
	logger.Info("http api listening", "addr", cfg.HTTP.Addr)

	return server.Start(ctx)
}
