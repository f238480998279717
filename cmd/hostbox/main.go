package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/neox5/hostbox/internal/app"
	"github.com/neox5/hostbox/internal/config"
	"github.com/neox5/hostbox/internal/version"
	"github.com/urfave/cli/v3"
)

func main() {
	if err := newCommand(serve).Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newCommand(action cli.ActionFunc) *cli.Command {
	return &cli.Command{
		Name:    "hostbox",
		Usage:   "Host telemetry exporter for Prometheus",
		Version: version.String(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to configuration file (defaults apply when empty)",
				Sources: cli.EnvVars("HOSTBOX_CONFIG"),
			},
			&cli.IntFlag{
				Name:    "listen-port",
				Usage:   "scrape endpoint port",
				Sources: cli.EnvVars("HOSTBOX_LISTEN_PORT"),
			},
			&cli.StringFlag{
				Name:    "bind-address",
				Usage:   "scrape endpoint bind address",
				Sources: cli.EnvVars("HOSTBOX_BIND_ADDRESS"),
			},
			&cli.DurationFlag{
				Name:    "poll-interval",
				Usage:   "collection period",
				Sources: cli.EnvVars("HOSTBOX_POLL_INTERVAL"),
			},
			&cli.BoolFlag{
				Name:    "expose-collector-errors",
				Usage:   "export a failure counter per sampler",
				Sources: cli.EnvVars("HOSTBOX_EXPOSE_COLLECTOR_ERRORS"),
			},
			&cli.BoolFlag{
				Name:    "debug",
				Usage:   "enable debug logging",
				Sources: cli.EnvVars("HOSTBOX_DEBUG"),
			},
		},
		Action: action,
	}
}

func serve(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyFlags(cmd, cfg)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := app.NewLogger(cfg.Log, os.Stdout)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	slog.Info("starting hostbox",
		"version", version.String(),
		"config", configPath,
		"addr", cfg.Server.Addr(),
		"interval", cfg.PollInterval,
	)

	shutdownCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(shutdownCtx, cfg, logger)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	return application.Run(shutdownCtx)
}

// applyFlags overrides file values with flags or environment variables that
// were actually given.
func applyFlags(cmd *cli.Command, cfg *config.Config) {
	if cmd.IsSet("listen-port") {
		cfg.Server.Port = cmd.Int("listen-port")
	}
	if cmd.IsSet("bind-address") {
		cfg.Server.BindAddress = cmd.String("bind-address")
	}
	if cmd.IsSet("poll-interval") {
		cfg.PollInterval = cmd.Duration("poll-interval")
	}
	if cmd.IsSet("expose-collector-errors") {
		cfg.ExposeCollectorErrors = cmd.Bool("expose-collector-errors")
	}
	if cmd.Bool("debug") {
		cfg.Log.Level = "debug"
	}
}
