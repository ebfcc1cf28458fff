package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/okcomputer/watchtogether-server/internal/app"
	"github.com/okcomputer/watchtogether-server/internal/config"
	"github.com/okcomputer/watchtogether-server/internal/log"
)

var (
	cfgPath  string
	addr     string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:          "watchtogether-server",
	Short:        "Coordination server for shared watch rooms",
	Long:         "Runs the WatchTogether backend: room registry, host-driven playback sync, per-room chat, and the WebSocket gateway clients connect to.",
	RunE:         runServer,
	SilenceUsage: true,
}

func init() {
	rootCmd.Flags().StringVar(&cfgPath, "config", "", "path to config.yaml")
	rootCmd.Flags().StringVar(&addr, "addr", "", "HTTP listen address (overrides config)")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "", "log level: trace, debug, info, warn, error (overrides config)")
}

func runServer(_ *cobra.Command, _ []string) error {
	bootstrapLogger := log.New("info")

	cfg, cfgFile, err := config.Load(bootstrapLogger, cfgPath)
	if err != nil {
		return err
	}
	cfg.UpdateFrom(config.Config{Addr: addr, LogLevel: logLevel})

	logger := log.New(cfg.LogLevel)
	logger.Info().Str("config", cfgFile).Str("addr", cfg.Addr).Msg("starting watchtogether server")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application := app.New(&cfg, logger)
	if err := application.Run(ctx); err != nil {
		logger.Error().Err(err).Msg("server exited with error")
		return err
	}
	logger.Info().Msg("server stopped")
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
