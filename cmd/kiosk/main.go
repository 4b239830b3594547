package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/wolfman30/connection-card/cmd/mainconfig"
	"github.com/wolfman30/connection-card/internal/app/bootstrap"
	appconfig "github.com/wolfman30/connection-card/internal/config"
	"github.com/wolfman30/connection-card/internal/kiosk"
	"github.com/wolfman30/connection-card/pkg/logging"
)

func main() {
	_ = godotenv.Load()
	cfg := appconfig.Load()

	// The terminal belongs to the kiosk UI; logs go to a file.
	logFile, err := os.OpenFile(cfg.KioskLogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "kiosk: open log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()
	logger := logging.NewWithWriter(cfg.LogLevel, logFile)

	if err := run(context.Background(), cfg, logger); err != nil {
		logger.Error("kiosk exited with error", "error", err)
		fmt.Fprintf(os.Stderr, "kiosk: %v\n", err)
		logFile.Close()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) error {
	var awsCfg *aws.Config
	if bootstrap.NeedsAWS(cfg) {
		loaded, err := mainconfig.LoadAWSConfig(ctx, cfg)
		if err != nil {
			return fmt.Errorf("load AWS config: %w", err)
		}
		awsCfg = &loaded
	}

	rt, err := bootstrap.BuildRuntime(ctx, cfg, awsCfg, nil, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := rt.Close(); err != nil {
			logger.Error("failed to close connections", "error", err)
		}
	}()

	app := kiosk.NewApp(rt.Cards, rt.Church, logger.With("component", "kiosk"),
		kiosk.WithSubmitTimeout(cfg.GenerationTimeout+15*time.Second))

	logger.Info("kiosk started", "church", rt.Church.Name)
	if _, err := tea.NewProgram(app, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("run kiosk: %w", err)
	}
	logger.Info("kiosk stopped")
	return nil
}
