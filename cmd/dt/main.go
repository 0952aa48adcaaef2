package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dtcli/internal/config"
	"dtcli/internal/infrastructure"
	"dtcli/internal/services"
)

const shutdownTimeout = 5 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes one delta run and returns the process exit code. The report
// goes to stdout; traces and the final error go to stderr.
func run(ctx context.Context, stdout, stderr io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		fmt.Fprintf(stderr, "%s: %v\n", config.AppName, err)
		return 1
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(stderr, "%s: failed to initialize logger: %v\n", config.AppName, err)
		return 1
	}
	defer infrastructure.CloseLogFile()

	ctx = infrastructure.EnsureTraceID(ctx)

	providers, err := infrastructure.InitializeOTel(cfg.Telemetry, stderr, logger)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to initialize telemetry", slog.String("error", err.Error()))
		fmt.Fprintf(stderr, "%s: %v\n", config.AppName, err)
		return 1
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := providers.Shutdown(shutdownCtx); err != nil {
			logger.WarnContext(ctx, "Telemetry shutdown failed", slog.String("error", err.Error()))
		}
	}()

	logger.InfoContext(ctx, "Starting "+config.AppName,
		slog.String("version", config.AppVersion),
		slog.String("report", cfg.Report.String()))

	reporter := services.NewDeltaReporter(cfg.Report, stdout, providers, logger)
	// The reporter has already logged the failure
	if _, err := reporter.Run(ctx, ""); err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", config.AppName, err)
		return 1
	}

	return 0
}
