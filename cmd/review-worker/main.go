package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/BearBump/ReviewBox/config"
	"github.com/BearBump/ReviewBox/internal/logging"
)

var stderr io.Writer = os.Stderr

func main() {
	os.Exit(run())
}

func run() int {
	if err := config.LoadDotEnv(os.Getenv("dotenvPath")); err != nil {
		fmt.Fprintf(stderr, "reviewbox: %v\n", err)
	}

	cfg, err := config.LoadConfigOrDefault(os.Getenv("configPath"))
	if err != nil {
		fmt.Fprintf(stderr, "reviewbox: ошибка парсинга конфига, %v\n", err)
		return 1
	}

	logger, closeLog := logging.New(logging.OptionsFromConfig(cfg.Logging))
	defer closeLog.Close()
	slog.SetDefault(logger)

	creds := config.LoadCredentials(os.Getenv)
	if err := creds.Validate(); err != nil {
		reportConfigurationError(err)
		fmt.Fprintf(stderr, "reviewbox: %v\n", err)
		return 1
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	err = RunReviewWorker(ctx, cfg, creds, defaultWorkerFactories(), workerHTTPOpts{
		swaggerPath: os.Getenv("swaggerPath"),
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		reportConfigurationError(err)
		slog.Error("review worker stopped", "error", err.Error())
		return 1
	}
	slog.Info("review worker stopped")
	return 0
}

func reportConfigurationError(err error) {
	var cfgErr *config.ConfigurationError
	if !errors.As(err, &cfgErr) {
		return
	}
	for _, name := range cfgErr.Missing {
		logging.Critical("required credential is missing", "name", name)
	}
}
