package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/ghostarr/ghostarr/internal/progress"
	"github.com/ghostarr/ghostarr/internal/services"
	"github.com/ghostarr/ghostarr/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	httpClient := &http.Client{Timeout: time.Duration(config.Server.Timeout) * time.Second}
	client := services.NewClient(config.Server.BaseURL, httpClient, logger)
	apiService := services.NewAPIService(config.Server.BaseURL, httpClient)

	// The streaming client keeps connections open for the duration of a
	// generation run, so it gets a client without the request timeout.
	tracker := progress.NewTracker(client, client.BaseURL(), &http.Client{}, logger, progress.StreamOptions{
		ReconnectAttempts: config.Stream.ReconnectAttempts,
		ReconnectDelay:    config.Stream.ReconnectDelay(),
	})

	runner := NewRunner(RunnerOpts{
		Config:     config,
		Client:     client,
		API:        apiService,
		Tracker:    tracker,
		HTTPClient: httpClient,
		Logger:     logger,
	})

	app := &cli.Command{
		Name:     "ghostarr",
		Usage:    "Generate and publish media server newsletters to Ghost",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		}
		logger.Fatalf("application error: %v", err)
	}
}
