package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"snapcal/config"
	_ "snapcal/docs" // Swagger docs
	"snapcal/internal/app"
)

// @title       snapcal API
// @description Turns a photo of an event notice into a Google Calendar event.
// @version     1
// @host        localhost:8000
// @schemes     http
func main() {
	// 1. Configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Failed to load config: ", err)
		os.Exit(1)
	}

	// 2. Logger
	logger := app.NewLogger(cfg.Logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Serve
	if err := app.Serve(ctx, logger, cfg); err != nil {
		logger.Error(ctx, "Failed to run server: ", err)
		os.Exit(1)
	}

	logger.Info(ctx, "Server stopped gracefully")
}
