package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"sjsage522/deliveryscraper/commands"
	"sjsage522/deliveryscraper/config"
	"sjsage522/deliveryscraper/logger"
)

func main() {
	// Load environment variables
	godotenv.Load()

	// Initialize logger first
	logger.Init()
	log := logger.Default

	cfg := config.LoadConfig()

	log.Debug().
		Str("environment", cfg.Environment).
		Int("workers", cfg.Workers).
		Str("output_dir", cfg.OutputDir).
		Msg("Starting application")

	// Cancel in-flight requests on Ctrl-C or SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := commands.Execute(ctx, cfg)
	stop()

	os.Exit(code)
}
