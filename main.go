package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/reallygood83/mathemotion/internal/config"
	"github.com/reallygood83/mathemotion/internal/container"
	"github.com/reallygood83/mathemotion/ui"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appContainer, err := container.New(appConfig)
	if err != nil {
		log.Fatalf("Failed to create application container: %v", err)
	}

	server, err := ui.NewServer(appContainer.Dashboard, appContainer.Credentials, ui.Options{
		GinMode:        appConfig.Server.GinMode,
		SessionTTL:     appConfig.Server.SessionTTL,
		UploadMaxBytes: appConfig.Data.UploadMaxBytes,
		SpreadsheetID:  appConfig.Sheets.SpreadsheetID,
		Range:          appConfig.Sheets.Range,
	}, appContainer.Logger)
	if err != nil {
		log.Fatalf("Failed to initialize UI server: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Start(ctx, ":"+appConfig.Server.Port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
