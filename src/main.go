package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"

	"github.com/kalouantonis/chorus/src/features/config"
	"github.com/kalouantonis/chorus/src/features/hosting"
	"github.com/kalouantonis/chorus/src/features/logging"
	"github.com/kalouantonis/chorus/src/features/metrics"
	"github.com/kalouantonis/chorus/src/features/songs"
	"github.com/kalouantonis/chorus/src/infra/artwork"
	"github.com/kalouantonis/chorus/src/infra/database"
	"github.com/kalouantonis/chorus/src/infra/files"
	"github.com/kalouantonis/chorus/src/infra/tag"
	"github.com/kalouantonis/chorus/src/infra/watcher"
)

func main() {
	// Load configuration
	cfgManager, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Setup default logger with slog
	logger := logging.SetupLogger(cfgManager)
	slog.SetDefault(logger)

	// Create the database library
	db, err := database.NewSqliteLibrary(cfgManager.Get().Database.Path)
	if err != nil {
		log.Fatalf("failed to create library: %v", err)
	}
	defer db.Close()

	fileStore := files.NewDiskStore(cfgManager)
	tagReader := tag.NewReader()
	artworkExtractor := artwork.NewExtractor(cfgManager)

	// Expose the ingestion counters and seed the size gauge
	recorder := metrics.NewRecorder()
	if count, err := db.CountSongs(context.Background()); err != nil {
		slog.Warn("Failed to seed library size gauge", "error", err)
	} else {
		recorder.SetLibrarySize(count)
	}

	// Create the songs service with an inbox watcher
	watcherEvents := make(chan songs.FileEvent, 10)
	inboxWatcher := watcher.NewWatcher(watcherEvents)
	songService := songs.NewService(db, tagReader, fileStore, artworkExtractor, recorder, inboxWatcher, watcherEvents, cfgManager)

	if cfgManager.Get().Import.AutoStartWatcher {
		if err := songService.StartWatcher(); err != nil {
			slog.Error("Failed to start inbox watcher", "error", err)
		}
	}

	metricsService := metrics.NewService(db)

	// Create and start the Telegram bot if enabled
	var telegramBot *hosting.TelegramBot
	if cfgManager.Get().Telegram.Enabled {
		var err error
		telegramBot, err = hosting.NewTelegramBot(cfgManager, songService, metricsService)
		if err != nil {
			slog.Error("Failed to initialize Telegram bot", "error", err)
		} else {
			go telegramBot.Start()
			slog.Info("Telegram bot started")
		}
	}

	// Create and start the HTTP server
	server := hosting.NewServer(cfgManager, songService, metricsService)
	go func() {
		if err := server.Start(); err != nil {
			slog.Error("Server stopped", "error", err)
		}
	}()
	slog.Info("Server started. Press Ctrl+C to shut down.", "port", cfgManager.Get().Server.Port)

	// Wait for a shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit
	slog.Info("Shutting down server...")

	// Shutdown the Telegram bot
	if telegramBot != nil {
		telegramBot.Stop()
		slog.Info("Telegram bot stopped")
	}

	// Stop the inbox watcher
	songService.StopWatcher()

	// Shutdown the server
	if err := server.Shutdown(); err != nil {
		log.Fatalf("failed to shutdown server: %v", err)
	}
	slog.Info("Server gracefully shut down.")
}
