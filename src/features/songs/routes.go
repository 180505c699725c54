package songs

import (
	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes registers the routes for the songs feature.
func RegisterRoutes(app *fiber.App, service *Service) {
	handlers := NewHandlers(service)

	api := app.Group("/api")
	api.Post("/songs", handlers.UploadSong)
	api.Get("/songs", handlers.GetSongs)
	api.Get("/songs/:id", handlers.GetSong)
	api.Patch("/songs/:id", handlers.UpdateSong)
	api.Delete("/songs/:id", handlers.DeleteSong)
	api.Get("/songs/:id/file", handlers.ServeFile)
	api.Get("/songs/:id/cover", handlers.ServeCover)

	api.Post("/inbox/scan", handlers.ScanInbox)
	api.Get("/watcher", handlers.WatcherStatus)
	api.Post("/watcher", handlers.ToggleWatcher)
}
