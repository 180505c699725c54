package ui

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/kalouantonis/chorus/src/features/config"
	"github.com/kalouantonis/chorus/src/features/metrics"
	"github.com/kalouantonis/chorus/src/features/songs"
)

// Handler is the handler for the UI feature.
type Handler struct {
	configManager  *config.Manager
	songService    *songs.Service
	metricsService *metrics.Service
}

// NewHandler creates a new handler for the UI feature.
func NewHandler(configManager *config.Manager, songService *songs.Service, metricsService *metrics.Service) *Handler {
	return &Handler{
		configManager:  configManager,
		songService:    songService,
		metricsService: metricsService,
	}
}

// RenderLibrary renders the library page with the full song list.
func (h *Handler) RenderLibrary(c *fiber.Ctx) error {
	slog.Debug("RenderLibrary handler called")
	songList, err := h.songService.List(c.Context())
	if err != nil {
		return err
	}
	return c.Render("library", fiber.Map{
		"Title":          "Library",
		"Songs":          songList,
		"Count":          len(songList),
		"WatcherRunning": h.songService.WatcherRunning(),
	})
}

// RenderSettings renders the settings page with the current configuration.
func (h *Handler) RenderSettings(c *fiber.Ctx) error {
	slog.Debug("RenderSettings handler called")
	return c.Render("settings", fiber.Map{
		"Title":  "Settings",
		"Config": h.configManager.Get(),
		"YAML":   h.configManager.GetYAML(),
	})
}

// RenderStats renders the statistics page.
func (h *Handler) RenderStats(c *fiber.Ctx) error {
	slog.Debug("RenderStats handler called")
	return c.Render("stats", fiber.Map{
		"Title": "Statistics",
		"Stats": h.metricsService.GetStats(c.Context()),
	})
}
