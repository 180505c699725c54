package config

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// Handler is the handler for the config feature.
type Handler struct {
	configManager *Manager
}

// NewHandler creates a new handler for the config feature.
func NewHandler(configManager *Manager) *Handler {
	return &Handler{
		configManager: configManager,
	}
}

// UpdateSettings handles the form submission to update configuration.
// Paths and server settings are preserved, they make no sense to change at
// runtime.
func (h *Handler) UpdateSettings(c *fiber.Ctx) error {
	slog.Info("Configuration update requested")

	currentConfig := h.configManager.Get()
	newConfig := &Config{
		LibraryPath: currentConfig.LibraryPath,
		InboxPath:   currentConfig.InboxPath,
		Server: Server{
			Port:        currentConfig.Server.Port,
			PrintRoutes: currentConfig.Server.PrintRoutes,
		},
		Database: Database{
			Path: currentConfig.Database.Path,
		},
		Import: Import{
			Move:             c.FormValue("import.move") == "true",
			AutoStartWatcher: c.FormValue("import.auto_start_watcher") == "true",
		},
		Telegram: Telegram{
			Enabled:      c.FormValue("telegram.enabled") == "true",
			Token:        c.FormValue("telegram.token"),
			AllowedUsers: parseStringSlice(c.FormValue("telegram.allowedUsers")),
			BotHandle:    c.FormValue("telegram.bot_handle"),
		},
		Logger: Logger{
			Enabled: c.FormValue("logger.enabled") == "true",
			Level:   c.FormValue("logger.level"),
			Format:  c.FormValue("logger.format"),
		},
		Artwork: Artwork{
			Embedded: EmbeddedArtwork{
				Enabled: c.FormValue("artwork.embedded.enabled") == "true",
				Size:    parseInt(c.FormValue("artwork.embedded.size"), currentConfig.Artwork.Embedded.Size),
				Quality: parseInt(c.FormValue("artwork.embedded.quality"), currentConfig.Artwork.Embedded.Quality),
			},
		},
		UI:      currentConfig.UI,
		Metrics: currentConfig.Metrics,
	}

	h.configManager.Update(newConfig)
	slog.Info("Configuration updated in memory")

	// Try to save to file (optional - may fail in containerized environments)
	if err := h.configManager.Save("config.yaml"); err != nil {
		slog.Warn("failed to save config to file (this is normal in containerized environments)", "error", err)
	} else {
		slog.Info("Configuration saved to file successfully")
	}

	return c.JSON(fiber.Map{"message": "configuration updated"})
}

// parseInt parses a form value, falling back when empty or malformed.
func parseInt(s string, fallback int) int {
	if s == "" {
		return fallback
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}

func parseStringSlice(s string) []string {
	if s == "" {
		return []string{}
	}
	// Split by comma and trim spaces
	var result []string
	for _, part := range strings.Split(s, ",") {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// GetConfig returns the current configuration in the requested format.
func (h *Handler) GetConfig(c *fiber.Ctx) error {
	slog.Debug("GetConfig handler called", "format", c.Query("fmt", "json"))
	format := c.Query("fmt", "yaml")

	switch format {
	case "yaml":
		c.Set("Content-Type", "text/yaml")
		return c.SendString(h.configManager.GetYAML())
	case "json":
		c.Set("Content-Type", "application/json")
		return c.SendString(h.configManager.GetJSON())
	default:
		return c.Status(fiber.StatusBadRequest).SendString("Invalid format. Use 'json' or 'yaml'")
	}
}

// DownloadDatabase serves the database file for download.
func (h *Handler) DownloadDatabase(c *fiber.Ctx) error {
	slog.Debug("DownloadDatabase handler called")

	config := h.configManager.Get()
	dbPath := config.Database.Path

	if dbPath == "" {
		return c.Status(fiber.StatusBadRequest).SendString("Database path not configured")
	}

	// Extract filename from path for download
	filename := filepath.Base(dbPath)

	// Set headers for file download
	c.Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))
	c.Set("Content-Type", "application/octet-stream")

	// Send the file
	return c.SendFile(dbPath)
}
