package songs

import (
	"errors"
	"log/slog"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/kalouantonis/chorus/src/music"
)

// Handlers contains the HTTP handlers for the songs feature.
type Handlers struct {
	service *Service
}

// NewHandlers creates a new handlers instance
func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// statusFor maps service errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, music.ErrSongNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, ErrBadTrackNumber):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, ErrInvalidSong):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

// UploadSong handles POST /api/songs
func (h *Handlers) UploadSong(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "file field required",
		})
	}

	// Stage the payload outside the library first. No extension on the
	// staging file, tags are sniffed from content.
	tmp, err := os.CreateTemp("", "chorus-upload-*")
	if err != nil {
		slog.Error("UploadSong: failed to create staging file", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to stage upload",
		})
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpPath)

	if err := c.SaveFile(fileHeader, tmpPath); err != nil {
		slog.Error("UploadSong: failed to save upload", "filename", fileHeader.Filename, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to stage upload",
		})
	}

	song, err := h.service.Create(c.Context(), &Upload{TempPath: tmpPath, Filename: fileHeader.Filename})
	if err != nil {
		return c.Status(statusFor(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(song)
}

// GetSongs handles GET /api/songs
func (h *Handlers) GetSongs(c *fiber.Ctx) error {
	songs, err := h.service.List(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to get songs",
		})
	}
	return c.JSON(fiber.Map{
		"songs": songs,
		"count": len(songs),
	})
}

// GetSong handles GET /api/songs/:id
func (h *Handlers) GetSong(c *fiber.Ctx) error {
	song, err := h.service.Get(c.Context(), c.Params("id"))
	if err != nil {
		return c.Status(statusFor(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(song)
}

// UpdateSong handles PATCH /api/songs/:id
func (h *Handlers) UpdateSong(c *fiber.Ctx) error {
	var changes SongChanges
	if err := c.BodyParser(&changes); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "cannot parse request body",
		})
	}
	song, err := h.service.Update(c.Context(), c.Params("id"), &changes)
	if err != nil {
		return c.Status(statusFor(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(song)
}

// DeleteSong handles DELETE /api/songs/:id
func (h *Handlers) DeleteSong(c *fiber.Ctx) error {
	song, err := h.service.Delete(c.Context(), c.Params("id"))
	if err != nil {
		return c.Status(statusFor(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"message": "Song deleted",
		"song":    song,
	})
}

// ServeFile handles GET /api/songs/:id/file
func (h *Handlers) ServeFile(c *fiber.Ctx) error {
	song, err := h.service.Get(c.Context(), c.Params("id"))
	if err != nil {
		return c.Status(statusFor(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	path, err := h.service.FilePath(song)
	if err != nil {
		slog.Error("ServeFile: failed to resolve song file", "songID", song.ID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to resolve song file",
		})
	}
	return c.SendFile(path)
}

// ServeCover handles GET /api/songs/:id/cover
func (h *Handlers) ServeCover(c *fiber.Ctx) error {
	song, err := h.service.Get(c.Context(), c.Params("id"))
	if err != nil {
		return c.Status(statusFor(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	path, err := h.service.CoverPath(song)
	if err != nil {
		slog.Error("ServeCover: failed to resolve cover file", "songID", song.ID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to resolve cover file",
		})
	}
	if _, err := os.Stat(path); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "no cover art for this song",
		})
	}
	return c.SendFile(path)
}

// ScanInbox handles POST /api/inbox/scan
func (h *Handlers) ScanInbox(c *fiber.Ctx) error {
	imported, err := h.service.ScanInbox(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to scan inbox",
		})
	}
	return c.JSON(fiber.Map{
		"imported": imported,
	})
}

// ToggleWatcher handles POST /api/watcher
func (h *Handlers) ToggleWatcher(c *fiber.Ctx) error {
	action := c.FormValue("action")
	if action == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "action parameter required",
		})
	}

	var err error
	if action == "start" {
		err = h.service.StartWatcher()
	} else if action == "stop" {
		err = h.service.StopWatcher()
	} else {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid action",
		})
	}

	if err != nil {
		slog.Error("Failed to toggle watcher", "action", action, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to " + action + " file watcher",
		})
	}
	return c.JSON(fiber.Map{
		"running": h.service.WatcherRunning(),
	})
}

// WatcherStatus handles GET /api/watcher
func (h *Handlers) WatcherStatus(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"running": h.service.WatcherRunning(),
	})
}
