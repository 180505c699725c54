package metrics

import (
	"github.com/gofiber/fiber/v2"
)

// Handler is the handler for the metrics feature.
type Handler struct {
	service *Service
}

// NewHandler creates a new handler for the metrics feature.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// GetStats handles GET /api/stats
func (h *Handler) GetStats(c *fiber.Ctx) error {
	return c.JSON(h.service.GetStats(c.Context()))
}

// GetRecent handles GET /api/stats/recent
func (h *Handler) GetRecent(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 10)
	songs, err := h.service.Recent(c.Context(), limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to get recent songs",
		})
	}
	return c.JSON(fiber.Map{
		"songs": songs,
		"count": len(songs),
	})
}
