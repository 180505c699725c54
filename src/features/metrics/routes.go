package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/kalouantonis/chorus/src/features/config"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterRoutes registers the routes for the metrics feature.
func RegisterRoutes(app *fiber.App, service *Service, cfg *config.Manager) {
	handler := NewHandler(service)

	api := app.Group("/api")
	api.Get("/stats", handler.GetStats)
	api.Get("/stats/recent", handler.GetRecent)

	if cfg.Get().Metrics.Enabled {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	}
}
