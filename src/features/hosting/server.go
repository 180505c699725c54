package hosting

import (
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/html/v2"
	"github.com/kalouantonis/chorus/src/features/config"
	"github.com/kalouantonis/chorus/src/features/metrics"
	"github.com/kalouantonis/chorus/src/features/songs"
	"github.com/kalouantonis/chorus/src/features/ui"
)

// Server is the HTTP server for the application.
type Server struct {
	app  *fiber.App
	port uint32
}

// NewServer creates a new HTTP server.
func NewServer(cfg *config.Manager, songService *songs.Service, metricsService *metrics.Service) *Server {
	engine := html.New("./views", ".html")
	engine.Debug(cfg.Get().Logger.Level == "debug")

	app := fiber.New(fiber.Config{
		Views: engine,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			slog.Error("Internal Server Error", "error", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
		AppName:               "Chorus",
		DisableStartupMessage: true,
		EnablePrintRoutes:     cfg.Get().Server.PrintRoutes,
		BodyLimit:             512 * 1024 * 1024, // audio uploads
	})

	app.Use(LogRequestsMiddleware())

	app.Static("/", "./public")
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("OK")
	})

	songs.RegisterRoutes(app, songService)
	metrics.RegisterRoutes(app, metricsService, cfg)
	config.RegisterRoutes(app, cfg)
	if cfg.Get().UI.Enabled {
		ui.RegisterRoutes(app, ui.NewHandler(cfg, songService, metricsService))
	}

	return &Server{app: app, port: cfg.Get().Server.Port}
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	return s.app.Listen(":" + fmt.Sprint(s.port))
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
