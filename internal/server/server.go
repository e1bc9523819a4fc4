package server

import (
	"log"

	"stlc-manager-be/internal/bootstrap"
	"stlc-manager-be/internal/config"
	"stlc-manager-be/internal/pkg/serverutils"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

type Server struct {
	app       *fiber.App
	cfg       *config.Config
	container *bootstrap.Container
}

func New(cfg *config.Config, container *bootstrap.Container) *Server {
	app := fiber.New(fiber.Config{
		BodyLimit: cfg.App.MaxUploadBytes,
	})

	// Middleware
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.App.CorsAllowedOrigins,
		AllowCredentials: true,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		ExposeHeaders:    "Content-Length, Content-Type, Authorization",
	}))

	// Traces every HTTP request; a no-op unless a tracer provider is installed.
	app.Use(otelfiber.Middleware())

	app.Use(serverutils.ErrorHandlerMiddleware())

	registerRoutes(app, cfg, container)

	return &Server{
		app:       app,
		cfg:       cfg,
		container: container,
	}
}

func (s *Server) GetApp() *fiber.App {
	return s.app
}

func (s *Server) Run() error {
	log.Printf("Server is running on http://localhost:%s", s.cfg.App.Port)
	return s.app.Listen(":" + s.cfg.App.Port)
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func registerRoutes(app *fiber.App, cfg *config.Config, c *bootstrap.Container) {
	api := app.Group("/api")

	c.CatalogController.RegisterRoutes(api)
	c.LogController.RegisterRoutes(api)

	workspaces := api.Group("/workspaces")
	if cfg.App.JwtSecret != "" {
		workspaces.Use(serverutils.JwtMiddleware(cfg.App.JwtSecret))
	}
	c.WorkspaceController.RegisterRoutes(workspaces)
	c.FileController.RegisterRoutes(workspaces)
	c.PipelineController.RegisterRoutes(workspaces)
	c.OutputController.RegisterRoutes(workspaces)
	c.PromptController.RegisterRoutes(workspaces)
	c.WsController.RegisterRoutes(workspaces)
}
