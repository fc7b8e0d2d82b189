package server

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/casperid/humanid/internal/config"
	"github.com/casperid/humanid/internal/metrics"
	"github.com/casperid/humanid/internal/routes"
)

// Server wraps the Fiber application and shared dependencies.
type Server struct {
	app     *fiber.App
	cfg     config.Config
	metrics *metrics.Metrics
}

// New instantiates the HTTP server and delegates route wiring to routes.Setup.
// db and cache may be nil in development; the service then runs on an
// in-memory store without caching.
func New(cfg config.Config, db *pgxpool.Pool, cache *redis.Client, logger *slog.Logger) (*Server, error) {
	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		ErrorHandler: errorHandler(logger),
	})

	m := metrics.New()
	if err := routes.Setup(app, routes.Deps{Cfg: cfg, DB: db, Cache: cache, Logger: logger, Metrics: m}); err != nil {
		return nil, err
	}

	return &Server{app: app, cfg: cfg, metrics: m}, nil
}

// App exposes the underlying Fiber application for in-process requests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen starts the HTTP server.
func (s *Server) Listen() error {
	return s.app.Listen(s.cfg.Address())
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

// errorHandler renders every error as {"error": message}.
func errorHandler(logger *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		msg := "internal error"
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			msg = fe.Message
		} else if logger != nil {
			logger.Error("unhandled error",
				slog.String("path", c.Path()),
				slog.Any("error", err),
			)
		}
		return c.Status(code).JSON(fiber.Map{"error": msg})
	}
}
