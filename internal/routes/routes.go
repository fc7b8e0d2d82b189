package routes

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/casperid/humanid/internal/config"
	"github.com/casperid/humanid/internal/identity"
	"github.com/casperid/humanid/internal/logging"
	"github.com/casperid/humanid/internal/metrics"
	"github.com/casperid/humanid/internal/middleware"
	"github.com/casperid/humanid/internal/notification"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg     config.Config
	DB      *pgxpool.Pool
	Cache   *redis.Client
	Logger  *slog.Logger
	Metrics *metrics.Metrics
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	// Enforce DB/Redis presence outside of dev, even though config also checks.
	if !d.Cfg.IsDev() {
		if d.DB == nil {
			return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
		if d.Cache == nil {
			return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
	}
	if d.Metrics == nil {
		d.Metrics = metrics.New()
	}
	if d.Logger == nil {
		d.Logger = logging.Discard()
	}

	// Middlewares
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	// Plain text access log in desired format: [HH:MM:SS] 200 -  145ms METHOD /path
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} -  ${latency} ${method} ${path}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	}))
	app.Use(middleware.Audit(d.Logger))

	RegisterHealthRoutes(app, d)
	RegisterMetricsRoute(app, d.Metrics)

	svc, err := newIdentityService(d)
	if err != nil {
		return err
	}

	api := app.Group("/api/v1")
	api.Get("/ping", func(c *fiber.Ctx) error {
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": middleware.RequestIDFrom(c),
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	RegisterIdentityRoutes(api, identity.NewHandler(svc), IdentityRouteOptions{
		LookupLimiter: middleware.LookupRateLimit(d.Cache, d.Cfg.LookupRate),
		AdminKey:      middleware.AdminKey(d.Cfg.AdminKeyHash),
		Idempotency:   middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger),
	})

	return nil
}

func newIdentityService(d Deps) (*identity.Service, error) {
	deriver, err := d.Cfg.HumanID.Deriver()
	if err != nil {
		return nil, fmt.Errorf("build deriver: %w", err)
	}

	var repo identity.Repository
	if d.DB != nil {
		repo = identity.NewPostgresRepository(d.DB)
	} else {
		repo = identity.NewMemoryRepository()
	}
	if d.Cache != nil {
		repo = identity.NewCachedRepository(repo, d.Cache, d.Cfg.CacheTTL, d.Logger)
	}

	return identity.NewService(repo, deriver, identity.Options{
		Policy:       identity.Policy(d.Cfg.HumanID.CollisionPolicy),
		MaxSegments:  d.Cfg.HumanID.MaxSegments,
		ScanFallback: d.Cfg.HumanID.ScanFallback,
		Notifier:     notification.NewLoggerNotifier(d.Logger),
		Metrics:      d.Metrics,
		Logger:       d.Logger,
	}), nil
}
