package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"
	"github.com/gofiber/websocket/v2"

	"github.com/samirrijal/solarmap/internal/pkg/metrics"
)

// RouterConfig tunes the middleware chain.
type RouterConfig struct {
	RateLimit      int           // requests per minute per IP, 0 disables
	RequestTimeout time.Duration // per-request timeout on REST handlers
	OpenAPIPath    string
}

// DefaultRouterConfig returns production defaults. Tile requests come in
// bursts of dozens per pan, so the limit is higher than a plain JSON API needs.
func DefaultRouterConfig() RouterConfig {
	return RouterConfig{
		RateLimit:      600,
		RequestTimeout: 15 * time.Second,
		OpenAPIPath:    DefaultOpenAPIPath,
	}
}

// SetupRoutes registers all REST, GraphQL, and WebSocket routes.
func SetupRoutes(app *fiber.App, deps *Dependencies, cfg RouterConfig) {
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	app.Use(requestid.New())
	app.Use(RequestIDLogMiddleware())
	app.Use(AccessLogMiddleware())

	if cfg.RateLimit > 0 {
		app.Use(limiter.New(limiter.Config{
			Max:        cfg.RateLimit,
			Expiration: 1 * time.Minute,
			KeyGenerator: func(c *fiber.Ctx) string {
				return c.IP()
			},
			LimitReached: func(c *fiber.Ctx) error {
				return newError(c, fiber.StatusTooManyRequests, "rate_limited", "too many requests, please try again later")
			},
		}))
	}

	// Security headers + API version
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("X-API-Version", "1.0.0")
		return c.Next()
	})

	app.Use(ETagMiddleware())
	app.Use(CachingMiddleware())

	// Health & readiness (no timeout, fast internal checks)
	app.Get("/v1/health", HealthHandler(deps))
	app.Get("/v1/ready", ReadyHandler(deps))

	withTimeout := func(h fiber.Handler) fiber.Handler {
		if cfg.RequestTimeout <= 0 {
			return h
		}
		return timeout.NewWithContext(h, cfg.RequestTimeout)
	}

	v1 := app.Group("/v1")
	v1.Get("/options", ListOptionsHandler(deps))

	v1.Post("/sessions", withTimeout(CreateSessionHandler(deps)))
	v1.Get("/sessions", withTimeout(ListSessionsHandler(deps)))
	v1.Get("/sessions/:id", withTimeout(GetSessionHandler(deps)))
	v1.Put("/sessions/:id/overlay", withTimeout(SelectOverlayHandler(deps)))
	v1.Put("/sessions/:id/center", withTimeout(CenterHandler(deps)))
	v1.Post("/sessions/:id/location", withTimeout(LocationHandler(deps)))
	v1.Get("/sessions/:id/tiles/:slot/:z/:x/:y", withTimeout(SessionTileHandler(deps)))

	v1.Get("/tiles/:option/:z/:x/:y", withTimeout(TileHandler(deps)))

	v1.Get("/boundary", BoundaryHandler(deps))
	v1.Get("/boundary/contains", BoundaryContainsHandler(deps))
	v1.Get("/weather", withTimeout(WeatherHandler(deps)))

	app.Post("/graphql", withTimeout(GraphQLHandler(deps)))

	SetupDocs(app, cfg.OpenAPIPath)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(WebSocketHandler(deps.NATS)))
}
