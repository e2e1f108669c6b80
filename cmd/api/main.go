package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/nats-io/nats.go"

	"github.com/samirrijal/solarmap/internal/adapters/http"
	natsadapter "github.com/samirrijal/solarmap/internal/adapters/nats"
	"github.com/samirrijal/solarmap/internal/adapters/openweather"
	"github.com/samirrijal/solarmap/internal/adapters/postgres"
	"github.com/samirrijal/solarmap/internal/adapters/tileserver"
	"github.com/samirrijal/solarmap/internal/adapters/valkey"
	"github.com/samirrijal/solarmap/internal/core/domain"
	"github.com/samirrijal/solarmap/internal/core/ports"
	"github.com/samirrijal/solarmap/internal/core/usecases"
	"github.com/samirrijal/solarmap/internal/pkg/config"
	"github.com/samirrijal/solarmap/internal/pkg/logging"
	"github.com/samirrijal/solarmap/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("solarmap-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logging.Setup(cfg.Telemetry.ServiceName)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.TempoAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	// Database
	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()
	go db.ReportPoolStats(ctx, 15*time.Second)

	// Cache is optional: tiles and weather go straight upstream without it.
	var cache ports.CacheService
	valkeyCache, err := valkey.New(cfg.Valkey.Addr, "solarmap:")
	if err != nil {
		slog.Warn("valkey unavailable", "error", err)
	} else {
		defer valkeyCache.Close()
		cache = valkeyCache
	}

	// NATS is optional: selections still apply, events are skipped.
	var publisher ports.EventPublisher
	var natsConn *nats.Conn
	pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats unavailable", "error", err)
	} else {
		defer pub.Close()
		publisher = pub
		natsConn = pub.Conn()
	}

	table, err := cfg.Tiles.Table()
	if err != nil {
		log.Fatalf("tile templates: %v", err)
	}

	if cfg.Weather.APIKey == "" {
		slog.Warn("weather.api_key not set, weather lookups will fail upstream")
	}

	// Repos and upstream clients
	sessionRepo := postgres.NewSessionRepo(db)
	tileClient := tileserver.NewClient(time.Duration(cfg.Tiles.UpstreamTimeout)*time.Second, cfg.Tiles.UserAgent)
	weatherClient := openweather.NewClient(cfg.Weather.BaseURL, cfg.Weather.APIKey, time.Duration(cfg.Weather.Timeout)*time.Second)

	// Use cases
	locks := usecases.NewSessionLocks()
	mapSvc := usecases.NewMapService(sessionRepo, publisher, locks, usecases.MapSettings{
		Initial:            domain.GeoPoint{Lat: cfg.Map.InitialLat, Lon: cfg.Map.InitialLon},
		ScaleMeters:        cfg.Map.ScaleMeters,
		RegionRadiusMeters: cfg.Map.RegionRadiusMeters,
	})
	overlaySvc := usecases.NewOverlayService(sessionRepo, publisher, locks, table)
	tileSvc := usecases.NewTileService(tileClient, cache, sessionRepo, table, usecases.TileTTL{
		Base: cfg.Tiles.BaseTTL,
		Data: cfg.Tiles.DataTTL,
	})
	weatherSvc := usecases.NewWeatherService(weatherClient, cache, cfg.Weather.CacheTTL)
	boundarySvc := usecases.NewBoundaryService(domain.DefaultBoundary())

	deps := &http.Dependencies{
		Maps:     mapSvc,
		Overlays: overlaySvc,
		Tiles:    tileSvc,
		Weather:  weatherSvc,
		Boundary: boundarySvc,
		NATS:     natsConn,
		DB:       db,
		Cache:    valkeyCache,
	}

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    1024 * 1024, // 1 MB max request body
		AppName:      "SolarMap API",
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowOrigins,
		AllowMethods:     "GET,POST,PUT,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: false,
		MaxAge:           3600,
	}))

	http.SetupRoutes(app, deps, http.DefaultRouterConfig())

	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}
