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
	"go.temporal.io/sdk/client"
	temporallog "go.temporal.io/sdk/log"
	"go.temporal.io/sdk/worker"

	natsadapter "github.com/samirrijal/solarmap/internal/adapters/nats"
	temporaladapter "github.com/samirrijal/solarmap/internal/adapters/temporal"
	"github.com/samirrijal/solarmap/internal/adapters/tileserver"
	"github.com/samirrijal/solarmap/internal/adapters/valkey"
	"github.com/samirrijal/solarmap/internal/core/ports"
	"github.com/samirrijal/solarmap/internal/core/usecases"
	"github.com/samirrijal/solarmap/internal/pkg/config"
	"github.com/samirrijal/solarmap/internal/pkg/logging"
	"github.com/samirrijal/solarmap/internal/pkg/metrics"
	"github.com/samirrijal/solarmap/internal/pkg/telemetry"
	"github.com/samirrijal/solarmap/internal/workflows"
)

// The warmer runs the tile warm worker and starts a warm run for every
// overlay installed through the API.
func main() {
	cfg, err := config.Load("solarmap-warmer")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.Setup(cfg.Telemetry.ServiceName)

	if !cfg.Temporal.Enabled {
		slog.Warn("temporal disabled, nothing to do")
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.TempoAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	c, err := client.Dial(client.Options{
		HostPort:  cfg.Temporal.HostPort,
		Namespace: cfg.Temporal.Namespace,
		Logger:    temporallog.NewStructuredLogger(logger),
	})
	if err != nil {
		log.Fatalf("temporal client: %v", err)
	}
	defer c.Close()

	// Warming without a cache would only burn upstream quota.
	cache, err := valkey.New(cfg.Valkey.Addr, "solarmap:")
	if err != nil {
		log.Fatalf("valkey: %v", err)
	}
	defer cache.Close()

	table, err := cfg.Tiles.Table()
	if err != nil {
		log.Fatalf("tile templates: %v", err)
	}
	fetcher := tileserver.NewClient(time.Duration(cfg.Tiles.UpstreamTimeout)*time.Second, cfg.Tiles.UserAgent)
	var tileCache ports.CacheService = cache
	tileSvc := usecases.NewTileService(fetcher, tileCache, nil, table, usecases.TileTTL{
		Base: cfg.Tiles.BaseTTL,
		Data: cfg.Tiles.DataTTL,
	})

	w := worker.New(c, cfg.Temporal.TaskQueue, worker.Options{})
	w.RegisterWorkflow(workflows.TileWarmWorkflow)
	w.RegisterActivity(&workflows.TileWarmActivities{Tiles: tileSvc})
	if err := w.Start(); err != nil {
		log.Fatalf("worker: %v", err)
	}
	defer w.Stop()

	warmSvc := usecases.NewWarmService(
		temporaladapter.NewWarmer(c, cfg.Temporal.TaskQueue),
		uint32(cfg.Tiles.WarmMinZoom),
		uint32(cfg.Tiles.WarmMaxZoom),
	)

	sub, err := natsadapter.NewSubscriber(cfg.NATS.URL)
	if err != nil {
		log.Fatalf("nats: %v", err)
	}
	defer sub.Close()
	if err := sub.SubscribeOverlayChanges(ctx, "solarmap-warmer", warmSvc.HandleOverlayChange); err != nil {
		log.Fatalf("subscribe overlay changes: %v", err)
	}

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Get("/metrics", metrics.Handler())
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.MetricsPort)
		if err := app.Listen(addr); err != nil {
			slog.Error("metrics listener stopped", "addr", addr, "error", err)
		}
	}()
	defer func() { _ = app.Shutdown() }()

	slog.Info("warmer started", "task_queue", cfg.Temporal.TaskQueue)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig.String())
}
