package http

import (
	"github.com/nats-io/nats.go"

	"github.com/samirrijal/solarmap/internal/adapters/postgres"
	"github.com/samirrijal/solarmap/internal/adapters/valkey"
	"github.com/samirrijal/solarmap/internal/core/usecases"
)

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Maps     *usecases.MapService
	Overlays *usecases.OverlayService
	Tiles    *usecases.TileService
	Weather  *usecases.WeatherService
	Boundary *usecases.BoundaryService
	NATS     *nats.Conn
	DB       *postgres.DB
	Cache    *valkey.Cache
}
