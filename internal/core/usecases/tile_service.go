package usecases

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samirrijal/solarmap/internal/core/domain"
	"github.com/samirrijal/solarmap/internal/core/ports"
	"github.com/samirrijal/solarmap/internal/pkg/metrics"
)

// TileTTL holds cache lifetimes per slot, in seconds.
type TileTTL struct {
	Base int
	Data int
}

// TileService proxies tiles of the configured overlays through the cache.
type TileService struct {
	fetcher  ports.TileFetcher
	cache    ports.CacheService
	sessions ports.SessionRepository
	table    domain.OverlayTable
	ttl      TileTTL
}

// NewTileService creates a new TileService. cache may be nil.
func NewTileService(fetcher ports.TileFetcher, cache ports.CacheService, sessions ports.SessionRepository, table domain.OverlayTable, ttl TileTTL) *TileService {
	if table == nil {
		table = domain.DefaultOverlayTable()
	}
	return &TileService{fetcher: fetcher, cache: cache, sessions: sessions, table: table, ttl: ttl}
}

// Fetch returns the tile at coord for option.
func (s *TileService) Fetch(ctx context.Context, option domain.MapOption, coord domain.TileCoord) (*domain.Tile, error) {
	if err := coord.Validate(); err != nil {
		return nil, err
	}
	tpl, ok := s.table.Template(option)
	if !ok {
		return nil, fmt.Errorf("%w: %s has no tiles", domain.ErrUnknownOption, option)
	}
	return s.fetch(ctx, option, tpl, coord)
}

// FetchActive returns the tile of whatever overlay the session has installed in slot.
func (s *TileService) FetchActive(ctx context.Context, sessionID string, slot domain.Slot, coord domain.TileCoord) (*domain.Tile, error) {
	if err := coord.Validate(); err != nil {
		return nil, err
	}
	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session %s: %w", sessionID, err)
	}
	overlay := session.Overlay(slot)
	if overlay == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrSlotEmpty, slot)
	}
	return s.fetch(ctx, overlay.Option, overlay.URLTemplate, coord)
}

// Warm fetches a tile into the cache, skipping the upstream call if it is already cached.
func (s *TileService) Warm(ctx context.Context, option domain.MapOption, coord domain.TileCoord) error {
	_, err := s.Fetch(ctx, option, coord)
	return err
}

func (s *TileService) fetch(ctx context.Context, option domain.MapOption, tpl string, coord domain.TileCoord) (*domain.Tile, error) {
	ctx, span := tracer.Start(ctx, "TileService.fetch")
	defer span.End()
	span.SetAttributes(attribute.String("map.option", string(option)), attribute.String("tile", coord.String()))

	cacheKey := tileCacheKey(option, tpl, coord)
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			if tile, ok := decodeTile(coord, data); ok {
				metrics.CacheHits.WithLabelValues("tile").Inc()
				return tile, nil
			}
		}
		metrics.CacheMisses.WithLabelValues("tile").Inc()
	}

	start := time.Now()
	data, contentType, err := s.fetcher.FetchTile(ctx, domain.ExpandTemplate(tpl, coord))
	metrics.TileFetchDuration.WithLabelValues(string(option)).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.TileFetchErrors.WithLabelValues(string(option)).Inc()
		return nil, fmt.Errorf("fetch tile %s %s: %w", option, coord, err)
	}

	tile := &domain.Tile{Coord: coord, ContentType: contentType, Data: data}
	if s.cache != nil {
		ttl := s.ttl.Data
		if option.Slot() == domain.SlotBase {
			ttl = s.ttl.Base
		}
		if ttl > 0 {
			_ = s.cache.Set(ctx, cacheKey, encodeTile(tile), ttl)
		}
	}
	return tile, nil
}

// tileCacheKey is tile:<option>:<template hash>:<z/x/y>. The hash keeps tiles
// of a session's persisted template apart from a reconfigured one.
func tileCacheKey(option domain.MapOption, tpl string, coord domain.TileCoord) string {
	h := sha256.Sum256([]byte(tpl))
	return fmt.Sprintf("tile:%s:%s:%s", option, hex.EncodeToString(h[:6]), coord)
}

// Cached tiles are stored as "<content-type>\n<bytes>".
func encodeTile(t *domain.Tile) []byte {
	buf := make([]byte, 0, len(t.ContentType)+1+len(t.Data))
	buf = append(buf, t.ContentType...)
	buf = append(buf, '\n')
	return append(buf, t.Data...)
}

func decodeTile(coord domain.TileCoord, raw []byte) (*domain.Tile, bool) {
	i := bytes.IndexByte(raw, '\n')
	if i < 0 {
		return nil, false
	}
	return &domain.Tile{Coord: coord, ContentType: string(raw[:i]), Data: raw[i+1:]}, true
}
