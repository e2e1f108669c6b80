package usecases

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/samirrijal/solarmap/internal/core/domain"
	"github.com/samirrijal/solarmap/internal/core/ports"
)

// WarmService turns overlay installations into tile warm runs.
type WarmService struct {
	warmer  ports.TileWarmer
	minZoom uint32
	maxZoom uint32
}

// NewWarmService creates a new WarmService.
func NewWarmService(warmer ports.TileWarmer, minZoom, maxZoom uint32) *WarmService {
	if maxZoom < minZoom {
		maxZoom = minZoom
	}
	return &WarmService{warmer: warmer, minZoom: minZoom, maxZoom: maxZoom}
}

// HandleOverlayChange starts a warm run for a newly installed overlay over the
// viewport it was installed in. Removals and annotation toggles are ignored.
func (s *WarmService) HandleOverlayChange(ctx context.Context, change *domain.OverlayChange) error {
	if change.Current == nil || change.Slot == domain.SlotAnnotations {
		return nil
	}
	req := domain.WarmRequest{
		Option:  change.Current.Option,
		Bounds:  change.Viewport,
		MinZoom: s.minZoom,
		MaxZoom: s.maxZoom,
	}
	runID, err := s.warmer.Warm(ctx, req)
	if err != nil {
		return fmt.Errorf("start warm for %s: %w", req.Option, err)
	}
	slog.InfoContext(ctx, "tile warm started", "session_id", change.SessionID, "option", req.Option, "run_id", runID)
	return nil
}
