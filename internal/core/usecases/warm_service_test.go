package usecases_test

import (
	"context"
	"errors"
	"testing"

	"github.com/samirrijal/solarmap/internal/core/domain"
	"github.com/samirrijal/solarmap/internal/core/usecases"
)

func TestWarmService_HandleOverlayChange(t *testing.T) {
	viewport := domain.Bounds{MinLat: 49, MinLon: 23, MaxLat: 50, MaxLon: 25}

	tests := []struct {
		name   string
		change domain.OverlayChange
		warms  int
	}{
		{
			name: "installed data overlay",
			change: domain.OverlayChange{
				Slot: domain.SlotData, Action: domain.ActionInstalled, Viewport: viewport,
				Current: &domain.TileOverlay{Option: domain.OptionTemperature},
			},
			warms: 1,
		},
		{
			name: "replaced base overlay",
			change: domain.OverlayChange{
				Slot: domain.SlotBase, Action: domain.ActionReplaced, Viewport: viewport,
				Current:  &domain.TileOverlay{Option: domain.OptionTerrain},
				Previous: &domain.TileOverlay{Option: domain.OptionGoogleTerrain},
			},
			warms: 1,
		},
		{
			name:   "removal",
			change: domain.OverlayChange{Slot: domain.SlotData, Action: domain.ActionRemoved},
			warms:  0,
		},
		{
			name:   "annotations",
			change: domain.OverlayChange{Slot: domain.SlotAnnotations, Action: domain.ActionInstalled},
			warms:  0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			warmer := &mockWarmer{}
			svc := usecases.NewWarmService(warmer, 6, 9)
			if err := svc.HandleOverlayChange(context.Background(), &tt.change); err != nil {
				t.Fatal(err)
			}
			if len(warmer.requests) != tt.warms {
				t.Fatalf("expected %d warm requests, got %d", tt.warms, len(warmer.requests))
			}
			if tt.warms == 0 {
				return
			}
			req := warmer.requests[0]
			if req.Option != tt.change.Current.Option || req.Bounds != viewport || req.MinZoom != 6 || req.MaxZoom != 9 {
				t.Errorf("unexpected request %+v", req)
			}
		})
	}
}

func TestWarmService_Errors(t *testing.T) {
	warmer := &mockWarmer{err: errors.New("temporal down")}
	svc := usecases.NewWarmService(warmer, 9, 6)

	change := &domain.OverlayChange{Slot: domain.SlotData, Current: &domain.TileOverlay{Option: domain.OptionPressure}}
	if err := svc.HandleOverlayChange(context.Background(), change); err == nil {
		t.Fatal("expected error")
	}
	if req := warmer.requests[0]; req.MinZoom != 9 || req.MaxZoom != 9 {
		t.Errorf("inverted zoom range should collapse to min, got %d..%d", req.MinZoom, req.MaxZoom)
	}
}
