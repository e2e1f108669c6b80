package geospatial

import (
	"math"
	"testing"
)

func TestBoundingBox(t *testing.T) {
	minLat, minLon, maxLat, maxLon := BoundingBox(0, 0, 111320)
	if math.Abs(minLat+1) > 1e-9 || math.Abs(maxLat-1) > 1e-9 {
		t.Errorf("expected ±1° latitude at the equator, got %v..%v", minLat, maxLat)
	}
	if math.Abs(minLon+1) > 1e-9 || math.Abs(maxLon-1) > 1e-9 {
		t.Errorf("expected ±1° longitude at the equator, got %v..%v", minLon, maxLon)
	}

	_, minLon, _, maxLon = BoundingBox(60, 10, 111320)
	if math.Abs((maxLon-minLon)-4) > 1e-6 {
		t.Errorf("expected 4° longitude span at 60°N, got %v", maxLon-minLon)
	}
}

func TestBoundingBox_Pole(t *testing.T) {
	_, minLon, _, maxLon := BoundingBox(90, 0, 1000)
	if maxLon-minLon != 360 {
		t.Errorf("expected full longitude span at the pole, got %v", maxLon-minLon)
	}
}

func TestTileCover_WholeWorld(t *testing.T) {
	tiles := TileCover(-90, -180, 90, 180, 0, 2, 0)
	// 1 + 4 + 16
	if len(tiles) != 21 {
		t.Fatalf("expected 21 tiles, got %d", len(tiles))
	}
	if tiles[0].Z != 0 || tiles[0].X != 0 || tiles[0].Y != 0 {
		t.Errorf("expected first tile 0/0/0, got %v", tiles[0])
	}
}

func TestTileCover_SmallArea(t *testing.T) {
	// Lviv region at zoom 10 spans only a handful of tiles.
	tiles := TileCover(49.38, 23.33, 50.28, 24.72, 10, 10, 0)
	if len(tiles) == 0 || len(tiles) > 25 {
		t.Fatalf("unexpected tile count %d", len(tiles))
	}
	for _, tile := range tiles {
		if tile.Z != 10 {
			t.Errorf("expected zoom 10, got %d", tile.Z)
		}
	}
}

func TestTileCover_Limit(t *testing.T) {
	tiles := TileCover(-90, -180, 90, 180, 0, 5, 10)
	if len(tiles) != 10 {
		t.Errorf("expected limit of 10 tiles, got %d", len(tiles))
	}
}
