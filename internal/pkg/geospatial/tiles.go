package geospatial

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/maptile"
)

// maxMercatorLat is the latitude limit of the web mercator tile grid.
const maxMercatorLat = 85.05112878

// TileCover lists the tiles intersecting the box for every zoom in
// [minZoom, maxZoom], lowest zoom first. At most limit tiles are returned
// when limit > 0.
func TileCover(minLat, minLon, maxLat, maxLon float64, minZoom, maxZoom uint32, limit int) []maptile.Tile {
	minLat = clamp(minLat, -maxMercatorLat, maxMercatorLat)
	maxLat = clamp(maxLat, -maxMercatorLat, maxMercatorLat)
	minLon = clamp(minLon, -180, 180)
	maxLon = clamp(maxLon, -180, 180)

	var tiles []maptile.Tile
	for z := minZoom; z <= maxZoom; z++ {
		zoom := maptile.Zoom(z)
		nw := maptile.At(orb.Point{minLon, maxLat}, zoom)
		se := maptile.At(orb.Point{maxLon, minLat}, zoom)
		last := uint32(1)<<z - 1
		for x := nw.X; x <= se.X && x <= last; x++ {
			for y := nw.Y; y <= se.Y && y <= last; y++ {
				if limit > 0 && len(tiles) >= limit {
					return tiles
				}
				tiles = append(tiles, maptile.New(x, y, zoom))
			}
		}
	}
	return tiles
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
