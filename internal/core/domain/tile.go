package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// MaxZoom is the deepest zoom level the proxy serves.
const MaxZoom = 22

// TileCoord addresses one raster tile in the XYZ scheme.
type TileCoord struct {
	Z uint32 `json:"z"`
	X uint32 `json:"x"`
	Y uint32 `json:"y"`
}

// Validate checks the zoom range and that x and y fit the zoom level.
func (t TileCoord) Validate() error {
	if t.Z > MaxZoom {
		return fmt.Errorf("%w: zoom %d exceeds %d", ErrInvalidTile, t.Z, MaxZoom)
	}
	n := uint32(1) << t.Z
	if t.X >= n || t.Y >= n {
		return fmt.Errorf("%w: %d/%d/%d out of range", ErrInvalidTile, t.Z, t.X, t.Y)
	}
	return nil
}

func (t TileCoord) String() string {
	return fmt.Sprintf("%d/%d/%d", t.Z, t.X, t.Y)
}

var subdomains = []string{"a", "b", "c"}

// ExpandTemplate substitutes {z}, {x}, {y} and {s} in a tile URL template.
func ExpandTemplate(tpl string, t TileCoord) string {
	return strings.NewReplacer(
		"{z}", strconv.FormatUint(uint64(t.Z), 10),
		"{x}", strconv.FormatUint(uint64(t.X), 10),
		"{y}", strconv.FormatUint(uint64(t.Y), 10),
		"{s}", subdomains[(t.X+t.Y)%uint32(len(subdomains))],
	).Replace(tpl)
}

// Tile is a fetched raster tile.
type Tile struct {
	Coord       TileCoord `json:"coord"`
	ContentType string    `json:"content_type"`
	Data        []byte    `json:"data"`
}

// WarmRequest asks for every tile of an option covering bounds between two zoom levels.
type WarmRequest struct {
	Option  MapOption `json:"option"`
	Bounds  Bounds    `json:"bounds"`
	MinZoom uint32    `json:"min_zoom"`
	MaxZoom uint32    `json:"max_zoom"`
}
