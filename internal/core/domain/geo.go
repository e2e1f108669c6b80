package domain

import (
	"fmt"
	"math"
)

// metersPerDegree is the length of one degree of latitude, used for region spans.
const metersPerDegree = 111320.0

// GeoPoint represents a geographic coordinate (WGS 84).
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Validate reports ErrInvalidCoordinate for out-of-range or NaN values.
func (p GeoPoint) Validate() error {
	if math.IsNaN(p.Lat) || math.IsNaN(p.Lon) ||
		p.Lat < -90 || p.Lat > 90 || p.Lon < -180 || p.Lon > 180 {
		return fmt.Errorf("%w: lat=%v lon=%v", ErrInvalidCoordinate, p.Lat, p.Lon)
	}
	return nil
}

// Bounds represents a geographic bounding box.
type Bounds struct {
	MinLat float64 `json:"min_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLat float64 `json:"max_lat"`
	MaxLon float64 `json:"max_lon"`
}

// Region is a viewport: a center plus the latitudinal and longitudinal span in degrees.
type Region struct {
	Center         GeoPoint `json:"center"`
	LatitudeDelta  float64  `json:"latitude_delta"`
	LongitudeDelta float64  `json:"longitude_delta"`
}

// RegionWithDistance builds a region centered on p spanning the given
// distances in meters north-south and east-west.
func RegionWithDistance(p GeoPoint, latMeters, lonMeters float64) Region {
	latDelta := latMeters / metersPerDegree
	cos := math.Cos(p.Lat * math.Pi / 180)
	lonDelta := 360.0
	if cos > 1e-9 {
		lonDelta = math.Min(lonMeters/(metersPerDegree*cos), 360)
	}
	return Region{Center: p, LatitudeDelta: math.Min(latDelta, 180), LongitudeDelta: lonDelta}
}

// Bounds returns the bounding box covered by the region, clamped to valid coordinates.
func (r Region) Bounds() Bounds {
	return Bounds{
		MinLat: math.Max(r.Center.Lat-r.LatitudeDelta/2, -90),
		MinLon: math.Max(r.Center.Lon-r.LongitudeDelta/2, -180),
		MaxLat: math.Min(r.Center.Lat+r.LatitudeDelta/2, 90),
		MaxLon: math.Min(r.Center.Lon+r.LongitudeDelta/2, 180),
	}
}
