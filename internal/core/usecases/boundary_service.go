package usecases

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"

	"github.com/samirrijal/solarmap/internal/core/domain"
)

// BoundaryService renders the fixed boundary polygon.
type BoundaryService struct {
	boundary domain.Boundary
	polygon  orb.Polygon
}

// NewBoundaryService creates a BoundaryService for b.
func NewBoundaryService(b domain.Boundary) *BoundaryService {
	ring := make(orb.Ring, 0, len(b.Vertices)+1)
	for _, v := range b.Vertices {
		ring = append(ring, orb.Point{v.Lon, v.Lat})
	}
	if len(ring) > 0 && !ring.Closed() {
		ring = append(ring, ring[0])
	}
	return &BoundaryService{boundary: b, polygon: orb.Polygon{ring}}
}

// Boundary returns the polygon definition.
func (s *BoundaryService) Boundary() domain.Boundary {
	return s.boundary
}

// FeatureCollection returns the boundary as GeoJSON with simplestyle stroke properties.
func (s *BoundaryService) FeatureCollection() *geojson.FeatureCollection {
	f := geojson.NewFeature(s.polygon)
	f.Properties["name"] = s.boundary.Name
	f.Properties["stroke"] = s.boundary.StrokeColor
	f.Properties["stroke-width"] = s.boundary.LineWidth
	f.Properties["fill-opacity"] = 0

	fc := geojson.NewFeatureCollection()
	fc.Append(f)
	return fc
}

// Contains reports whether p lies inside the boundary.
func (s *BoundaryService) Contains(p domain.GeoPoint) (bool, error) {
	if err := p.Validate(); err != nil {
		return false, err
	}
	return planar.PolygonContains(s.polygon, orb.Point{p.Lon, p.Lat}), nil
}

// Bounds returns the bounding box of the boundary.
func (s *BoundaryService) Bounds() domain.Bounds {
	b := s.polygon.Bound()
	return domain.Bounds{MinLat: b.Min.Lat(), MinLon: b.Min.Lon(), MaxLat: b.Max.Lat(), MaxLon: b.Max.Lon()}
}
