package geospatial

import "math"

const metersPerDegree = 111320.0

// BoundingBox returns a bounding box around a point with the given radius in meters.
// Longitude span is capped at the full globe near the poles.
func BoundingBox(lat, lon, radiusMeters float64) (minLat, minLon, maxLat, maxLon float64) {
	latDelta := radiusMeters / metersPerDegree
	lonDelta := 180.0
	if cos := math.Cos(toRad(lat)); cos > 1e-9 {
		lonDelta = math.Min(radiusMeters/(metersPerDegree*cos), 180)
	}

	return lat - latDelta, lon - lonDelta, lat + latDelta, lon + lonDelta
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
