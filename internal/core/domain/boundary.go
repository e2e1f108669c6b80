package domain

// Boundary is a closed polygon drawn with a fixed stroke.
type Boundary struct {
	Name        string     `json:"name"`
	Vertices    []GeoPoint `json:"vertices"`
	StrokeColor string     `json:"stroke_color"`
	LineWidth   float64    `json:"line_width"`
}

// DefaultBoundary is the fixed four-point area drawn on every map.
func DefaultBoundary() Boundary {
	return Boundary{
		Name: "boundary",
		Vertices: []GeoPoint{
			{Lat: 49.913104, Lon: 23.461022},
			{Lat: 49.916990, Lon: 23.477445},
			{Lat: 49.909916, Lon: 23.481738},
			{Lat: 49.908124, Lon: 23.463992},
		},
		StrokeColor: "#FF0000",
		LineWidth:   5,
	}
}
