package geometry

import (
	"fmt"

	"github.com/golang/geo/s2"
	"github.com/uber/h3-go/v4"
)

// Boundary returns the closed, counter-clockwise vertex ring of cell in
// geographic coordinates.
func Boundary(cell h3.Cell) (LonLatRing, error) {
	if !cell.IsValid() {
		return nil, fmt.Errorf("invalid cell %s", cell)
	}
	boundary, err := cell.Boundary()
	if err != nil {
		return nil, fmt.Errorf("failed to get boundary of cell %s: %w", cell, err)
	}
	if len(boundary) < 3 {
		return nil, fmt.Errorf("degenerate boundary for cell %s: %d vertices", cell, len(boundary))
	}

	ring := make(LonLatRing, 0, len(boundary)+1)
	for _, v := range boundary {
		ring = append(ring, LonLat{Lon: v.Lng, Lat: v.Lat})
	}
	ring = append(ring, ring[0])
	return ring, nil
}

// Contains reports whether the coordinate lies inside ring on the sphere.
func Contains(ring LonLatRing, lat, lng float64) bool {
	if len(ring) < 4 {
		return false
	}
	points := make([]s2.Point, 0, len(ring)-1)
	for _, ll := range ring[:len(ring)-1] {
		points = append(points, s2.PointFromLatLng(s2.LatLngFromDegrees(ll.Lat, ll.Lon)))
	}
	loop := s2.LoopFromPoints(points)
	loop.Normalize()
	return loop.ContainsPoint(s2.PointFromLatLng(s2.LatLngFromDegrees(lat, lng)))
}

// Builder produces projected cell polygons.
type Builder struct{}

// NewBuilder creates a polygon builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Build returns the geographic ring of cell and its Web Mercator projection.
func (b *Builder) Build(cell h3.Cell) (LonLatRing, Ring, error) {
	ring, err := Boundary(cell)
	if err != nil {
		return nil, nil, err
	}
	return ring, Reproject(ring), nil
}

// Polygon returns the Web Mercator polygon of cell.
func (b *Builder) Polygon(cell h3.Cell) (Ring, error) {
	_, polygon, err := b.Build(cell)
	return polygon, err
}
