package geometry

import (
	"math"

	"github.com/penwyp/go-crime-hexmap/internal/core/constants"
)

// Point is a planar Web Mercator coordinate in meters.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// LonLat is a geographic coordinate in degrees.
type LonLat struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// Ring is a closed planar polygon; the last vertex repeats the first.
type Ring []Point

// LonLatRing is a closed geographic polygon.
type LonLatRing []LonLat

// Project maps a geographic coordinate to Web Mercator (EPSG:3857).
// Latitudes beyond MaxMercatorLatitude project to very large or infinite y.
func Project(ll LonLat) Point {
	lonRad := ll.Lon * math.Pi / 180
	latRad := ll.Lat * math.Pi / 180
	return Point{
		X: constants.EarthRadiusMeters * lonRad,
		Y: constants.EarthRadiusMeters * math.Log(math.Tan(math.Pi/4+latRad/2)),
	}
}

// Unproject is the inverse of Project.
func Unproject(p Point) LonLat {
	lonRad := p.X / constants.EarthRadiusMeters
	latRad := 2*math.Atan(math.Exp(p.Y/constants.EarthRadiusMeters)) - math.Pi/2
	return LonLat{
		Lon: lonRad * 180 / math.Pi,
		Lat: latRad * 180 / math.Pi,
	}
}

// Reproject projects every vertex of ring.
func Reproject(ring LonLatRing) Ring {
	out := make(Ring, len(ring))
	for i, ll := range ring {
		out[i] = Project(ll)
	}
	return out
}

// Bounds is an axis-aligned planar rectangle.
type Bounds struct {
	MinX, MinY, MaxX, MaxY float64
}

// Empty reports whether no point has been added.
func (b Bounds) Empty() bool {
	return b.MinX > b.MaxX || b.MinY > b.MaxY
}

// Width returns the horizontal extent.
func (b Bounds) Width() float64 { return b.MaxX - b.MinX }

// Height returns the vertical extent.
func (b Bounds) Height() float64 { return b.MaxY - b.MinY }

// NewBounds returns an empty rectangle ready for Extend.
func NewBounds() Bounds {
	return Bounds{
		MinX: math.Inf(1), MinY: math.Inf(1),
		MaxX: math.Inf(-1), MaxY: math.Inf(-1),
	}
}

// Extend grows b to cover every vertex of ring.
func (b Bounds) Extend(ring Ring) Bounds {
	for _, p := range ring {
		b.MinX = math.Min(b.MinX, p.X)
		b.MinY = math.Min(b.MinY, p.Y)
		b.MaxX = math.Max(b.MaxX, p.X)
		b.MaxY = math.Max(b.MaxY, p.Y)
	}
	return b
}
