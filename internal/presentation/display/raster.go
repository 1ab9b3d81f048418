package display

import (
	"math"
	"sort"

	"github.com/penwyp/go-crime-hexmap/internal/core/geometry"
)

// charAspect is the height of a terminal character cell relative to its width.
const charAspect = 2.0

// Grid is a character raster of a frame. Each entry holds the index of the
// frame cell covering that character, or -1.
type Grid struct {
	Width  int
	Height int
	Cells  [][]int
}

// Viewport maps planar coordinates onto a character grid.
type Viewport struct {
	Bounds geometry.Bounds
	Width  int
	Height int

	scale   float64
	offsetX float64
	offsetY float64
}

// NewViewport fits bounds into width x height characters, keeping the
// aspect ratio and centring the content.
func NewViewport(bounds geometry.Bounds, width, height int) Viewport {
	v := Viewport{Bounds: bounds, Width: width, Height: height}
	if bounds.Empty() || width <= 0 || height <= 0 {
		return v
	}

	// meters per character column
	sx := bounds.Width() / float64(width)
	sy := bounds.Height() / (float64(height) * charAspect)
	v.scale = math.Max(sx, sy)
	if v.scale == 0 {
		v.scale = 1
	}

	usedW := bounds.Width() / v.scale
	usedH := bounds.Height() / (v.scale * charAspect)
	v.offsetX = (float64(width) - usedW) / 2
	v.offsetY = (float64(height) - usedH) / 2
	return v
}

// ToGrid converts a planar point to fractional grid coordinates, with row 0
// at the top.
func (v Viewport) ToGrid(p geometry.Point) (x, y float64) {
	if v.scale == 0 {
		return 0, 0
	}
	x = (p.X-v.Bounds.MinX)/v.scale + v.offsetX
	y = (v.Bounds.MaxY-p.Y)/(v.scale*charAspect) + v.offsetY
	return x, y
}

// Rasterize fills every polygon into a grid. Later polygons overwrite
// earlier ones where they share a character.
func Rasterize(polygons []geometry.Ring, v Viewport) *Grid {
	g := &Grid{Width: v.Width, Height: v.Height, Cells: make([][]int, v.Height)}
	for y := range g.Cells {
		row := make([]int, v.Width)
		for x := range row {
			row[x] = -1
		}
		g.Cells[y] = row
	}
	if v.scale == 0 {
		return g
	}

	type point struct{ x, y float64 }
	for idx, ring := range polygons {
		if len(ring) < 3 {
			continue
		}
		pts := make([]point, len(ring))
		minY, maxY := math.Inf(1), math.Inf(-1)
		minX, maxX := math.Inf(1), math.Inf(-1)
		for i, p := range ring {
			x, y := v.ToGrid(p)
			pts[i] = point{x, y}
			minY = math.Min(minY, y)
			maxY = math.Max(maxY, y)
			minX = math.Min(minX, x)
			maxX = math.Max(maxX, x)
		}

		filled := false
		for y := int(math.Floor(minY)); y <= int(math.Ceil(maxY)); y++ {
			if y < 0 || y >= v.Height {
				continue
			}
			fy := float64(y) + 0.5
			var nodes []float64
			for i := 0; i < len(pts); i++ {
				j := (i + 1) % len(pts)
				if (pts[i].y < fy && pts[j].y >= fy) || (pts[j].y < fy && pts[i].y >= fy) {
					nodes = append(nodes, pts[i].x+(fy-pts[i].y)/(pts[j].y-pts[i].y)*(pts[j].x-pts[i].x))
				}
			}
			sort.Float64s(nodes)
			for i := 0; i+1 < len(nodes); i += 2 {
				xs := int(math.Ceil(nodes[i] - 0.5))
				xe := int(math.Ceil(nodes[i+1] - 0.5))
				for x := xs; x < xe; x++ {
					if x < 0 || x >= v.Width {
						continue
					}
					g.Cells[y][x] = idx
					filled = true
				}
			}
		}

		// polygons smaller than a character still get one
		if !filled {
			cx := int(math.Floor((minX + maxX) / 2))
			cy := int(math.Floor((minY + maxY) / 2))
			if cx >= 0 && cx < v.Width && cy >= 0 && cy < v.Height {
				g.Cells[cy][cx] = idx
			}
		}
	}
	return g
}
