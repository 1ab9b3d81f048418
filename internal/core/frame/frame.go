package frame

import (
	"github.com/penwyp/go-crime-hexmap/internal/core/colorscale"
	"github.com/penwyp/go-crime-hexmap/internal/core/geometry"
	"github.com/penwyp/go-crime-hexmap/internal/core/model"
)

// Frame is the renderable snapshot of one period. Cells, Polygons, Counts
// and Rings are aligned by position and ordered by ascending cell key.
type Frame struct {
	Period   model.Period          `json:"period"`
	Cells    []string              `json:"cells"`
	Polygons []geometry.Ring       `json:"polygons"`
	Rings    []geometry.LonLatRing `json:"-"`
	Counts   []int                 `json:"counts"`
	Colors   colorscale.Mapping    `json:"colors"`
}

// Len returns the number of cells in the frame.
func (f *Frame) Len() int {
	return len(f.Cells)
}

// Total returns the number of events represented by the frame.
func (f *Frame) Total() int {
	total := 0
	for _, c := range f.Counts {
		total += c
	}
	return total
}

// Empty reports whether the period had no locatable events.
func (f *Frame) Empty() bool {
	return len(f.Cells) == 0
}

// ColorAt returns the fill color of cell i.
func (f *Frame) ColorAt(i int) string {
	return f.Colors.Color(f.Counts[i])
}

// Xs returns the x coordinate column of every polygon.
func (f *Frame) Xs() [][]float64 {
	out := make([][]float64, len(f.Polygons))
	for i, ring := range f.Polygons {
		xs := make([]float64, len(ring))
		for j, p := range ring {
			xs[j] = p.X
		}
		out[i] = xs
	}
	return out
}

// Ys returns the y coordinate column of every polygon.
func (f *Frame) Ys() [][]float64 {
	out := make([][]float64, len(f.Polygons))
	for i, ring := range f.Polygons {
		ys := make([]float64, len(ring))
		for j, p := range ring {
			ys[j] = p.Y
		}
		out[i] = ys
	}
	return out
}

// Bounds returns the planar extent of all polygons.
func (f *Frame) Bounds() geometry.Bounds {
	b := geometry.NewBounds()
	for _, ring := range f.Polygons {
		b = b.Extend(ring)
	}
	return b
}

// Locate returns the index of the cell containing the coordinate.
func (f *Frame) Locate(lat, lng float64) (int, bool) {
	for i, ring := range f.Rings {
		if geometry.Contains(ring, lat, lng) {
			return i, true
		}
	}
	return -1, false
}

// Top returns the indices of the n highest counts, ties broken by cell order.
func (f *Frame) Top(n int) []int {
	idx := make([]int, len(f.Counts))
	for i := range idx {
		idx[i] = i
	}
	// insertion sort keeps ties in cell order
	for i := 1; i < len(idx); i++ {
		for j := i; j > 0 && f.Counts[idx[j]] > f.Counts[idx[j-1]]; j-- {
			idx[j], idx[j-1] = idx[j-1], idx[j]
		}
	}
	if n < len(idx) {
		idx = idx[:n]
	}
	return idx
}
