package frame

import (
	"fmt"

	"github.com/penwyp/go-crime-hexmap/internal/core/binning"
	"github.com/penwyp/go-crime-hexmap/internal/core/colorscale"
	"github.com/penwyp/go-crime-hexmap/internal/core/geometry"
	"github.com/penwyp/go-crime-hexmap/internal/core/model"
	"github.com/penwyp/go-crime-hexmap/internal/util"
)

// Assembler turns raw events into frames.
type Assembler struct {
	binner  *binning.Binner
	builder *geometry.Builder
	palette []string
}

// NewAssembler wires a binner and polygon builder with a palette. An empty
// palette falls back to the default.
func NewAssembler(binner *binning.Binner, builder *geometry.Builder, palette []string) *Assembler {
	if len(palette) == 0 {
		palette = colorscale.DefaultPalette()
	}
	if builder == nil {
		builder = geometry.NewBuilder()
	}
	return &Assembler{binner: binner, builder: builder, palette: palette}
}

// Palette returns the palette used for new frames.
func (a *Assembler) Palette() []string {
	return a.palette
}

// Assemble builds the frame for period. Identical input yields an identical
// frame. A period with no locatable events gives an empty frame.
func (a *Assembler) Assemble(events []model.Event, period model.Period) (*Frame, error) {
	if err := model.ValidatePeriod(period); err != nil {
		return nil, err
	}

	counts, excluded := a.binner.Bin(events, period)
	if excluded > 0 {
		util.LogDebugf("Excluded %d events without a usable coordinate for %s", excluded, period)
	}

	cells := binning.SortedCells(counts)
	f := &Frame{
		Period:   period,
		Cells:    make([]string, 0, len(cells)),
		Polygons: make([]geometry.Ring, 0, len(cells)),
		Rings:    make([]geometry.LonLatRing, 0, len(cells)),
		Counts:   make([]int, 0, len(cells)),
	}

	for _, cell := range cells {
		ring, polygon, err := a.builder.Build(cell)
		if err != nil {
			return nil, fmt.Errorf("failed to build frame for %s: %w", period, err)
		}
		f.Cells = append(f.Cells, cell.String())
		f.Rings = append(f.Rings, ring)
		f.Polygons = append(f.Polygons, polygon)
		f.Counts = append(f.Counts, counts[cell])
	}

	f.Colors = colorscale.Scale(f.Counts, a.palette)
	util.LogDebugf("Assembled frame for %s: %d cells, %d events", period, f.Len(), f.Total())
	return f, nil
}
