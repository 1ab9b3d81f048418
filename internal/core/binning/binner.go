package binning

import (
	"fmt"
	"sort"
	"time"

	"github.com/uber/h3-go/v4"

	"github.com/penwyp/go-crime-hexmap/internal/core/constants"
	"github.com/penwyp/go-crime-hexmap/internal/core/model"
)

// Cell is an H3 cell index.
type Cell = h3.Cell

// Binner assigns events to hexagonal cells at a fixed resolution and counts
// them per cell for one period.
type Binner struct {
	resolution int
	location   *time.Location
}

// NewBinner creates a binner for the given H3 resolution. Event months are
// evaluated in loc; a nil loc means UTC.
func NewBinner(resolution int, loc *time.Location) (*Binner, error) {
	if resolution < constants.MinResolution || resolution > constants.MaxResolution {
		return nil, fmt.Errorf("invalid resolution %d: must be between %d and %d",
			resolution, constants.MinResolution, constants.MaxResolution)
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Binner{resolution: resolution, location: loc}, nil
}

// Resolution returns the binner's H3 resolution.
func (b *Binner) Resolution() int {
	return b.resolution
}

// Location returns the timezone used to derive event months.
func (b *Binner) Location() *time.Location {
	return b.location
}

// CellOf returns the cell containing the coordinate.
func (b *Binner) CellOf(lat, lng float64) (Cell, error) {
	if !model.ValidCoordinate(lat, lng) {
		return 0, fmt.Errorf("invalid coordinate (%f, %f)", lat, lng)
	}
	cell, err := h3.LatLngToCell(h3.NewLatLng(lat, lng), b.resolution)
	if err != nil {
		return 0, fmt.Errorf("failed to index coordinate (%f, %f): %w", lat, lng, err)
	}
	return cell, nil
}

// Bin counts the events of period per cell. Events with an unusable
// coordinate are left out and reported in excluded; no cell appears with a
// zero count.
func (b *Binner) Bin(events []model.Event, period model.Period) (counts map[Cell]int, excluded int) {
	counts = make(map[Cell]int)

	for _, event := range events {
		if model.PeriodOf(event.Timestamp, b.location) != period {
			continue
		}
		if !event.HasValidCoordinate() {
			excluded++
			continue
		}
		cell, err := b.CellOf(event.Latitude, event.Longitude)
		if err != nil {
			excluded++
			continue
		}
		counts[cell]++
	}

	return counts, excluded
}

// SortedCells returns the keys of counts in ascending index order.
func SortedCells(counts map[Cell]int) []Cell {
	cells := make([]Cell, 0, len(counts))
	for cell := range counts {
		cells = append(cells, cell)
	}
	sort.Slice(cells, func(i, j int) bool { return cells[i] < cells[j] })
	return cells
}
