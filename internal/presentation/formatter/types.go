package formatter

import (
	"fmt"
	"io"
	"os"

	"github.com/penwyp/go-crime-hexmap/internal/core/frame"
)

// Formatter writes one or more frames in a report format.
type Formatter interface {
	Format(frames []*frame.Frame) error
}

// CellRow is the flat view of one cell of a frame.
type CellRow struct {
	Period    int     `json:"period"`
	Month     string  `json:"month"`
	Cell      string  `json:"cell"`
	Count     int     `json:"count"`
	Color     string  `json:"color"`
	CenterLat float64 `json:"center_lat"`
	CenterLng float64 `json:"center_lng"`
}

// Rows flattens a frame in cell order.
func Rows(f *frame.Frame) []CellRow {
	rows := make([]CellRow, 0, f.Len())
	for i, cell := range f.Cells {
		row := CellRow{
			Period: int(f.Period),
			Month:  f.Period.String(),
			Cell:   cell,
			Count:  f.Counts[i],
			Color:  f.ColorAt(i),
		}
		if i < len(f.Rings) {
			ring := f.Rings[i]
			n := len(ring) - 1
			for _, v := range ring[:n] {
				row.CenterLat += v.Lat
				row.CenterLng += v.Lon
			}
			if n > 0 {
				row.CenterLat /= float64(n)
				row.CenterLng /= float64(n)
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// New returns the formatter registered under name.
func New(name string, w io.Writer) (Formatter, error) {
	switch name {
	case "table", "":
		return NewTableFormatter(w), nil
	case "json":
		return NewJSONFormatter(w), nil
	case "geojson":
		return NewGeoJSONFormatter(w), nil
	case "csv":
		return NewCSVFormatter(w), nil
	case "summary":
		return NewSummaryFormatter(w), nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", name)
	}
}

func writerOrStdout(w io.Writer) io.Writer {
	if w == nil {
		return os.Stdout
	}
	return w
}
