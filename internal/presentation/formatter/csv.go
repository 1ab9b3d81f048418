package formatter

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/penwyp/go-crime-hexmap/internal/core/frame"
)

type CSVFormatter struct {
	w io.Writer
}

func NewCSVFormatter(w io.Writer) *CSVFormatter {
	return &CSVFormatter{w: writerOrStdout(w)}
}

func (f *CSVFormatter) Format(frames []*frame.Frame) error {
	w := csv.NewWriter(f.w)
	defer w.Flush()

	headers := []string{"Period", "Month", "Cell", "Count", "Color", "Center Lat", "Center Lng"}
	if err := w.Write(headers); err != nil {
		return err
	}

	for _, fr := range frames {
		for _, row := range Rows(fr) {
			record := []string{
				fmt.Sprintf("%d", row.Period),
				row.Month,
				row.Cell,
				fmt.Sprintf("%d", row.Count),
				row.Color,
				fmt.Sprintf("%.6f", row.CenterLat),
				fmt.Sprintf("%.6f", row.CenterLng),
			}
			if err := w.Write(record); err != nil {
				return err
			}
		}
	}

	w.Flush()
	return w.Error()
}
