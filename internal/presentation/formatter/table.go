package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/penwyp/go-crime-hexmap/internal/core/frame"
	"github.com/penwyp/go-crime-hexmap/internal/util"
)

type TableFormatter struct {
	w       io.Writer
	headers []string
}

func NewTableFormatter(w io.Writer) *TableFormatter {
	return &TableFormatter{
		w:       writerOrStdout(w),
		headers: []string{"Month", "Cell", "Count", "Color", "Center"},
	}
}

func (f *TableFormatter) Format(frames []*frame.Frame) error {
	var rows [][]string
	total := 0
	for _, fr := range frames {
		for _, row := range Rows(fr) {
			rows = append(rows, []string{
				row.Month,
				row.Cell,
				formatNumber(row.Count),
				row.Color,
				fmt.Sprintf("%.4f, %.4f", row.CenterLat, row.CenterLng),
			})
			total += row.Count
		}
	}
	totalRow := []string{"Total", fmt.Sprintf("%d cells", len(rows)), formatNumber(total), "", ""}

	widths := f.calculateColumnWidths(append(rows, totalRow))

	f.printBorder(widths, "top")
	f.printRow(f.headers, widths)
	f.printBorder(widths, "middle")
	for _, row := range rows {
		f.printRow(row, widths)
	}
	f.printBorder(widths, "middle")
	f.printRow(totalRow, widths)
	f.printBorder(widths, "bottom")

	return nil
}

// calculateColumnWidths determines optimal width for each column based on content
func (f *TableFormatter) calculateColumnWidths(rows [][]string) []int {
	widths := make([]int, len(f.headers))
	for i, header := range f.headers {
		widths[i] = util.GetDisplayWidth(header)
	}
	for _, row := range rows {
		for i, value := range row {
			if w := util.GetDisplayWidth(value); w > widths[i] {
				widths[i] = w
			}
		}
	}

	minWidths := []int{9, 15, 6, 7, 8}
	for i, minWidth := range minWidths {
		if widths[i] < minWidth {
			widths[i] = minWidth
		}
	}
	return widths
}

// printBorder prints table borders (top, middle, bottom)
func (f *TableFormatter) printBorder(widths []int, borderType string) {
	var left, middle, right string

	switch borderType {
	case "top":
		left, middle, right = "┌", "┬", "┐"
	case "middle":
		left, middle, right = "├", "┼", "┤"
	case "bottom":
		left, middle, right = "└", "┴", "┘"
	}

	var sb strings.Builder
	sb.WriteString(left)
	for i, width := range widths {
		sb.WriteString(strings.Repeat("─", width+2))
		if i < len(widths)-1 {
			sb.WriteString(middle)
		}
	}
	sb.WriteString(right)
	fmt.Fprintln(f.w, sb.String())
}

// printRow prints a row; the Count column is right-aligned
func (f *TableFormatter) printRow(values []string, widths []int) {
	var sb strings.Builder
	sb.WriteString("│")
	for i, value := range values {
		if i == 2 {
			sb.WriteString(" " + util.PadLeft(value, widths[i]) + " │")
		} else {
			sb.WriteString(" " + util.PadRight(value, widths[i]) + " │")
		}
	}
	fmt.Fprintln(f.w, sb.String())
}

func formatNumber(n int) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}

	var result []byte
	for i, digit := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			result = append(result, ',')
		}
		result = append(result, digit)
	}
	return string(result)
}
