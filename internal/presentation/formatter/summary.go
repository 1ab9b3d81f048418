package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/penwyp/go-crime-hexmap/internal/core/frame"
	"github.com/penwyp/go-crime-hexmap/internal/util"
)

// SummaryFormatter prints one line per month plus overall totals.
type SummaryFormatter struct {
	w io.Writer
}

// NewSummaryFormatter creates a new instance of SummaryFormatter.
func NewSummaryFormatter(w io.Writer) *SummaryFormatter {
	return &SummaryFormatter{w: writerOrStdout(w)}
}

// Format outputs per-month totals, cell counts and the busiest cell.
func (f *SummaryFormatter) Format(frames []*frame.Frame) error {
	fmt.Fprintln(f.w, strings.Repeat("=", 60))
	fmt.Fprintln(f.w, "Crime Hex Map Summary Report")
	fmt.Fprintln(f.w, strings.Repeat("=", 60))
	fmt.Fprintln(f.w)

	total, busiestCount := 0, 0
	busiestCell, busiestMonth := "", ""

	for _, fr := range frames {
		total += fr.Total()
		if fr.Empty() {
			fmt.Fprintf(f.w, "%s %s\n", util.PadRight(fr.Period.String(), 10), "no events")
			continue
		}

		top := fr.Top(1)[0]
		fmt.Fprintf(f.w, "%s %8s events  %5d cells  range %g-%g  busiest %s (%d)\n",
			util.PadRight(fr.Period.String(), 10),
			formatNumber(fr.Total()),
			fr.Len(),
			fr.Colors.Low, fr.Colors.High,
			fr.Cells[top], fr.Counts[top])

		if fr.Counts[top] > busiestCount {
			busiestCount = fr.Counts[top]
			busiestCell = fr.Cells[top]
			busiestMonth = fr.Period.String()
		}
	}

	fmt.Fprintln(f.w)
	fmt.Fprintln(f.w, strings.Repeat("-", 60))
	fmt.Fprintf(f.w, "Total events: %s\n", formatNumber(total))
	if busiestCell != "" {
		fmt.Fprintf(f.w, "Busiest cell: %s in %s (%d events)\n", busiestCell, busiestMonth, busiestCount)
	}
	return nil
}
