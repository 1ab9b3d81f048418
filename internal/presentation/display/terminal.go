package display

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/penwyp/go-crime-hexmap/internal/core/colorscale"
	"github.com/penwyp/go-crime-hexmap/internal/core/frame"
	"github.com/penwyp/go-crime-hexmap/internal/core/geometry"
	"github.com/penwyp/go-crime-hexmap/internal/core/model"
	"github.com/penwyp/go-crime-hexmap/internal/presentation/layout"
	"github.com/penwyp/go-crime-hexmap/internal/util"
)

// DisplayConfig holds display settings
type DisplayConfig struct {
	Title    string
	TopCells int

	// Width and Height override the detected terminal size when positive.
	Width  int
	Height int
}

type TerminalDisplay struct {
	config            *DisplayConfig
	out               io.Writer
	inAlternateScreen bool
	isFirstRender     bool
	lastShowHelp      bool

	// bounds only grows, so the map stays put while months change
	bounds geometry.Bounds
}

func NewTerminalDisplay(config *DisplayConfig) *TerminalDisplay {
	return NewTerminalDisplayWriter(config, os.Stdout)
}

// NewTerminalDisplayWriter renders to w instead of stdout.
func NewTerminalDisplayWriter(config *DisplayConfig, w io.Writer) *TerminalDisplay {
	if config == nil {
		config = &DisplayConfig{}
	}
	if config.Title == "" {
		config.Title = "Crime Hex Map"
	}
	if config.TopCells <= 0 {
		config.TopCells = 5
	}
	return &TerminalDisplay{
		config:        config,
		out:           w,
		isFirstRender: true,
		bounds:        geometry.NewBounds(),
	}
}

// EnterAlternateScreen switches to alternate screen buffer
func (td *TerminalDisplay) EnterAlternateScreen() {
	if !td.inAlternateScreen {
		fmt.Fprint(td.out, util.EnterAltScreen)
		fmt.Fprint(td.out, util.ClearScreen)
		fmt.Fprint(td.out, util.ClearScrollback)
		fmt.Fprint(td.out, util.ResetScrollRegion)
		fmt.Fprint(td.out, util.HideCursor)
		fmt.Fprint(td.out, util.MoveCursorHome)
		td.inAlternateScreen = true
		td.isFirstRender = true
	}
}

// ExitAlternateScreen returns to normal screen buffer
func (td *TerminalDisplay) ExitAlternateScreen() {
	if td.inAlternateScreen {
		fmt.Fprint(td.out, util.ClearScreen)
		fmt.Fprint(td.out, util.MoveCursorHome)
		fmt.Fprint(td.out, util.ShowCursor)
		fmt.Fprint(td.out, util.ExitAltScreen)
		td.inAlternateScreen = false
	}
}

// ClearScreen clears the alternate screen buffer
func (td *TerminalDisplay) ClearScreen() {
	if td.inAlternateScreen {
		fmt.Fprint(td.out, util.ClearScreen)
		fmt.Fprint(td.out, util.MoveCursorHome)
	}
}

// Render draws the frame with the given view state. A nil frame shows the
// loading screen.
func (td *TerminalDisplay) Render(f *frame.Frame, state model.ViewState) {
	if td.isFirstRender || state.ShowHelp != td.lastShowHelp {
		td.ClearScreen()
		td.isFirstRender = false
		td.lastShowHelp = state.ShowHelp
	} else {
		fmt.Fprint(td.out, util.MoveCursorHome)
	}

	width, height := td.size()
	var lines []string
	switch {
	case state.ShowHelp:
		lines = td.helpLines(width)
	case state.IsLoading || f == nil:
		lines = td.loadingLines(state.LoadingMessage)
	default:
		lines = td.Compose(f, state, width, height)
	}

	var sb strings.Builder
	for _, line := range lines {
		sb.WriteString(line)
		sb.WriteString(util.ClearLineToEnd)
		sb.WriteString("\r\n")
	}
	fmt.Fprint(td.out, sb.String())
}

func (td *TerminalDisplay) size() (int, int) {
	width, height := layout.TerminalSize()
	if td.config.Width > 0 {
		width = td.config.Width
	}
	if td.config.Height > 0 {
		height = td.config.Height
	}
	return width, height
}

// Compose builds the screen lines for a frame.
func (td *TerminalDisplay) Compose(f *frame.Frame, state model.ViewState, width, height int) []string {
	legend := td.legendLines(f.Colors)
	top := td.topCellLines(f)

	// header, two separators, footer, status message and one spare line
	reserved := 4 + len(legend) + len(top) + 2
	mapHeight := height - reserved
	if mapHeight < 4 {
		mapHeight = 4
	}

	lines := []string{
		td.headerLine(f, state, width),
		util.FormatSectionSeparator(width),
	}
	lines = append(lines, td.mapLines(f, width, mapHeight)...)
	lines = append(lines, util.FormatSectionSeparator(width))
	lines = append(lines, legend...)
	lines = append(lines, top...)
	if state.StatusMessage != "" {
		lines = append(lines, util.ColorYellow+state.StatusMessage+util.ColorReset)
	}
	lines = append(lines, util.ColorDim+"p pause  1-9 0 - = month  n/b next/prev  h help  q quit"+util.ColorReset)
	return lines
}

func (td *TerminalDisplay) headerLine(f *frame.Frame, state model.ViewState, width int) string {
	left := fmt.Sprintf("%s  %s  %s %d/12",
		util.FormatHeaderTitle(td.config.Title),
		util.ColorBold+util.PadRight(state.Period.String(), 9)+util.ColorReset,
		util.FormatStatus(state.Paused),
		int(state.Period))
	right := fmt.Sprintf("%s events  %d cells", util.FormatCount(f.Total()), f.Len())
	if state.Source != "" {
		right = util.Truncate(state.Source, 30) + "  " + right
	}

	gap := width - util.GetDisplayWidth(stripANSI(left)) - util.GetDisplayWidth(right)
	if gap < 2 {
		gap = 2
	}
	return left + strings.Repeat(" ", gap) + util.ColorDim + right + util.ColorReset
}

func (td *TerminalDisplay) mapLines(f *frame.Frame, width, height int) []string {
	for _, ring := range f.Polygons {
		td.bounds = td.bounds.Extend(ring)
	}

	lines := make([]string, height)
	if f.Empty() {
		msg := fmt.Sprintf("No events in %s", f.Period)
		pad := (width - len(msg)) / 2
		if pad < 0 {
			pad = 0
		}
		lines[height/2] = strings.Repeat(" ", pad) + util.ColorDim + msg + util.ColorReset
		return lines
	}

	grid := Rasterize(f.Polygons, NewViewport(td.bounds, width, height))
	swatches := make([]string, f.Len())
	for i := range swatches {
		swatches[i] = swatch(f.ColorAt(i))
	}

	for y, row := range grid.Cells {
		var sb strings.Builder
		current := -1
		for _, idx := range row {
			if idx != current {
				if idx < 0 {
					sb.WriteString(util.ColorReset)
				} else {
					sb.WriteString(swatches[idx])
				}
				current = idx
			}
			sb.WriteByte(' ')
		}
		sb.WriteString(util.ColorReset)
		lines[y] = sb.String()
	}
	return lines
}

func (td *TerminalDisplay) legendLines(m colorscale.Mapping) []string {
	if m.Empty() {
		return []string{util.ColorDim + "Legend: no data" + util.ColorReset}
	}

	var sb strings.Builder
	sb.WriteString("Legend: ")
	for i, color := range m.Palette {
		lo, hi, ok := m.CountRange(i)
		if !ok {
			continue
		}
		label := fmt.Sprintf("%d", lo)
		if hi > lo {
			label = fmt.Sprintf("%d-%d", lo, hi)
		}
		sb.WriteString(swatch(color) + "  " + util.ColorReset + " " + label + "  ")
	}
	return []string{sb.String()}
}

func (td *TerminalDisplay) topCellLines(f *frame.Frame) []string {
	if f.Empty() {
		return nil
	}
	lines := []string{util.ColorCyan + "Top cells" + util.ColorReset}
	for rank, i := range f.Top(td.config.TopCells) {
		lines = append(lines, fmt.Sprintf("  %d. %s %s %s",
			rank+1, swatch(f.ColorAt(i))+"  "+util.ColorReset, f.Cells[i], util.PadLeft(util.FormatCount(f.Counts[i]), 6)))
	}
	return lines
}

func (td *TerminalDisplay) helpLines(width int) []string {
	return []string{
		util.FormatHeaderTitle(td.config.Title + " - Help"),
		util.FormatSectionSeparator(width),
		"",
		"  p, space     pause or resume the animation",
		"  1-9          show January to September",
		"  0, -, =      show October, November, December",
		"  n, b         next or previous month",
		"  h, ESC       close this help",
		"  q, Ctrl+C    quit",
		"",
		"The map advances one month per tick while playing. Colors step",
		"linearly from the smallest to the largest cell count of the month.",
	}
}

func (td *TerminalDisplay) loadingLines(message string) []string {
	if message == "" {
		message = "Loading events..."
	}
	return []string{
		util.FormatHeaderTitle(td.config.Title),
		"",
		"  " + util.ColorYellow + message + util.ColorReset,
	}
}

func swatch(hex string) string {
	r, g, b, err := colorscale.ParseHex(hex)
	if err != nil {
		return util.ColorReset
	}
	return util.BackgroundRGB(r, g, b)
}

// stripANSI removes escape sequences for width calculation
func stripANSI(s string) string {
	var sb strings.Builder
	inEscape := false
	for _, r := range s {
		switch {
		case r == '\033':
			inEscape = true
		case inEscape:
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
				inEscape = false
			}
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
