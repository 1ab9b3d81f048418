package layout

import (
	"os"

	"github.com/penwyp/go-crime-hexmap/internal/util"
	"golang.org/x/term"
)

const (
	DefaultWidth  = 80
	DefaultHeight = 24
	MinWidth      = 40
	MinHeight     = 16
)

// sizeFunc is replaced in tests
var sizeFunc = func() (int, int, error) {
	return term.GetSize(int(os.Stdout.Fd()))
}

// TerminalSize returns the usable terminal width and height, falling back to
// 80x24 when stdout is not a terminal.
func TerminalSize() (int, int) {
	width, height, err := sizeFunc()
	if err != nil || width <= 0 || height <= 0 {
		return DefaultWidth, DefaultHeight
	}
	return Clamp(width, height)
}

// Clamp enforces the minimum layout size.
func Clamp(width, height int) (int, int) {
	if width < MinWidth {
		width = MinWidth
	}
	if height < MinHeight {
		height = MinHeight
	}
	util.LogDebugf("Terminal size %dx%d", width, height)
	return width, height
}
