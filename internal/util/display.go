package util

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Terminal control sequences
const (
	ColorReset   = "\033[0m"
	ColorCyan    = "\033[36m"
	ColorGreen   = "\033[32m"
	ColorYellow  = "\033[33m"
	ColorRed     = "\033[31m"
	ColorMagenta = "\033[35m"
	ColorBold    = "\033[1m"
	ColorDim     = "\033[2m"

	ClearScreen       = "\033[2J"     // Clear entire screen
	ClearScrollback   = "\033[3J"     // Clear scrollback buffer
	ClearLineToEnd    = "\033[0K"     // Clear from cursor to end of line
	MoveCursorHome    = "\033[H"      // Move cursor to home position
	HideCursor        = "\033[?25l"   // Hide cursor
	ShowCursor        = "\033[?25h"   // Show cursor
	EnterAltScreen    = "\033[?1049h" // Switch to alternate screen buffer
	ExitAltScreen     = "\033[?1049l" // Return to main screen buffer
	ResetScrollRegion = "\033[r"      // Reset scroll region
)

// GetDisplayWidth calculates the display width of a string
func GetDisplayWidth(text string) int {
	return runewidth.StringWidth(text)
}

// PadRight pads text with spaces to the given display width
func PadRight(text string, width int) string {
	return runewidth.FillRight(text, width)
}

// PadLeft right-aligns text within the given display width
func PadLeft(text string, width int) string {
	return runewidth.FillLeft(text, width)
}

// Truncate shortens text to width, appending an ellipsis when cut.
func Truncate(text string, width int) string {
	return runewidth.Truncate(text, width, "…")
}

// BackgroundRGB returns the 24-bit ANSI background sequence for a color.
func BackgroundRGB(r, g, b uint8) string {
	return fmt.Sprintf("\033[48;2;%d;%d;%dm", r, g, b)
}

// FormatHeaderTitle formats main header titles (Magenta + Bold)
func FormatHeaderTitle(title string) string {
	return ColorBold + ColorMagenta + title + ColorReset
}

// FormatStatus formats the playback status badge
func FormatStatus(paused bool) string {
	if paused {
		return ColorBold + ColorYellow + "PAUSED" + ColorReset
	}
	return ColorBold + ColorGreen + "PLAYING" + ColorReset
}

// FormatSectionSeparator creates a visual separator line
func FormatSectionSeparator(width int) string {
	if width < 1 {
		width = 1
	}
	return ColorCyan + strings.Repeat("─", width) + ColorReset
}

// FormatCount renders large counts compactly (1.2K, 3.4M)
func FormatCount(n int) string {
	switch {
	case n < 1000:
		return fmt.Sprintf("%d", n)
	case n < 1000000:
		return fmt.Sprintf("%.1fK", float64(n)/1000)
	default:
		return fmt.Sprintf("%.1fM", float64(n)/1000000)
	}
}
