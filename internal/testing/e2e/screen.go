package e2e

import (
	"fmt"
	"regexp"
	"strings"
)

var ansiEscape = regexp.MustCompile(`\x1b\[[0-9;?]*[a-zA-Z]`)

// StripANSI removes all ANSI escape codes from a string
func StripANSI(s string) string {
	return ansiEscape.ReplaceAllString(s, "")
}

// Screen is a virtual terminal that keeps the 24-bit background color of
// every character, so rendered maps can be checked cell by cell.
type Screen struct {
	rows, cols int
	text       [][]rune
	bg         [][]string

	cursorX, cursorY int
	currentBG        string
}

// NewScreen creates a blank screen
func NewScreen(rows, cols int) *Screen {
	s := &Screen{rows: rows, cols: cols}
	s.text = make([][]rune, rows)
	s.bg = make([][]string, rows)
	for y := range s.text {
		s.text[y] = make([]rune, cols)
		s.bg[y] = make([]string, cols)
	}
	s.clear()
	return s
}

// Parse feeds terminal output through a rows x cols screen.
func Parse(output string, rows, cols int) *Screen {
	s := NewScreen(rows, cols)
	s.Write(output)
	return s
}

// Write interprets output, applying cursor movement, clears and colors.
func (s *Screen) Write(output string) {
	runes := []rune(output)
	for i := 0; i < len(runes); {
		switch r := runes[i]; {
		case r == '\x1b' && i+1 < len(runes) && runes[i+1] == '[':
			i = s.escape(runes, i+2)
		case r == '\r':
			s.cursorX = 0
			i++
		case r == '\n':
			s.cursorY++
			if s.cursorY >= s.rows {
				s.scrollUp()
			}
			i++
		default:
			s.put(r)
			i++
		}
	}
}

func (s *Screen) escape(runes []rune, i int) int {
	var params []int
	current, private := 0, false
	for ; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == '?':
			private = true
		case r >= '0' && r <= '9':
			current = current*10 + int(r-'0')
		case r == ';':
			params = append(params, current)
			current = 0
		default:
			params = append(params, current)
			if !private {
				s.command(r, params)
			}
			return i + 1
		}
	}
	return i
}

func (s *Screen) command(cmd rune, params []int) {
	switch cmd {
	case 'H', 'f':
		row, col := 1, 1
		if len(params) > 0 && params[0] > 0 {
			row = params[0]
		}
		if len(params) > 1 && params[1] > 0 {
			col = params[1]
		}
		s.cursorY, s.cursorX = row-1, col-1
	case 'J':
		if params[0] == 2 || params[0] == 3 {
			s.clear()
		}
	case 'K':
		for x := s.cursorX; x < s.cols && s.cursorY < s.rows; x++ {
			s.text[s.cursorY][x] = ' '
			s.bg[s.cursorY][x] = ""
		}
	case 'm':
		s.sgr(params)
	}
}

// sgr tracks the background color; foreground attributes are ignored.
func (s *Screen) sgr(params []int) {
	for i := 0; i < len(params); i++ {
		switch params[i] {
		case 0, 49:
			s.currentBG = ""
		case 48:
			if i+4 < len(params) && params[i+1] == 2 {
				s.currentBG = fmt.Sprintf("#%02x%02x%02x", params[i+2], params[i+3], params[i+4])
				i += 4
			}
		}
	}
}

func (s *Screen) put(r rune) {
	if s.cursorY < 0 || s.cursorY >= s.rows || s.cursorX < 0 || s.cursorX >= s.cols {
		return
	}
	s.text[s.cursorY][s.cursorX] = r
	s.bg[s.cursorY][s.cursorX] = s.currentBG
	s.cursorX++
}

func (s *Screen) clear() {
	for y := range s.text {
		for x := range s.text[y] {
			s.text[y][x] = ' '
			s.bg[y][x] = ""
		}
	}
}

func (s *Screen) scrollUp() {
	copy(s.text, s.text[1:])
	copy(s.bg, s.bg[1:])
	s.text[s.rows-1] = []rune(strings.Repeat(" ", s.cols))
	s.bg[s.rows-1] = make([]string, s.cols)
	s.cursorY = s.rows - 1
}

// Line returns row y without trailing spaces
func (s *Screen) Line(y int) string {
	if y < 0 || y >= s.rows {
		return ""
	}
	return strings.TrimRight(string(s.text[y]), " ")
}

// Render returns all rows joined by newlines
func (s *Screen) Render() string {
	lines := make([]string, s.rows)
	for y := range lines {
		lines[y] = s.Line(y)
	}
	return strings.Join(lines, "\n")
}

// ContainsText checks if the screen contains specific text
func (s *Screen) ContainsText(text string) bool {
	return strings.Contains(s.Render(), text)
}

// Background returns the "#rrggbb" background at (x, y), or "" when unset.
func (s *Screen) Background(x, y int) string {
	if y < 0 || y >= s.rows || x < 0 || x >= s.cols {
		return ""
	}
	return s.bg[y][x]
}

// ColorCounts tallies painted characters per background color.
func (s *Screen) ColorCounts() map[string]int {
	counts := make(map[string]int)
	for y := range s.bg {
		for _, c := range s.bg[y] {
			if c != "" {
				counts[c]++
			}
		}
	}
	return counts
}
