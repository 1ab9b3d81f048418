package colorscale

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/penwyp/go-crime-hexmap/internal/core/constants"
)

// DefaultPalette returns a copy of the built-in four-step blue palette.
func DefaultPalette() []string {
	return append([]string(nil), constants.DefaultPalette...)
}

// Mapping is a stepped linear scale from counts to palette entries.
type Mapping struct {
	Palette []string `json:"palette"`
	Low     float64  `json:"low"`
	High    float64  `json:"high"`

	empty bool
}

// Scale builds a mapping whose range spans the smallest and largest count.
// With no counts the mapping is empty and Low = High = 0.
func Scale(counts []int, palette []string) Mapping {
	m := Mapping{Palette: palette}
	if len(counts) == 0 {
		m.empty = true
		return m
	}

	low, high := counts[0], counts[0]
	for _, c := range counts[1:] {
		if c < low {
			low = c
		}
		if c > high {
			high = c
		}
	}
	m.Low = float64(low)
	m.High = float64(high)
	return m
}

// Empty reports whether the mapping was built from no counts.
func (m Mapping) Empty() bool {
	return m.empty || len(m.Palette) == 0
}

// Degenerate reports whether every count maps to a single bin.
func (m Mapping) Degenerate() bool {
	return !m.Empty() && m.Low == m.High
}

// Index returns the palette bin of value, or -1 for an empty mapping.
// When Low == High every value lands in the last bin.
func (m Mapping) Index(value int) int {
	if m.Empty() {
		return -1
	}
	n := len(m.Palette)
	if m.Low == m.High {
		return n - 1
	}

	idx := int(math.Floor((float64(value) - m.Low) * float64(n) / (m.High - m.Low)))
	if idx < 0 {
		return 0
	}
	if idx > n-1 {
		return n - 1
	}
	return idx
}

// Color returns the palette entry for value, or "" for an empty mapping.
func (m Mapping) Color(value int) string {
	idx := m.Index(value)
	if idx < 0 {
		return ""
	}
	return m.Palette[idx]
}

// BinRange returns the count interval [lo, hi) covered by palette bin i.
func (m Mapping) BinRange(i int) (float64, float64) {
	n := float64(len(m.Palette))
	step := (m.High - m.Low) / n
	return m.Low + float64(i)*step, m.Low + float64(i+1)*step
}

// CountRange returns the whole counts in [Low, High] that land in palette bin
// i. ok is false when no whole count does.
func (m Mapping) CountRange(i int) (lo, hi int, ok bool) {
	n := len(m.Palette)
	if m.Empty() || i < 0 || i >= n {
		return 0, 0, false
	}
	if m.Degenerate() {
		if i != n-1 {
			return 0, 0, false
		}
		return int(m.High), int(m.High), true
	}

	lo = m.firstCount(i)
	hi = int(m.High)
	if i < n-1 {
		hi = m.firstCount(i+1) - 1
	}
	if lo > hi {
		return 0, 0, false
	}
	return lo, hi, true
}

// firstCount is the smallest whole count with Index >= i.
func (m Mapping) firstCount(i int) int {
	low, high := int(m.Low), int(m.High)
	if i == 0 {
		return low
	}
	start, _ := m.BinRange(i)
	v := int(math.Ceil(start))
	for v > low && m.Index(v-1) >= i {
		v--
	}
	for v <= high && m.Index(v) < i {
		v++
	}
	return v
}

// ParseHex decodes a #rrggbb or #rgb color.
func ParseHex(color string) (r, g, b uint8, err error) {
	s := strings.TrimPrefix(strings.TrimSpace(color), "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return 0, 0, 0, fmt.Errorf("invalid color %q: expected #rrggbb", color)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid color %q: %w", color, err)
	}
	return uint8(v >> 16), uint8(v >> 8), uint8(v), nil
}

// ParsePalette splits a comma separated palette and validates each color.
func ParsePalette(s string) ([]string, error) {
	var palette []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if _, _, _, err := ParseHex(part); err != nil {
			return nil, err
		}
		if !strings.HasPrefix(part, "#") {
			part = "#" + part
		}
		palette = append(palette, strings.ToLower(part))
	}
	if len(palette) == 0 {
		return nil, fmt.Errorf("palette must contain at least one color")
	}
	return palette, nil
}
