package colorscale

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScale_Range(t *testing.T) {
	m := Scale([]int{2, 1}, DefaultPalette())

	assert.Equal(t, 1.0, m.Low)
	assert.Equal(t, 2.0, m.High)
	assert.False(t, m.Empty())
	assert.False(t, m.Degenerate())

	assert.Equal(t, 0, m.Index(1))
	assert.Equal(t, 3, m.Index(2))
	assert.Equal(t, "#6bb5c5", m.Color(1))
	assert.Equal(t, "#2179b2", m.Color(2))
}

func TestScale_SteppedBins(t *testing.T) {
	m := Scale([]int{0, 100}, []string{"a", "b", "c", "d"})

	tests := []struct {
		value int
		want  int
	}{
		{0, 0},
		{24, 0},
		{25, 1},
		{49, 1},
		{50, 2},
		{75, 3},
		{99, 3},
		{100, 3},
		{-10, 0},
		{500, 3},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, m.Index(tt.value), "value %d", tt.value)
	}
}

func TestScale_Monotonic(t *testing.T) {
	m := Scale([]int{3, 17, 42, 8}, DefaultPalette())
	prev := m.Index(3)
	for v := 3; v <= 42; v++ {
		idx := m.Index(v)
		assert.GreaterOrEqual(t, idx, prev)
		prev = idx
	}
}

func TestScale_Degenerate(t *testing.T) {
	m := Scale([]int{3, 3, 3}, DefaultPalette())

	assert.True(t, m.Degenerate())
	assert.Equal(t, 3.0, m.Low)
	assert.Equal(t, 3.0, m.High)
	assert.Equal(t, 3, m.Index(3))
	assert.Equal(t, "#2179b2", m.Color(3))
}

func TestScale_Empty(t *testing.T) {
	m := Scale(nil, DefaultPalette())

	assert.True(t, m.Empty())
	assert.Equal(t, 0.0, m.Low)
	assert.Equal(t, 0.0, m.High)
	assert.Equal(t, -1, m.Index(0))
	assert.Equal(t, "", m.Color(5))
}

func TestDefaultPalette_IsCopy(t *testing.T) {
	p := DefaultPalette()
	p[0] = "#000000"
	assert.Equal(t, "#6bb5c5", DefaultPalette()[0])
}

func TestBinRange(t *testing.T) {
	m := Scale([]int{0, 8}, DefaultPalette())
	lo, hi := m.BinRange(1)
	assert.Equal(t, 2.0, lo)
	assert.Equal(t, 4.0, hi)
}

func TestCountRange(t *testing.T) {
	type bin struct {
		lo, hi int
		ok     bool
	}
	tests := []struct {
		name     string
		counts   []int
		expected []bin
	}{
		{"narrow range", []int{1, 2}, []bin{{1, 1, true}, {}, {}, {2, 2, true}}},
		{"even split", []int{0, 7}, []bin{{0, 1, true}, {2, 3, true}, {4, 5, true}, {6, 7, true}}},
		{"uneven split", []int{1, 10}, []bin{{1, 3, true}, {4, 5, true}, {6, 7, true}, {8, 10, true}}},
		{"degenerate", []int{4, 4}, []bin{{}, {}, {}, {4, 4, true}}},
		{"empty", nil, []bin{{}, {}, {}, {}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Scale(tt.counts, DefaultPalette())
			for i, want := range tt.expected {
				lo, hi, ok := m.CountRange(i)
				assert.Equal(t, want, bin{lo, hi, ok}, "bin %d", i)
				for v := lo; ok && v <= hi; v++ {
					assert.Equal(t, i, m.Index(v), "count %d", v)
				}
			}
		})
	}
}

func TestParseHex(t *testing.T) {
	r, g, b, err := ParseHex("#2179b2")
	require.NoError(t, err)
	assert.Equal(t, []uint8{0x21, 0x79, 0xb2}, []uint8{r, g, b})

	r, g, b, err = ParseHex("fa0")
	require.NoError(t, err)
	assert.Equal(t, []uint8{0xff, 0xaa, 0x00}, []uint8{r, g, b})

	_, _, _, err = ParseHex("#12345")
	assert.Error(t, err)
	_, _, _, err = ParseHex("#zzzzzz")
	assert.Error(t, err)
}

func TestParsePalette(t *testing.T) {
	palette, err := ParsePalette("#6BB5C5, 3f86b1 ,,#489cc0")
	require.NoError(t, err)
	assert.Equal(t, []string{"#6bb5c5", "#3f86b1", "#489cc0"}, palette)

	_, err = ParsePalette(" , ")
	assert.Error(t, err)

	_, err = ParsePalette("#6bb5c5,nothex")
	assert.Error(t, err)
}
