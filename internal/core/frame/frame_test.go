package frame

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/penwyp/go-crime-hexmap/internal/core/binning"
	"github.com/penwyp/go-crime-hexmap/internal/core/colorscale"
	"github.com/penwyp/go-crime-hexmap/internal/core/geometry"
	"github.com/penwyp/go-crime-hexmap/internal/core/model"
)

func newAssembler(t *testing.T) *Assembler {
	t.Helper()
	binner, err := binning.NewBinner(8, time.UTC)
	require.NoError(t, err)
	return NewAssembler(binner, geometry.NewBuilder(), colorscale.DefaultPalette())
}

func at(month time.Month, day int) time.Time {
	return time.Date(2023, month, day, 10, 0, 0, 0, time.UTC)
}

func sampleEvents() []model.Event {
	return []model.Event{
		model.NewEvent(at(time.May, 1), 51.5074, -0.1278),
		model.NewEvent(at(time.May, 2), 51.5074, -0.1278),
		model.NewEvent(at(time.May, 3), 51.5300, -0.0500),
		model.NewEvent(at(time.June, 1), 53.4808, -2.2426),
		{Timestamp: at(time.May, 4)},
	}
}

func TestAssemble_TwoCells(t *testing.T) {
	f, err := newAssembler(t).Assemble(sampleEvents(), 5)
	require.NoError(t, err)

	assert.Equal(t, model.Period(5), f.Period)
	require.Equal(t, 2, f.Len())
	assert.Len(t, f.Polygons, 2)
	assert.Len(t, f.Counts, 2)
	assert.Equal(t, 3, f.Total())
	assert.Less(t, f.Cells[0], f.Cells[1])

	assert.Equal(t, 1.0, f.Colors.Low)
	assert.Equal(t, 2.0, f.Colors.High)

	for i, count := range f.Counts {
		switch count {
		case 2:
			assert.Equal(t, "#2179b2", f.ColorAt(i))
		case 1:
			assert.Equal(t, "#6bb5c5", f.ColorAt(i))
		default:
			t.Fatalf("unexpected count %d", count)
		}
	}
}

func TestAssemble_Idempotent(t *testing.T) {
	a := newAssembler(t)
	events := sampleEvents()

	first, err := a.Assemble(events, 5)
	require.NoError(t, err)
	second, err := a.Assemble(events, 5)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestAssemble_ConcurrentCallsShareAssembler(t *testing.T) {
	a := newAssembler(t)
	want, err := a.Assemble(sampleEvents(), 5)
	require.NoError(t, err)

	const workers = 8
	frames := make([]*Frame, workers)
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			frames[i], errs[i] = a.Assemble(sampleEvents(), 5)
		}(i)
	}
	wg.Wait()

	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, want, frames[i])
	}
}

func TestAssemble_EmptyPeriod(t *testing.T) {
	f, err := newAssembler(t).Assemble(sampleEvents(), 2)
	require.NoError(t, err)

	assert.True(t, f.Empty())
	assert.Equal(t, 0, f.Total())
	assert.True(t, f.Colors.Empty())
	assert.Equal(t, 0.0, f.Colors.Low)
	assert.Equal(t, 0.0, f.Colors.High)
	assert.Empty(t, f.Xs())
}

func TestAssemble_DegenerateRange(t *testing.T) {
	events := []model.Event{
		model.NewEvent(at(time.March, 1), 51.5074, -0.1278),
		model.NewEvent(at(time.March, 2), 51.5074, -0.1278),
		model.NewEvent(at(time.March, 3), 51.5074, -0.1278),
	}

	f, err := newAssembler(t).Assemble(events, 3)
	require.NoError(t, err)

	require.Equal(t, 1, f.Len())
	assert.Equal(t, 3, f.Counts[0])
	assert.True(t, f.Colors.Degenerate())
	assert.Equal(t, "#2179b2", f.ColorAt(0))
}

func TestAssemble_RejectsOutOfRangePeriod(t *testing.T) {
	_, err := newAssembler(t).Assemble(sampleEvents(), 13)
	assert.ErrorIs(t, err, model.ErrOutOfRangePeriod)
}

func TestAssemble_DefaultPalette(t *testing.T) {
	binner, err := binning.NewBinner(8, nil)
	require.NoError(t, err)

	a := NewAssembler(binner, nil, nil)
	assert.Equal(t, colorscale.DefaultPalette(), a.Palette())
}

func TestFrame_Columns(t *testing.T) {
	f, err := newAssembler(t).Assemble(sampleEvents(), 5)
	require.NoError(t, err)

	xs, ys := f.Xs(), f.Ys()
	require.Len(t, xs, f.Len())
	require.Len(t, ys, f.Len())
	for i, ring := range f.Polygons {
		require.Len(t, xs[i], len(ring))
		assert.Equal(t, ring[0].X, xs[i][0])
		assert.Equal(t, ring[0].Y, ys[i][0])
	}

	b := f.Bounds()
	assert.False(t, b.Empty())
	assert.Greater(t, b.Width(), 0.0)
}

func TestFrame_Locate(t *testing.T) {
	f, err := newAssembler(t).Assemble(sampleEvents(), 5)
	require.NoError(t, err)

	i, ok := f.Locate(51.5074, -0.1278)
	require.True(t, ok)
	assert.Equal(t, 2, f.Counts[i])

	_, ok = f.Locate(40.7128, -74.0060)
	assert.False(t, ok)
}

func TestFrame_Top(t *testing.T) {
	f := &Frame{Counts: []int{1, 5, 3, 5}}

	assert.Equal(t, []int{1, 3, 2}, f.Top(3))
	assert.Equal(t, []int{1, 3, 2, 0}, f.Top(10))
}
