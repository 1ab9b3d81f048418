package player

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/penwyp/go-crime-hexmap/internal/core/binning"
	"github.com/penwyp/go-crime-hexmap/internal/core/frame"
	"github.com/penwyp/go-crime-hexmap/internal/core/geometry"
	"github.com/penwyp/go-crime-hexmap/internal/core/model"
)

// stubBuilder returns an empty frame per period and can be told to fail.
type stubBuilder struct {
	mu    sync.Mutex
	calls []model.Period
	fail  map[model.Period]bool
}

func (s *stubBuilder) Assemble(_ []model.Event, period model.Period) (*frame.Frame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, period)
	if s.fail[period] {
		return nil, errors.New("boom")
	}
	return &frame.Frame{Period: period}, nil
}

func (s *stubBuilder) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func newStubEngine(fail ...model.Period) (*Engine, *stubBuilder) {
	b := &stubBuilder{fail: map[model.Period]bool{}}
	for _, p := range fail {
		b.fail[p] = true
	}
	return NewEngine(nil, b, nil, nil), b
}

func TestEngine_RefreshShowsCurrentPeriod(t *testing.T) {
	e, _ := newStubEngine()

	require.NoError(t, e.Refresh())
	require.NotNil(t, e.Frame())
	assert.Equal(t, model.Period(1), e.Frame().Period)
}

func TestEngine_TickKeepsFrameInStep(t *testing.T) {
	e, _ := newStubEngine()
	require.NoError(t, e.Refresh())

	for i := 0; i < 14; i++ {
		assert.True(t, e.Tick())
		assert.Equal(t, e.State().Period, e.Frame().Period)
	}
	assert.Equal(t, model.Period(3), e.State().Period)
}

func TestEngine_PausedTickDoesNotAssemble(t *testing.T) {
	e, b := newStubEngine()
	require.NoError(t, e.Refresh())
	assert.True(t, e.Toggle())

	before := b.callCount()
	assert.False(t, e.Tick())
	assert.Equal(t, before, b.callCount())
	assert.Equal(t, model.Period(1), e.Frame().Period)
}

func TestEngine_SelectRejectsOutOfRange(t *testing.T) {
	e, b := newStubEngine()
	require.NoError(t, e.Select(4))
	before := b.callCount()

	err := e.Select(13)
	assert.ErrorIs(t, err, model.ErrOutOfRangePeriod)
	assert.Equal(t, model.Period(4), e.State().Period)
	assert.Equal(t, model.Period(4), e.Frame().Period)
	assert.Equal(t, before, b.callCount())
}

func TestEngine_FailedAssemblyKeepsPreviousFrame(t *testing.T) {
	e, _ := newStubEngine(3)
	require.NoError(t, e.Select(2))

	require.NoError(t, e.Select(3))
	assert.Equal(t, model.Period(3), e.State().Period)
	assert.Equal(t, model.Period(2), e.Frame().Period)

	view := e.StateManager().ViewState(e.State())
	assert.Contains(t, view.StatusMessage, "March")

	require.NoError(t, e.Select(4))
	assert.Empty(t, e.StateManager().ViewState(e.State()).StatusMessage)
}

func TestEngine_StepWraps(t *testing.T) {
	e, _ := newStubEngine()

	assert.Equal(t, model.Period(12), e.Step(-1))
	assert.Equal(t, model.Period(2), e.Step(2))
	assert.Equal(t, model.Period(2), e.Frame().Period)
}

func TestEngine_FrameForReusesCurrent(t *testing.T) {
	e, b := newStubEngine()
	require.NoError(t, e.Refresh())
	before := b.callCount()

	f, err := e.FrameFor(1)
	require.NoError(t, err)
	assert.Same(t, e.Frame(), f)
	assert.Equal(t, before, b.callCount())

	f, err = e.FrameFor(8)
	require.NoError(t, err)
	assert.Equal(t, model.Period(8), f.Period)
	assert.Equal(t, model.Period(1), e.State().Period)

	_, err = e.FrameFor(0)
	assert.ErrorIs(t, err, model.ErrOutOfRangePeriod)
}

func TestEngine_ObserverSeesEveryAssembly(t *testing.T) {
	e, _ := newStubEngine(6)

	var seen []model.Period
	var failures int
	e.SetObserver(func(period model.Period, d time.Duration, err error) {
		seen = append(seen, period)
		assert.GreaterOrEqual(t, d, time.Duration(0))
		if err != nil {
			failures++
		}
	})

	require.NoError(t, e.Refresh())
	require.NoError(t, e.Select(6))
	_, _ = e.FrameFor(9)

	assert.Equal(t, []model.Period{1, 6, 9}, seen)
	assert.Equal(t, 1, failures)
}

func TestEngine_WithRealAssembler(t *testing.T) {
	binner, err := binning.NewBinner(8, time.UTC)
	require.NoError(t, err)
	assembler := frame.NewAssembler(binner, geometry.NewBuilder(), nil)

	events := []model.Event{
		model.NewEvent(time.Date(2023, time.January, 3, 0, 0, 0, 0, time.UTC), 51.5074, -0.1278),
		model.NewEvent(time.Date(2023, time.February, 3, 0, 0, 0, 0, time.UTC), 51.5074, -0.1278),
		model.NewEvent(time.Date(2023, time.February, 9, 0, 0, 0, 0, time.UTC), 51.5300, -0.0500),
	}
	e := NewEngine(events, assembler, nil, nil)
	assert.Equal(t, 3, e.EventCount())

	require.NoError(t, e.Refresh())
	assert.Equal(t, 1, e.Frame().Len())

	require.True(t, e.Tick())
	assert.Equal(t, 2, e.Frame().Len())
	assert.Equal(t, 2, e.Frame().Total())

	require.True(t, e.Tick())
	assert.True(t, e.Frame().Empty())
}

func TestEngine_FramesAreMemoized(t *testing.T) {
	e, b := newStubEngine(7)
	require.NoError(t, e.Refresh())

	for i := 0; i < 24; i++ {
		e.Tick()
	}
	// eleven distinct good periods plus two failed attempts at July
	assert.Equal(t, 13, b.callCount())

	hits, misses := e.CacheStats()
	assert.Equal(t, int64(12), hits)
	assert.Equal(t, int64(13), misses)
}
