package player

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/penwyp/go-crime-hexmap/internal/core/frame"
	"github.com/penwyp/go-crime-hexmap/internal/core/model"
	"github.com/penwyp/go-crime-hexmap/internal/presentation/interaction"
	"github.com/penwyp/go-crime-hexmap/internal/testing/fixtures"
)

type fakeDisplay struct {
	mu      sync.Mutex
	renders []model.ViewState
	periods []model.Period
}

func (d *fakeDisplay) EnterAlternateScreen() {}
func (d *fakeDisplay) ExitAlternateScreen()  {}
func (d *fakeDisplay) ClearScreen()          {}

func (d *fakeDisplay) Render(f *frame.Frame, state model.ViewState) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.renders = append(d.renders, state)
	if f != nil {
		d.periods = append(d.periods, f.Period)
	}
}

func (d *fakeDisplay) last() model.ViewState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.renders[len(d.renders)-1]
}

func (d *fakeDisplay) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.renders)
}

func newTestOrchestrator(t *testing.T, mutate func(*PlayerConfig)) (*Orchestrator, *fakeDisplay) {
	t.Helper()

	gen := fixtures.NewTestDataGenerator(t.TempDir(), 42)
	events := gen.Events(2023, 20, fixtures.LondonHotspots)
	path, err := gen.WriteStreetCSV("street.csv", events)
	require.NoError(t, err)

	config := &PlayerConfig{DataPath: path, TickInterval: time.Hour}
	if mutate != nil {
		mutate(config)
	}
	o, err := NewOrchestrator(config)
	require.NoError(t, err)

	d := &fakeDisplay{}
	o.display = d
	require.NoError(t, o.LoadData())
	return o, d
}

func key(r rune) interaction.KeyEvent {
	return interaction.KeyEvent{Key: r, Type: interaction.KeyChar}
}

func TestNewOrchestrator_InvalidConfig(t *testing.T) {
	_, err := NewOrchestrator(&PlayerConfig{})
	assert.Error(t, err)

	_, err = NewOrchestrator(&PlayerConfig{DataPath: "x", Timezone: "Not/AZone"})
	assert.Error(t, err)
}

func TestOrchestrator_LoadData(t *testing.T) {
	o, _ := newTestOrchestrator(t, nil)

	require.NotNil(t, o.Engine())
	assert.Greater(t, o.Engine().EventCount(), 0)
	require.NotNil(t, o.Engine().Frame())
	assert.Equal(t, model.Period(1), o.Engine().Frame().Period)
	assert.False(t, o.Engine().Frame().Empty())
}

func TestOrchestrator_LoadDataMissingPath(t *testing.T) {
	o, err := NewOrchestrator(&PlayerConfig{DataPath: filepath.Join(t.TempDir(), "nope.csv")})
	require.NoError(t, err)
	o.display = &fakeDisplay{}

	assert.Error(t, o.LoadData())
	assert.Nil(t, o.Engine())
}

func TestOrchestrator_StartPeriodAndPaused(t *testing.T) {
	o, _ := newTestOrchestrator(t, func(c *PlayerConfig) {
		c.StartPeriod = 7
		c.StartPaused = true
	})

	assert.Equal(t, State{Period: 7, Paused: true}, o.Engine().State())
	assert.Equal(t, model.Period(7), o.Engine().Frame().Period)
}

func TestHandleKeyboard_PeriodKeys(t *testing.T) {
	o, _ := newTestOrchestrator(t, nil)

	cases := map[rune]model.Period{'1': 1, '5': 5, '9': 9, '0': 10, '-': 11, '=': 12}
	for r, want := range cases {
		assert.False(t, o.handleKeyboard(key(r)))
		assert.Equal(t, want, o.Engine().State().Period, "key %q", r)
		assert.Equal(t, want, o.Engine().Frame().Period, "key %q", r)
	}
}

func TestHandleKeyboard_PauseAndStep(t *testing.T) {
	o, _ := newTestOrchestrator(t, nil)

	o.handleKeyboard(key(' '))
	assert.True(t, o.Engine().State().Paused)
	o.handleKeyboard(key('p'))
	assert.False(t, o.Engine().State().Paused)

	o.handleKeyboard(key('n'))
	assert.Equal(t, model.Period(2), o.Engine().State().Period)
	o.handleKeyboard(interaction.KeyEvent{Type: interaction.KeyArrowLeft})
	o.handleKeyboard(interaction.KeyEvent{Type: interaction.KeyArrowLeft})
	assert.Equal(t, model.Period(12), o.Engine().State().Period)
	o.handleKeyboard(interaction.KeyEvent{Type: interaction.KeyArrowRight})
	assert.Equal(t, model.Period(1), o.Engine().State().Period)
	o.handleKeyboard(key('b'))
	assert.Equal(t, model.Period(12), o.Engine().Frame().Period)
}

func TestHandleKeyboard_HelpAndQuit(t *testing.T) {
	o, _ := newTestOrchestrator(t, nil)

	assert.False(t, o.handleKeyboard(key('h')))
	assert.True(t, o.stateManager.ViewState(o.controller.State()).ShowHelp)

	// escape closes help first
	assert.False(t, o.handleKeyboard(interaction.KeyEvent{Type: interaction.KeyEscape}))
	assert.False(t, o.stateManager.ViewState(o.controller.State()).ShowHelp)
	assert.True(t, o.handleKeyboard(interaction.KeyEvent{Type: interaction.KeyEscape}))

	assert.True(t, o.handleKeyboard(key('q')))
	assert.True(t, o.handleKeyboard(key('Q')))
	assert.True(t, o.handleKeyboard(key(3)))
}

func TestOrchestrator_LoopTicksAndQuits(t *testing.T) {
	o, d := newTestOrchestrator(t, func(c *PlayerConfig) {
		c.TickInterval = 100 * time.Millisecond
	})

	keys := make(chan interaction.KeyEvent, 1)
	done := make(chan error, 1)
	go func() { done <- o.loop(context.Background(), keys) }()

	require.Eventually(t, func() bool {
		return o.Engine().State().Period >= 3
	}, 3*time.Second, 20*time.Millisecond)

	keys <- key('q')
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not stop on quit key")
	}

	assert.Greater(t, d.count(), 1)
	last := d.last()
	assert.Equal(t, o.config.DataPath, last.Source)
	assert.Equal(t, o.Engine().EventCount(), last.Events)
}

func TestOrchestrator_LoopStopsOnCancel(t *testing.T) {
	o, _ := newTestOrchestrator(t, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- o.loop(ctx, make(chan interaction.KeyEvent)) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not stop on cancel")
	}
}
