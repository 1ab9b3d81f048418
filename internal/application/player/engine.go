package player

import (
	"fmt"
	"sync"
	"time"

	"github.com/penwyp/go-crime-hexmap/internal/core/cache"
	"github.com/penwyp/go-crime-hexmap/internal/core/frame"
	"github.com/penwyp/go-crime-hexmap/internal/core/model"
	"github.com/penwyp/go-crime-hexmap/internal/util"
)

// AssembleObserver is notified after every frame assembly.
type AssembleObserver func(period model.Period, duration time.Duration, err error)

// Engine couples the playback controller with frame assembly. Assemblies
// are serialized, and the frame on display always matches the period that
// was current when its assembly started. Successful frames are memoized per
// period since the event set never changes.
type Engine struct {
	events     []model.Event
	builder    FrameBuilder
	controller *Controller
	state      *StateManager
	frames     *cache.MemoryCache

	assembleMu sync.Mutex
	observer   AssembleObserver
}

// NewEngine creates an engine over a fixed event set.
func NewEngine(events []model.Event, builder FrameBuilder, controller *Controller, state *StateManager) *Engine {
	if controller == nil {
		controller = NewController()
	}
	if state == nil {
		state = NewStateManager()
	}
	return &Engine{
		events:     events,
		builder:    builder,
		controller: controller,
		state:      state,
		frames:     cache.NewMemoryCache(),
	}
}

// SetObserver installs an assembly observer.
func (e *Engine) SetObserver(fn AssembleObserver) {
	e.assembleMu.Lock()
	defer e.assembleMu.Unlock()
	e.observer = fn
}

// EventCount returns the number of loaded events.
func (e *Engine) EventCount() int {
	return len(e.events)
}

// Controller returns the playback controller.
func (e *Engine) Controller() *Controller {
	return e.controller
}

// StateManager returns the UI state store.
func (e *Engine) StateManager() *StateManager {
	return e.state
}

// State returns the playback state.
func (e *Engine) State() State {
	return e.controller.State()
}

// Frame returns the frame on display.
func (e *Engine) Frame() *frame.Frame {
	return e.state.Frame()
}

// Refresh rebuilds the frame for the current period. On failure the previous
// frame stays on display.
func (e *Engine) Refresh() error {
	e.assembleMu.Lock()
	defer e.assembleMu.Unlock()

	period := e.controller.State().Period
	f, err := e.assemble(period)
	if err != nil {
		util.LogError("Failed to assemble frame", util.F("period", period.String()), util.F("error", err.Error()))
		e.state.SetStatusMessage(fmt.Sprintf("Could not draw %s, keeping previous map", period))
		return err
	}
	e.state.SetStatusMessage("")
	e.state.SetFrame(f)
	return nil
}

// FrameFor returns the frame of any period without changing playback.
func (e *Engine) FrameFor(period model.Period) (*frame.Frame, error) {
	if err := model.ValidatePeriod(period); err != nil {
		return nil, err
	}

	e.assembleMu.Lock()
	defer e.assembleMu.Unlock()
	return e.assemble(period)
}

// CacheStats returns frame cache hits and misses.
func (e *Engine) CacheStats() (hits, misses int64) {
	return e.frames.Stats()
}

// assemble must be called with assembleMu held.
func (e *Engine) assemble(period model.Period) (*frame.Frame, error) {
	if f, ok := e.frames.Get(period); ok {
		return f, nil
	}

	start := time.Now()
	f, err := e.builder.Assemble(e.events, period)
	if e.observer != nil {
		e.observer(period, time.Since(start), err)
	}
	if err != nil {
		return nil, err
	}
	e.frames.Set(period, f)
	return f, nil
}

// Tick advances playback and rebuilds the frame when the period changed.
func (e *Engine) Tick() bool {
	if !e.controller.Tick() {
		return false
	}
	_ = e.Refresh()
	return true
}

// Toggle pauses or resumes playback. The frame is left alone.
func (e *Engine) Toggle() bool {
	paused := e.controller.Toggle()
	util.LogDebugf("Playback paused=%v", paused)
	return paused
}

// Select jumps to period and rebuilds the frame. An out of range period is
// rejected and nothing changes.
func (e *Engine) Select(period model.Period) error {
	if err := e.controller.Select(period); err != nil {
		return err
	}
	_ = e.Refresh()
	return nil
}

// Step moves by delta periods through Select.
func (e *Engine) Step(delta int) model.Period {
	current := e.controller.State().Period
	target := current
	for i := 0; i < delta; i++ {
		target = target.Next()
	}
	for i := 0; i > delta; i-- {
		target = target.Prev()
	}
	if err := e.Select(target); err != nil {
		return current
	}
	return target
}
