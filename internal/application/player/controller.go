package player

import (
	"sync"

	"github.com/penwyp/go-crime-hexmap/internal/core/constants"
	"github.com/penwyp/go-crime-hexmap/internal/core/model"
)

// State is the playback position of the animation.
type State struct {
	Period model.Period `json:"period"`
	Paused bool         `json:"paused"`
}

// Controller advances the displayed period on ticks and handles pause and
// manual selection. It is safe for concurrent use.
type Controller struct {
	mu    sync.RWMutex
	state State
}

// NewController starts at the first period, playing.
func NewController() *Controller {
	return &Controller{state: State{Period: constants.InitialPeriod}}
}

// NewControllerAt starts at period p, optionally paused.
func NewControllerAt(p model.Period, paused bool) (*Controller, error) {
	if err := model.ValidatePeriod(p); err != nil {
		return nil, err
	}
	return &Controller{state: State{Period: p, Paused: paused}}, nil
}

// Tick advances to the next period unless paused, wrapping December to
// January. It reports whether the period changed.
func (c *Controller) Tick() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Paused {
		return false
	}
	c.state.Period = c.state.Period.Next()
	return true
}

// Toggle flips the paused flag and returns the new value. The period is not
// touched.
func (c *Controller) Toggle() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.Paused = !c.state.Paused
	return c.state.Paused
}

// Select jumps to period p regardless of the paused flag. An out of range
// period leaves the state unchanged.
func (c *Controller) Select(p model.Period) error {
	if err := model.ValidatePeriod(p); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Period = p
	return nil
}

// State returns a snapshot of the playback state.
func (c *Controller) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}
