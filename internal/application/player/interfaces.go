package player

import (
	"github.com/penwyp/go-crime-hexmap/internal/core/frame"
	"github.com/penwyp/go-crime-hexmap/internal/core/model"
	"github.com/penwyp/go-crime-hexmap/internal/presentation/interaction"
)

// FrameBuilder assembles the frame for a period
type FrameBuilder interface {
	Assemble(events []model.Event, period model.Period) (*frame.Frame, error)
}

// EventSource loads the full event set
type EventSource interface {
	Load(path string) ([]model.Event, error)
}

// DisplayController handles terminal display operations
type DisplayController interface {
	// EnterAlternateScreen switches to alternate terminal screen
	EnterAlternateScreen()
	// ExitAlternateScreen returns to normal terminal screen
	ExitAlternateScreen()
	// ClearScreen clears the terminal screen
	ClearScreen()
	// Render draws a frame with the given view state
	Render(f *frame.Frame, state model.ViewState)
}

// InputHandler processes keyboard input events
type InputHandler interface {
	// Events returns a channel of keyboard events
	Events() <-chan interaction.KeyEvent
	// Close cleans up input handler resources
	Close() error
}
