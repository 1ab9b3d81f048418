package player

import (
	"sync"
	"time"

	"github.com/penwyp/go-crime-hexmap/internal/core/frame"
	"github.com/penwyp/go-crime-hexmap/internal/core/model"
)

// StateManager holds the current frame and UI flags in a thread-safe manner
type StateManager struct {
	mu sync.RWMutex

	current  *frame.Frame
	previous *frame.Frame

	isLoading      bool
	loadingMessage string

	showHelp      bool
	statusMessage string

	lastFrameUpdate int64
}

// NewStateManager creates a new StateManager instance
func NewStateManager() *StateManager {
	return &StateManager{}
}

// Frame returns the frame on display
func (sm *StateManager) Frame() *frame.Frame {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.current
}

// SetFrame replaces the frame on display, remembering the previous one
func (sm *StateManager) SetFrame(f *frame.Frame) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.current != nil {
		sm.previous = sm.current
	}
	sm.current = f
	sm.lastFrameUpdate = time.Now().Unix()
}

// PreviousFrame returns the frame shown before the current one
func (sm *StateManager) PreviousFrame() *frame.Frame {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.previous
}

// GetLoadingState returns current loading state and message
func (sm *StateManager) GetLoadingState() (bool, string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.isLoading, sm.loadingMessage
}

// SetLoadingState updates loading state and message
func (sm *StateManager) SetLoadingState(isLoading bool, message string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.isLoading = isLoading
	sm.loadingMessage = message
}

// ToggleHelp flips the help overlay and returns the new value
func (sm *StateManager) ToggleHelp() bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.showHelp = !sm.showHelp
	return sm.showHelp
}

// SetShowHelp sets the help overlay
func (sm *StateManager) SetShowHelp(show bool) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.showHelp = show
}

// SetStatusMessage sets a one-line status shown under the map
func (sm *StateManager) SetStatusMessage(msg string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.statusMessage = msg
}

// GetLastFrameUpdate returns timestamp of last frame swap
func (sm *StateManager) GetLastFrameUpdate() int64 {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.lastFrameUpdate
}

// ViewState combines UI flags with the playback state
func (sm *StateManager) ViewState(playback State) model.ViewState {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	return model.ViewState{
		Period:         playback.Period,
		Paused:         playback.Paused,
		ShowHelp:       sm.showHelp,
		StatusMessage:  sm.statusMessage,
		IsLoading:      sm.isLoading,
		LoadingMessage: sm.loadingMessage,
	}
}
