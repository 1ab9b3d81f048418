package player

import (
	"context"
	"fmt"
	"time"

	"github.com/penwyp/go-crime-hexmap/internal/core/binning"
	"github.com/penwyp/go-crime-hexmap/internal/core/frame"
	"github.com/penwyp/go-crime-hexmap/internal/core/geometry"
	"github.com/penwyp/go-crime-hexmap/internal/core/model"
	"github.com/penwyp/go-crime-hexmap/internal/data/cache"
	"github.com/penwyp/go-crime-hexmap/internal/data/ingest"
	"github.com/penwyp/go-crime-hexmap/internal/presentation/display"
	"github.com/penwyp/go-crime-hexmap/internal/presentation/interaction"
	"github.com/penwyp/go-crime-hexmap/internal/util"
)

// periodKeys maps number-row keys to months; 0, - and = continue after 9.
var periodKeys = map[rune]model.Period{
	'1': 1, '2': 2, '3': 3, '4': 4, '5': 5, '6': 6,
	'7': 7, '8': 8, '9': 9, '0': 10, '-': 11, '=': 12,
}

// Orchestrator coordinates all components for the play command
type Orchestrator struct {
	config *PlayerConfig

	// Core components
	loader       EventSource
	assembler    FrameBuilder
	controller   *Controller
	stateManager *StateManager
	engine       *Engine

	// UI components
	display  DisplayController
	keyboard InputHandler
}

// NewOrchestrator creates a new Orchestrator instance
func NewOrchestrator(config *PlayerConfig) (*Orchestrator, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	tp, err := util.NewTimeProvider(config.Timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize timezone: %w", err)
	}
	loc := tp.Location()

	binner, err := binning.NewBinner(config.Resolution, loc)
	if err != nil {
		return nil, fmt.Errorf("failed to create binner: %w", err)
	}
	assembler := frame.NewAssembler(binner, geometry.NewBuilder(), config.Palette)

	loaderConfig := ingest.LoaderConfig{
		Concurrency: config.Concurrency,
		Location:    loc,
		Table:       config.Table,
		Categories:  config.Categories,
	}
	if config.CacheDir != "" {
		fileCache, err := cache.NewFileCache(config.CacheDir)
		if err != nil {
			return nil, fmt.Errorf("failed to create cache: %w", err)
		}
		loaderConfig.Cache = fileCache
	}
	loader := ingest.NewLoader(loaderConfig)

	controller, err := NewControllerAt(model.Period(config.StartPeriod), config.StartPaused)
	if err != nil {
		return nil, fmt.Errorf("failed to create controller: %w", err)
	}

	return &Orchestrator{
		config:       config,
		loader:       loader,
		assembler:    assembler,
		controller:   controller,
		stateManager: NewStateManager(),
		display:      display.NewTerminalDisplay(&display.DisplayConfig{Title: config.Title, TopCells: config.TopCells}),
	}, nil
}

// Engine returns the playback engine; nil before LoadData.
func (o *Orchestrator) Engine() *Engine {
	return o.engine
}

// LoadData reads all events and builds the first frame
func (o *Orchestrator) LoadData() error {
	start := time.Now()
	events, err := o.loader.Load(o.config.DataPath)
	if err != nil {
		return fmt.Errorf("failed to load events: %w", err)
	}
	util.LogInfof("Loaded %d events from %s in %v", len(events), o.config.DataPath, time.Since(start))

	o.engine = NewEngine(events, o.assembler, o.controller, o.stateManager)
	if err := o.engine.Refresh(); err != nil {
		return fmt.Errorf("initial frame failed: %w", err)
	}
	return nil
}

// LoadEngine loads all events headlessly and returns an engine showing the
// start period.
func LoadEngine(config *PlayerConfig) (*Engine, error) {
	o, err := NewOrchestrator(config)
	if err != nil {
		return nil, err
	}
	if err := o.LoadData(); err != nil {
		return nil, err
	}
	return o.engine, nil
}

// Run starts the orchestrator main loop
func (o *Orchestrator) Run(ctx context.Context) error {
	util.LogInfo("Starting crime hex map player...")

	keyboard, err := interaction.NewKeyboardReader()
	if err != nil {
		return fmt.Errorf("failed to initialize keyboard: %w", err)
	}
	o.keyboard = keyboard
	defer o.keyboard.Close()

	o.display.EnterAlternateScreen()
	defer o.display.ExitAlternateScreen()

	o.stateManager.SetLoadingState(true, fmt.Sprintf("Loading events from %s...", o.config.DataPath))
	o.updateDisplay()

	if err := o.LoadData(); err != nil {
		return err
	}
	o.stateManager.SetLoadingState(false, "")

	return o.loop(ctx, o.keyboard.Events())
}

func (o *Orchestrator) loop(ctx context.Context, keys <-chan interaction.KeyEvent) error {
	uiTicker := time.NewTicker(time.Duration(1000/o.config.UIRefreshRate) * time.Millisecond)
	defer uiTicker.Stop()

	tickTicker := time.NewTicker(o.config.TickInterval)
	defer tickTicker.Stop()

	o.updateDisplay()

	for {
		select {
		case <-ctx.Done():
			util.LogInfo("Shutting down crime hex map player...")
			return nil

		case <-uiTicker.C:
			// picks up terminal resizes
			if !o.controller.State().Paused {
				o.updateDisplay()
			}

		case <-tickTicker.C:
			if o.engine.Tick() {
				o.updateDisplay()
			}

		case keyEvent, ok := <-keys:
			if !ok {
				return nil
			}
			if o.handleKeyboard(keyEvent) {
				return nil
			}
			o.updateDisplay()
		}
	}
}

// updateDisplay updates the terminal display
func (o *Orchestrator) updateDisplay() {
	state := o.stateManager.ViewState(o.controller.State())
	state.Source = o.config.DataPath
	if o.engine != nil {
		state.Events = o.engine.EventCount()
	}
	o.display.Render(o.stateManager.Frame(), state)
}

// handleKeyboard handles keyboard events and reports whether to quit
func (o *Orchestrator) handleKeyboard(event interaction.KeyEvent) bool {
	switch event.Type {
	case interaction.KeyChar:
		if period, ok := periodKeys[event.Key]; ok {
			if err := o.engine.Select(period); err != nil {
				util.LogWarn(fmt.Sprintf("Rejected period selection: %v", err))
			}
			return false
		}

		switch event.Key {
		case 'q', 'Q', 3: // 'q', 'Q', or Ctrl+C
			return true
		case 'p', 'P', ' ':
			o.engine.Toggle()
		case 'n', 'N':
			o.engine.Step(1)
		case 'b', 'B':
			o.engine.Step(-1)
		case 'h', 'H':
			o.stateManager.ToggleHelp()
		}

	case interaction.KeyArrowRight:
		o.engine.Step(1)
	case interaction.KeyArrowLeft:
		o.engine.Step(-1)

	case interaction.KeyEscape:
		// If help is shown, close it; otherwise quit
		if o.stateManager.ViewState(o.controller.State()).ShowHelp {
			o.stateManager.SetShowHelp(false)
		} else {
			return true
		}
	}

	return false
}
