package player

import (
	"fmt"
	"time"

	"github.com/penwyp/go-crime-hexmap/internal/core/colorscale"
	"github.com/penwyp/go-crime-hexmap/internal/core/constants"
	"github.com/penwyp/go-crime-hexmap/internal/core/model"
)

// PlayerConfig contains configuration for the play and serve commands
type PlayerConfig struct {
	// Data source
	DataPath    string
	Table       string
	Categories  []string
	Concurrency int
	CacheDir    string // empty disables the parsed-file cache

	// Binning and coloring
	Resolution int
	Palette    []string
	Timezone   string

	// Playback
	TickInterval  time.Duration
	UIRefreshRate float64
	StartPeriod   int
	StartPaused   bool

	// Display
	Title    string
	TopCells int
}

// Validate fills defaults and checks ranges
func (c *PlayerConfig) Validate() error {
	if c.DataPath == "" {
		return fmt.Errorf("data path is required")
	}
	if c.Resolution == 0 {
		c.Resolution = constants.DefaultResolution
	}
	if c.Resolution < constants.MinResolution || c.Resolution > constants.MaxResolution {
		return fmt.Errorf("resolution %d out of range %d-%d", c.Resolution, constants.MinResolution, constants.MaxResolution)
	}
	if len(c.Palette) == 0 {
		c.Palette = colorscale.DefaultPalette()
	}
	if c.Timezone == "" {
		c.Timezone = "UTC"
	}
	if c.TickInterval == 0 {
		c.TickInterval = constants.DefaultTickInterval
	}
	if c.TickInterval < constants.MinTickInterval {
		return fmt.Errorf("tick interval %v is below the minimum of %v", c.TickInterval, constants.MinTickInterval)
	}
	if c.UIRefreshRate == 0 {
		c.UIRefreshRate = constants.DefaultUIRefreshHz
	}
	if c.UIRefreshRate < constants.MinUIRefreshHz || c.UIRefreshRate > constants.MaxUIRefreshHz {
		return fmt.Errorf("refresh rate %v Hz out of range %v-%v", c.UIRefreshRate, constants.MinUIRefreshHz, constants.MaxUIRefreshHz)
	}
	if c.Concurrency == 0 {
		c.Concurrency = 4
	}
	if c.StartPeriod == 0 {
		c.StartPeriod = constants.InitialPeriod
	}
	if err := model.ValidatePeriod(model.Period(c.StartPeriod)); err != nil {
		return fmt.Errorf("invalid start period: %w", err)
	}
	return nil
}
