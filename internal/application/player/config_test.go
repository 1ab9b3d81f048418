package player

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/penwyp/go-crime-hexmap/internal/core/colorscale"
	"github.com/penwyp/go-crime-hexmap/internal/core/constants"
)

func TestPlayerConfig_ValidateDefaults(t *testing.T) {
	c := &PlayerConfig{DataPath: "street.csv"}
	require.NoError(t, c.Validate())

	assert.Equal(t, constants.DefaultResolution, c.Resolution)
	assert.Equal(t, colorscale.DefaultPalette(), c.Palette)
	assert.Equal(t, "UTC", c.Timezone)
	assert.Equal(t, constants.DefaultTickInterval, c.TickInterval)
	assert.Equal(t, constants.DefaultUIRefreshHz, c.UIRefreshRate)
	assert.Equal(t, constants.InitialPeriod, c.StartPeriod)
}

func TestPlayerConfig_ValidateRanges(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*PlayerConfig)
		errorMsg string
	}{
		{"missing data", func(c *PlayerConfig) { c.DataPath = "" }, "data path is required"},
		{"resolution too high", func(c *PlayerConfig) { c.Resolution = 16 }, "resolution 16 out of range"},
		{"tick too short", func(c *PlayerConfig) { c.TickInterval = time.Millisecond }, "below the minimum"},
		{"refresh too fast", func(c *PlayerConfig) { c.UIRefreshRate = 2000 }, "refresh rate"},
		{"refresh above max", func(c *PlayerConfig) { c.UIRefreshRate = 20.5 }, "refresh rate"},
		{"refresh negative", func(c *PlayerConfig) { c.UIRefreshRate = -1 }, "refresh rate"},
		{"refresh too slow", func(c *PlayerConfig) { c.UIRefreshRate = 0.05 }, "refresh rate"},
		{"start month", func(c *PlayerConfig) { c.StartPeriod = 13 }, "invalid start period"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &PlayerConfig{DataPath: "street.csv"}
			tt.mutate(c)
			err := c.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorMsg)
		})
	}
}

func TestPlayerConfig_RefreshRateBounds(t *testing.T) {
	for _, rate := range []float64{constants.MinUIRefreshHz, constants.MaxUIRefreshHz} {
		c := &PlayerConfig{DataPath: "street.csv", UIRefreshRate: rate}
		assert.NoError(t, c.Validate(), "rate %v", rate)
	}
}
