package player

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/penwyp/go-crime-hexmap/internal/core/model"
)

func TestController_Initial(t *testing.T) {
	c := NewController()
	assert.Equal(t, State{Period: 1, Paused: false}, c.State())
}

func TestController_TickWraps(t *testing.T) {
	c := NewController()

	for want := 2; want <= 12; want++ {
		assert.True(t, c.Tick())
		assert.Equal(t, model.Period(want), c.State().Period)
	}

	assert.True(t, c.Tick())
	assert.Equal(t, model.Period(1), c.State().Period)
}

func TestController_FullCycleReturnsToStart(t *testing.T) {
	c, err := NewControllerAt(7, false)
	require.NoError(t, err)

	for i := 0; i < 12; i++ {
		c.Tick()
	}
	assert.Equal(t, model.Period(7), c.State().Period)
}

func TestController_PausedTickIsNoop(t *testing.T) {
	c := NewController()
	require.NoError(t, c.Select(4))

	assert.True(t, c.Toggle())
	assert.False(t, c.Tick())
	assert.Equal(t, State{Period: 4, Paused: true}, c.State())
}

func TestController_ToggleKeepsPeriod(t *testing.T) {
	c := NewController()
	require.NoError(t, c.Select(9))

	assert.True(t, c.Toggle())
	assert.Equal(t, model.Period(9), c.State().Period)
	assert.False(t, c.Toggle())
	assert.Equal(t, State{Period: 9, Paused: false}, c.State())
}

func TestController_SelectWhilePaused(t *testing.T) {
	c := NewController()
	c.Toggle()

	require.NoError(t, c.Select(11))
	assert.Equal(t, State{Period: 11, Paused: true}, c.State())
}

func TestController_SelectRejectsOutOfRange(t *testing.T) {
	c := NewController()
	require.NoError(t, c.Select(6))

	for _, p := range []model.Period{0, 13, -4} {
		err := c.Select(p)
		assert.ErrorIs(t, err, model.ErrOutOfRangePeriod)
		assert.Equal(t, State{Period: 6, Paused: false}, c.State())
	}
}

func TestNewControllerAt_Invalid(t *testing.T) {
	_, err := NewControllerAt(0, false)
	assert.ErrorIs(t, err, model.ErrOutOfRangePeriod)
}

func TestController_ConcurrentAccess(t *testing.T) {
	c := NewController()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(3)
		go func() {
			defer wg.Done()
			c.Tick()
		}()
		go func() {
			defer wg.Done()
			c.Toggle()
		}()
		go func() {
			defer wg.Done()
			p := c.State().Period
			assert.NoError(t, model.ValidatePeriod(p))
		}()
	}
	wg.Wait()
}
