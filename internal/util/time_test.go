package util

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeTimeProvider(t *testing.T) {
	tests := []struct {
		name     string
		timezone string
		wantErr  bool
	}{
		{name: "UTC timezone", timezone: "UTC"},
		{name: "local timezone", timezone: "Local"},
		{name: "valid timezone Europe/London", timezone: "Europe/London"},
		{name: "empty timezone defaults to UTC", timezone: ""},
		{name: "invalid timezone", timezone: "Invalid/Timezone", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := InitializeTimeProvider(tt.timezone)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "invalid timezone")
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, GetTimeProvider().Location())
		})
	}
}

func TestNewTimeProvider_EmptyIsUTC(t *testing.T) {
	provider, err := NewTimeProvider("")
	require.NoError(t, err)
	assert.Equal(t, time.UTC, provider.Location())
}

func TestTimeProvider_MonthAcrossZones(t *testing.T) {
	// 23:30 UTC on the last day of April is already May in Tokyo.
	instant := time.Date(2023, 4, 30, 23, 30, 0, 0, time.UTC)

	tests := []struct {
		timezone string
		want     time.Month
	}{
		{"UTC", time.April},
		{"Asia/Tokyo", time.May},
		{"America/New_York", time.April},
	}

	for _, tt := range tests {
		t.Run(tt.timezone, func(t *testing.T) {
			provider, err := NewTimeProvider(tt.timezone)
			require.NoError(t, err)
			assert.Equal(t, tt.want, provider.Month(instant))
		})
	}
}

func TestTimeProvider_Format(t *testing.T) {
	provider, err := NewTimeProvider("UTC")
	require.NoError(t, err)

	ts := time.Date(2024, 3, 15, 14, 30, 45, 0, time.UTC)
	assert.Equal(t, "2024-03", provider.Format(ts, "2006-01"))
	assert.Equal(t, "March 2024", provider.Format(ts, "January 2006"))
}

func TestTimeProvider_Concurrency(t *testing.T) {
	provider, err := NewTimeProvider("UTC")
	require.NoError(t, err)

	var wg sync.WaitGroup
	timezones := []string{"UTC", "Europe/London", "America/New_York"}
	for i := 0; i < 30; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = provider.Month(time.Now())
		}()
		go func(idx int) {
			defer wg.Done()
			assert.NoError(t, provider.SetTimezone(timezones[idx%len(timezones)]))
		}(i)
	}
	wg.Wait()
}
