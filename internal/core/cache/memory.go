package cache

import (
	"sync"
	"time"

	"github.com/penwyp/go-crime-hexmap/internal/core/frame"
	"github.com/penwyp/go-crime-hexmap/internal/core/model"
)

// MemoryCacheEntry is an assembled frame with access time tracking
type MemoryCacheEntry struct {
	Frame        *frame.Frame
	AssembledAt  int64
	LastAccessed int64
}

// MemoryCache keeps assembled frames by period. Frames are a pure function
// of the event set, so entries stay valid until the events change.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[model.Period]*MemoryCacheEntry

	hits   int64
	misses int64
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[model.Period]*MemoryCacheEntry),
	}
}

func (mc *MemoryCache) Set(period model.Period, f *frame.Frame) {
	if f == nil {
		return
	}
	now := time.Now().Unix()

	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.entries[period] = &MemoryCacheEntry{Frame: f, AssembledAt: now, LastAccessed: now}
}

func (mc *MemoryCache) Get(period model.Period) (*frame.Frame, bool) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	entry, ok := mc.entries[period]
	if !ok {
		mc.misses++
		return nil, false
	}
	mc.hits++
	entry.LastAccessed = time.Now().Unix()
	return entry.Frame, true
}

// Entry returns the cached entry without counting an access.
func (mc *MemoryCache) Entry(period model.Period) (*MemoryCacheEntry, bool) {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	entry, ok := mc.entries[period]
	return entry, ok
}

func (mc *MemoryCache) Len() int {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	return len(mc.entries)
}

// Stats returns the hit and miss counts since creation
func (mc *MemoryCache) Stats() (hits, misses int64) {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	return mc.hits, mc.misses
}

func (mc *MemoryCache) Clear() {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.entries = make(map[model.Period]*MemoryCacheEntry)
}
