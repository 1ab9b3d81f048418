package ingest

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/penwyp/go-crime-hexmap/internal/core/model"
	"github.com/penwyp/go-crime-hexmap/internal/data/cache"
	"github.com/penwyp/go-crime-hexmap/internal/data/scanner"
	"github.com/penwyp/go-crime-hexmap/internal/util"
)

// LoaderConfig configures event loading.
type LoaderConfig struct {
	Concurrency int
	Location    *time.Location
	Table       string

	// Categories keeps only events whose category matches one of these,
	// compared without regard to case. Empty keeps everything.
	Categories []string

	// Cache, when set, keeps parsed files between runs.
	Cache cache.Cache
}

// LoadResult is the outcome of reading one file.
type LoadResult struct {
	File   string
	Events []model.Event
	Cached bool
	Error  error
}

// Loader reads many source files concurrently.
type Loader struct {
	config     LoaderConfig
	categories map[string]struct{}
}

// NewLoader creates a loader.
func NewLoader(config LoaderConfig) *Loader {
	if config.Concurrency <= 0 {
		config.Concurrency = 4
	}
	if config.Location == nil {
		config.Location = time.UTC
	}

	var categories map[string]struct{}
	if len(config.Categories) > 0 {
		categories = make(map[string]struct{}, len(config.Categories))
		for _, c := range config.Categories {
			categories[strings.ToLower(strings.TrimSpace(c))] = struct{}{}
		}
	}
	return &Loader{config: config, categories: categories}
}

// Load scans path and loads every supported file under it.
func (l *Loader) Load(path string) ([]model.Event, error) {
	files, err := scanner.NewFileScanner(path).Scan()
	if err != nil {
		return nil, fmt.Errorf("failed to scan data path: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no data files found under %s", path)
	}
	return l.LoadFiles(files)
}

// LoadFiles reads files concurrently and concatenates their events in input
// order. A file that fails to read is logged and skipped; the call fails only
// when every file fails.
func (l *Loader) LoadFiles(files []string) ([]model.Event, error) {
	start := time.Now()
	results := make([]LoadResult, len(files))

	util.LogDebug(fmt.Sprintf("Start concurrent loading of %d files, concurrency: %d", len(files), l.config.Concurrency))

	semaphore := make(chan struct{}, l.config.Concurrency)
	var wg sync.WaitGroup

	for i, file := range files {
		wg.Add(1)
		go func(idx int, f string) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			results[idx] = l.loadFile(f)
		}(i, file)
	}
	wg.Wait()

	var events []model.Event
	var lastErr error
	failed, cached := 0, 0
	for _, res := range results {
		if res.Error != nil {
			util.LogWarn(fmt.Sprintf("Failed to load %s: %v", res.File, res.Error))
			lastErr = res.Error
			failed++
			continue
		}
		if res.Cached {
			cached++
		}
		events = append(events, res.Events...)
	}

	if len(files) > 0 && failed == len(files) {
		return nil, fmt.Errorf("failed to load any data file: %w", lastErr)
	}

	util.LogInfo(fmt.Sprintf("Loaded %d events from %d files (%d cached) in %v", len(events), len(files)-failed, cached, time.Since(start)))
	return events, nil
}

func (l *Loader) loadFile(path string) LoadResult {
	kind := scanner.KindOf(path)
	variant := l.variant(kind)

	if l.config.Cache != nil {
		res := l.config.Cache.Get(path, variant)
		if res.Found {
			return LoadResult{File: path, Events: l.filter(path, res.Entry.Events), Cached: true}
		}
		util.LogDebug(fmt.Sprintf("Cache miss for %s: %s", path, res.MissReason))
	}

	reader, err := ReaderFor(kind, l.config.Location, l.config.Table)
	if err != nil {
		return LoadResult{File: path, Error: err}
	}

	events, err := reader.Read(path)
	if err != nil {
		return LoadResult{File: path, Error: err}
	}

	if l.config.Cache != nil {
		if err := l.config.Cache.Set(path, variant, events); err != nil {
			util.LogWarn(fmt.Sprintf("Failed to cache %s: %v", path, err))
		}
	}
	return LoadResult{File: path, Events: l.filter(path, events)}
}

// readerVersion changes whenever readers start extracting new fields, so
// parses cached by older readers miss.
const readerVersion = 2

// variant names the reader settings a cached parse depends on.
func (l *Loader) variant(kind scanner.Kind) string {
	table := ""
	if kind == scanner.KindSQLite {
		table = l.config.Table
		if table == "" {
			table = DefaultTable
		}
	}
	return fmt.Sprintf("v%d|%s|%s|%s", readerVersion, kind, l.config.Location, table)
}

// filter returns a new slice; events may be shared with the cache.
func (l *Loader) filter(path string, events []model.Event) []model.Event {
	if l.categories == nil {
		return events
	}
	kept := make([]model.Event, 0, len(events))
	categorized := false
	for _, e := range events {
		if e.Category != "" {
			categorized = true
		}
		if _, ok := l.categories[strings.ToLower(e.Category)]; ok {
			kept = append(kept, e)
		}
	}
	if len(events) > 0 && !categorized {
		util.LogWarnf("%s carries no categories; the category filter drops all %d of its events", path, len(events))
	}
	return kept
}
