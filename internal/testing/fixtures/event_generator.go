package fixtures

import (
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/bytedance/sonic"

	"github.com/penwyp/go-crime-hexmap/internal/core/model"
)

// Hotspot is a centre around which events are scattered.
type Hotspot struct {
	Name      string
	Latitude  float64
	Longitude float64
	Weight    int
}

// LondonHotspots are a few central London locations.
var LondonHotspots = []Hotspot{
	{Name: "Westminster", Latitude: 51.4995, Longitude: -0.1248, Weight: 5},
	{Name: "Camden", Latitude: 51.5390, Longitude: -0.1426, Weight: 3},
	{Name: "Shoreditch", Latitude: 51.5265, Longitude: -0.0780, Weight: 2},
	{Name: "Brixton", Latitude: 51.4613, Longitude: -0.1156, Weight: 1},
}

// TestDataGenerator generates synthetic event files
type TestDataGenerator struct {
	baseDir string
	rng     *rand.Rand
}

// NewTestDataGenerator creates a generator with a fixed seed so output is
// reproducible.
func NewTestDataGenerator(baseDir string, seed int64) *TestDataGenerator {
	return &TestDataGenerator{
		baseDir: baseDir,
		rng:     rand.New(rand.NewSource(seed)),
	}
}

// GetBaseDir returns the base directory
func (g *TestDataGenerator) GetBaseDir() string {
	return g.baseDir
}

// Events returns perMonth events for every month of year, scattered within
// roughly a kilometre of the hotspots.
func (g *TestDataGenerator) Events(year, perMonth int, hotspots []Hotspot) []model.Event {
	totalWeight := 0
	for _, h := range hotspots {
		totalWeight += h.Weight
	}

	var events []model.Event
	for month := time.January; month <= time.December; month++ {
		ts := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
		for i := 0; i < perMonth; i++ {
			h := g.pick(hotspots, totalWeight)
			lat := h.Latitude + (g.rng.Float64()-0.5)*0.02
			lng := h.Longitude + (g.rng.Float64()-0.5)*0.03
			events = append(events, model.NewEvent(ts, lat, lng))
		}
	}
	return events
}

func (g *TestDataGenerator) pick(hotspots []Hotspot, totalWeight int) Hotspot {
	n := g.rng.Intn(totalWeight)
	for _, h := range hotspots {
		if n < h.Weight {
			return h
		}
		n -= h.Weight
	}
	return hotspots[len(hotspots)-1]
}

// WriteStreetCSV writes events in the street-level export layout and returns
// the file path. Events without a coordinate get empty coordinate cells.
func (g *TestDataGenerator) WriteStreetCSV(name string, events []model.Event) (string, error) {
	path := filepath.Join(g.baseDir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write([]string{"Crime ID", "Month", "Reported by", "Longitude", "Latitude", "Location", "Crime type"}); err != nil {
		return "", err
	}
	for i, e := range events {
		lng, lat := "", ""
		if e.Valid {
			lng = fmt.Sprintf("%.6f", e.Longitude)
			lat = fmt.Sprintf("%.6f", e.Latitude)
		}
		category := e.Category
		if category == "" {
			category = "Violence and sexual offences"
		}
		record := []string{
			fmt.Sprintf("id-%06d", i),
			e.Timestamp.Format("2006-01"),
			"Metropolitan Police Service",
			lng,
			lat,
			"On or near Test Street",
			category,
		}
		if err := w.Write(record); err != nil {
			return "", err
		}
	}
	w.Flush()
	return path, w.Error()
}

type jsonlEvent struct {
	Month     string   `json:"month"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	Category  string   `json:"category,omitempty"`
}

// WriteJSONL writes events one JSON object per line and returns the path.
func (g *TestDataGenerator) WriteJSONL(name string, events []model.Event) (string, error) {
	path := filepath.Join(g.baseDir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	for _, e := range events {
		rec := jsonlEvent{Month: e.Timestamp.Format("2006-01"), Category: e.Category}
		if e.Valid {
			lat, lng := e.Latitude, e.Longitude
			rec.Latitude, rec.Longitude = &lat, &lng
		}
		data, err := sonic.Marshal(rec)
		if err != nil {
			return "", fmt.Errorf("failed to encode event: %w", err)
		}
		if _, err := file.Write(append(data, '\n')); err != nil {
			return "", err
		}
	}
	return path, nil
}
