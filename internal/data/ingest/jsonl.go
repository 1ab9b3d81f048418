package ingest

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/bytedance/sonic"

	"github.com/penwyp/go-crime-hexmap/internal/core/model"
	"github.com/penwyp/go-crime-hexmap/internal/util"
)

// jsonlRecord is one line of a JSONL event file. Coordinates are pointers so
// a missing value can be told apart from zero.
type jsonlRecord struct {
	Month     string   `json:"month"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Category  string   `json:"category"`
}

// JSONLReader reads one JSON object per line.
type JSONLReader struct {
	location *time.Location
}

// NewJSONLReader creates a JSONL reader; months are taken in loc.
func NewJSONLReader(loc *time.Location) *JSONLReader {
	return &JSONLReader{location: loc}
}

// Read parses path, skipping lines that are not valid JSON or lack a month.
func (r *JSONLReader) Read(path string) ([]model.Event, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	events, err := r.ReadFrom(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return events, nil
}

// ReadFrom parses JSONL content from rd.
func (r *JSONLReader) ReadFrom(rd io.Reader) ([]model.Event, error) {
	var events []model.Event
	scanner := bufio.NewScanner(rd)
	scanner.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)

	lineCount := 0
	for scanner.Scan() {
		lineCount++
		line := scanner.Bytes()
		if len(strings.TrimSpace(string(line))) == 0 {
			continue
		}

		var rec jsonlRecord
		if err := sonic.Unmarshal(line, &rec); err != nil {
			util.LogDebug(fmt.Sprintf("Skip invalid JSON line %d - %v", lineCount, err))
			continue
		}
		ts, err := ParseMonth(rec.Month, r.location)
		if err != nil {
			util.LogDebug(fmt.Sprintf("Skip line %d without month - %v", lineCount, err))
			continue
		}

		var lat, lng float64
		if rec.Latitude != nil {
			lat = *rec.Latitude
		}
		if rec.Longitude != nil {
			lng = *rec.Longitude
		}
		events = append(events, newEvent(ts, lat, lng, rec.Latitude != nil, rec.Longitude != nil, rec.Category))
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return events, nil
}
