package ingest

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/penwyp/go-crime-hexmap/internal/core/model"
	"github.com/penwyp/go-crime-hexmap/internal/data/scanner"
)

// Reader loads every event from one source file.
type Reader interface {
	Read(path string) ([]model.Event, error)
}

var monthLayouts = []string{
	"2006-01",
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006/01",
}

// ParseMonth parses the month column of a source row. Values without a zone
// are taken in loc.
func ParseMonth(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range monthLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized month %q", value)
}

// parseCoordinate returns ok=false for empty or non-numeric values.
func parseCoordinate(value string) (float64, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// newEvent builds an event whose Valid flag reflects both coordinates.
func newEvent(ts time.Time, lat, lng float64, latOK, lngOK bool, category string) model.Event {
	return model.Event{
		Timestamp: ts,
		Latitude:  lat,
		Longitude: lng,
		Category:  category,
		Valid:     latOK && lngOK,
	}
}

// ReaderFor returns the reader for a file kind.
func ReaderFor(kind scanner.Kind, loc *time.Location, table string) (Reader, error) {
	switch kind {
	case scanner.KindCSV:
		return NewCSVReader(loc), nil
	case scanner.KindJSONL:
		return NewJSONLReader(loc), nil
	case scanner.KindSQLite:
		return NewSQLiteReader(loc, table), nil
	default:
		return nil, fmt.Errorf("unsupported source kind %q", kind)
	}
}
