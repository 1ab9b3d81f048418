package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/penwyp/go-crime-hexmap/internal/core/model"
	"github.com/penwyp/go-crime-hexmap/internal/util"
)

// CSVReader reads street-level crime exports with a header row containing at
// least Month, Latitude and Longitude. Column names are matched without
// regard to case.
type CSVReader struct {
	location *time.Location
}

// NewCSVReader creates a CSV reader; months are taken in loc.
func NewCSVReader(loc *time.Location) *CSVReader {
	return &CSVReader{location: loc}
}

type csvColumns struct {
	month, latitude, longitude, category int
}

func locateColumns(header []string) (csvColumns, error) {
	cols := csvColumns{month: -1, latitude: -1, longitude: -1, category: -1}
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))) {
		case "month":
			cols.month = i
		case "latitude", "lat":
			cols.latitude = i
		case "longitude", "lng", "lon":
			cols.longitude = i
		case "crime type", "category":
			cols.category = i
		}
	}

	var missing []string
	if cols.month < 0 {
		missing = append(missing, "Month")
	}
	if cols.latitude < 0 {
		missing = append(missing, "Latitude")
	}
	if cols.longitude < 0 {
		missing = append(missing, "Longitude")
	}
	if len(missing) > 0 {
		return cols, fmt.Errorf("missing columns: %s", strings.Join(missing, ", "))
	}
	return cols, nil
}

// Read parses path. Rows whose month cannot be parsed are skipped; rows with
// an empty or malformed coordinate yield events with Valid unset.
func (r *CSVReader) Read(path string) ([]model.Event, error) {
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

// ReadFrom parses CSV content from rd.
func (r *CSVReader) ReadFrom(rd io.Reader) ([]model.Event, error) {
	reader := csv.NewReader(rd)
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	cols, err := locateColumns(header)
	if err != nil {
		return nil, err
	}

	var events []model.Event
	line := 1
	skipped := 0
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			util.LogDebug(fmt.Sprintf("Skip malformed CSV line %d - %v", line, err))
			skipped++
			continue
		}

		field := func(i int) string {
			if i < 0 || i >= len(record) {
				return ""
			}
			return record[i]
		}

		ts, err := ParseMonth(field(cols.month), r.location)
		if err != nil {
			skipped++
			continue
		}
		lat, latOK := parseCoordinate(field(cols.latitude))
		lng, lngOK := parseCoordinate(field(cols.longitude))
		events = append(events, newEvent(ts, lat, lng, latOK, lngOK, strings.TrimSpace(field(cols.category))))
	}

	if skipped > 0 {
		util.LogDebugf("Skipped %d CSV rows without a usable month", skipped)
	}
	return events, nil
}
