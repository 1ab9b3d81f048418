package model

import (
	"math"
	"time"
)

// Event is a single geolocated incident. Events are produced by ingestion and
// only ever read by the frame pipeline.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`

	// Category is the free-form offence type, empty when the source has none.
	Category string `json:"category,omitempty"`

	// Valid is false when the source row carried no usable coordinate.
	Valid bool `json:"valid"`
}

// NewEvent builds a located event.
func NewEvent(ts time.Time, lat, lng float64) Event {
	return Event{Timestamp: ts, Latitude: lat, Longitude: lng, Valid: true}
}

// HasValidCoordinate reports whether the event can be placed on the map.
func (e Event) HasValidCoordinate() bool {
	if !e.Valid {
		return false
	}
	return ValidCoordinate(e.Latitude, e.Longitude)
}

// ValidCoordinate reports whether lat/lng lie in the geographic range.
func ValidCoordinate(lat, lng float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lng) || math.IsInf(lat, 0) || math.IsInf(lng, 0) {
		return false
	}
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}
