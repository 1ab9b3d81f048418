package constants

import "time"

const (
	// Period bounds: one period per calendar month
	MinPeriod     = 1
	MaxPeriod     = 12
	PeriodCount   = MaxPeriod - MinPeriod + 1
	InitialPeriod = MinPeriod

	// H3 resolution used for binning; 8 gives cells of roughly 0.7 km²
	DefaultResolution = 8
	MinResolution     = 0
	MaxResolution     = 15

	// Animation cadence
	DefaultTickInterval = 5 * time.Second
	MinTickInterval     = 100 * time.Millisecond
	DefaultUIRefreshHz  = 4.0
	MinUIRefreshHz      = 0.1
	MaxUIRefreshHz      = 20.0

	// Web Mercator (EPSG:3857) sphere radius in meters
	EarthRadiusMeters = 6378137.0
	// Latitude where Web Mercator becomes square; beyond it output is unspecified
	MaxMercatorLatitude = 85.05112878
)

// DefaultPalette is the stepped four-color blue ramp, low to high.
var DefaultPalette = []string{"#6bb5c5", "#3f86b1", "#489cc0", "#2179b2"}
