package model

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/penwyp/go-crime-hexmap/internal/core/constants"
)

// ErrOutOfRangePeriod is returned when a period outside [1,12] is requested.
var ErrOutOfRangePeriod = errors.New("period out of range")

// Period identifies a calendar month, 1 (January) through 12 (December).
type Period int

// ValidatePeriod rejects values outside [1,12].
func ValidatePeriod(p Period) error {
	if p < constants.MinPeriod || p > constants.MaxPeriod {
		return fmt.Errorf("%w: %d (must be %d-%d)", ErrOutOfRangePeriod, int(p), constants.MinPeriod, constants.MaxPeriod)
	}
	return nil
}

// ParsePeriod parses a decimal period and validates it.
func ParsePeriod(s string) (Period, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrOutOfRangePeriod, s)
	}
	p := Period(n)
	if err := ValidatePeriod(p); err != nil {
		return 0, err
	}
	return p, nil
}

// PeriodOf returns the period of t in loc.
func PeriodOf(t time.Time, loc *time.Location) Period {
	if loc != nil {
		t = t.In(loc)
	}
	return Period(t.Month())
}

// Next returns the following period, wrapping December to January.
func (p Period) Next() Period {
	if p >= constants.MaxPeriod {
		return constants.MinPeriod
	}
	return p + 1
}

// Prev returns the preceding period, wrapping January to December.
func (p Period) Prev() Period {
	if p <= constants.MinPeriod {
		return constants.MaxPeriod
	}
	return p - 1
}

// String returns the month name, or the raw number when out of range.
func (p Period) String() string {
	if ValidatePeriod(p) != nil {
		return strconv.Itoa(int(p))
	}
	return time.Month(p).String()
}
