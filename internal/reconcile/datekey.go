package reconcile

import (
	"errors"
	"fmt"
	"time"
)

// DateLayout is the calendar-day key format used across the station records.
const DateLayout = "2006-01-02"

// ErrInvalidDate is returned for keys that are not YYYY-MM-DD calendar days.
var ErrInvalidDate = errors.New("invalid date key")

// DateKey returns the station calendar day of instant in loc.
// A nil location is treated as UTC, never as the process local zone.
func DateKey(instant time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return instant.In(loc).Format(DateLayout)
}

// ParseDateKey validates key and returns midnight of that day in loc.
func ParseDateKey(key string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(DateLayout, key, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, key)
	}
	return t, nil
}

// ShiftDateKey moves key by days calendar days.
func ShiftDateKey(key string, days int) (string, error) {
	t, err := ParseDateKey(key, time.UTC)
	if err != nil {
		return "", err
	}
	return t.AddDate(0, 0, days).Format(DateLayout), nil
}

// PreviousDateKey returns the calendar day before key.
func PreviousDateKey(key string) (string, error) {
	return ShiftDateKey(key, -1)
}

// DayBounds returns the half-open [start, end) instant range covering the
// calendar day key in loc. DST days are not assumed to be 24h long.
func DayBounds(key string, loc *time.Location) (time.Time, time.Time, error) {
	start, err := ParseDateKey(key, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, start.AddDate(0, 0, 1), nil
}

// MonthBounds returns the first and last date keys of the given month.
func MonthBounds(year int, month time.Month) (string, string) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	return first.Format(DateLayout), last.Format(DateLayout)
}
