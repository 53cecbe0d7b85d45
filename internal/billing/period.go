package billing

import (
	"errors"
	"fmt"
	"time"

	"github.com/jgoulah/gridtariff/internal/tariff"
)

// Defaults used when a period bound is left empty.
const (
	DefaultFrom = "30d"
	DefaultTo   = "0d"
)

// ErrInvalidPeriod is returned for unparsable or reversed date bounds.
var ErrInvalidPeriod = errors.New("invalid period")

// ParseDate parses a date in YYYY-MM-DD format or a relative "Nd" meaning N
// days before now. The result is midnight of that calendar day in loc.
func ParseDate(s string, now time.Time, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	if t, err := time.ParseInLocation("2006-01-02", s, loc); err == nil {
		return t, nil
	}

	// Relative format, e.g. "7d" for 7 days ago
	if len(s) > 1 && s[len(s)-1] == 'd' {
		var days int
		if _, err := fmt.Sscanf(s[:len(s)-1], "%d", &days); err == nil && days >= 0 {
			y, m, d := now.In(loc).AddDate(0, 0, -days).Date()
			return time.Date(y, m, d, 0, 0, 0, 0, loc), nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: invalid date format: %s (use YYYY-MM-DD or Nd for N days ago)", ErrInvalidPeriod, s)
}

// ParsePeriod turns two date bounds into a range of whole days in loc. Empty
// bounds fall back to DefaultFrom and DefaultTo.
func ParsePeriod(from, to string, now time.Time, loc *time.Location) (tariff.Range, error) {
	if from == "" {
		from = DefaultFrom
	}
	if to == "" {
		to = DefaultTo
	}

	start, err := ParseDate(from, now, loc)
	if err != nil {
		return tariff.Range{}, err
	}
	end, err := ParseDate(to, now, loc)
	if err != nil {
		return tariff.Range{}, err
	}
	if end.Before(start) {
		return tariff.Range{}, fmt.Errorf("%w: %s is after %s", ErrInvalidPeriod, from, to)
	}
	return tariff.DayRange(start, end), nil
}
