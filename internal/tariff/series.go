package tariff

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// Reading is a single energy usage measurement.
type Reading struct {
	Timestamp time.Time
	KWh       float64
}

// Series is an immutable collection of readings. Order is preserved but has
// no effect on totals.
type Series struct {
	readings []Reading
}

// NewSeries copies readings into a Series. Every reading must carry a finite,
// non-negative kWh value; cleaning bad input is up to the caller.
func NewSeries(readings []Reading) (Series, error) {
	out := make([]Reading, len(readings))
	for i, r := range readings {
		if math.IsNaN(r.KWh) || math.IsInf(r.KWh, 0) || r.KWh < 0 {
			return Series{}, fmt.Errorf("%w: reading %d at %s has %v kWh",
				ErrInvalidReading, i, r.Timestamp.Format(time.DateTime), r.KWh)
		}
		out[i] = r
	}
	return Series{readings: out}, nil
}

// Len returns the number of readings.
func (s Series) Len() int {
	return len(s.readings)
}

// Empty reports whether the series holds no readings.
func (s Series) Empty() bool {
	return len(s.readings) == 0
}

// Readings returns a copy of the readings in their original order.
func (s Series) Readings() []Reading {
	out := make([]Reading, len(s.readings))
	copy(out, s.readings)
	return out
}

// TotalKWh sums all readings in order.
func (s Series) TotalKWh() float64 {
	var total float64
	for _, r := range s.readings {
		total += r.KWh
	}
	return total
}

// Bounds returns the earliest and latest timestamps. ok is false for an empty series.
func (s Series) Bounds() (first, last time.Time, ok bool) {
	if len(s.readings) == 0 {
		return time.Time{}, time.Time{}, false
	}
	first, last = s.readings[0].Timestamp, s.readings[0].Timestamp
	for _, r := range s.readings[1:] {
		if r.Timestamp.Before(first) {
			first = r.Timestamp
		}
		if r.Timestamp.After(last) {
			last = r.Timestamp
		}
	}
	return first, last, true
}

// Total is the consumption of one day or hour starting at Start.
type Total struct {
	Start time.Time
	KWh   float64
}

// DailyTotals groups readings by calendar date (in each reading's location)
// and returns the totals in chronological order.
func (s Series) DailyTotals() []Total {
	return s.totalsBy(startOfDay)
}

// HourlyTotals groups readings by clock hour and returns the totals in
// chronological order.
func (s Series) HourlyTotals() []Total {
	return s.totalsBy(func(t time.Time) time.Time {
		y, m, d := t.Date()
		return time.Date(y, m, d, t.Hour(), 0, 0, 0, t.Location())
	})
}

// HasTimeOfDay reports whether any reading falls after midnight, i.e. the
// series is finer than one reading per day.
func (s Series) HasTimeOfDay() bool {
	for _, r := range s.readings {
		if ClockOf(r.Timestamp) != (ClockTime{}) {
			return true
		}
	}
	return false
}

func (s Series) totalsBy(bucket func(time.Time) time.Time) []Total {
	index := make(map[time.Time]int)
	var totals []Total
	for _, r := range s.readings {
		start := bucket(r.Timestamp)
		idx, ok := index[start]
		if !ok {
			idx = len(totals)
			index[start] = idx
			totals = append(totals, Total{Start: start})
		}
		totals[idx].KWh += r.KWh
	}
	sort.SliceStable(totals, func(i, j int) bool {
		return totals[i].Start.Before(totals[j].Start)
	})
	return totals
}

// Range is an inclusive time range.
type Range struct {
	Start time.Time
	End   time.Time
}

// DayRange returns a range covering every instant from the start of first's
// date to the end of last's date.
func DayRange(first, last time.Time) Range {
	return Range{Start: startOfDay(first), End: endOfDay(last)}
}

// Contains reports whether t lies within the range, bounds included.
func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// Filter returns the readings that fall within r. The result may be empty.
func (s Series) Filter(r Range) Series {
	var out []Reading
	for _, reading := range s.readings {
		if r.Contains(reading.Timestamp) {
			out = append(out, reading)
		}
	}
	return Series{readings: out}
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return startOfDay(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}
