package tariff

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(day, hour, minute int) time.Time {
	return time.Date(2025, 1, day, hour, minute, 0, 0, time.UTC)
}

func mustSeries(t *testing.T, readings ...Reading) Series {
	t.Helper()
	s, err := NewSeries(readings)
	require.NoError(t, err)
	return s
}

func TestNewSeriesRejectsInvalidReadings(t *testing.T) {
	tests := []struct {
		name string
		kwh  float64
	}{
		{"Negative", -0.1},
		{"NaN", math.NaN()},
		{"Inf", math.Inf(1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSeries([]Reading{{Timestamp: at(1, 0, 0), KWh: 1}, {Timestamp: at(1, 1, 0), KWh: tt.kwh}})
			require.ErrorIs(t, err, ErrInvalidReading)
		})
	}
}

func TestNewSeriesCopiesInput(t *testing.T) {
	readings := []Reading{{Timestamp: at(1, 0, 0), KWh: 1}}
	s := mustSeries(t, readings...)
	readings[0].KWh = 99

	assert.Equal(t, 1.0, s.Readings()[0].KWh)
	out := s.Readings()
	out[0].KWh = 42
	assert.Equal(t, 1.0, s.TotalKWh())
}

func TestFilterInclusiveBounds(t *testing.T) {
	s := mustSeries(t,
		Reading{Timestamp: at(1, 0, 0), KWh: 1},
		Reading{Timestamp: at(1, 12, 0), KWh: 2},
		Reading{Timestamp: at(2, 0, 0), KWh: 4},
	)

	got := s.Filter(Range{Start: at(1, 12, 0), End: at(2, 0, 0)})
	assert.Equal(t, 2, got.Len())
	assert.Equal(t, 6.0, got.TotalKWh())
}

func TestDayRangeCoversWholeDays(t *testing.T) {
	s := mustSeries(t,
		Reading{Timestamp: at(1, 0, 0), KWh: 1},
		Reading{Timestamp: time.Date(2025, 1, 1, 23, 59, 59, 999, time.UTC), KWh: 2},
		Reading{Timestamp: at(2, 0, 0), KWh: 4},
	)

	oneDay := s.Filter(DayRange(at(1, 15, 0), at(1, 9, 0)))
	assert.Equal(t, 2, oneDay.Len())
	assert.Equal(t, 3.0, oneDay.TotalKWh())
}

func TestFilterEmptyRangeThenCalculate(t *testing.T) {
	s := mustSeries(t, Reading{Timestamp: at(1, 10, 0), KWh: 5})

	empty := s.Filter(DayRange(at(20, 0, 0), at(21, 0, 0)))
	assert.True(t, empty.Empty())

	_, err := FlatPlan{Rate: 0.25, FixedFee: 10}.Calculate(empty)
	assert.ErrorIs(t, err, ErrEmptySeries)
}

func TestBoundsAndDailyTotals(t *testing.T) {
	s := mustSeries(t,
		Reading{Timestamp: at(2, 5, 0), KWh: 1},
		Reading{Timestamp: at(1, 23, 0), KWh: 2},
		Reading{Timestamp: at(2, 6, 0), KWh: 3},
	)

	first, last, ok := s.Bounds()
	require.True(t, ok)
	assert.Equal(t, at(1, 23, 0), first)
	assert.Equal(t, at(2, 6, 0), last)

	days := s.DailyTotals()
	require.Len(t, days, 2)
	assert.Equal(t, at(1, 0, 0), days[0].Start)
	assert.Equal(t, 2.0, days[0].KWh)
	assert.Equal(t, 4.0, days[1].KWh)

	_, _, ok = Series{}.Bounds()
	assert.False(t, ok)
}

func TestHourlyTotals(t *testing.T) {
	s := mustSeries(t,
		Reading{Timestamp: at(1, 5, 30), KWh: 1},
		Reading{Timestamp: at(1, 5, 0), KWh: 2},
		Reading{Timestamp: at(1, 6, 0), KWh: 3},
	)
	assert.True(t, s.HasTimeOfDay())

	hours := s.HourlyTotals()
	require.Len(t, hours, 2)
	assert.Equal(t, at(1, 5, 0), hours[0].Start)
	assert.Equal(t, 3.0, hours[0].KWh)
	assert.Equal(t, 3.0, hours[1].KWh)

	daily := mustSeries(t,
		Reading{Timestamp: at(1, 0, 0), KWh: 10},
		Reading{Timestamp: at(2, 0, 0), KWh: 12},
	)
	assert.False(t, daily.HasTimeOfDay())
}
