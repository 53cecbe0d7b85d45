package tariff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    ClockTime
		wantErr bool
	}{
		{"18:00", Clock(18, 0), false},
		{" 07:30 ", Clock(7, 30), false},
		{"06:59:30", ClockTime{Hour: 6, Minute: 59, Second: 30}, false},
		{"24:00", Clock(0, 0), false},
		{"25:00", ClockTime{}, true},
		{"12:60", ClockTime{}, true},
		{"noon", ClockTime{}, true},
		{"", ClockTime{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseClock(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRateWindowMidnightWrap(t *testing.T) {
	night := RateWindow{Label: "Night", Start: Clock(22, 0), End: Clock(7, 0), Rate: 0.15}
	require.True(t, night.Wraps())

	tests := []struct {
		at   ClockTime
		want bool
	}{
		{Clock(23, 30), true},
		{Clock(0, 15), true},
		{ClockTime{Hour: 6, Minute: 59, Second: 59}, true},
		{Clock(6, 59), true},
		{Clock(22, 0), true},
		{Clock(7, 0), false},
		{Clock(21, 59), false},
		{Clock(12, 0), false},
	}
	for _, tt := range tests {
		t.Run(tt.at.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, night.Contains(tt.at))
		})
	}
}

func TestRateWindowNormalInterval(t *testing.T) {
	peak := RateWindow{Label: "Peak", Start: Clock(18, 0), End: Clock(22, 0), Rate: 0.40}
	assert.False(t, peak.Wraps())
	assert.True(t, peak.Contains(Clock(18, 0)))
	assert.True(t, peak.Contains(Clock(21, 59)))
	assert.False(t, peak.Contains(Clock(22, 0)))
	assert.False(t, peak.Contains(Clock(17, 59)))
}

func TestRateWindowSameStartAndEndCoversDay(t *testing.T) {
	all := RateWindow{Label: "All", Start: Clock(9, 0), End: Clock(9, 0)}
	for _, c := range []ClockTime{Clock(0, 0), Clock(8, 59), Clock(9, 0), Clock(23, 59)} {
		assert.True(t, all.Contains(c), c.String())
	}
}

func TestMatchWindow(t *testing.T) {
	windows := []RateWindow{
		{Label: "Shoulder", Rate: 0.25, Default: true},
		{Label: "Peak", Start: Clock(18, 0), End: Clock(22, 0), Rate: 0.40},
		{Label: "Evening", Start: Clock(17, 0), End: Clock(23, 0), Rate: 0.30},
		{Label: "Off-Peak", Start: Clock(22, 0), End: Clock(7, 0), Rate: 0.15},
	}

	tests := []struct {
		name string
		at   ClockTime
		want string
	}{
		{"DeclarationOrderWinsOverlap", Clock(19, 0), "Peak"},
		{"SecondWindowWhenFirstMisses", Clock(17, 30), "Evening"},
		{"PeakEndFallsToNextWindow", Clock(22, 0), "Evening"},
		{"WrapAfterMidnight", Clock(3, 0), "Off-Peak"},
		{"EndBoundaryGoesToDefault", Clock(7, 0), "Shoulder"},
		{"Default", Clock(12, 0), "Shoulder"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := MatchWindow(tt.at, windows)
			require.True(t, ok)
			assert.Equal(t, tt.want, got.Label)
		})
	}
}

func TestMatchWindowWithoutDefault(t *testing.T) {
	windows := []RateWindow{{Label: "Peak", Start: Clock(18, 0), End: Clock(22, 0), Rate: 0.40}}
	_, ok := MatchWindow(Clock(12, 0), windows)
	assert.False(t, ok)
}
