package models

import (
	"time"

	"github.com/jgoulah/gridtariff/internal/tariff"
)

// UsageData represents a single stored usage reading
type UsageData struct {
	ID        int       `json:"id"`
	Date      time.Time `json:"date"`       // Just the date (for querying)
	StartTime time.Time `json:"start_time"` // Full timestamp of the reading
	EndTime   time.Time `json:"end_time"`   // Optional end of the metering interval
	KWh       float64   `json:"kwh"`
	Service   string    `json:"service"` // Meter or utility the reading belongs to
}

// Timestamp returns the instant used for billing, falling back to the date
// for daily readings without a start time.
func (u UsageData) Timestamp() time.Time {
	if !u.StartTime.IsZero() {
		return u.StartTime
	}
	return u.Date
}

// ToSeries converts stored rows into a billing series
func ToSeries(data []UsageData) (tariff.Series, error) {
	readings := make([]tariff.Reading, len(data))
	for i, d := range data {
		readings[i] = tariff.Reading{Timestamp: d.Timestamp(), KWh: d.KWh}
	}
	return tariff.NewSeries(readings)
}
