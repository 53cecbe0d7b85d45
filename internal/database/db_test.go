package database

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jgoulah/gridtariff/pkg/models"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func reading(day, hour int, kwh float64, service string) models.UsageData {
	ts := time.Date(2025, 1, day, hour, 0, 0, 0, time.UTC)
	return models.UsageData{Date: ts, StartTime: ts, KWh: kwh, Service: service}
}

func TestInsertAndListUsage(t *testing.T) {
	db := newTestDB(t)

	r := reading(1, 18, 1.5, "home")
	inserted, err := db.InsertBatch([]models.UsageData{r})
	require.NoError(t, err)
	assert.Equal(t, 1, inserted)

	inserted, err = db.InsertBatch([]models.UsageData{r})
	require.NoError(t, err)
	assert.Zero(t, inserted, "duplicate start_time/service must be ignored")

	got, err := db.ListUsage("home")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 1.5, got[0].KWh)
	assert.Equal(t, r.StartTime, got[0].StartTime)
	assert.Equal(t, "2025-01-01", got[0].Date.Format("2006-01-02"))
	assert.True(t, got[0].EndTime.IsZero())
}

func TestReadingsKeepTheirOffset(t *testing.T) {
	db := newTestDB(t)

	// The repeated hour when New York leaves daylight saving time
	edt := time.FixedZone("EDT", -4*3600)
	est := time.FixedZone("EST", -5*3600)
	first := time.Date(2024, 11, 3, 1, 30, 0, 0, edt)
	second := time.Date(2024, 11, 3, 1, 30, 0, 0, est)
	sameInstant := first.In(time.UTC)

	n, err := db.InsertBatch([]models.UsageData{
		{Date: first, StartTime: first, KWh: 1, Service: "home"},
		{Date: second, StartTime: second, KWh: 2, Service: "home"},
		{Date: sameInstant, StartTime: sameInstant, KWh: 4, Service: "home"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	got, err := db.ListUsage("home")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 3.0, got[0].KWh+got[1].KWh)

	assert.True(t, first.Equal(got[0].StartTime))
	assert.True(t, second.Equal(got[1].StartTime))
	for _, u := range got {
		assert.Equal(t, 1, u.StartTime.Hour(), "local wall clock is restored")
		assert.Equal(t, 30, u.StartTime.Minute())
	}
	_, offset := got[1].StartTime.Zone()
	assert.Equal(t, -5*3600, offset)

	// Range queries compare instants
	from := time.Date(2024, 11, 3, 6, 0, 0, 0, time.UTC)
	to := time.Date(2024, 11, 3, 6, 59, 59, 0, time.UTC)
	inHour, err := db.ListUsageBetween("home", from, to)
	require.NoError(t, err)
	require.Len(t, inHour, 1)
	assert.Equal(t, 2.0, inHour[0].KWh)
}

func TestInsertBatchAndRange(t *testing.T) {
	db := newTestDB(t)

	batch := []models.UsageData{
		reading(1, 0, 1, "home"),
		reading(1, 23, 2, "home"),
		reading(2, 0, 4, "home"),
		reading(1, 12, 8, "cabin"),
		reading(1, 0, 1, "home"),
	}
	n, err := db.InsertBatch(batch)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 1, 1, 23, 59, 59, 0, time.UTC)
	got, err := db.ListUsageBetween("home", from, to)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 1.0, got[0].KWh)
	assert.Equal(t, 2.0, got[1].KWh)

	services, err := db.ListServices()
	require.NoError(t, err)
	assert.Equal(t, []string{"cabin", "home"}, services)

	deleted, err := db.DeleteService("cabin")
	require.NoError(t, err)
	assert.EqualValues(t, 1, deleted)
}

func TestRowsConvertToSeries(t *testing.T) {
	db := newTestDB(t)
	_, err := db.InsertBatch([]models.UsageData{reading(1, 1, 1, "home"), reading(1, 2, 2.5, "home")})
	require.NoError(t, err)

	rows, err := db.ListUsage("home")
	require.NoError(t, err)
	series, err := models.ToSeries(rows)
	require.NoError(t, err)
	assert.Equal(t, 2, series.Len())
	assert.Equal(t, 3.5, series.TotalKWh())
}
