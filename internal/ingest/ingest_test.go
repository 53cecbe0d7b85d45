package ingest

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestReadCSV(t *testing.T) {
	input := `timestamp,kWh
2025-01-01 00:00:00,0.25
2025-01-01 01:00:00,0.42
not-a-date,1.0
2025-01-01 02:00,abc
2025-01-01T03:00:00,-0.5

2025-01-02,3.5
`
	res, err := ReadCSV(strings.NewReader(input), Options{Service: "home"})
	require.NoError(t, err)

	assert.Equal(t, 6, res.Rows)
	assert.Equal(t, 1, res.Skipped)
	assert.Equal(t, 2, res.Coerced)
	require.Len(t, res.Records, 5)

	assert.Equal(t, time.Date(2025, 1, 1, 1, 0, 0, 0, time.UTC), res.Records[1].StartTime)
	assert.Equal(t, 0.42, res.Records[1].KWh)
	assert.Equal(t, 0.0, res.Records[2].KWh)
	assert.Equal(t, 0.0, res.Records[3].KWh)
	assert.Equal(t, time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC), res.Records[4].StartTime)
	for _, r := range res.Records {
		assert.Equal(t, "home", r.Service)
	}
}

func TestReadCSVColumnOrderAndCase(t *testing.T) {
	input := "KWH,Timestamp\n1.5,2025-03-01 12:00:00\n"
	res, err := ReadCSV(strings.NewReader(input), Options{})
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	assert.Equal(t, 1.5, res.Records[0].KWh)
}

func TestReadCSVMissingColumns(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("date,value\n2025-01-01,1\n"), Options{})
	assert.ErrorIs(t, err, ErrMissingColumns)

	_, err = ReadCSV(strings.NewReader(""), Options{})
	assert.ErrorIs(t, err, ErrMissingColumns)
}

func TestReadCSVLocation(t *testing.T) {
	loc := time.FixedZone("EST", -5*3600)
	res, err := ReadCSV(strings.NewReader("timestamp,kWh\n2025-01-01 18:30:00,1\n"), Options{Location: loc})
	require.NoError(t, err)
	assert.Equal(t, 18, res.Records[0].StartTime.Hour())
	assert.Equal(t, loc, res.Records[0].StartTime.Location())
}

func TestReadCSVConvertsOffsetsToLocation(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	input := `timestamp,kWh
2024-01-01T23:00:00Z,1
2024-11-03T01:30:00-04:00,1
2024-11-03T01:30:00-05:00,2
`
	res, err := ReadCSV(strings.NewReader(input), Options{Location: ny})
	require.NoError(t, err)
	require.Len(t, res.Records, 3)

	utc := res.Records[0].StartTime
	assert.Equal(t, ny, utc.Location())
	assert.Equal(t, 18, utc.Hour())
	assert.True(t, time.Date(2024, 1, 1, 23, 0, 0, 0, time.UTC).Equal(utc))

	// Same local clock, different instants
	first, second := res.Records[1].StartTime, res.Records[2].StartTime
	assert.Equal(t, first.Hour(), second.Hour())
	assert.Equal(t, time.Hour, second.Sub(first))
}

func TestReadXLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetCellValue(sheet, "A1", "timestamp"))
	require.NoError(t, f.SetCellValue(sheet, "B1", "kWh"))
	require.NoError(t, f.SetCellValue(sheet, "A2", "2025-01-01 18:00:00"))
	require.NoError(t, f.SetCellValue(sheet, "B2", 1.25))
	require.NoError(t, f.SetCellValue(sheet, "A3", "2025-01-01 19:00:00"))
	require.NoError(t, f.SetCellValue(sheet, "B3", 2))

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	res, err := ReadXLSX(&buf, Options{Service: "home"})
	require.NoError(t, err)
	require.Len(t, res.Records, 2)
	assert.Equal(t, 1.25, res.Records[0].KWh)
	assert.Equal(t, 19, res.Records[1].StartTime.Hour())
}

func TestReadFileByExtension(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "usage.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("timestamp,kWh\n2025-01-01,1\n"), 0600))

	res, err := ReadFile(csvPath, Options{Service: "home"})
	require.NoError(t, err)
	assert.Len(t, res.Records, 1)

	_, err = ReadFile(filepath.Join(dir, "usage.json"), Options{})
	assert.Error(t, err)
}

func TestParseTimestampSerial(t *testing.T) {
	// 45658.75 is 2025-01-01 18:00 in the 1900 date system
	ts, err := parseTimestamp("45658.75", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 1, 1, 18, 0, 0, 0, time.UTC), ts)
}
