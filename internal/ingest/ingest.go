// Package ingest reads usage exports (CSV or XLSX with timestamp and kWh
// columns) and cleans them into storable readings.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/jgoulah/gridtariff/internal/logger"
	"github.com/jgoulah/gridtariff/pkg/models"
)

// ErrMissingColumns is returned when the header lacks a timestamp or kWh column.
var ErrMissingColumns = errors.New("ingest: file must contain 'timestamp' and 'kWh' columns")

var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	time.RFC3339,
	"2006-01-02",
	"01/02/2006 15:04:05",
	"01/02/2006 15:04",
	"01/02/2006",
}

// Options control how rows are interpreted.
type Options struct {
	Service string
	// Location of the meter. Timestamps without a zone are read in it and
	// timestamps with one are converted to it. Defaults to UTC.
	Location *time.Location
}

// Result is the outcome of reading one file.
type Result struct {
	Records []models.UsageData
	// Rows is the number of data rows read, excluding the header.
	Rows int
	// Skipped counts rows dropped because the timestamp could not be parsed.
	Skipped int
	// Coerced counts kWh values that were missing, non-numeric or negative and
	// were stored as 0.
	Coerced int
}

// ReadFile reads a .csv, .xlsx or .xlsm file.
func ReadFile(path string, opts Options) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		return ReadCSV(f, opts)
	case ".xlsx", ".xlsm":
		return ReadXLSX(f, opts)
	default:
		return nil, fmt.Errorf("unsupported file type %q (use .csv or .xlsx)", filepath.Ext(path))
	}
}

// ReadCSV reads comma separated rows with a header line.
func ReadCSV(r io.Reader, opts Options) (*Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading CSV: %w", err)
	}
	return parseRows(rows, opts)
}

// ReadXLSX reads the first sheet of a workbook.
func ReadXLSX(r io.Reader, opts Options) (*Result, error) {
	f, err := excelize.OpenReader(r, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("reading sheet %s: %w", sheets[0], err)
	}
	return parseRows(rows, opts)
}

func parseRows(rows [][]string, opts Options) (*Result, error) {
	if len(rows) == 0 {
		return nil, ErrMissingColumns
	}
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}

	tsCol, kwhCol := -1, -1
	for i, h := range rows[0] {
		switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))) {
		case "timestamp", "time", "datetime":
			tsCol = i
		case "kwh", "usage", "usage_kwh":
			kwhCol = i
		}
	}
	if tsCol < 0 || kwhCol < 0 {
		return nil, ErrMissingColumns
	}

	res := &Result{}
	for n, row := range rows[1:] {
		if isBlank(row) {
			continue
		}
		res.Rows++
		line := n + 2

		ts, err := parseTimestamp(cell(row, tsCol), loc)
		if err != nil {
			logger.Debug("skipping row", "line", line, "error", err)
			res.Skipped++
			continue
		}

		kwh, ok := parseKWh(cell(row, kwhCol))
		if !ok {
			logger.Debug("coercing kWh to 0", "line", line, "value", cell(row, kwhCol))
			res.Coerced++
		}

		res.Records = append(res.Records, models.UsageData{
			Date:      ts,
			StartTime: ts,
			KWh:       kwh,
			Service:   opts.Service,
		})
	}

	if res.Skipped > 0 || res.Coerced > 0 {
		logger.Warn("cleaned usage rows", "skipped", res.Skipped, "coerced", res.Coerced, "rows", res.Rows)
	}
	return res, nil
}

func parseTimestamp(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	for _, layout := range timestampLayouts {
		// Timestamps with an explicit offset are moved into loc so rate
		// windows see the local clock.
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t.In(loc), nil
		}
	}
	// Raw spreadsheet date serial
	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial > 0 {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid date serial %q: %w", s, err)
		}
		// round to the second to drop float noise
		t = t.Round(time.Second)
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, loc), nil
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", s)
}

// parseKWh returns the value and whether it was usable as is.
func parseKWh(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, false
	}
	return v, true
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
