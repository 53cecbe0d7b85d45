package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/jgoulah/gridtariff/pkg/models"
	_ "modernc.org/sqlite"
)

const (
	dateLayout     = "2006-01-02"
	datetimeLayout = "2006-01-02 15:04:05"
)

// DB wraps the database connection
type DB struct {
	conn *sql.DB
}

// New creates a new database connection and initializes the schema
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.initSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	return db, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// initSchema creates the necessary tables. start_time and end_time hold UTC
// instants; utc_offset keeps the reading's local offset in seconds so the
// local wall clock can be restored.
func (db *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS usage_data (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		date TEXT NOT NULL,
		start_time TEXT NOT NULL,
		end_time TEXT,
		utc_offset INTEGER NOT NULL DEFAULT 0,
		kwh REAL NOT NULL,
		service TEXT NOT NULL,
		created_at TEXT NOT NULL,
		UNIQUE(start_time, service)
	);
	CREATE INDEX IF NOT EXISTS idx_usage_date ON usage_data(date);
	CREATE INDEX IF NOT EXISTS idx_usage_service ON usage_data(service);
	CREATE INDEX IF NOT EXISTS idx_usage_start_time ON usage_data(start_time);
	`

	if _, err := db.conn.Exec(schema); err != nil {
		return err
	}

	// Add columns to existing tables (migration)
	// Ignore errors if columns already exist
	db.conn.Exec(`ALTER TABLE usage_data ADD COLUMN utc_offset INTEGER NOT NULL DEFAULT 0`)

	return nil
}

// InsertBatch inserts records in a single transaction and returns how many
// were new. A reading whose instant is already stored for the service is
// ignored.
func (db *DB) InsertBatch(records []models.UsageData) (int, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return 0, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
	INSERT OR IGNORE INTO usage_data (date, start_time, end_time, utc_offset, kwh, service, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	createdAt := time.Now().UTC().Format(time.RFC3339)
	inserted := 0
	for _, r := range records {
		ts := r.Timestamp()
		_, offset := ts.Zone()
		var endTimeStr sql.NullString
		if !r.EndTime.IsZero() {
			endTimeStr = sql.NullString{String: r.EndTime.UTC().Format(datetimeLayout), Valid: true}
		}
		res, err := stmt.Exec(ts.Format(dateLayout), ts.UTC().Format(datetimeLayout), endTimeStr, offset, r.KWh, r.Service, createdAt)
		if err != nil {
			return 0, fmt.Errorf("inserting reading at %s: %w", ts.Format(time.RFC3339), err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			inserted++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing readings: %w", err)
	}
	return inserted, nil
}

// ListUsage retrieves all usage data for a service, ordered by start time
func (db *DB) ListUsage(service string) ([]models.UsageData, error) {
	query := `
	SELECT id, date, start_time, end_time, utc_offset, kwh, service
	FROM usage_data
	WHERE service = ?
	ORDER BY start_time ASC
	`

	rows, err := db.conn.Query(query, service)
	if err != nil {
		return nil, fmt.Errorf("querying usage data: %w", err)
	}
	defer rows.Close()

	return scanUsage(rows)
}

// ListUsageBetween retrieves usage data for a service whose start time lies
// within [from, to], ordered by start time.
func (db *DB) ListUsageBetween(service string, from, to time.Time) ([]models.UsageData, error) {
	query := `
	SELECT id, date, start_time, end_time, utc_offset, kwh, service
	FROM usage_data
	WHERE service = ? AND start_time >= ? AND start_time <= ?
	ORDER BY start_time ASC
	`

	rows, err := db.conn.Query(query, service, from.UTC().Format(datetimeLayout), to.UTC().Format(datetimeLayout))
	if err != nil {
		return nil, fmt.Errorf("querying usage data: %w", err)
	}
	defer rows.Close()

	return scanUsage(rows)
}

// ListServices returns the distinct services that have stored readings
func (db *DB) ListServices() ([]string, error) {
	rows, err := db.conn.Query(`SELECT DISTINCT service FROM usage_data ORDER BY service`)
	if err != nil {
		return nil, fmt.Errorf("querying services: %w", err)
	}
	defer rows.Close()

	var services []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("scanning service: %w", err)
		}
		services = append(services, s)
	}
	return services, rows.Err()
}

// DeleteService removes every reading of a service and returns the count
func (db *DB) DeleteService(service string) (int64, error) {
	res, err := db.conn.Exec(`DELETE FROM usage_data WHERE service = ?`, service)
	if err != nil {
		return 0, fmt.Errorf("deleting usage data: %w", err)
	}
	return res.RowsAffected()
}

func scanUsage(rows *sql.Rows) ([]models.UsageData, error) {
	var results []models.UsageData
	for rows.Next() {
		var data models.UsageData
		var dateStr, startTimeStr string
		var endTimeStr sql.NullString
		var offset int

		if err := rows.Scan(&data.ID, &dateStr, &startTimeStr, &endTimeStr, &offset, &data.KWh, &data.Service); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		loc := zoneFor(offset)

		var err error
		data.Date, err = time.ParseInLocation(dateLayout, dateStr, loc)
		if err != nil {
			return nil, fmt.Errorf("parsing date: %w", err)
		}

		data.StartTime, err = time.Parse(datetimeLayout, startTimeStr)
		if err != nil {
			return nil, fmt.Errorf("parsing start_time: %w", err)
		}
		data.StartTime = data.StartTime.In(loc)

		if endTimeStr.Valid && endTimeStr.String != "" {
			data.EndTime, err = time.Parse(datetimeLayout, endTimeStr.String)
			if err != nil {
				return nil, fmt.Errorf("parsing end_time: %w", err)
			}
			data.EndTime = data.EndTime.In(loc)
		}

		results = append(results, data)
	}

	return results, rows.Err()
}

// zoneFor returns the fixed zone for a stored UTC offset
func zoneFor(offset int) *time.Location {
	if offset == 0 {
		return time.UTC
	}
	return time.FixedZone("", offset)
}
