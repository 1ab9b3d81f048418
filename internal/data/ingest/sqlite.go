package ingest

import (
	"database/sql"
	"fmt"
	"regexp"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/penwyp/go-crime-hexmap/internal/core/model"
	"github.com/penwyp/go-crime-hexmap/internal/util"
)

// DefaultTable is the table queried when none is configured.
const DefaultTable = "crimes"

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// SQLiteReader reads events from a table with month, latitude and longitude
// columns, plus an optional category (or crime_type) column. NULL coordinates
// yield events with Valid unset.
type SQLiteReader struct {
	location *time.Location
	table    string
}

// NewSQLiteReader creates a reader for table; an empty table means
// DefaultTable.
func NewSQLiteReader(loc *time.Location, table string) *SQLiteReader {
	if table == "" {
		table = DefaultTable
	}
	return &SQLiteReader{location: loc, table: table}
}

// Read opens path and loads every row of the table.
func (r *SQLiteReader) Read(path string) ([]model.Event, error) {
	if !tableName.MatchString(r.table) {
		return nil, fmt.Errorf("invalid table name %q", r.table)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database %s: %w", path, err)
	}

	return r.ReadDB(db)
}

// categoryColumn returns the table's category column, or "" when it has none.
func (r *SQLiteReader) categoryColumn(db *sql.DB) (string, error) {
	rows, err := db.Query(fmt.Sprintf("PRAGMA table_info(%s)", r.table))
	if err != nil {
		return "", fmt.Errorf("failed to inspect table %s: %w", r.table, err)
	}
	defer rows.Close()

	found := ""
	for rows.Next() {
		var (
			cid, notNull, pk int
			name, colType    string
			defaultValue     sql.NullString
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &defaultValue, &pk); err != nil {
			return "", fmt.Errorf("failed to inspect table %s: %w", r.table, err)
		}
		switch strings.ToLower(name) {
		case "category":
			found = name
		case "crime_type":
			if found == "" {
				found = name
			}
		}
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("failed to inspect table %s: %w", r.table, err)
	}
	return found, nil
}

// ReadDB loads events from an open database.
func (r *SQLiteReader) ReadDB(db *sql.DB) ([]model.Event, error) {
	category, err := r.categoryColumn(db)
	if err != nil {
		return nil, err
	}
	categoryExpr := "NULL"
	if category != "" {
		categoryExpr = fmt.Sprintf("%q", category)
	} else {
		util.LogDebugf("Table %s has no category column", r.table)
	}

	query := fmt.Sprintf("SELECT month, latitude, longitude, %s FROM %s", categoryExpr, r.table)
	rows, err := db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query table %s: %w", r.table, err)
	}
	defer rows.Close()

	var events []model.Event
	skipped := 0
	for rows.Next() {
		var (
			month, crimeType sql.NullString
			lat, lng         sql.NullFloat64
		)
		if err := rows.Scan(&month, &lat, &lng, &crimeType); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		ts, err := ParseMonth(month.String, r.location)
		if !month.Valid || err != nil {
			skipped++
			continue
		}
		events = append(events, newEvent(ts, lat.Float64, lng.Float64, lat.Valid, lng.Valid, strings.TrimSpace(crimeType.String)))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}

	if skipped > 0 {
		util.LogDebugf("Skipped %d rows without a usable month in %s", skipped, r.table)
	}
	return events, nil
}
