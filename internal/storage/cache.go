// Package storage persists verification lookups and report history in SQLite.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"
)

// Lookup is one cached answer from an external verification service.
type Lookup struct {
	Service   string
	Key       string
	Value     string
	FetchedAt time.Time
}

// ReportRecord is a stored verification report.
type ReportRecord struct {
	ID        string
	CreatedAt time.Time
	Data      []byte // JSON-encoded report
}

// Cache wraps the SQLite database holding lookups and report history.
type Cache struct {
	db *sql.DB
}

// OpenCache opens or creates a cache database at the given path.
func OpenCache(path string) (*Cache, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating cache directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes

	if err := createCacheSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Cache{db: db}, nil
}

// Close closes the database connection.
func (c *Cache) Close() error {
	return c.db.Close()
}

func createCacheSchema(db *sql.DB) error {
	schema := `
		-- One row per (service, key) lookup
		CREATE TABLE IF NOT EXISTS lookups (
			service TEXT NOT NULL,
			lookup_key TEXT NOT NULL,
			value TEXT NOT NULL,
			fetched_at INTEGER NOT NULL,
			PRIMARY KEY (service, lookup_key)
		);

		CREATE TABLE IF NOT EXISTS reports (
			id TEXT PRIMARY KEY,
			created_at INTEGER NOT NULL,
			data TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_reports_created ON reports(created_at);
	`

	_, err := db.Exec(schema)
	return err
}

// GetLookup returns the cached value for a service and key.
func (c *Cache) GetLookup(service, key string) (Lookup, bool, error) {
	query, args, err := sq.Select("value", "fetched_at").
		From("lookups").
		Where(sq.Eq{"service": service, "lookup_key": key}).
		ToSql()
	if err != nil {
		return Lookup{}, false, fmt.Errorf("building query: %w", err)
	}

	l := Lookup{Service: service, Key: key}
	var fetchedAt int64
	err = c.db.QueryRow(query, args...).Scan(&l.Value, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Lookup{}, false, nil
	}
	if err != nil {
		return Lookup{}, false, fmt.Errorf("querying lookup: %w", err)
	}
	l.FetchedAt = time.Unix(fetchedAt, 0).UTC()
	return l, true, nil
}

// PutLookup stores a lookup, replacing any earlier value for the same key.
func (c *Cache) PutLookup(l Lookup) error {
	if l.FetchedAt.IsZero() {
		l.FetchedAt = time.Now()
	}

	query, args, err := sq.Insert("lookups").
		Columns("service", "lookup_key", "value", "fetched_at").
		Values(l.Service, l.Key, l.Value, l.FetchedAt.Unix()).
		Suffix("ON CONFLICT(service, lookup_key) DO UPDATE SET value = excluded.value, fetched_at = excluded.fetched_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("building insert: %w", err)
	}

	if _, err := c.db.Exec(query, args...); err != nil {
		return fmt.Errorf("storing lookup: %w", err)
	}
	return nil
}

// SaveReport stores a JSON-encoded report.
func (c *Cache) SaveReport(id string, data []byte, createdAt time.Time) error {
	query, args, err := sq.Insert("reports").
		Columns("id", "created_at", "data").
		Values(id, createdAt.Unix(), string(data)).
		Suffix("ON CONFLICT(id) DO UPDATE SET created_at = excluded.created_at, data = excluded.data").
		ToSql()
	if err != nil {
		return fmt.Errorf("building insert: %w", err)
	}

	if _, err := c.db.Exec(query, args...); err != nil {
		return fmt.Errorf("storing report: %w", err)
	}
	return nil
}

// ListReports returns stored reports, newest first. A non-positive limit
// returns all of them.
func (c *Cache) ListReports(limit int) ([]ReportRecord, error) {
	builder := sq.Select("id", "created_at", "data").
		From("reports").
		OrderBy("created_at DESC", "id")
	if limit > 0 {
		builder = builder.Limit(uint64(limit))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building query: %w", err)
	}

	rows, err := c.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying reports: %w", err)
	}
	defer rows.Close()

	records := []ReportRecord{}
	for rows.Next() {
		var (
			r         ReportRecord
			createdAt int64
			data      string
		)
		if err := rows.Scan(&r.ID, &createdAt, &data); err != nil {
			return nil, fmt.Errorf("scanning report: %w", err)
		}
		r.CreatedAt = time.Unix(createdAt, 0).UTC()
		r.Data = []byte(data)
		records = append(records, r)
	}
	return records, rows.Err()
}

// Clear deletes every cached lookup and stored report. It returns the number
// of lookups removed.
func (c *Cache) Clear() (int64, error) {
	tx, err := c.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec("DELETE FROM lookups")
	if err != nil {
		return 0, fmt.Errorf("clearing lookups: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM reports"); err != nil {
		return 0, fmt.Errorf("clearing reports: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting cleared lookups: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing clear: %w", err)
	}
	return n, nil
}
