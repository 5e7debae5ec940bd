// Package cachedb stores fetched timetables in a local SQLite database so a
// session can serve them again without a network round trip.
//
// One row per tenant-user and date range holds the JSON-encoded canonical
// timetable; storing the same range again replaces the row. The schema is
// created on open, so a fresh file is immediately usable.
package cachedb

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	json "github.com/goccy/go-json"
	_ "modernc.org/sqlite"

	untisgo "github.com/PythonTilk/untisgo"
	"github.com/PythonTilk/untisgo/untis"
)

// Ensure Cache satisfies the session's collaborator interface.
var _ untisgo.TimetableCache = (*Cache)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS timetables (
	tenant_user TEXT NOT NULL,
	range_start TEXT NOT NULL,
	range_end   TEXT NOT NULL,
	payload     BLOB NOT NULL,
	stored_at   TEXT NOT NULL,
	PRIMARY KEY (tenant_user, range_start, range_end)
);
`

// Cache is a timetable cache backed by a SQLite file.
type Cache struct {
	db *sql.DB
}

// Open creates or opens the cache database at path, creating parent
// directories and the schema as needed.
func Open(path string) (*Cache, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create cache dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open cache db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create cache schema: %w", err)
	}
	return &Cache{db: db}, nil
}

// Close releases the database handle.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Store inserts or replaces the row for the tenant-user and the timetable's
// own range.
func (c *Cache) Store(ctx context.Context, tenantUserID string, t untis.Timetable) error {
	payload, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("encode timetable: %w", err)
	}

	query := `
		INSERT INTO timetables (tenant_user, range_start, range_end, payload, stored_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (tenant_user, range_start, range_end) DO UPDATE SET
			payload = excluded.payload,
			stored_at = excluded.stored_at
	`
	_, err = c.db.ExecContext(ctx, query,
		tenantUserID,
		untis.FormatISODate(t.Range.Start),
		untis.FormatISODate(t.Range.End),
		payload,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("store timetable: %w", err)
	}
	return nil
}

// Load returns the stored timetable covering exactly r. A missing row or an
// undecodable payload is a miss, never an error.
func (c *Cache) Load(ctx context.Context, tenantUserID string, r untis.DateRange) (untis.Timetable, bool) {
	query := `
		SELECT payload FROM timetables
		WHERE tenant_user = ? AND range_start = ? AND range_end = ?
	`
	var payload []byte
	err := c.db.QueryRowContext(ctx, query,
		tenantUserID,
		untis.FormatISODate(r.Start),
		untis.FormatISODate(r.End),
	).Scan(&payload)
	if err != nil {
		return untis.Timetable{}, false
	}

	var t untis.Timetable
	if err := json.Unmarshal(payload, &t); err != nil {
		return untis.Timetable{}, false
	}
	return t, true
}

// Prune deletes rows stored before cutoff and reports how many were removed.
func (c *Cache) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := c.db.ExecContext(ctx,
		`DELETE FROM timetables WHERE stored_at < ?`,
		cutoff.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return 0, fmt.Errorf("prune cache: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune cache: %w", err)
	}
	return n, nil
}
