package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"
)

// Visit is one row of the dirs table.
type Visit struct {
	Path       string
	LastAccess time.Time
	Count      int64
}

// UpsertVisit records a visit to path at the given time. A new path starts
// with a count of 1; an existing path has its count incremented and its
// last_access refreshed. The upsert is a single statement, so concurrent
// recorders never lose an increment.
func (db *DB) UpsertVisit(ctx context.Context, path string, at time.Time) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO dirs (path, last_access, visits_total) VALUES (?, ?, 1)
		ON CONFLICT(path) DO UPDATE SET
			last_access = excluded.last_access,
			visits_total = visits_total + 1
	`, path, at.UTC().Unix())
	if err != nil {
		return fmt.Errorf("upsert visit: %w", err)
	}
	return nil
}

// GetVisit returns the row for path, or nil if it is not recorded.
func (db *DB) GetVisit(ctx context.Context, path string) (*Visit, error) {
	var v Visit
	var lastAccess any
	err := db.QueryRowContext(ctx, `
		SELECT path, last_access, visits_total FROM dirs WHERE path = ?
	`, path).Scan(&v.Path, &lastAccess, &v.Count)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get visit: %w", err)
	}
	v.LastAccess = parseTimestamp(lastAccess)
	return &v, nil
}

// AllVisits returns every recorded directory, most visited first, ties
// broken by path. The order is stable across calls, which the
// directory-name match stage relies on when it picks a representative.
func (db *DB) AllVisits(ctx context.Context) ([]Visit, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT path, last_access, visits_total FROM dirs
		ORDER BY visits_total DESC, path ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("all visits: %w", err)
	}
	defer rows.Close()

	return scanVisits(rows)
}

// AllPaths returns every recorded path.
func (db *DB) AllPaths(ctx context.Context) ([]string, error) {
	rows, err := db.QueryContext(ctx, `SELECT path FROM dirs ORDER BY path`)
	if err != nil {
		return nil, fmt.Errorf("all paths: %w", err)
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("scan path: %w", err)
		}
		paths = append(paths, p)
	}
	return paths, rows.Err()
}

// CountVisits returns the number of recorded directories.
func (db *DB) CountVisits(ctx context.Context) (int, error) {
	var n int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM dirs").Scan(&n); err != nil {
		return 0, fmt.Errorf("count visits: %w", err)
	}
	return n, nil
}

// TotalVisits returns the sum of all visit counts.
func (db *DB) TotalVisits(ctx context.Context) (int64, error) {
	var n int64
	if err := db.QueryRowContext(ctx, "SELECT COALESCE(SUM(visits_total), 0) FROM dirs").Scan(&n); err != nil {
		return 0, fmt.Errorf("total visits: %w", err)
	}
	return n, nil
}

// DeleteVisits removes the given paths in one transaction and returns how many
// rows were actually deleted. Paths that are not recorded are not counted.
// An empty list is a no-op that never opens a transaction.
func (db *DB) DeleteVisits(ctx context.Context, paths []string) (int, error) {
	if len(paths) == 0 {
		return 0, nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin delete: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, "DELETE FROM dirs WHERE path = ?")
	if err != nil {
		return 0, fmt.Errorf("prepare delete: %w", err)
	}
	defer stmt.Close()

	deleted := 0
	for _, p := range paths {
		res, err := stmt.ExecContext(ctx, p)
		if err != nil {
			return 0, fmt.Errorf("delete %s: %w", p, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("rows affected: %w", err)
		}
		deleted += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit delete: %w", err)
	}
	return deleted, nil
}

// EvictOldest trims the dirs table down to max rows by deleting the least
// recently accessed entries. Visit counts play no part in the choice.
// Returns the number of rows evicted.
func (db *DB) EvictOldest(ctx context.Context, max int) (int, error) {
	if max < 0 {
		max = 0
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin evict: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var count int
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM dirs").Scan(&count); err != nil {
		return 0, fmt.Errorf("count for evict: %w", err)
	}
	if count <= max {
		return 0, nil
	}

	excess := count - max
	res, err := tx.ExecContext(ctx, `
		DELETE FROM dirs WHERE path IN (
			SELECT path FROM dirs
			ORDER BY last_access ASC, path ASC
			LIMIT ?
		)
	`, excess)
	if err != nil {
		return 0, fmt.Errorf("evict oldest: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit evict: %w", err)
	}
	return int(n), nil
}

// TopByVisits returns the n most visited directories.
func (db *DB) TopByVisits(ctx context.Context, n int) ([]Visit, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT path, last_access, visits_total FROM dirs
		ORDER BY visits_total DESC, path ASC LIMIT ?
	`, n)
	if err != nil {
		return nil, fmt.Errorf("top by visits: %w", err)
	}
	defer rows.Close()

	return scanVisits(rows)
}

// TopByRecency returns the n most recently accessed directories.
func (db *DB) TopByRecency(ctx context.Context, n int) ([]Visit, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT path, last_access, visits_total FROM dirs
		ORDER BY last_access DESC, path ASC LIMIT ?
	`, n)
	if err != nil {
		return nil, fmt.Errorf("top by recency: %w", err)
	}
	defer rows.Close()

	return scanVisits(rows)
}

func scanVisits(rows *sql.Rows) ([]Visit, error) {
	var visits []Visit
	for rows.Next() {
		var v Visit
		var lastAccess any
		if err := rows.Scan(&v.Path, &lastAccess, &v.Count); err != nil {
			return nil, fmt.Errorf("scan visit: %w", err)
		}
		v.LastAccess = parseTimestamp(lastAccess)
		visits = append(visits, v)
	}
	return visits, rows.Err()
}

// parseTimestamp reads a last_access value. Current rows hold unix seconds;
// rows written by older releases may hold a text timestamp instead.
func parseTimestamp(v any) time.Time {
	switch t := v.(type) {
	case int64:
		return time.Unix(t, 0).UTC()
	case float64:
		return time.Unix(int64(t), 0).UTC()
	case time.Time:
		return t.UTC()
	case []byte:
		return parseTimestampText(string(t))
	case string:
		return parseTimestampText(t)
	}
	return time.Time{}
}

func parseTimestampText(s string) time.Time {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(n, 0).UTC()
	}
	formats := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02 15:04:05.999999999-07:00",
		"2006-01-02 15:04:05.999999999Z07:00",
		"2006-01-02 15:04:05",
	}
	for _, f := range formats {
		if t, err := time.Parse(f, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
