package store

import (
	"context"
	"database/sql"
	"fmt"
)

// Bookmark is a user-assigned name for a path. Bookmarks live in their own
// namespace; visit recording and retention never touch them.
type Bookmark struct {
	Name string
	Path string
}

// SetBookmark creates or replaces the bookmark called name.
func (db *DB) SetBookmark(ctx context.Context, name, path string) error {
	_, err := db.ExecContext(ctx,
		"INSERT OR REPLACE INTO bookmarks (name, path) VALUES (?, ?)",
		name, path)
	if err != nil {
		return fmt.Errorf("set bookmark: %w", err)
	}
	return nil
}

// RemoveBookmark deletes the bookmark called name. Reports whether it existed.
func (db *DB) RemoveBookmark(ctx context.Context, name string) (bool, error) {
	res, err := db.ExecContext(ctx, "DELETE FROM bookmarks WHERE name = ?", name)
	if err != nil {
		return false, fmt.Errorf("remove bookmark: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

// GetBookmark returns the path for name. ok is false when no such bookmark exists.
func (db *DB) GetBookmark(ctx context.Context, name string) (path string, ok bool, err error) {
	err = db.QueryRowContext(ctx, "SELECT path FROM bookmarks WHERE name = ?", name).Scan(&path)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get bookmark: %w", err)
	}
	return path, true, nil
}

// ListBookmarks returns all bookmarks ordered by name.
func (db *DB) ListBookmarks(ctx context.Context) ([]Bookmark, error) {
	rows, err := db.QueryContext(ctx, "SELECT name, path FROM bookmarks ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("list bookmarks: %w", err)
	}
	defer rows.Close()

	var bookmarks []Bookmark
	for rows.Next() {
		var b Bookmark
		if err := rows.Scan(&b.Name, &b.Path); err != nil {
			return nil, fmt.Errorf("scan bookmark: %w", err)
		}
		bookmarks = append(bookmarks, b)
	}
	return bookmarks, rows.Err()
}
