package engine

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// pathExists reports whether p is present on disk. Errors other than
// not-exist count as present.
func pathExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil || !errors.Is(err, fs.ErrNotExist)
}

// EnforceLimit evicts the least recently accessed entries beyond
// Opts.MaxEntries. Visit counts play no part in the choice.
func (e *Engine) EnforceLimit(ctx context.Context) (int, error) {
	if e.Opts.MaxEntries <= 0 {
		return 0, nil
	}
	n, err := e.DB.EvictOldest(ctx, e.Opts.MaxEntries)
	if err != nil {
		return 0, fmt.Errorf("enforce limit: %w", err)
	}
	if n > 0 {
		e.log().Debug("evicted entries", "count", n, "max", e.Opts.MaxEntries)
	}
	return n, nil
}

// FindStale returns stored paths that no longer exist on disk. It stops
// early with ctx's error if ctx is cancelled mid-scan.
func (e *Engine) FindStale(ctx context.Context) ([]string, error) {
	paths, err := e.DB.AllPaths(ctx)
	if err != nil {
		return nil, fmt.Errorf("find stale: %w", err)
	}

	exists := e.Exists
	if exists == nil {
		exists = pathExists
	}

	var stale []string
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !exists(p) {
			stale = append(stale, p)
		}
	}
	return stale, nil
}

// Purge removes the given paths in one transaction and returns how many
// rows were actually deleted. Bookmarks are never touched.
func (e *Engine) Purge(ctx context.Context, paths []string) (int, error) {
	if len(paths) == 0 {
		return 0, nil
	}
	n, err := e.DB.DeleteVisits(ctx, paths)
	if err != nil {
		return 0, fmt.Errorf("purge: %w", err)
	}
	return n, nil
}

// AutoClean purges stale entries. Intended for startup, where the
// caller logs and ignores the error.
func (e *Engine) AutoClean(ctx context.Context) (int, error) {
	stale, err := e.FindStale(ctx)
	if err != nil {
		return 0, err
	}
	return e.Purge(ctx, stale)
}
