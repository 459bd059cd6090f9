package engine

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/lazypower/burrow/internal/ignore"
	"github.com/lazypower/burrow/internal/store"
)

// Options controls recording, matching, and retention.
type Options struct {
	MaxEntries     int  // visit rows kept after each record
	FuzzyMatching  bool // enable the fuzzy stage
	SuggestResults int  // cap for Suggest (default 10)
	AutoClean      bool // purge stale entries in Startup
}

func (o Options) suggestLimit() int {
	if o.SuggestResults <= 0 {
		return 10
	}
	return o.SuggestResults
}

// Engine orchestrates the store, ignore filter, ranking, and matching.
type Engine struct {
	DB     *store.DB
	Ignore *ignore.Filter
	Opts   Options
	Log    *slog.Logger

	// Now and Exists are replaceable for tests.
	Now    func() time.Time
	Exists func(path string) bool
}

// New creates an engine. A nil filter ignores nothing.
func New(db *store.DB, ignores *ignore.Filter, opts Options) *Engine {
	return &Engine{
		DB:     db,
		Ignore: ignores,
		Opts:   opts,
		Now:    time.Now,
		Exists: pathExists,
	}
}

func (e *Engine) log() *slog.Logger {
	if e.Log != nil {
		return e.Log
	}
	return slog.Default()
}

func (e *Engine) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

// Startup runs auto-clean when enabled. Failures are logged, never returned.
func (e *Engine) Startup(ctx context.Context) {
	if !e.Opts.AutoClean {
		return
	}
	n, err := e.AutoClean(ctx)
	if err != nil {
		e.log().Warn("auto-clean failed", "err", err)
		return
	}
	if n > 0 {
		e.log().Info("auto-clean removed stale entries", "count", n)
	}
}

// RecordVisit records a visit to path unless the ignore filter rejects it.
// Returns whether the visit was stored. Eviction afterwards is best-effort.
func (e *Engine) RecordVisit(ctx context.Context, path string) (bool, error) {
	if path == "" {
		return false, fmt.Errorf("record visit: empty path")
	}
	path = filepath.Clean(path)
	if e.Ignore.Match(path) {
		e.log().Debug("ignored path", "path", path)
		return false, nil
	}

	if err := e.DB.UpsertVisit(ctx, path, e.now()); err != nil {
		return false, fmt.Errorf("record visit: %w", err)
	}

	if _, err := e.EnforceLimit(ctx); err != nil {
		e.log().Warn("eviction after visit failed", "path", path, "err", err)
	}
	return true, nil
}

// Snapshot loads every stored entry and ranks it against the current time.
func (e *Engine) Snapshot(ctx context.Context) ([]Entry, error) {
	visits, err := e.DB.AllVisits(ctx)
	if err != nil {
		return nil, fmt.Errorf("load entries: %w", err)
	}
	return rankVisits(visits, e.now()), nil
}

// Query matches keywords against the stored entries. An empty query
// returns nothing without touching the store.
func (e *Engine) Query(ctx context.Context, keywords []string) ([]Entry, error) {
	query := JoinKeywords(keywords)
	if query == "" {
		return nil, nil
	}
	entries, err := e.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return Match(entries, query, e.Opts.FuzzyMatching), nil
}

// Suggest is Resolve with the matches capped at Opts.SuggestResults. A
// single keyword naming a bookmark still wins.
func (e *Engine) Suggest(ctx context.Context, keywords []string) (*Resolution, error) {
	res, err := e.Resolve(ctx, keywords)
	if err != nil {
		return nil, err
	}
	if limit := e.Opts.suggestLimit(); len(res.Entries) > limit {
		res.Entries = res.Entries[:limit]
	}
	return res, nil
}

// Resolution is the outcome of Resolve: either a bookmark hit or a
// ranked list of matches.
type Resolution struct {
	Bookmark *store.Bookmark
	Entries  []Entry
}

// Paths returns the resolved paths, best first.
func (r *Resolution) Paths() []string {
	if r.Bookmark != nil {
		return []string{r.Bookmark.Path}
	}
	out := make([]string, len(r.Entries))
	for i, e := range r.Entries {
		out[i] = e.Path
	}
	return out
}

// Resolve checks a single keyword against bookmarks first, then falls
// back to Query.
func (e *Engine) Resolve(ctx context.Context, keywords []string) (*Resolution, error) {
	if len(keywords) == 1 {
		path, ok, err := e.DB.GetBookmark(ctx, keywords[0])
		if err != nil {
			return nil, fmt.Errorf("resolve bookmark: %w", err)
		}
		if ok {
			return &Resolution{Bookmark: &store.Bookmark{Name: keywords[0], Path: path}}, nil
		}
	}
	entries, err := e.Query(ctx, keywords)
	if err != nil {
		return nil, err
	}
	return &Resolution{Entries: entries}, nil
}

// Stats summarises the store.
type Stats struct {
	TotalEntries    int              `json:"total_entries"`
	TotalVisits     int64            `json:"total_visits"`
	MostVisited     []Entry          `json:"most_visited"`
	RecentlyVisited []Entry          `json:"recently_visited"`
	Bookmarks       []store.Bookmark `json:"bookmarks"`
}

// Stats gathers totals plus the top n entries by visits and by recency.
func (e *Engine) Stats(ctx context.Context, n int) (*Stats, error) {
	total, err := e.DB.CountVisits(ctx)
	if err != nil {
		return nil, fmt.Errorf("stats: %w", err)
	}
	visits, err := e.DB.TotalVisits(ctx)
	if err != nil {
		return nil, fmt.Errorf("stats: %w", err)
	}
	top, err := e.DB.TopByVisits(ctx, n)
	if err != nil {
		return nil, fmt.Errorf("stats: %w", err)
	}
	recent, err := e.DB.TopByRecency(ctx, n)
	if err != nil {
		return nil, fmt.Errorf("stats: %w", err)
	}
	bookmarks, err := e.DB.ListBookmarks(ctx)
	if err != nil {
		return nil, fmt.Errorf("stats: %w", err)
	}

	now := e.now()
	return &Stats{
		TotalEntries:    total,
		TotalVisits:     visits,
		MostVisited:     rankVisits(top, now),
		RecentlyVisited: rankVisits(recent, now),
		Bookmarks:       bookmarks,
	}, nil
}

func rankVisits(visits []store.Visit, now time.Time) []Entry {
	out := make([]Entry, len(visits))
	for i, v := range visits {
		out[i] = Entry{Path: v.Path, LastAccess: v.LastAccess, Visits: v.Count, Rank: Rank(v.Count, v.LastAccess, now)}
	}
	return out
}

// SetBookmark creates or overwrites a bookmark.
func (e *Engine) SetBookmark(ctx context.Context, name, path string) error {
	if name == "" {
		return fmt.Errorf("set bookmark: empty name")
	}
	return e.DB.SetBookmark(ctx, name, path)
}

// RemoveBookmark deletes a bookmark, reporting whether it existed.
func (e *Engine) RemoveBookmark(ctx context.Context, name string) (bool, error) {
	return e.DB.RemoveBookmark(ctx, name)
}

// GetBookmark looks up a bookmark by name.
func (e *Engine) GetBookmark(ctx context.Context, name string) (string, bool, error) {
	return e.DB.GetBookmark(ctx, name)
}

// ListBookmarks returns all bookmarks ordered by name.
func (e *Engine) ListBookmarks(ctx context.Context) ([]store.Bookmark, error) {
	return e.DB.ListBookmarks(ctx)
}
