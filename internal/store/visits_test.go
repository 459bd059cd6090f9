package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"
)

var t0 = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func seedVisits(t *testing.T, db *DB, visits map[string]time.Time) {
	t.Helper()
	ctx := context.Background()
	for path, at := range visits {
		if err := db.UpsertVisit(ctx, path, at); err != nil {
			t.Fatalf("UpsertVisit %s: %v", path, err)
		}
	}
}

func TestUpsertVisitNew(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	if err := db.UpsertVisit(ctx, "/home/user/project", t0); err != nil {
		t.Fatalf("UpsertVisit: %v", err)
	}

	v, err := db.GetVisit(ctx, "/home/user/project")
	if err != nil {
		t.Fatalf("GetVisit: %v", err)
	}
	if v == nil {
		t.Fatal("expected visit, got nil")
	}
	if v.Count != 1 {
		t.Errorf("Count = %d, want 1", v.Count)
	}
	if !v.LastAccess.Equal(t0) {
		t.Errorf("LastAccess = %v, want %v", v.LastAccess, t0)
	}
}

func TestUpsertVisitIncrements(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	later := t0.Add(2 * time.Hour)
	if err := db.UpsertVisit(ctx, "/p", t0); err != nil {
		t.Fatalf("UpsertVisit: %v", err)
	}
	if err := db.UpsertVisit(ctx, "/p", later); err != nil {
		t.Fatalf("UpsertVisit: %v", err)
	}

	v, _ := db.GetVisit(ctx, "/p")
	if v.Count != 2 {
		t.Errorf("Count = %d, want 2", v.Count)
	}
	if !v.LastAccess.Equal(later) {
		t.Errorf("LastAccess = %v, want %v", v.LastAccess, later)
	}

	n, err := db.CountVisits(ctx)
	if err != nil {
		t.Fatalf("CountVisits: %v", err)
	}
	if n != 1 {
		t.Errorf("CountVisits = %d, want 1", n)
	}
}

func TestGetVisitMissing(t *testing.T) {
	db := testDB(t)

	v, err := db.GetVisit(context.Background(), "/nope")
	if err != nil {
		t.Fatalf("GetVisit: %v", err)
	}
	if v != nil {
		t.Errorf("expected nil, got %+v", v)
	}
}

func TestAllVisitsOrder(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		db.UpsertVisit(ctx, "/b", t0)
	}
	db.UpsertVisit(ctx, "/c", t0)
	db.UpsertVisit(ctx, "/a", t0)

	visits, err := db.AllVisits(ctx)
	if err != nil {
		t.Fatalf("AllVisits: %v", err)
	}
	want := []string{"/b", "/a", "/c"}
	if len(visits) != len(want) {
		t.Fatalf("got %d visits, want %d", len(visits), len(want))
	}
	for i, w := range want {
		if visits[i].Path != w {
			t.Errorf("visits[%d] = %q, want %q", i, visits[i].Path, w)
		}
	}
}

func TestDeleteVisitsEmpty(t *testing.T) {
	db := testDB(t)

	n, err := db.DeleteVisits(context.Background(), nil)
	if err != nil {
		t.Fatalf("DeleteVisits: %v", err)
	}
	if n != 0 {
		t.Errorf("deleted = %d, want 0", n)
	}
}

func TestDeleteVisitsCountsOnlyExisting(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	seedVisits(t, db, map[string]time.Time{"/a": t0, "/b": t0, "/c": t0})

	n, err := db.DeleteVisits(ctx, []string{"/a", "/missing", "/c"})
	if err != nil {
		t.Fatalf("DeleteVisits: %v", err)
	}
	if n != 2 {
		t.Errorf("deleted = %d, want 2", n)
	}

	paths, _ := db.AllPaths(ctx)
	if len(paths) != 1 || paths[0] != "/b" {
		t.Errorf("remaining = %v, want [/b]", paths)
	}
}

func TestEvictOldest(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	seedVisits(t, db, map[string]time.Time{
		"/oldest": t0,
		"/old":    t0.Add(time.Hour),
		"/new":    t0.Add(2 * time.Hour),
		"/newest": t0.Add(3 * time.Hour),
	})
	// Heavy visit count must not protect an old entry.
	for i := 0; i < 10; i++ {
		db.UpsertVisit(ctx, "/oldest", t0)
	}

	n, err := db.EvictOldest(ctx, 2)
	if err != nil {
		t.Fatalf("EvictOldest: %v", err)
	}
	if n != 2 {
		t.Errorf("evicted = %d, want 2", n)
	}

	paths, _ := db.AllPaths(ctx)
	if len(paths) != 2 || paths[0] != "/new" || paths[1] != "/newest" {
		t.Errorf("remaining = %v, want [/new /newest]", paths)
	}
}

func TestEvictOldestUnderLimit(t *testing.T) {
	db := testDB(t)
	seedVisits(t, db, map[string]time.Time{"/a": t0, "/b": t0})

	n, err := db.EvictOldest(context.Background(), 5)
	if err != nil {
		t.Fatalf("EvictOldest: %v", err)
	}
	if n != 0 {
		t.Errorf("evicted = %d, want 0", n)
	}
}

func TestTopByVisitsAndRecency(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	db.UpsertVisit(ctx, "/frequent", t0)
	db.UpsertVisit(ctx, "/frequent", t0)
	db.UpsertVisit(ctx, "/frequent", t0)
	db.UpsertVisit(ctx, "/recent", t0.Add(time.Hour))
	db.UpsertVisit(ctx, "/other", t0.Add(-time.Hour))

	top, err := db.TopByVisits(ctx, 1)
	if err != nil {
		t.Fatalf("TopByVisits: %v", err)
	}
	if len(top) != 1 || top[0].Path != "/frequent" || top[0].Count != 3 {
		t.Errorf("TopByVisits = %+v", top)
	}

	recent, err := db.TopByRecency(ctx, 2)
	if err != nil {
		t.Fatalf("TopByRecency: %v", err)
	}
	if len(recent) != 2 || recent[0].Path != "/recent" || recent[1].Path != "/frequent" {
		t.Errorf("TopByRecency = %+v", recent)
	}

	total, err := db.TotalVisits(ctx)
	if err != nil {
		t.Fatalf("TotalVisits: %v", err)
	}
	if total != 5 {
		t.Errorf("TotalVisits = %d, want 5", total)
	}
}

func TestTotalVisitsEmpty(t *testing.T) {
	db := testDB(t)

	total, err := db.TotalVisits(context.Background())
	if err != nil {
		t.Fatalf("TotalVisits: %v", err)
	}
	if total != 0 {
		t.Errorf("TotalVisits = %d, want 0", total)
	}
}

func TestLegacyTextTimestamp(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	_, err := db.Exec(`INSERT INTO dirs (path, last_access, visits_total)
		VALUES ('/legacy', '2025-03-01T12:00:00Z', 4)`)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	v, err := db.GetVisit(ctx, "/legacy")
	if err != nil {
		t.Fatalf("GetVisit: %v", err)
	}
	if !v.LastAccess.Equal(t0) {
		t.Errorf("LastAccess = %v, want %v", v.LastAccess, t0)
	}

	// A later visit rewrites the column as unix seconds.
	later := t0.Add(time.Minute)
	if err := db.UpsertVisit(ctx, "/legacy", later); err != nil {
		t.Fatalf("UpsertVisit: %v", err)
	}
	v, _ = db.GetVisit(ctx, "/legacy")
	if v.Count != 5 || !v.LastAccess.Equal(later) {
		t.Errorf("after upsert = %+v", v)
	}
}

// legacyDB writes a database the way older releases did: no schema_versions
// table and text last_access values.
func legacyDB(t *testing.T, rows map[string]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "legacy.sqlite")

	raw, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("sql.Open: %v", err)
	}
	defer raw.Close()

	if _, err := raw.Exec(`CREATE TABLE dirs (
		path TEXT PRIMARY KEY,
		last_access INTEGER NOT NULL,
		visits_total INTEGER NOT NULL
	)`); err != nil {
		t.Fatalf("create dirs: %v", err)
	}
	for p, at := range rows {
		if _, err := raw.Exec(`INSERT INTO dirs (path, last_access, visits_total) VALUES (?, ?, 1)`, p, at); err != nil {
			t.Fatalf("insert %s: %v", p, err)
		}
	}
	return path
}

func TestMigrateLegacyTextTimestamps(t *testing.T) {
	path := legacyDB(t, map[string]string{
		"/old/a": "2025-01-01 00:00:00.000000000+00:00",
		"/old/b": "2025-01-02T00:00:00Z",
		"/junk":  "not a time",
	})

	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()
	ctx := context.Background()

	var text int
	if err := db.QueryRow(`SELECT COUNT(*) FROM dirs WHERE typeof(last_access) != 'integer'`).Scan(&text); err != nil {
		t.Fatalf("count text rows: %v", err)
	}
	if text != 0 {
		t.Errorf("%d rows still hold non-integer last_access", text)
	}

	v, _ := db.GetVisit(ctx, "/old/a")
	if want := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC); v == nil || !v.LastAccess.Equal(want) {
		t.Errorf("/old/a = %+v, want last access %v", v, want)
	}
	v, _ = db.GetVisit(ctx, "/junk")
	if v == nil || v.LastAccess.Unix() != 0 {
		t.Errorf("/junk = %+v, want last access at epoch", v)
	}
}

func TestEvictOldestAfterLegacyMigration(t *testing.T) {
	path := legacyDB(t, map[string]string{
		"/old/a": "2025-01-01 00:00:00.000000000+00:00",
		"/old/b": "2025-01-02 00:00:00.000000000+00:00",
	})

	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()
	ctx := context.Background()

	if err := db.UpsertVisit(ctx, "/new/dir", t0); err != nil {
		t.Fatalf("UpsertVisit: %v", err)
	}
	if _, err := db.EvictOldest(ctx, 2); err != nil {
		t.Fatalf("EvictOldest: %v", err)
	}

	paths, _ := db.AllPaths(ctx)
	if len(paths) != 2 || paths[0] != "/new/dir" || paths[1] != "/old/b" {
		t.Errorf("remaining = %v, want [/new/dir /old/b]", paths)
	}

	recent, err := db.TopByRecency(ctx, 2)
	if err != nil {
		t.Fatalf("TopByRecency: %v", err)
	}
	if len(recent) != 2 || recent[0].Path != "/new/dir" || recent[1].Path != "/old/b" {
		t.Errorf("TopByRecency = %+v", recent)
	}
}
