package engine

import (
	"path"
	"sort"
	"strings"
	"time"

	"github.com/sahilm/fuzzy"
)

// MaxResults caps every match result.
const MaxResults = 20

// Entry is a ranked snapshot of a stored directory.
type Entry struct {
	Path       string    `json:"path"`
	LastAccess time.Time `json:"last_access"`
	Visits     int64     `json:"visits"`
	Rank       float64   `json:"rank"`
}

// Match runs the staged pipeline over a ranked snapshot. Entries must
// be in store order; that order breaks ties between equal ranks.
//
// Stages, first non-empty wins:
//  1. exact: path equals query or ends in "/query"
//  2. directory name: an ancestor whose final segment equals query,
//     one representative entry per ancestor, by rank
//  3. fuzzy (when enabled): fuzzy score * rank
//  4. substring, case-insensitive
func Match(entries []Entry, query string, fuzzyEnabled bool) []Entry {
	if query == "" || len(entries) == 0 {
		return nil
	}

	if out := matchExact(entries, query); len(out) > 0 {
		return truncate(out)
	}
	if out := matchDirName(entries, query); len(out) > 0 {
		return truncate(out)
	}
	if fuzzyEnabled {
		if out := matchFuzzy(entries, query); len(out) > 0 {
			return truncate(out)
		}
	}
	return truncate(matchSubstring(entries, query))
}

// JoinKeywords builds the query string from CLI keywords.
func JoinKeywords(keywords []string) string {
	return strings.Join(keywords, " ")
}

func matchExact(entries []Entry, query string) []Entry {
	suffix := "/" + query
	var out []Entry
	for _, e := range entries {
		if e.Path == query || strings.HasSuffix(e.Path, suffix) {
			out = append(out, e)
		}
	}
	sortByRank(out)
	return out
}

func matchDirName(entries []Entry, query string) []Entry {
	if strings.Contains(query, "/") {
		return nil
	}

	// Ancestors in first-seen order so the result is deterministic.
	var ancestors []string
	seen := make(map[string]bool)
	for _, e := range entries {
		for _, a := range ancestorsOf(e.Path) {
			if path.Base(a) == query && !seen[a] {
				seen[a] = true
				ancestors = append(ancestors, a)
			}
		}
	}

	var out []Entry
	picked := make(map[string]bool)
	for _, a := range ancestors {
		rep, ok := representative(entries, a)
		if !ok || picked[rep.Path] {
			continue
		}
		picked[rep.Path] = true
		out = append(out, rep)
	}
	sortByRank(out)
	return out
}

// ancestorsOf returns p and each of its parents, nearest first,
// stopping before the root.
func ancestorsOf(p string) []string {
	var out []string
	for p != "" && p != "/" && p != "." {
		out = append(out, p)
		parent := path.Dir(p)
		if parent == p {
			break
		}
		p = parent
	}
	return out
}

// representative picks the highest ranked entry at or below dir.
// Equal ranks keep the earlier entry.
func representative(entries []Entry, dir string) (Entry, bool) {
	prefix := dir + "/"
	var best Entry
	found := false
	for _, e := range entries {
		if e.Path != dir && !strings.HasPrefix(e.Path, prefix) {
			continue
		}
		if !found || e.Rank > best.Rank {
			best = e
			found = true
		}
	}
	return best, found
}

type entrySource []Entry

func (s entrySource) String(i int) string { return s[i].Path }
func (s entrySource) Len() int            { return len(s) }

type scored struct {
	entry Entry
	score float64
}

func matchFuzzy(entries []Entry, query string) []Entry {
	matches := fuzzy.FindFrom(query, entrySource(entries))
	if len(matches) == 0 {
		return nil
	}

	results := make([]scored, 0, len(matches))
	for _, m := range matches {
		e := entries[m.Index]
		results = append(results, scored{entry: e, score: fuzzyWeight(m.Score) * e.Rank})
	}
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].score != results[j].score {
			return results[i].score > results[j].score
		}
		return results[i].entry.Path < results[j].entry.Path
	})

	out := make([]Entry, len(results))
	for i, r := range results {
		out[i] = r.entry
	}
	return out
}

// fuzzyWeight keeps positive matcher scores as they are. Unmatched
// characters can push a genuine match to zero or below; those map into
// (0, 0.5] in the same order, under every positive score.
func fuzzyWeight(score int) float64 {
	if score > 0 {
		return float64(score)
	}
	return 1 / float64(2-score)
}

func matchSubstring(entries []Entry, query string) []Entry {
	needle := strings.ToLower(query)
	var out []Entry
	for _, e := range entries {
		if strings.Contains(strings.ToLower(e.Path), needle) {
			out = append(out, e)
		}
	}
	sortByRank(out)
	return out
}

func sortByRank(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Rank > entries[j].Rank
	})
}

func truncate(entries []Entry) []Entry {
	if len(entries) > MaxResults {
		return entries[:MaxResults]
	}
	return entries
}
