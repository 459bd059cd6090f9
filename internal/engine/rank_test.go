package engine

import (
	"math"
	"testing"
	"time"
)

var now = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func TestRankJustVisited(t *testing.T) {
	got := Rank(1, now, now)
	if math.Abs(got-1.0) > 1e-9 {
		t.Errorf("Rank(1, now) = %f, want 1.0", got)
	}
}

func TestRankIncreasesWithVisits(t *testing.T) {
	last := now.Add(-5 * time.Hour)
	prev := Rank(1, last, now)
	for _, visits := range []int64{2, 3, 10, 100, 10000} {
		r := Rank(visits, last, now)
		if r <= prev {
			t.Errorf("Rank(%d) = %f, not above %f", visits, r, prev)
		}
		prev = r
	}
}

func TestRankDecreasesWithAge(t *testing.T) {
	prev := Rank(5, now, now)
	for _, age := range []time.Duration{time.Hour, 24 * time.Hour, 30 * 24 * time.Hour, 365 * 24 * time.Hour} {
		r := Rank(5, now.Add(-age), now)
		if r >= prev {
			t.Errorf("Rank at age %v = %f, not below %f", age, r, prev)
		}
		prev = r
	}
}

func TestRankFormula(t *testing.T) {
	// 4 visits, 3 hours ago
	got := Rank(4, now.Add(-3*time.Hour), now)
	want := (math.Log(4)+1)*0.7 + 0.3/4.0
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("Rank = %f, want %f", got, want)
	}
}

func TestRankFutureTimestampClamped(t *testing.T) {
	future := Rank(3, now.Add(2*time.Hour), now)
	present := Rank(3, now, now)
	if future != present {
		t.Errorf("future rank %f != present rank %f", future, present)
	}
}

func TestRankZeroVisitsTreatedAsOne(t *testing.T) {
	if Rank(0, now, now) != Rank(1, now, now) {
		t.Error("zero visits should rank like one visit")
	}
}

func TestRankWholeSecondAge(t *testing.T) {
	if Rank(2, now, now.Add(999*time.Millisecond)) != Rank(2, now, now) {
		t.Error("sub-second age should not change rank")
	}
}
