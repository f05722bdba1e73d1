package standup

import (
	"testing"
	"time"
)

func TestDateSetIsHoliday(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("UTC+3", 3*3600)
	ds, err := NewDateSet([]string{"2026-01-01", "2026-05-09", ""}, loc)
	if err != nil {
		t.Fatalf("NewDateSet: %v", err)
	}

	// 2026-01-01 00:30 in loc is still 2025-12-31 in UTC; the local date
	// decides.
	at := time.Date(2025, 12, 31, 21, 30, 0, 0, time.UTC)
	if !ds.IsHoliday(at) {
		t.Fatalf("want holiday at %v (local %v)", at, at.In(loc))
	}
	if ds.IsHoliday(time.Date(2026, 1, 2, 12, 0, 0, 0, loc)) {
		t.Fatal("2026-01-02 should not be a holiday")
	}
}

func TestDateSetRejectsBadDate(t *testing.T) {
	t.Parallel()
	if _, err := NewDateSet([]string{"01.05.2026"}, nil); err == nil {
		t.Fatal("want error for non-ISO date")
	}
}

func TestDateSetEmpty(t *testing.T) {
	t.Parallel()
	ds, err := NewDateSet(nil, nil)
	if err != nil {
		t.Fatalf("NewDateSet: %v", err)
	}
	if ds.IsHoliday(time.Now()) {
		t.Fatal("empty set should never report a holiday")
	}
}
