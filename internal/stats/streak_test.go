package stats

import (
	"testing"
	"time"

	"github.com/verte-zerg/medilog/internal/record"
)

func daysAgo(t *testing.T, now time.Time, days ...int) []record.Record {
	t.Helper()
	out := make([]record.Record, 0, len(days))
	for _, d := range days {
		out = append(out, mustRecord(t, now.AddDate(0, 0, -d).Unix(), 600, "c", "s"))
	}
	return out
}

func TestCurrentStreak(t *testing.T) {
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		name string
		days []int
		want int
	}{
		{"empty", nil, 0},
		{"today only", []int{0}, 1},
		{"today yesterday day before", []int{0, 1, 2}, 3},
		{"unsorted input", []int{2, 0, 1}, 3},
		{"two day gap before today", []int{0, 3, 4}, 1},
		{"anchored at yesterday", []int{1, 2, 3}, 3},
		{"most recent two days ago", []int{2, 3, 4}, 0},
		{"long ago", []int{400, 401}, 0},
		{"same day counts once", []int{0, 0, 0, 1}, 2},
		{"stops at first gap", []int{0, 1, 3, 4, 5, 6, 7}, 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CurrentStreak(daysAgo(t, now, tc.days...), now); got != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, got)
			}
		})
	}
}

func TestCurrentStreakUsesUTCCalendarDays(t *testing.T) {
	now := time.Date(2026, 10, 19, 0, 30, 0, 0, time.UTC)
	records := []record.Record{
		// 23:50 the previous UTC day, 40 minutes before now.
		mustRecord(t, time.Date(2026, 10, 18, 23, 50, 0, 0, time.UTC).Unix(), 600, "c", "s"),
		mustRecord(t, time.Date(2026, 10, 17, 0, 5, 0, 0, time.UTC).Unix(), 600, "c", "s"),
	}
	if got := CurrentStreak(records, now); got != 2 {
		t.Fatalf("expected 2, got %d", got)
	}
	// now expressed in another zone must not shift the calendar.
	tokyo := time.FixedZone("JST", 9*3600)
	if got := CurrentStreak(records, now.In(tokyo)); got != 2 {
		t.Fatalf("expected 2 with zoned now, got %d", got)
	}
}

func TestCurrentStreakIgnoresFutureSessions(t *testing.T) {
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	records := append(daysAgo(t, now, 0, 1), mustRecord(t, now.AddDate(0, 0, 3).Unix(), 60, "c", "s"))
	if got := CurrentStreak(records, now); got != 2 {
		t.Fatalf("expected 2, got %d", got)
	}
}

func TestLongestStreak(t *testing.T) {
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	if got := LongestStreak(nil); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
	records := daysAgo(t, now, 40, 10, 11, 12, 13, 0, 1)
	if got := LongestStreak(records); got != 4 {
		t.Fatalf("expected 4, got %d", got)
	}
	if got := LongestStreak(daysAgo(t, now, 5, 5)); got != 1 {
		t.Fatalf("expected 1, got %d", got)
	}
}
