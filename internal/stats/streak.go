package stats

import (
	"sort"
	"time"

	"github.com/verte-zerg/medilog/internal/record"
)

const secondsPerDay = 86400

// dayNumber returns the UTC calendar day index of a Unix timestamp.
func dayNumber(unix int64) int64 {
	day := unix / secondsPerDay
	if unix%secondsPerDay < 0 {
		day--
	}
	return day
}

// sessionDays returns the distinct UTC days with at least one session,
// most recent first.
func sessionDays(records []record.Record) []int64 {
	seen := make(map[int64]struct{}, len(records))
	days := make([]int64, 0, len(records))
	for _, rec := range records {
		d := dayNumber(rec.Datetime())
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i] > days[j] })
	return days
}

// CurrentStreak counts consecutive UTC calendar days with a session, ending
// today or yesterday relative to now. Several sessions on one day count
// once. Sessions dated after today are ignored. Returns 0 when the most
// recent session is older than yesterday.
func CurrentStreak(records []record.Record, now time.Time) int {
	today := dayNumber(now.Unix())
	days := sessionDays(records)
	for len(days) > 0 && days[0] > today {
		days = days[1:]
	}
	if len(days) == 0 || today-days[0] > 1 {
		return 0
	}
	streak := 1
	for i := 1; i < len(days); i++ {
		if days[i-1]-days[i] != 1 {
			break
		}
		streak++
	}
	return streak
}

// LongestStreak returns the longest run of consecutive UTC calendar days
// with a session anywhere in the history.
func LongestStreak(records []record.Record) int {
	days := sessionDays(records)
	if len(days) == 0 {
		return 0
	}
	longest, run := 1, 1
	for i := 1; i < len(days); i++ {
		if days[i-1]-days[i] == 1 {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	return longest
}
