// Package stats contains statistics calculations and reporting.
package stats

import "sort"

// Ranked is a value with its number of occurrences.
type Ranked struct {
	Value string
	Count int
}

// RankByFrequency returns the top n values ordered by count, highest first.
// Equal counts are ordered lexicographically. n <= 0 returns every value.
func RankByFrequency(values []string, n int) []Ranked {
	if len(values) == 0 {
		return nil
	}
	counts := make(map[string]int, len(values))
	for _, v := range values {
		counts[v]++
	}
	items := make([]Ranked, 0, len(counts))
	for v, c := range counts {
		items = append(items, Ranked{Value: v, Count: c})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Count == items[j].Count {
			return items[i].Value < items[j].Value
		}
		return items[i].Count > items[j].Count
	})
	if n > 0 && n < len(items) {
		items = items[:n]
	}
	return items
}

// Favorite returns the most frequent value, the lexicographically smallest
// among ties, or "" for no values.
func Favorite(values []string) string {
	top := RankByFrequency(values, 1)
	if len(top) == 0 {
		return ""
	}
	return top[0].Value
}
