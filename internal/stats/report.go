// Package stats contains statistics calculations and reporting.
package stats

import (
	"context"
	"strings"
	"time"

	"github.com/gobwas/glob"

	"github.com/verte-zerg/medilog/internal/model"
	"github.com/verte-zerg/medilog/internal/record"
)

const defaultActivityDays = 14

// Source supplies the full meditation history.
type Source interface {
	ReadAll(ctx context.Context) []record.Record
}

// Report contains precomputed data for stats rendering.
type Report struct {
	Records       []record.Record // filtered, in stored order
	Stats         model.Stats
	LongestStreak int
	Categories    []Ranked
	Speakers      []Ranked
	Daily         []float64 // minutes per day, oldest first
}

// BuildReport loads the history, applies cfg filters and computes stats.
func BuildReport(ctx context.Context, src Source, cfg model.StatsConfig, now time.Time) Report {
	return NewReport(src.ReadAll(ctx), cfg, now)
}

// NewReport computes a report over records already in memory.
func NewReport(records []record.Record, cfg model.StatsConfig, now time.Time) Report {
	filtered := Filter(records, cfg)
	days := cfg.Days
	if days == 0 {
		days = defaultActivityDays
	}
	categories := make([]string, len(filtered))
	speakers := make([]string, len(filtered))
	for i, rec := range filtered {
		categories[i] = rec.Category()
		speakers[i] = rec.Speaker()
	}
	return Report{
		Records:       filtered,
		Stats:         Compute(filtered, now),
		LongestStreak: LongestStreak(filtered),
		Categories:    RankByFrequency(categories, 0),
		Speakers:      RankByFrequency(speakers, 0),
		Daily:         DailyMinutes(filtered, now, days),
	}
}

// Filter keeps records matching cfg. Category and speaker filters are
// case-insensitive glob patterns ("body*", "?ara"); a plain name matches
// exactly. Last keeps the final N records in stored order.
func Filter(records []record.Record, cfg model.StatsConfig) []record.Record {
	category := newMatcher(cfg.Category)
	speaker := newMatcher(cfg.Speaker)
	out := make([]record.Record, 0, len(records))
	for _, rec := range records {
		if cfg.Since != nil && rec.Time().Before(*cfg.Since) {
			continue
		}
		if !category(rec.Category()) || !speaker(rec.Speaker()) {
			continue
		}
		out = append(out, rec)
	}
	if cfg.Last > 0 && len(out) > cfg.Last {
		out = out[len(out)-cfg.Last:]
	}
	return out
}

func newMatcher(pattern string) func(string) bool {
	pattern = normalizeLabel(pattern)
	if pattern == "" {
		return func(string) bool { return true }
	}
	g, err := glob.Compile(pattern)
	if err != nil {
		return func(v string) bool { return normalizeLabel(v) == pattern }
	}
	return func(v string) bool { return g.Match(normalizeLabel(v)) }
}

func normalizeLabel(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
