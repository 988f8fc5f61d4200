package stats

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/medilog/internal/kv"
	"github.com/verte-zerg/medilog/internal/model"
	"github.com/verte-zerg/medilog/internal/record"
	"github.com/verte-zerg/medilog/internal/recordstore"
)

func TestBuildReport(t *testing.T) {
	dir := t.TempDir()
	backend, err := kv.OpenSQLite(filepath.Join(dir, "medilog.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = backend.Close()
	})
	st := recordstore.New(backend)

	ctx := context.Background()
	now := time.Date(2026, 10, 19, 20, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		start := now.AddDate(0, 0, -2+i).Add(-time.Hour)
		category := "Breath"
		if i == 0 {
			category = "Sleep"
		}
		st.Append(ctx, mustRecord(t, start.Unix(), int64(600*(i+1)), category, "Alice"))
	}

	report := BuildReport(ctx, st, model.StatsConfig{Last: 2, Days: 3}, now)
	if len(report.Records) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(report.Records))
	}
	if report.Records[0].Duration() != 1200 || report.Records[1].Duration() != 1800 {
		t.Fatalf("expected the last two sessions in stored order, got %+v", report.Records)
	}
	if report.Stats.TotalMeditationSessions != 2 {
		t.Fatalf("expected stats over filtered sessions, got %+v", report.Stats)
	}
	if report.Stats.DaysMeditatedInRow != 2 || report.LongestStreak != 2 {
		t.Fatalf("unexpected streaks: current=%d longest=%d", report.Stats.DaysMeditatedInRow, report.LongestStreak)
	}
	if len(report.Daily) != 3 || report.Daily[0] != 0 || report.Daily[1] != 20 || report.Daily[2] != 30 {
		t.Fatalf("unexpected daily minutes %v", report.Daily)
	}
	if len(report.Categories) != 1 || report.Categories[0].Value != "Breath" {
		t.Fatalf("unexpected categories %+v", report.Categories)
	}

	sleep := BuildReport(ctx, st, model.StatsConfig{Category: " sleep "}, now)
	if len(sleep.Records) != 1 || sleep.Stats.FavoriteCategory != "Sleep" {
		t.Fatalf("expected one Sleep session, got %+v", sleep.Records)
	}
	if len(sleep.Daily) != defaultActivityDays {
		t.Fatalf("expected default activity window, got %d", len(sleep.Daily))
	}
}

func TestFilterSince(t *testing.T) {
	now := time.Date(2024, 2, 9, 22, 0, 0, 0, time.UTC)
	since := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	got := Filter(sampleHistory(t), model.StatsConfig{Since: &since, Speaker: "ALICE"})
	if len(got) != 1 || got[0].Category() != "Healing" {
		t.Fatalf("unexpected filtered records %+v", got)
	}
	report := NewReport(sampleHistory(t), model.StatsConfig{Since: &since}, now)
	if report.Stats.TotalMeditationSessions != 2 {
		t.Fatalf("expected 2 sessions since 2024, got %d", report.Stats.TotalMeditationSessions)
	}
}

func TestFilterGlobPatterns(t *testing.T) {
	records := []record.Record{
		mustRecord(t, 100, 60, "Body Scan", "Tara"),
		mustRecord(t, 200, 60, "Breath", "Sara"),
		mustRecord(t, 300, 60, "body", "Alan"),
	}
	cases := []struct {
		name string
		cfg  model.StatsConfig
		want int
	}{
		{"prefix", model.StatsConfig{Category: "body*"}, 2},
		{"exact name", model.StatsConfig{Category: "BODY"}, 1},
		{"single char", model.StatsConfig{Speaker: "?ara"}, 2},
		{"alternatives", model.StatsConfig{Category: "{breath,body}"}, 2},
		{"no match", model.StatsConfig{Speaker: "bob"}, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Filter(records, tc.cfg); len(got) != tc.want {
				t.Fatalf("expected %d records, got %d", tc.want, len(got))
			}
		})
	}
}
