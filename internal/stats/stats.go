// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/verte-zerg/medilog/internal/model"
	"github.com/verte-zerg/medilog/internal/record"
)

const sparkChars = " .:-=+*#%@"

// Compute derives Stats from records in any order. now anchors the streak.
func Compute(records []record.Record, now time.Time) model.Stats {
	var total int64
	categories := make([]string, len(records))
	speakers := make([]string, len(records))
	for i, rec := range records {
		total += rec.Duration()
		categories[i] = rec.Category()
		speakers[i] = rec.Speaker()
	}
	out := model.Stats{
		TotalHoursMeditated:     float64(total) / 3600,
		TotalMeditationSessions: len(records),
		DaysMeditatedInRow:      CurrentStreak(records, now),
		FavoriteCategory:        Favorite(categories),
		FavoriteSpeaker:         Favorite(speakers),
	}
	if len(records) > 0 {
		out.AverageDurationPerMeditation = float64(total) / float64(len(records))
	}
	return out
}

// DailyMinutes returns minutes meditated per UTC day for the days ending
// today, oldest first.
func DailyMinutes(records []record.Record, now time.Time, days int) []float64 {
	if days <= 0 {
		return nil
	}
	today := dayNumber(now.Unix())
	first := today - int64(days) + 1
	out := make([]float64, days)
	for _, rec := range records {
		d := dayNumber(rec.Datetime())
		if d < first || d > today {
			continue
		}
		out[d-first] += float64(rec.Duration()) / 60
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// FormatSeconds renders a duration in seconds as a short human string.
func FormatSeconds(seconds float64) string {
	d := time.Duration(math.Round(seconds)) * time.Second
	switch {
	case d <= 0:
		return "0s"
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		m := int(d / time.Minute)
		s := int((d % time.Minute) / time.Second)
		if s == 0 {
			return fmt.Sprintf("%dm", m)
		}
		return fmt.Sprintf("%dm%02ds", m, s)
	default:
		h := int(d / time.Hour)
		m := int((d % time.Hour) / time.Minute)
		return fmt.Sprintf("%dh%02dm", h, m)
	}
}

// RenderSummary prints the stats block of a report.
func RenderSummary(w io.Writer, report Report) error {
	if len(report.Records) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	s := report.Stats
	rows := [][]string{
		{"Sessions", fmt.Sprintf("%d", s.TotalMeditationSessions)},
		{"Total hours", fmt.Sprintf("%.2f", s.TotalHoursMeditated)},
		{"Average session", FormatSeconds(s.AverageDurationPerMeditation)},
		{"Current streak", pluralDays(s.DaysMeditatedInRow)},
		{"Longest streak", pluralDays(report.LongestStreak)},
		{"Favorite category", s.FavoriteCategory},
		{"Favorite speaker", s.FavoriteSpeaker},
	}
	if _, err := fmt.Fprintln(w, "Summary"); err != nil {
		return err
	}
	if err := (table{columns: []column{{}, {}}, rows: rows}).write(w); err != nil {
		return err
	}
	if len(report.Daily) > 0 {
		if _, err := fmt.Fprintf(w, "Last %d days  [%s]\n", len(report.Daily), Sparkline(report.Daily)); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}

// labelWidth caps category and speaker cells in the text tables.
const labelWidth = 24

// RenderRanking prints a frequency table.
func RenderRanking(w io.Writer, title string, ranked []Ranked) error {
	if len(ranked) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, title); err != nil {
		return err
	}
	rows := make([][]string, 0, len(ranked))
	for _, r := range ranked {
		rows = append(rows, []string{r.Value, fmt.Sprintf("%d", r.Count)})
	}
	columns := []column{
		{title: "Name", maxWidth: labelWidth},
		{title: "Sessions", right: true},
	}
	if err := (table{columns: columns, rows: rows}).write(w); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}

// RenderHistory prints the last n records, newest first. n <= 0 prints all.
func RenderHistory(w io.Writer, records []record.Record, n int, loc *time.Location) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	if loc == nil {
		loc = time.Local
	}
	recent := Recent(records, n)
	rows := make([][]string, 0, len(recent))
	for _, rec := range recent {
		rows = append(rows, []string{
			rec.Time().In(loc).Format("2006-01-02 15:04"),
			FormatSeconds(float64(rec.Duration())),
			rec.Category(),
			rec.Speaker(),
		})
	}
	columns := []column{
		{title: "Started"},
		{title: "Duration", right: true},
		{title: "Category", maxWidth: labelWidth},
		{title: "Speaker", maxWidth: labelWidth},
	}
	return table{columns: columns, rows: rows}.write(w)
}

// Recent returns the last n records in reverse stored order.
func Recent(records []record.Record, n int) []record.Record {
	if n <= 0 || n > len(records) {
		n = len(records)
	}
	out := make([]record.Record, 0, n)
	for i := len(records) - 1; i >= len(records)-n; i-- {
		out = append(out, records[i])
	}
	return out
}

func pluralDays(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}
