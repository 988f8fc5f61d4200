// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

const (
	columnGap = "  "
	ellipsis  = "…"
)

// column describes one table column. A zero maxWidth never truncates.
type column struct {
	title    string
	right    bool
	maxWidth int
}

// table renders aligned plain-text rows. Widths are measured in terminal
// cells, so wide runes in category and speaker names line up.
type table struct {
	columns []column
	rows    [][]string
}

func (t table) hasHeader() bool {
	for _, c := range t.columns {
		if c.title != "" {
			return true
		}
	}
	return false
}

func (t table) lines() []string {
	if len(t.columns) == 0 {
		return nil
	}
	rows := make([][]string, 0, len(t.rows)+1)
	if t.hasHeader() {
		header := make([]string, len(t.columns))
		for i, c := range t.columns {
			header[i] = c.title
		}
		rows = append(rows, header)
	}
	for _, row := range t.rows {
		cells := make([]string, len(t.columns))
		for i, c := range t.columns {
			if i < len(row) {
				cells[i] = clip(row[i], c.maxWidth)
			}
		}
		rows = append(rows, cells)
	}

	widths := make([]int, len(t.columns))
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}

	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		var b strings.Builder
		for i, cell := range row {
			if i > 0 {
				b.WriteString(columnGap)
			}
			b.WriteString(pad(cell, widths[i], t.columns[i].right))
		}
		lines = append(lines, strings.TrimRight(b.String(), " "))
	}
	return lines
}

func (t table) write(w io.Writer) error {
	for _, line := range t.lines() {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func clip(value string, maxWidth int) string {
	if maxWidth <= 0 || runewidth.StringWidth(value) <= maxWidth {
		return value
	}
	return runewidth.Truncate(value, maxWidth, ellipsis)
}

func pad(value string, width int, right bool) string {
	if right {
		return runewidth.FillLeft(value, width)
	}
	return runewidth.FillRight(value, width)
}
