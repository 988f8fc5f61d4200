package stats

import "testing"

func TestTableAlignsColumns(t *testing.T) {
	tbl := table{
		columns: []column{{title: "Speaker"}, {title: "Sessions", right: true}, {title: "Hours", right: true}},
		rows: [][]string{
			{"Alice", "12", "3.50"},
			{"林", "3", "0.25"},
		},
	}

	lines := tbl.lines()
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Speaker  Sessions  Hours" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "Alice          12   3.50" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "林              3   0.25" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestTableWithoutHeader(t *testing.T) {
	tbl := table{
		columns: []column{{}, {}},
		rows:    [][]string{{"Sessions", "3"}, {"Favorite speaker", "Alice"}},
	}
	lines := tbl.lines()
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %q", lines)
	}
	if lines[0] != "Sessions          3" {
		t.Fatalf("unexpected row line: %q", lines[0])
	}
}

func TestTableClipsLongLabels(t *testing.T) {
	tbl := table{
		columns: []column{{title: "Category", maxWidth: 8}, {title: "Sessions", right: true}},
		rows:    [][]string{{"Loving-kindness", "2"}, {"Breath", "10"}},
	}
	lines := tbl.lines()
	if lines[1] != "Loving-…         2" {
		t.Fatalf("unexpected clipped row: %q", lines[1])
	}
	if lines[2] != "Breath          10" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}
