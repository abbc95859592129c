package stats

import "testing"

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Word", "Errors", "Attempts"}
	rows := [][]string{
		{"élève", "3", "12"},
		{"chat", "10", "4"},
	}
	rightAlign := map[int]bool{1: true, 2: true}

	lines := formatTable(headers, rows, rightAlign)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Word  Errors Attempts" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "élève      3       12" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "chat      10        4" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestDisplayWidthCountsCells(t *testing.T) {
	if got := displayWidth("日本"); got != 4 {
		t.Fatalf("expected wide runes to take 2 cells each, got %d", got)
	}
	if got := padCell("é", 3, true); got != "  é" {
		t.Fatalf("unexpected padding: %q", got)
	}
}
