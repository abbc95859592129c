package stats

import (
	"bytes"
	"strings"
	"testing"
)

func TestPlot(t *testing.T) {
	var buf bytes.Buffer
	err := Plot(&buf, []Series{
		{Name: "A", Values: []float64{1, 2, 3, 2, 1}},
		{Name: "B", Values: []float64{1, 1, 2, 3, 4}},
	}, PlotOptions{Title: "Test Plot", Labels: []string{"24-05-01 08:00", "24-05-05 08:00"}, Width: 40, Height: 4})
	if err != nil {
		t.Fatalf("Plot failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Test Plot") {
		t.Fatalf("expected title in output")
	}
	if !strings.Contains(out, "Legend:") {
		t.Fatalf("expected legend in output")
	}
	if !strings.Contains(out, "24-05-01 08:00") || !strings.Contains(out, "24-05-05 08:00") {
		t.Fatalf("expected time labels in output:\n%s", out)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	// title + 4 plot rows + time axis + legend
	if len(lines) != 7 {
		t.Fatalf("expected 7 lines of output, got %d:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(strings.TrimSpace(lines[1]), "4") {
		t.Fatalf("expected top axis label 4, got %q", lines[1])
	}
	if !strings.HasPrefix(strings.TrimSpace(lines[4]), "0") {
		t.Fatalf("expected bottom axis label 0, got %q", lines[4])
	}
}

func TestPlotSkipsEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := Plot(&buf, []Series{{Name: "A"}}, PlotOptions{Title: "Empty", Width: 20, Height: 4}); err != nil {
		t.Fatalf("Plot failed: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no output, got %q", buf.String())
	}
}

func TestResampleSeries(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		width  int
		want   []float64
	}{
		{name: "same width", values: []float64{1, 2}, width: 2, want: []float64{1, 2}},
		{name: "bucket means", values: []float64{1, 3, 5, 7}, width: 2, want: []float64{2, 6}},
		{name: "interpolate", values: []float64{0, 4}, width: 3, want: []float64{0, 2, 4}},
		{name: "single value", values: []float64{5}, width: 3, want: []float64{5, 5, 5}},
		{name: "empty", values: nil, width: 3, want: nil},
	}
	for _, tt := range tests {
		got := resampleSeries(tt.values, tt.width)
		if len(got) != len(tt.want) {
			t.Fatalf("%s: expected %v, got %v", tt.name, tt.want, got)
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Fatalf("%s: expected %v, got %v", tt.name, tt.want, got)
			}
		}
	}
}

func TestCanvasSegmentConnectsPoints(t *testing.T) {
	c := newCanvas(2, 1)
	c.segment(0, 0, 2, 3, lineStyles[0])
	if c[0][0] == 0 || c[0][1] == 0 {
		t.Fatalf("expected dots in both cells, got %v", c)
	}
	if c[0][1]&brailleDots[3][0] == 0 {
		t.Fatalf("expected end dot at bottom left of second cell, got %08b", c[0][1])
	}
}
