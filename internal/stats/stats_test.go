package stats

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/tuivoc/internal/model"
)

func TestMovingAverage(t *testing.T) {
	got := MovingAverage([]float64{2, 4, 6, 8}, 2)
	want := []float64{2, 3, 5, 7}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("index %d: expected %.1f, got %.1f", i, want[i], got[i])
		}
	}
}

func TestSummarize(t *testing.T) {
	base := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	a := record("a", base, 10, 2)
	a.Summary.FirstPassPct = 80
	a.Summary.AvgMsOverall = 1000
	a.DurationMs = 60000
	b := record("b", base.Add(time.Hour), 10, 6)
	b.Summary.FirstPassPct = 40
	b.Summary.AvgMsOverall = 3000
	b.DurationMs = 30000

	m := Summarize([]model.HistoryRecord{a, b})
	if m.Sessions != 2 || m.Questions != 20 || m.Errors != 8 {
		t.Fatalf("unexpected totals: %+v", m)
	}
	if m.AvgFirstPassPct != 60 || m.AvgMs != 2000 || m.BestFirstTry != 8 {
		t.Fatalf("unexpected averages: %+v", m)
	}
	if m.TotalMinutes != 1.5 {
		t.Fatalf("expected 1.5 minutes, got %.2f", m.TotalMinutes)
	}
}

func TestRenderHistoryTableNewestFirst(t *testing.T) {
	base := time.Date(2024, 5, 1, 8, 0, 0, 0, time.Local)
	records := []model.HistoryRecord{
		record("a", base, 3, 0),
		record("b", base.Add(time.Hour), 3, 1),
		record("c", base.Add(2*time.Hour), 3, 2),
	}
	records[2].Training = true

	var buf bytes.Buffer
	if err := RenderHistoryTable(&buf, records, 2, false); err != nil {
		t.Fatalf("render: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header and 2 rows, got %d:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[1], "2024-05-01 10:00 training") {
		t.Fatalf("expected newest training session first, got %q", lines[1])
	}
	if !strings.HasPrefix(lines[2], "2024-05-01 09:00 normal") {
		t.Fatalf("unexpected second row %q", lines[2])
	}
}

func TestRenderHistoryTableDetails(t *testing.T) {
	rec := record("a", time.Date(2024, 5, 1, 8, 0, 0, 0, time.Local), 2, 1)
	rec.PerWord = map[string]model.WordResult{
		"w1": {Prompt: "chat", Answers: []string{"cat", "kitty"}, Attempts: 2, Errors: 1, AvgMs: 1500},
	}
	var buf bytes.Buffer
	if err := RenderHistoryTable(&buf, []model.HistoryRecord{rec}, HistoryTableLimit, true); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(buf.String(), "cat, kitty") {
		t.Fatalf("expected per-word answers in details:\n%s", buf.String())
	}
}

func TestRenderSummaryEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderSummary(&buf, nil); err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.TrimSpace(buf.String()) != "No sessions found." {
		t.Fatalf("unexpected output %q", buf.String())
	}
}
