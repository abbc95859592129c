package statsui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/tuivoc/internal/model"
)

type fakeQuerier struct {
	records []model.HistoryRecord
	err     error
}

func (f *fakeQuerier) QueryRecords(context.Context, string, string) ([]model.HistoryRecord, error) {
	return f.records, f.err
}

func sampleRecords(n int) []model.HistoryRecord {
	base := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	out := make([]model.HistoryRecord, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, model.HistoryRecord{
			ID:             string(rune('a' + i)),
			StartedAt:      base.Add(time.Duration(i) * time.Hour),
			DurationMs:     60000,
			TotalQuestions: 2,
			UniqueWords:    2,
			Training:       i == n-1,
			PerWord: map[string]model.WordResult{
				"w1": {Prompt: "chat", Answers: []string{"cat"}, Errors: i % 2, Attempts: 1 + i%2, AvgMs: 800},
				"w2": {Prompt: "chien", Answers: []string{"dog"}, Attempts: 1, AvgMs: 600},
			},
			Summary: model.Summary{ErrorsTotal: i % 2, AvgMsOverall: 700, FirstPassPct: 100 - 50*(i%2)},
		})
	}
	return out
}

func sized(m *Model) *Model {
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return m
}

func TestOverviewShowsCards(t *testing.T) {
	m := sized(NewModel(&fakeQuerier{records: sampleRecords(4)}, model.StatsConfig{CurveWindow: 2}, "Deck: Animaux"))
	if len(m.report.Records) != 3 {
		t.Fatalf("expected training session filtered out, got %d records", len(m.report.Records))
	}
	view := m.View()
	for _, want := range []string{"Overview", "Sessions", "Avg First Pass", "Deck: Animaux", "training=no"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q", want)
		}
	}
}

func TestToggleTrainingReloads(t *testing.T) {
	m := sized(NewModel(&fakeQuerier{records: sampleRecords(4)}, model.StatsConfig{CurveWindow: 1}, ""))
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("t")})
	if !m.cfg.IncludeTraining || len(m.report.Records) != 4 {
		t.Fatalf("expected training records included, got %d", len(m.report.Records))
	}
}

func TestTabsRenderTables(t *testing.T) {
	m := sized(NewModel(&fakeQuerier{records: sampleRecords(3)}, model.StatsConfig{CurveWindow: 1}, ""))
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if m.activeTab != tabHistory {
		t.Fatalf("expected history tab, got %d", m.activeTab)
	}
	if got := len(m.historyTable.Rows()); got != 2 {
		t.Fatalf("expected 2 history rows, got %d", got)
	}
	if !strings.Contains(m.View(), "First pass") {
		t.Fatalf("history view missing headers")
	}

	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if m.activeTab != tabWords {
		t.Fatalf("expected words tab, got %d", m.activeTab)
	}
	rows := m.wordTable.Rows()
	if len(rows) != 2 || rows[0][0] != "chat" {
		t.Fatalf("unexpected word rows: %v", rows)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("w")})
	if !m.wordsWindow || !strings.Contains(m.View(), "Scope: last") {
		t.Fatalf("expected window scope")
	}

	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if m.activeTab != tabOverview {
		t.Fatalf("expected wrap to overview, got %d", m.activeTab)
	}
}

func TestApplyFilterValidation(t *testing.T) {
	m := NewModel(&fakeQuerier{}, model.StatsConfig{CurveWindow: 5}, "")
	m.filterInputs[0].SetValue("yesterday")
	if err := m.applyFilter(); err == nil {
		t.Fatalf("expected since error")
	}
	m.filterInputs[0].SetValue("2024-05-01")
	m.filterInputs[1].SetValue("-1")
	if err := m.applyFilter(); err == nil {
		t.Fatalf("expected last error")
	}
	m.filterInputs[1].SetValue("3")
	m.filterInputs[2].SetValue("0")
	if err := m.applyFilter(); err == nil {
		t.Fatalf("expected window error")
	}
	m.filterInputs[2].SetValue("4")
	if err := m.applyFilter(); err != nil {
		t.Fatalf("apply filter: %v", err)
	}
	if m.cfg.Since == nil || m.cfg.Last != 3 || m.cfg.CurveWindow != 4 {
		t.Fatalf("unexpected config: %+v", m.cfg)
	}
}

func TestQueryErrorShown(t *testing.T) {
	m := sized(NewModel(&fakeQuerier{err: errors.New("db locked")}, model.StatsConfig{}, ""))
	if !strings.Contains(m.View(), "db locked") {
		t.Fatalf("expected error in footer")
	}
}

func TestCurveWindowSteps(t *testing.T) {
	cases := []struct {
		in, next, prev int
	}{
		{in: 1, next: 5, prev: 1},
		{in: 5, next: 10, prev: 1},
		{in: 7, next: 10, prev: 5},
		{in: 10, next: 15, prev: 5},
	}
	for _, tc := range cases {
		if got := nextCurveWindow(tc.in); got != tc.next {
			t.Fatalf("nextCurveWindow(%d) = %d, want %d", tc.in, got, tc.next)
		}
		if got := prevCurveWindow(tc.in); got != tc.prev {
			t.Fatalf("prevCurveWindow(%d) = %d, want %d", tc.in, got, tc.prev)
		}
	}
}
