package review

import (
	"testing"
	"time"

	"github.com/verte-zerg/tuivoc/internal/model"
)

func TestFinalizeSummary(t *testing.T) {
	start := time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC)
	acc := NewAccumulator()
	acc.Record("w1", false, 1000*time.Millisecond)
	acc.Record("w1", true, 500*time.Millisecond)
	acc.Record("w2", true, 1001*time.Millisecond)
	acc.Record("w3", true, 2000*time.Millisecond)

	rec := Finalize(FinalizeInput{
		ID:             "r1",
		DeckID:         "d1",
		UserID:         "u1",
		StartedAt:      start,
		EndedAt:        start.Add(90 * time.Second),
		TotalQuestions: 3,
		Stats:          acc,
		Words: map[string]model.Word{
			"w1": {ID: "w1", Prompt: "chat", Answers: []string{"cat"}},
			"w2": {ID: "w2", Prompt: "chien", Answers: []string{"dog"}},
			"w3": {ID: "w3", Prompt: "oiseau", Answers: []string{"bird"}},
		},
	})

	if rec.DurationMs != 90000 {
		t.Fatalf("expected 90000ms, got %d", rec.DurationMs)
	}
	if rec.UniqueWords != 3 || rec.TotalQuestions != 3 {
		t.Fatalf("unexpected counts: %+v", rec)
	}
	if rec.Summary.ErrorsTotal != 1 {
		t.Fatalf("expected 1 error, got %d", rec.Summary.ErrorsTotal)
	}
	// 4501ms over 4 attempts rounds to 1125.
	if rec.Summary.AvgMsOverall != 1125 {
		t.Fatalf("expected avg 1125, got %d", rec.Summary.AvgMsOverall)
	}
	// Two of three words had no error: 66.67 rounds to 67.
	if rec.Summary.FirstPassPct != 67 {
		t.Fatalf("expected first pass 67, got %d", rec.Summary.FirstPassPct)
	}
	w1 := rec.PerWord["w1"]
	if w1.Prompt != "chat" || w1.Attempts != 2 || w1.Errors != 1 || w1.AvgMs != 750 {
		t.Fatalf("unexpected w1 result: %+v", w1)
	}
	if got := rec.PerWord["w2"].AvgMs; got != 1001 {
		t.Fatalf("expected w2 avg 1001, got %d", got)
	}
}

func TestFinalizeEmpty(t *testing.T) {
	start := time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC)
	rec := Finalize(FinalizeInput{
		StartedAt:      start,
		EndedAt:        start.Add(-time.Second),
		TotalQuestions: 2,
		Stats:          NewAccumulator(),
	})
	if rec.DurationMs != 0 {
		t.Fatalf("expected clamped duration, got %d", rec.DurationMs)
	}
	if rec.UniqueWords != 0 || rec.Summary.FirstPassPct != 0 || rec.Summary.AvgMsOverall != 0 {
		t.Fatalf("unexpected empty summary: %+v", rec.Summary)
	}
}

func TestRoundDiv(t *testing.T) {
	cases := []struct {
		num, den, want int64
	}{
		{5, 2, 3},
		{4, 3, 1},
		{0, 3, 0},
		{7, 0, 0},
		{200, 3, 67},
		{100, 3, 33},
	}
	for _, tc := range cases {
		if got := roundDiv(tc.num, tc.den); got != tc.want {
			t.Fatalf("roundDiv(%d, %d) = %d, want %d", tc.num, tc.den, got, tc.want)
		}
	}
}
