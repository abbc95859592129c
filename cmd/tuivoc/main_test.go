package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/tuivoc/internal/model"
	"github.com/verte-zerg/tuivoc/internal/store"
)

func setupEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "tuivoc.db")
	t.Setenv("TUIVOC_DB", dbPath)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(dir, "state"))
	return dbPath
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := run(t, args...)
	if err != nil {
		t.Fatalf("tuivoc %s: %v\n%s", strings.Join(args, " "), err, out)
	}
	return out
}

func TestDeckAndWordCommands(t *testing.T) {
	setupEnv(t)

	mustRun(t, "deck", "add", "Animaux")
	if _, err := run(t, "deck", "add", "animaux"); err == nil {
		t.Fatalf("expected duplicate deck error")
	}
	mustRun(t, "word", "add", "--deck", "Animaux", "chat", "cat, kitty")
	mustRun(t, "word", "add", "--deck", "Animaux", "chien", "dog", "hound")

	out := mustRun(t, "word", "list", "--deck", "Animaux")
	if !strings.Contains(out, "cat, kitty") || !strings.Contains(out, "dog, hound") {
		t.Fatalf("unexpected word list:\n%s", out)
	}

	out = mustRun(t, "deck", "list")
	if !strings.Contains(out, "Animaux") {
		t.Fatalf("deck missing from list:\n%s", out)
	}

	out = mustRun(t, "word", "rm", "--deck", "Animaux", "chien")
	if !strings.Contains(out, "Removed 1 word") {
		t.Fatalf("unexpected rm output: %s", out)
	}
	if _, err := run(t, "word", "rm", "--deck", "Animaux", "chien"); err == nil {
		t.Fatalf("expected error removing a missing word")
	}

	out = mustRun(t, "deck", "clear", "Animaux", "--history")
	if !strings.Contains(out, "Removed 1 word(s)") || !strings.Contains(out, "0 session(s)") {
		t.Fatalf("unexpected clear output: %s", out)
	}
	mustRun(t, "deck", "rm", "Animaux")
	if _, err := run(t, "word", "list", "--deck", "Animaux"); err == nil {
		t.Fatalf("expected missing deck error")
	}
}

func TestWordImport(t *testing.T) {
	setupEnv(t)
	path := filepath.Join(t.TempDir(), "words.txt")
	content := "# French animals\nchat = cat, kitty\n\nchien = dog\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write words: %v", err)
	}

	out := mustRun(t, "word", "import", path)
	if !strings.Contains(out, "Imported 2 word(s) into "+defaultDeck) {
		t.Fatalf("unexpected import output: %s", out)
	}

	bad := filepath.Join(t.TempDir(), "bad.txt")
	if err := os.WriteFile(bad, []byte("oiseau = bird\nnope\n"), 0o644); err != nil {
		t.Fatalf("write words: %v", err)
	}
	_, err := run(t, "word", "import", bad)
	if err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Fatalf("expected line 2 error, got %v", err)
	}
}

func TestUserCommands(t *testing.T) {
	setupEnv(t)

	mustRun(t, "user", "add", "Sam")
	out := mustRun(t, "user", "list")
	if !strings.Contains(out, "Sam") {
		t.Fatalf("user missing from list:\n%s", out)
	}
	mustRun(t, "user", "rm", "sam")
	if _, err := run(t, "user", "rm", "Sam"); err == nil {
		t.Fatalf("expected missing user error")
	}
}

func TestHistoryAndPlainStats(t *testing.T) {
	dbPath := setupEnv(t)

	out := mustRun(t, "history")
	if !strings.Contains(out, "No sessions found.") {
		t.Fatalf("expected empty history, got:\n%s", out)
	}

	st, err := store.Open(dbPath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	ctx := context.Background()
	deck, err := st.EnsureDeck(ctx, defaultDeck)
	if err != nil {
		t.Fatalf("ensure deck: %v", err)
	}
	user, err := st.EnsureUser(ctx, defaultUser)
	if err != nil {
		t.Fatalf("ensure user: %v", err)
	}
	base := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		start := base.Add(time.Duration(i) * time.Hour)
		rec := model.HistoryRecord{
			ID:             string(rune('a' + i)),
			DeckID:         deck.ID,
			UserID:         user.ID,
			StartedAt:      start,
			EndedAt:        start.Add(time.Minute),
			DurationMs:     60000,
			TotalQuestions: 2,
			UniqueWords:    2,
			PerWord: map[string]model.WordResult{
				"w1": {Prompt: "chat", Answers: []string{"cat"}, Errors: 1, Attempts: 2, AvgMs: 900},
				"w2": {Prompt: "chien", Answers: []string{"dog"}, Attempts: 1, AvgMs: 700},
			},
			Summary: model.Summary{ErrorsTotal: 1, AvgMsOverall: 833, FirstPassPct: 50},
		}
		if err := st.AppendRecord(ctx, rec); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	if err := st.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	out = mustRun(t, "history", "--details", "--last", "2")
	if !strings.Contains(out, "First pass") || !strings.Contains(out, "chat") {
		t.Fatalf("unexpected history:\n%s", out)
	}

	out = mustRun(t, "stats", "--plain", "--top", "1")
	if !strings.Contains(out, "Sessions: 3") || !strings.Contains(out, "Per-Word") {
		t.Fatalf("unexpected stats:\n%s", out)
	}

	out = mustRun(t, "history", "--clear")
	if !strings.Contains(out, "Deleted 3 session(s)") {
		t.Fatalf("unexpected clear output: %s", out)
	}
}

func TestInvalidReviewFlags(t *testing.T) {
	setupEnv(t)
	if _, err := run(t, "--match", "fuzzy"); err == nil {
		t.Fatalf("expected invalid match error")
	}
	if _, err := run(t, "--advance-delay-ms", "-1"); err == nil {
		t.Fatalf("expected invalid delay error")
	}
}

func TestConfigTemplateDecodes(t *testing.T) {
	tmpl := defaultConfigTemplate()
	for _, want := range []string{"[review]", "[stats]", "[log]", "advance-delay-ms", defaultDeck} {
		if !strings.Contains(tmpl, want) {
			t.Fatalf("template missing %q", want)
		}
	}
}
