package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/tuivoc/internal/model"
	"github.com/verte-zerg/tuivoc/internal/review"
	"github.com/verte-zerg/tuivoc/internal/stats"
)

var (
	_ review.WordSource      = (*Store)(nil)
	_ review.ErrorCounter    = (*Store)(nil)
	_ review.HistoryAppender = (*Store)(nil)
	_ stats.RecordQuerier    = (*Store)(nil)
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "tuivoc.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func TestUsersAreUniqueIgnoringCase(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	alex, err := st.CreateUser(ctx, "  Alex ")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if alex.Name != "Alex" {
		t.Fatalf("expected trimmed name, got %q", alex.Name)
	}
	if _, err := st.CreateUser(ctx, "alex"); !errors.Is(err, ErrNameExists) {
		t.Fatalf("expected ErrNameExists, got %v", err)
	}
	if _, err := st.CreateUser(ctx, "   "); err == nil {
		t.Fatalf("expected error for empty name")
	}
	found, err := st.FindUserByName(ctx, "ALEX")
	if err != nil || found.ID != alex.ID {
		t.Fatalf("find user: %+v %v", found, err)
	}
	ensured, err := st.EnsureUser(ctx, "alex")
	if err != nil || ensured.ID != alex.ID {
		t.Fatalf("ensure existing user: %+v %v", ensured, err)
	}
	sam, err := st.EnsureUser(ctx, "Sam")
	if err != nil {
		t.Fatalf("ensure new user: %v", err)
	}
	users, err := st.ListUsers(ctx)
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}
	if err := st.DeleteUser(ctx, sam.ID); err != nil {
		t.Fatalf("delete user: %v", err)
	}
	if err := st.DeleteUser(ctx, sam.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestWordsAndErrors(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	deck, err := st.CreateDeck(ctx, "Vocab par défaut")
	if err != nil {
		t.Fatalf("create deck: %v", err)
	}
	if _, err := st.AddWord(ctx, "missing", "chat", []string{"cat"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing deck, got %v", err)
	}
	if _, err := st.AddWord(ctx, deck.ID, "chat", []string{" ", ""}); err == nil {
		t.Fatalf("expected error without answers")
	}
	chat, err := st.AddWord(ctx, deck.ID, "chat", []string{" cat ", "", "kitty"})
	if err != nil {
		t.Fatalf("add word: %v", err)
	}
	chien, err := st.AddWord(ctx, deck.ID, "chien", []string{"dog"})
	if err != nil {
		t.Fatalf("add word: %v", err)
	}

	if err := st.IncrementErrors(ctx, chat.ID, "u1"); err != nil {
		t.Fatalf("increment: %v", err)
	}
	if err := st.IncrementErrors(ctx, chat.ID, "u1"); err != nil {
		t.Fatalf("increment: %v", err)
	}
	if err := st.IncrementErrors(ctx, chat.ID, "u2"); err != nil {
		t.Fatalf("increment: %v", err)
	}

	words, err := st.ListWords(ctx, deck.ID)
	if err != nil {
		t.Fatalf("list words: %v", err)
	}
	if len(words) != 2 || words[0].ID != chat.ID || words[1].ID != chien.ID {
		t.Fatalf("unexpected words: %+v", words)
	}
	if got := words[0].Answers; len(got) != 2 || got[0] != "cat" || got[1] != "kitty" {
		t.Fatalf("unexpected answers: %v", got)
	}
	if words[0].ErrorsByUser["u1"] != 2 || words[0].ErrorsByUser["u2"] != 1 {
		t.Fatalf("unexpected error counts: %v", words[0].ErrorsByUser)
	}

	decks, err := st.ListDecks(ctx)
	if err != nil {
		t.Fatalf("list decks: %v", err)
	}
	if len(decks) != 1 || decks[0].Words != 2 {
		t.Fatalf("unexpected decks: %+v", decks)
	}

	if _, ok, err := st.LookupWord(ctx, chien.ID); err != nil || !ok {
		t.Fatalf("lookup existing word: ok=%v err=%v", ok, err)
	}
	if err := st.DeleteWord(ctx, chien.ID); err != nil {
		t.Fatalf("delete word: %v", err)
	}
	if _, ok, err := st.LookupWord(ctx, chien.ID); err != nil || ok {
		t.Fatalf("expected deleted word to be absent: ok=%v err=%v", ok, err)
	}

	n, err := st.ClearWords(ctx, deck.ID)
	if err != nil {
		t.Fatalf("clear words: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 cleared word, got %d", n)
	}
}

func TestRecordsRoundTripInOrder(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	for i, offset := range []time.Duration{2 * time.Hour, 0, time.Hour} {
		start := base.Add(offset)
		rec := model.HistoryRecord{
			ID:             []string{"c", "a", "b"}[i],
			DeckID:         "d1",
			UserID:         "u1",
			StartedAt:      start,
			EndedAt:        start.Add(time.Minute),
			DurationMs:     60000,
			TotalQuestions: 4,
			UniqueWords:    4,
			Training:       i == 2,
			PerWord: map[string]model.WordResult{
				"w1": {Prompt: "chat", Answers: []string{"cat"}, Errors: 1, Attempts: 2, AvgMs: 900},
			},
			Summary: model.Summary{ErrorsTotal: 1, AvgMsOverall: 900, FirstPassPct: 75},
		}
		if err := st.AppendRecord(ctx, rec); err != nil {
			t.Fatalf("append record: %v", err)
		}
	}
	if err := st.AppendRecord(ctx, model.HistoryRecord{ID: "other", DeckID: "d2", UserID: "u1", StartedAt: base, EndedAt: base}); err != nil {
		t.Fatalf("append other record: %v", err)
	}

	records, err := st.QueryRecords(ctx, "d1", "u1")
	if err != nil {
		t.Fatalf("query records: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	for i, id := range []string{"a", "b", "c"} {
		if records[i].ID != id {
			t.Fatalf("record %d: expected %s, got %s", i, id, records[i].ID)
		}
	}
	b := records[1]
	if !b.Training || b.Summary.FirstPassPct != 75 || b.PerWord["w1"].AvgMs != 900 {
		t.Fatalf("unexpected decoded record: %+v", b)
	}
	if !b.StartedAt.Equal(base.Add(time.Hour)) {
		t.Fatalf("unexpected start time: %v", b.StartedAt)
	}

	n, err := st.ClearRecords(ctx, "d1", "")
	if err != nil {
		t.Fatalf("clear records: %v", err)
	}
	if n != 3 {
		t.Fatalf("expected 3 cleared records, got %d", n)
	}
	all, err := st.QueryRecords(ctx, "", "")
	if err != nil {
		t.Fatalf("query all: %v", err)
	}
	if len(all) != 1 || all[0].ID != "other" {
		t.Fatalf("unexpected remaining records: %+v", all)
	}
}

func TestDeleteDeckCascades(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	deck, err := st.EnsureDeck(ctx, "Animaux")
	if err != nil {
		t.Fatalf("ensure deck: %v", err)
	}
	again, err := st.EnsureDeck(ctx, "animaux")
	if err != nil || again.ID != deck.ID {
		t.Fatalf("expected same deck, got %+v %v", again, err)
	}
	w, err := st.AddWord(ctx, deck.ID, "chat", []string{"cat"})
	if err != nil {
		t.Fatalf("add word: %v", err)
	}
	if err := st.IncrementErrors(ctx, w.ID, "u1"); err != nil {
		t.Fatalf("increment: %v", err)
	}
	if err := st.AppendRecord(ctx, model.HistoryRecord{ID: "r1", DeckID: deck.ID, UserID: "u1"}); err != nil {
		t.Fatalf("append: %v", err)
	}

	if err := st.DeleteDeck(ctx, deck.ID); err != nil {
		t.Fatalf("delete deck: %v", err)
	}
	if _, err := st.FindDeckByName(ctx, "Animaux"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected deck to be gone, got %v", err)
	}
	if _, ok, _ := st.LookupWord(ctx, w.ID); ok {
		t.Fatalf("expected word to be gone")
	}
	records, err := st.QueryRecords(ctx, deck.ID, "")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected no records, got %d", len(records))
	}
	if err := st.DeleteDeck(ctx, deck.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
