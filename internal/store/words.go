package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/verte-zerg/tuivoc/internal/model"
)

// AddWord stores a word in a deck. Answers are trimmed and blanks dropped.
func (s *Store) AddWord(ctx context.Context, deckID, prompt string, answers []string) (model.Word, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return model.Word{}, fmt.Errorf("word prompt is empty")
	}
	cleaned := make([]string, 0, len(answers))
	for _, a := range answers {
		if a = strings.TrimSpace(a); a != "" {
			cleaned = append(cleaned, a)
		}
	}
	if len(cleaned) == 0 {
		return model.Word{}, fmt.Errorf("word %q has no answers", prompt)
	}
	encoded, err := json.Marshal(cleaned)
	if err != nil {
		return model.Word{}, fmt.Errorf("failed to encode answers: %w", err)
	}

	word := model.Word{
		ID:           uuid.NewString(),
		DeckID:       deckID,
		Prompt:       prompt,
		Answers:      cleaned,
		ErrorsByUser: map[string]int{},
		CreatedAt:    s.now(),
	}
	err = s.execTx(ctx, func(tx *sql.Tx) error {
		var exists int
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM decks WHERE id = ?`, deckID).Scan(&exists); err != nil {
			return err
		}
		if exists == 0 {
			return fmt.Errorf("deck %s: %w", deckID, ErrNotFound)
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO words (id, deck_id, prompt, answers, created_at) VALUES (?, ?, ?, ?, ?)`,
			word.ID, word.DeckID, word.Prompt, string(encoded), formatTime(word.CreatedAt))
		return err
	})
	if err != nil {
		return model.Word{}, err
	}
	return word, nil
}

// ListWords returns the words of a deck in insertion order with per-user error counts.
func (s *Store) ListWords(ctx context.Context, deckID string) ([]model.Word, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, deck_id, prompt, answers, created_at FROM words
		 WHERE deck_id = ?
		 ORDER BY created_at ASC, rowid ASC`, deckID)
	if err != nil {
		return nil, err
	}
	defer closeRows(rows)

	var words []model.Word
	index := map[string]int{}
	for rows.Next() {
		w, err := scanWord(rows)
		if err != nil {
			return nil, err
		}
		index[w.ID] = len(words)
		words = append(words, w)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return words, nil
	}

	errRows, err := s.db.QueryContext(ctx,
		`SELECT e.word_id, e.user_id, e.count FROM word_errors e
		 JOIN words w ON w.id = e.word_id
		 WHERE w.deck_id = ?`, deckID)
	if err != nil {
		return nil, err
	}
	defer closeRows(errRows)
	for errRows.Next() {
		var wordID, userID string
		var count int
		if err := errRows.Scan(&wordID, &userID, &count); err != nil {
			return nil, err
		}
		if i, ok := index[wordID]; ok {
			words[i].ErrorsByUser[userID] = count
		}
	}
	if err := errRows.Err(); err != nil {
		return nil, err
	}
	return words, nil
}

// LookupWord fetches a word by id. The boolean is false when the word no longer exists.
func (s *Store) LookupWord(ctx context.Context, wordID string) (model.Word, bool, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, deck_id, prompt, answers, created_at FROM words WHERE id = ?`, wordID)
	w, err := scanWord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Word{}, false, nil
	}
	if err != nil {
		return model.Word{}, false, err
	}
	return w, true, nil
}

// DeleteWord removes a word and its error counts.
func (s *Store) DeleteWord(ctx context.Context, wordID string) error {
	return s.execTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM word_errors WHERE word_id = ?`, wordID); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM words WHERE id = ?`, wordID)
		if err != nil {
			return err
		}
		return affectedOrNotFound(res)
	})
}

// ClearWords removes every word of a deck and returns how many were deleted.
func (s *Store) ClearWords(ctx context.Context, deckID string) (int64, error) {
	var deleted int64
	err := s.execTx(ctx, func(tx *sql.Tx) error {
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM words WHERE deck_id = ?`, deckID).Scan(&deleted); err != nil {
			return err
		}
		return clearWordsTx(ctx, tx, deckID)
	})
	if err != nil {
		return 0, err
	}
	return deleted, nil
}

func clearWordsTx(ctx context.Context, tx *sql.Tx, deckID string) error {
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM word_errors WHERE word_id IN (SELECT id FROM words WHERE deck_id = ?)`, deckID); err != nil {
		return err
	}
	_, err := tx.ExecContext(ctx, `DELETE FROM words WHERE deck_id = ?`, deckID)
	return err
}

// IncrementErrors bumps the error count of a word for a user.
func (s *Store) IncrementErrors(ctx context.Context, wordID, userID string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO word_errors (word_id, user_id, count) VALUES (?, ?, 1)
		 ON CONFLICT(word_id, user_id) DO UPDATE SET count = count + 1`,
		wordID, userID)
	if err != nil {
		return fmt.Errorf("failed to increment errors for word %s: %w", wordID, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWord(row rowScanner) (model.Word, error) {
	var w model.Word
	var answers, createdAt string
	if err := row.Scan(&w.ID, &w.DeckID, &w.Prompt, &answers, &createdAt); err != nil {
		return model.Word{}, err
	}
	if err := json.Unmarshal([]byte(answers), &w.Answers); err != nil {
		return model.Word{}, fmt.Errorf("failed to decode answers for word %s: %w", w.ID, err)
	}
	parsed, err := parseTime(createdAt)
	if err != nil {
		return model.Word{}, err
	}
	w.CreatedAt = parsed
	w.ErrorsByUser = map[string]int{}
	return w, nil
}
