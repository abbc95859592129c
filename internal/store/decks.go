package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/verte-zerg/tuivoc/internal/model"
)

// CreateDeck adds a deck. Names are unique regardless of case.
func (s *Store) CreateDeck(ctx context.Context, name string) (model.Deck, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Deck{}, fmt.Errorf("deck name is empty")
	}
	deck := model.Deck{ID: uuid.NewString(), Name: name, CreatedAt: s.now()}
	err := s.execTx(ctx, func(tx *sql.Tx) error {
		var existing string
		err := tx.QueryRowContext(ctx, `SELECT id FROM decks WHERE name_key = ?`, nameKey(name)).Scan(&existing)
		if err == nil {
			return ErrNameExists
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return err
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO decks (id, name, name_key, created_at) VALUES (?, ?, ?, ?)`,
			deck.ID, deck.Name, nameKey(name), formatTime(deck.CreatedAt))
		return err
	})
	if err != nil {
		return model.Deck{}, err
	}
	return deck, nil
}

// ListDecks returns all decks with their word counts.
func (s *Store) ListDecks(ctx context.Context) ([]model.Deck, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT d.id, d.name, d.created_at, COUNT(w.id)
		FROM decks d
		LEFT JOIN words w ON w.deck_id = d.id
		GROUP BY d.id
		ORDER BY d.created_at ASC, d.name ASC`)
	if err != nil {
		return nil, err
	}
	defer closeRows(rows)

	var decks []model.Deck
	for rows.Next() {
		var d model.Deck
		var createdAt string
		if err := rows.Scan(&d.ID, &d.Name, &createdAt, &d.Words); err != nil {
			return nil, err
		}
		if d.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		decks = append(decks, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return decks, nil
}

// FindDeckByName looks a deck up by case-insensitive name.
func (s *Store) FindDeckByName(ctx context.Context, name string) (model.Deck, error) {
	var d model.Deck
	var createdAt string
	err := s.db.QueryRowContext(ctx, `SELECT d.id, d.name, d.created_at,
			(SELECT COUNT(*) FROM words w WHERE w.deck_id = d.id)
		FROM decks d WHERE d.name_key = ?`, nameKey(name)).
		Scan(&d.ID, &d.Name, &createdAt, &d.Words)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Deck{}, ErrNotFound
	}
	if err != nil {
		return model.Deck{}, err
	}
	if d.CreatedAt, err = parseTime(createdAt); err != nil {
		return model.Deck{}, err
	}
	return d, nil
}

// EnsureDeck returns the named deck, creating it when missing.
func (s *Store) EnsureDeck(ctx context.Context, name string) (model.Deck, error) {
	d, err := s.FindDeckByName(ctx, name)
	if err == nil {
		return d, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return model.Deck{}, err
	}
	return s.CreateDeck(ctx, name)
}

// DeleteDeck removes a deck together with its words, error counts and history.
func (s *Store) DeleteDeck(ctx context.Context, id string) error {
	return s.execTx(ctx, func(tx *sql.Tx) error {
		if err := clearWordsTx(ctx, tx, id); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM reviews WHERE deck_id = ?`, id); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM decks WHERE id = ?`, id)
		if err != nil {
			return err
		}
		return affectedOrNotFound(res)
	})
}
