package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/verte-zerg/tuivoc/internal/model"
)

// AppendRecord stores a finished review session.
func (s *Store) AppendRecord(ctx context.Context, rec model.HistoryRecord) error {
	perWord := rec.PerWord
	if perWord == nil {
		perWord = map[string]model.WordResult{}
	}
	encoded, err := json.Marshal(perWord)
	if err != nil {
		return fmt.Errorf("failed to encode per-word results: %w", err)
	}
	training := 0
	if rec.Training {
		training = 1
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO reviews (id, deck_id, user_id, started_at, ended_at, duration_ms, total_questions, unique_words, training, errors_total, avg_ms_overall, first_pass_pct, per_word)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		rec.DeckID,
		rec.UserID,
		formatTime(rec.StartedAt),
		formatTime(rec.EndedAt),
		rec.DurationMs,
		rec.TotalQuestions,
		rec.UniqueWords,
		training,
		rec.Summary.ErrorsTotal,
		rec.Summary.AvgMsOverall,
		rec.Summary.FirstPassPct,
		string(encoded),
	)
	if err != nil {
		return fmt.Errorf("failed to insert review %s: %w", rec.ID, err)
	}
	return nil
}

// QueryRecords returns review records ordered by start time. Empty ids match everything.
func (s *Store) QueryRecords(ctx context.Context, deckID, userID string) ([]model.HistoryRecord, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if deckID != "" {
		clauses = append(clauses, "deck_id = ?")
		args = append(args, deckID)
	}
	if userID != "" {
		clauses = append(clauses, "user_id = ?")
		args = append(args, userID)
	}
	query := fmt.Sprintf(`SELECT id, deck_id, user_id, started_at, ended_at, duration_ms, total_questions, unique_words, training, errors_total, avg_ms_overall, first_pass_pct, per_word
		FROM reviews
		WHERE %s
		ORDER BY started_at ASC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer closeRows(rows)

	var records []model.HistoryRecord
	for rows.Next() {
		var rec model.HistoryRecord
		var startedAt, endedAt, perWord string
		var training int
		if err := rows.Scan(
			&rec.ID,
			&rec.DeckID,
			&rec.UserID,
			&startedAt,
			&endedAt,
			&rec.DurationMs,
			&rec.TotalQuestions,
			&rec.UniqueWords,
			&training,
			&rec.Summary.ErrorsTotal,
			&rec.Summary.AvgMsOverall,
			&rec.Summary.FirstPassPct,
			&perWord,
		); err != nil {
			return nil, err
		}
		if rec.StartedAt, err = parseTime(startedAt); err != nil {
			return nil, err
		}
		if rec.EndedAt, err = parseTime(endedAt); err != nil {
			return nil, err
		}
		rec.Training = training != 0
		if err := json.Unmarshal([]byte(perWord), &rec.PerWord); err != nil {
			return nil, fmt.Errorf("failed to decode per-word results for review %s: %w", rec.ID, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// ClearRecords deletes review history for a deck and user. Empty ids match everything.
func (s *Store) ClearRecords(ctx context.Context, deckID, userID string) (int64, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if deckID != "" {
		clauses = append(clauses, "deck_id = ?")
		args = append(args, deckID)
	}
	if userID != "" {
		clauses = append(clauses, "user_id = ?")
		args = append(args, userID)
	}
	res, err := s.db.ExecContext(ctx, fmt.Sprintf(`DELETE FROM reviews WHERE %s`, strings.Join(clauses, " AND ")), args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
