package review

import (
	"context"

	"github.com/verte-zerg/tuivoc/internal/model"
)

// WordSource provides the words of a deck and answers staleness lookups.
type WordSource interface {
	ListWords(ctx context.Context, deckID string) ([]model.Word, error)
	// LookupWord reports whether the word still exists. A false result
	// with a nil error means the word was deleted.
	LookupWord(ctx context.Context, wordID string) (model.Word, bool, error)
}

// ErrorCounter persists per-user error counts.
type ErrorCounter interface {
	IncrementErrors(ctx context.Context, wordID, userID string) error
}

// HistoryAppender stores finished session records.
type HistoryAppender interface {
	AppendRecord(ctx context.Context, rec model.HistoryRecord) error
}
