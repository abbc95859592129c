package review

import (
	"time"

	"github.com/verte-zerg/tuivoc/internal/model"
)

// FinalizeInput carries everything needed to build a history record.
type FinalizeInput struct {
	ID             string
	DeckID         string
	UserID         string
	StartedAt      time.Time
	EndedAt        time.Time
	TotalQuestions int
	Training       bool
	Stats          *Accumulator
	Words          map[string]model.Word
}

// Finalize converts accumulated session stats into a history record.
func Finalize(in FinalizeInput) model.HistoryRecord {
	durationMs := in.EndedAt.Sub(in.StartedAt).Milliseconds()
	if durationMs < 0 {
		durationMs = 0
	}

	rec := model.HistoryRecord{
		ID:             in.ID,
		DeckID:         in.DeckID,
		UserID:         in.UserID,
		StartedAt:      in.StartedAt,
		EndedAt:        in.EndedAt,
		DurationMs:     durationMs,
		TotalQuestions: in.TotalQuestions,
		Training:       in.Training,
		PerWord:        map[string]model.WordResult{},
	}
	if in.Stats == nil {
		return rec
	}

	var (
		errorsTotal   int
		totalMs       int64
		totalAttempts int
		firstPass     int
	)
	for id, ws := range in.Stats.Snapshot() {
		word := in.Words[id]
		rec.PerWord[id] = model.WordResult{
			Prompt:   word.Prompt,
			Answers:  append([]string(nil), word.Answers...),
			Errors:   ws.Errors,
			Attempts: ws.Attempts,
			AvgMs:    roundDiv(ws.SumElapsedMs, int64(ws.Attempts)),
		}
		errorsTotal += ws.Errors
		totalMs += ws.SumElapsedMs
		totalAttempts += ws.Attempts
		if ws.Attempts >= 1 && ws.Errors == 0 {
			firstPass++
		}
	}

	rec.UniqueWords = len(rec.PerWord)
	rec.Summary = model.Summary{
		ErrorsTotal:  errorsTotal,
		AvgMsOverall: roundDiv(totalMs, int64(totalAttempts)),
		FirstPassPct: int(roundDiv(int64(firstPass)*100, int64(rec.UniqueWords))),
	}
	return rec
}

// roundDiv divides two non-negative integers rounding half up. A zero divisor yields 0.
func roundDiv(num, den int64) int64 {
	if den <= 0 || num <= 0 {
		return 0
	}
	return (2*num + den) / (2 * den)
}
