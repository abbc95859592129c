package review

import (
	"sort"

	"github.com/verte-zerg/tuivoc/internal/model"
)

// Event is emitted to the presentation layer on every session transition.
type Event interface {
	isEvent()
}

// Listener receives session events synchronously.
type Listener func(Event)

// QuestionPresented announces the word now awaiting an answer.
type QuestionPresented struct {
	Round  int
	Index  int
	Total  int
	WordID string
	Prompt string
}

// AnswerResult reports the outcome of a submission.
type AnswerResult struct {
	WordID  string
	Correct bool
	Answers []string
}

// RoundAdvanced announces a retry round built from missed words.
type RoundAdvanced struct {
	Round     int
	Questions int
}

// SessionComplete carries the finished record.
type SessionComplete struct {
	FinalScore int
	Record     model.HistoryRecord
	Persisted  bool
}

// TrainingEntry is one row of the training summary.
type TrainingEntry struct {
	WordID   string
	Prompt   string
	Attempts int
}

// TrainingSummary lists attempts per word, most attempted first.
type TrainingSummary struct {
	Entries []TrainingEntry
}

func (QuestionPresented) isEvent() {}
func (AnswerResult) isEvent()      {}
func (RoundAdvanced) isEvent()     {}
func (SessionComplete) isEvent()   {}
func (TrainingSummary) isEvent()   {}

func buildTrainingSummary(attempts map[string]int, words map[string]model.Word) TrainingSummary {
	entries := make([]TrainingEntry, 0, len(attempts))
	for id, n := range attempts {
		entries = append(entries, TrainingEntry{WordID: id, Prompt: words[id].Prompt, Attempts: n})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Attempts != entries[j].Attempts {
			return entries[i].Attempts > entries[j].Attempts
		}
		if entries[i].Prompt != entries[j].Prompt {
			return entries[i].Prompt < entries[j].Prompt
		}
		return entries[i].WordID < entries[j].WordID
	})
	return TrainingSummary{Entries: entries}
}
