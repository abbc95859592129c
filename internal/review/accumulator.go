package review

import (
	"time"
)

// WordStats accumulates attempts for a single word across every round.
type WordStats struct {
	Attempts     int
	Errors       int
	SumElapsedMs int64
}

// Accumulator records per-word attempt statistics for one session.
type Accumulator struct {
	words map[string]*WordStats
	order []string
}

// NewAccumulator returns an empty accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{words: map[string]*WordStats{}}
}

// Record adds one submission for wordID.
func (a *Accumulator) Record(wordID string, correct bool, elapsed time.Duration) {
	ws, ok := a.words[wordID]
	if !ok {
		ws = &WordStats{}
		a.words[wordID] = ws
		a.order = append(a.order, wordID)
	}
	ws.Attempts++
	if !correct {
		ws.Errors++
	}
	if elapsed > 0 {
		ws.SumElapsedMs += elapsed.Milliseconds()
	}
}

// Get returns the stats for wordID.
func (a *Accumulator) Get(wordID string) (WordStats, bool) {
	ws, ok := a.words[wordID]
	if !ok {
		return WordStats{}, false
	}
	return *ws, true
}

// Len returns the number of distinct words attempted.
func (a *Accumulator) Len() int {
	return len(a.words)
}

// IDs returns attempted word ids in first-attempt order.
func (a *Accumulator) IDs() []string {
	return append([]string(nil), a.order...)
}

// Snapshot returns a copy of all stats keyed by word id.
func (a *Accumulator) Snapshot() map[string]WordStats {
	out := make(map[string]WordStats, len(a.words))
	for id, ws := range a.words {
		out[id] = *ws
	}
	return out
}
