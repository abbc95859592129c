// Package model defines shared data structures.
package model

import "time"

// Config defines review settings.
type Config struct {
	Deck         string
	User         string
	Shuffle      bool
	Training     bool
	Match        string
	AdvanceDelay time.Duration
	FocusWeak    bool
	WeakTop      int
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	DeckID          string
	UserID          string
	Since           *time.Time
	Last            int
	CurveWindow     int
	IncludeTraining bool
}

// User is a learner whose errors and history are tracked separately.
type User struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// Deck groups words that are reviewed together.
type Deck struct {
	ID        string
	Name      string
	CreatedAt time.Time
	Words     int
}

// Word is a reviewable prompt with one or more accepted answers.
type Word struct {
	ID           string
	DeckID       string
	Prompt       string
	Answers      []string
	ErrorsByUser map[string]int
	CreatedAt    time.Time
}

// WordResult is the per-word part of a finished review.
type WordResult struct {
	Prompt   string   `json:"prompt"`
	Answers  []string `json:"answers"`
	Errors   int      `json:"errors"`
	Attempts int      `json:"attempts"`
	AvgMs    int64    `json:"avgMs"`
}

// Summary holds the aggregate figures of a finished review.
type Summary struct {
	ErrorsTotal  int   `json:"errorsTotal"`
	AvgMsOverall int64 `json:"avgMsOverall"`
	FirstPassPct int   `json:"firstPassPct"`
}

// HistoryRecord captures a completed review session.
type HistoryRecord struct {
	ID             string
	DeckID         string
	UserID         string
	StartedAt      time.Time
	EndedAt        time.Time
	DurationMs     int64
	TotalQuestions int
	UniqueWords    int
	Training       bool
	PerWord        map[string]WordResult
	Summary        Summary
}

// WordAggregate aggregates per-word results across sessions.
type WordAggregate struct {
	WordID   string
	Prompt   string
	Attempts int
	Errors   int
	SumMs    int64
	Sessions int
}
