// Package review runs vocabulary review sessions.
//
// A Controller presents the words of a pool one at a time, scores the
// submitted answers, re-queues missed words into retry rounds and finally
// turns the accumulated statistics into a history record. Training sessions
// repeat a missed word until it is answered and never touch error counts.
package review

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/tuivoc/internal/model"
)

// AdvanceDelay is how long the UI keeps a correctly answered prompt on screen.
// The controller has already moved on when the delay starts.
const AdvanceDelay = 500 * time.Millisecond

// Phase is the externally visible state of a Controller.
type Phase int

const (
	PhaseIdle Phase = iota
	PhasePresenting
	PhaseAwaitingContinuation
	PhaseComplete
)

func (p Phase) String() string {
	switch p {
	case PhasePresenting:
		return "presenting"
	case PhaseAwaitingContinuation:
		return "awaiting-continuation"
	case PhaseComplete:
		return "complete"
	default:
		return "idle"
	}
}

// SessionConfig selects the deck, the user and the mode of a session.
type SessionConfig struct {
	DeckID   string
	UserID   string
	Shuffle  bool
	Training bool
}

// Options wires a Controller to its collaborators. Every field is optional.
type Options struct {
	Source   WordSource
	Errors   ErrorCounter
	History  HistoryAppender
	Policy   MatchPolicy
	Listener Listener
	Logger   *slog.Logger
	Now      func() time.Time
	Rand     *rand.Rand
	NewID    func() string
}

// Result describes the outcome of Submit.
type Result struct {
	Correct  bool
	Answers  []string
	Complete bool
}

type session struct {
	cfg              SessionConfig
	words            map[string]model.Word
	round            int
	pool             []string
	index            int
	score            int
	pending          []string
	pendingSet       map[string]struct{}
	stats            *Accumulator
	trainingAttempts map[string]int
	totalQuestions   int
	startedAt        time.Time
	shownAt          time.Time
}

// Controller drives one review session at a time. It is not safe for
// concurrent use; callers serialize Start, Submit and Continue.
type Controller struct {
	source   WordSource
	errors   ErrorCounter
	history  HistoryAppender
	policy   MatchPolicy
	listener Listener
	logger   *slog.Logger
	now      func() time.Time
	rnd      *rand.Rand
	newID    func() string

	phase Phase
	sess  *session
	last  *model.HistoryRecord
}

// New returns an idle Controller.
func New(opts Options) *Controller {
	c := &Controller{
		source:   opts.Source,
		errors:   opts.Errors,
		history:  opts.History,
		policy:   opts.Policy,
		listener: opts.Listener,
		logger:   opts.Logger,
		now:      opts.Now,
		rnd:      opts.Rand,
		newID:    opts.NewID,
	}
	if c.logger == nil {
		c.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if c.now == nil {
		c.now = time.Now
	}
	if c.rnd == nil {
		c.rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if c.newID == nil {
		c.newID = uuid.NewString
	}
	return c
}

// StartDeck loads the words of cfg.DeckID from the word source and starts a session.
func (c *Controller) StartDeck(ctx context.Context, cfg SessionConfig) error {
	if c.source == nil {
		return fmt.Errorf("failed to start deck %s: no word source", cfg.DeckID)
	}
	words, err := c.source.ListWords(ctx, cfg.DeckID)
	if err != nil {
		return fmt.Errorf("failed to list words: %w", err)
	}
	return c.Start(ctx, words, cfg)
}

// Start begins a session over words and presents the first question.
// An active session is discarded without producing a record.
func (c *Controller) Start(ctx context.Context, words []model.Word, cfg SessionConfig) error {
	if len(words) == 0 {
		return ErrEmptyPool
	}
	if c.sess != nil {
		c.logger.Debug("discarding active session", "round", c.sess.round, "index", c.sess.index)
		c.sess = nil
	}

	s := &session{
		cfg:        cfg,
		words:      make(map[string]model.Word, len(words)),
		round:      1,
		pool:       make([]string, 0, len(words)),
		pendingSet: map[string]struct{}{},
		stats:      NewAccumulator(),
		startedAt:  c.now(),
	}
	if cfg.Training {
		s.trainingAttempts = map[string]int{}
	}
	for _, w := range words {
		if _, dup := s.words[w.ID]; dup {
			continue
		}
		s.words[w.ID] = w
		s.pool = append(s.pool, w.ID)
	}
	if cfg.Shuffle {
		c.shuffle(s.pool)
	}
	s.totalQuestions = len(s.pool)

	c.sess = s
	c.last = nil
	c.logger.Debug("session started", "deck", cfg.DeckID, "user", cfg.UserID, "words", s.totalQuestions, "training", cfg.Training)
	return c.present(ctx)
}

// Submit scores text against the current question.
func (c *Controller) Submit(ctx context.Context, text string) (Result, error) {
	if c.phase != PhasePresenting || c.sess == nil {
		return Result{}, ErrInvalidState
	}
	s := c.sess
	id := s.pool[s.index]
	word := s.words[id]

	elapsed := c.now().Sub(s.shownAt)
	if elapsed < 0 {
		elapsed = 0
	}
	correct := Validate(text, word.Answers, c.policy)
	s.stats.Record(id, correct, elapsed)
	if s.cfg.Training {
		s.trainingAttempts[id]++
	}

	res := Result{Correct: correct, Answers: append([]string(nil), word.Answers...)}
	c.emit(AnswerResult{WordID: id, Correct: correct, Answers: res.Answers})

	if correct {
		s.score++
		s.index++
		err := c.present(ctx)
		res.Complete = c.phase == PhaseComplete
		return res, err
	}

	if !s.cfg.Training {
		if _, seen := s.pendingSet[id]; !seen {
			s.pendingSet[id] = struct{}{}
			s.pending = append(s.pending, id)
		}
		if c.errors != nil {
			if err := c.errors.IncrementErrors(ctx, id, s.cfg.UserID); err != nil {
				c.logger.Warn("failed to record word error", "word", id, "user", s.cfg.UserID, "err", err)
			}
		}
	}
	c.phase = PhaseAwaitingContinuation
	return res, nil
}

// Continue resumes after an incorrect answer. Training sessions repeat the
// same word; normal sessions move to the next one.
func (c *Controller) Continue(ctx context.Context) error {
	if c.phase != PhaseAwaitingContinuation || c.sess == nil {
		return ErrInvalidState
	}
	if !c.sess.cfg.Training {
		c.sess.index++
	}
	return c.present(ctx)
}

// MarkShown restarts the answer timer of the current question. Front ends
// that keep the previous prompt on screen after a correct answer call it
// once the new question is actually visible.
func (c *Controller) MarkShown() {
	if c.phase != PhasePresenting || c.sess == nil {
		return
	}
	c.sess.shownAt = c.now()
}

// Abort discards the active session without producing a record.
func (c *Controller) Abort() {
	if c.sess == nil {
		return
	}
	c.logger.Debug("session aborted", "round", c.sess.round, "index", c.sess.index)
	c.sess = nil
	c.phase = PhaseIdle
}

// present shows the word at the current index, pruning deleted words and
// rolling over to the next round when the pool is exhausted.
func (c *Controller) present(ctx context.Context) error {
	s := c.sess
	for s.index < len(s.pool) {
		id := s.pool[s.index]
		if c.source != nil {
			_, ok, err := c.source.LookupWord(ctx, id)
			switch {
			case err != nil:
				c.logger.Warn("failed to look up word, using session copy", "word", id, "err", err)
			case !ok:
				c.logger.Debug("pruning deleted word", "word", id, "round", s.round)
				s.pool = append(s.pool[:s.index], s.pool[s.index+1:]...)
				continue
			}
		}
		s.shownAt = c.now()
		c.phase = PhasePresenting
		c.emit(QuestionPresented{
			Round:  s.round,
			Index:  s.index,
			Total:  len(s.pool),
			WordID: id,
			Prompt: s.words[id].Prompt,
		})
		return nil
	}
	return c.roundBoundary(ctx)
}

func (c *Controller) roundBoundary(ctx context.Context) error {
	s := c.sess
	if s.cfg.Training || len(s.pending) == 0 {
		c.finalize(ctx)
		return nil
	}
	s.round++
	s.pool = s.pending
	if s.cfg.Shuffle {
		c.shuffle(s.pool)
	}
	s.index = 0
	s.score = 0
	s.pending = nil
	s.pendingSet = map[string]struct{}{}
	c.logger.Debug("retry round", "round", s.round, "words", len(s.pool))
	c.emit(RoundAdvanced{Round: s.round, Questions: len(s.pool)})
	return c.present(ctx)
}

func (c *Controller) finalize(ctx context.Context) {
	s := c.sess
	rec := Finalize(FinalizeInput{
		ID:             c.newID(),
		DeckID:         s.cfg.DeckID,
		UserID:         s.cfg.UserID,
		StartedAt:      s.startedAt,
		EndedAt:        c.now(),
		TotalQuestions: s.totalQuestions,
		Training:       s.cfg.Training,
		Stats:          s.stats,
		Words:          s.words,
	})

	persisted := false
	if c.history != nil {
		if err := c.history.AppendRecord(ctx, rec); err != nil {
			c.logger.Warn("failed to append review history", "record", rec.ID, "err", err)
		} else {
			persisted = true
		}
	}

	c.sess = nil
	c.phase = PhaseComplete
	c.last = &rec
	c.logger.Info("session complete",
		"record", rec.ID,
		"questions", rec.TotalQuestions,
		"errors", rec.Summary.ErrorsTotal,
		"first_pass_pct", rec.Summary.FirstPassPct,
		"training", rec.Training,
	)

	if s.cfg.Training {
		c.emit(buildTrainingSummary(s.trainingAttempts, s.words))
	}
	c.emit(SessionComplete{FinalScore: s.score, Record: rec, Persisted: persisted})
}

func (c *Controller) shuffle(ids []string) {
	c.rnd.Shuffle(len(ids), func(i, j int) {
		ids[i], ids[j] = ids[j], ids[i]
	})
}

func (c *Controller) emit(ev Event) {
	if c.listener != nil {
		c.listener(ev)
	}
}

// Phase returns the current phase.
func (c *Controller) Phase() Phase {
	return c.phase
}

// Round returns the current round number, or 0 without an active session.
func (c *Controller) Round() int {
	if c.sess == nil {
		return 0
	}
	return c.sess.round
}

// Progress returns the current index and the size of the current round's pool.
func (c *Controller) Progress() (int, int) {
	if c.sess == nil {
		return 0, 0
	}
	return c.sess.index, len(c.sess.pool)
}

// Score returns the number of correct answers in the current round.
func (c *Controller) Score() int {
	if c.sess == nil {
		return 0
	}
	return c.sess.score
}

// Training reports whether the active session is a training session.
func (c *Controller) Training() bool {
	return c.sess != nil && c.sess.cfg.Training
}

// Current returns the word awaiting an answer or continuation.
func (c *Controller) Current() (model.Word, bool) {
	if c.sess == nil || c.sess.index >= len(c.sess.pool) {
		return model.Word{}, false
	}
	return c.sess.words[c.sess.pool[c.sess.index]], true
}

// LastRecord returns the record of the most recently finished session.
func (c *Controller) LastRecord() (model.HistoryRecord, bool) {
	if c.last == nil {
		return model.HistoryRecord{}, false
	}
	return *c.last, true
}
