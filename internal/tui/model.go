// Package tui provides the Bubble Tea review interface.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/tuivoc/internal/model"
	"github.com/verte-zerg/tuivoc/internal/review"
	"github.com/verte-zerg/tuivoc/internal/stats"
)

type screen int

const (
	screenQuestion screen = iota
	screenHold
	screenWrong
	screenSummary
	screenError
)

// advanceMsg ends the pause after a correct answer. seq discards ticks from
// a previous answer or session.
type advanceMsg struct {
	seq int
}

// Config wires the review screen.
type Config struct {
	Engine       review.Options
	Session      review.SessionConfig
	LoadWords    func(ctx context.Context) ([]model.Word, error)
	History      stats.RecordQuerier
	DeckName     string
	UserName     string
	AdvanceDelay time.Duration
	Logger       *slog.Logger
}

// Model implements the Bubble Tea review UI.
type Model struct {
	cfg    Config
	ctrl   *review.Controller
	logger *slog.Logger
	input  textinput.Model

	width  int
	height int

	screen      screen
	errText     string
	prompt      string
	round       int
	index       int
	total       int
	roundNotice string

	lastInput   string
	lastAnswers []string

	holding  bool
	holdSeq  int
	queued   *review.QuestionPresented
	finished *review.SessionComplete
	training *review.TrainingSummary

	hasLast     bool
	lastPass    int
	allPassSum  int
	allSessions int
}

var (
	promptStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F0F0F0"))
	correctStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A"))
	incorrectStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	pendingStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	noticeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	footerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

// NewModel constructs the review TUI and starts the first session.
func NewModel(cfg Config) *Model {
	m := &Model{
		cfg:    cfg,
		logger: cfg.Logger,
	}
	if m.logger == nil {
		m.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	engine := cfg.Engine
	engine.Listener = m.handleEvent
	if engine.Logger == nil {
		engine.Logger = m.logger
	}
	m.ctrl = review.New(engine)

	m.input = textinput.New()
	m.input.Placeholder = "answer"
	m.input.Prompt = "> "
	m.input.CharLimit = 200
	m.input.Focus()

	m.loadFooterStats()
	m.start()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(10, int(float64(msg.Width)*0.5))
		return m, nil
	case advanceMsg:
		if msg.seq == m.holdSeq && m.holding {
			m.releaseHold()
		}
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		if m.screen != screenQuestion {
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		m.ctrl.Abort()
		return m, tea.Quit
	}
	switch m.screen {
	case screenQuestion:
		switch msg.Type {
		case tea.KeyEsc:
			m.ctrl.Abort()
			return m, tea.Quit
		case tea.KeyEnter:
			return m.submit()
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	case screenWrong:
		switch msg.Type {
		case tea.KeySpace, tea.KeyEnter:
			m.continueSession()
		case tea.KeyEsc:
			m.ctrl.Abort()
			return m, tea.Quit
		}
		return m, nil
	case screenSummary, screenError:
		switch msg.String() {
		case "r":
			m.start()
			return m, textinput.Blink
		case "q", "esc":
			return m, tea.Quit
		}
		return m, nil
	default:
		return m, nil
	}
}

// start loads the deck and begins a fresh session, discarding any active one.
func (m *Model) start() {
	m.holding = false
	m.holdSeq++
	m.queued = nil
	m.finished = nil
	m.training = nil
	m.roundNotice = ""
	m.errText = ""
	m.input.Reset()

	ctx := context.Background()
	var words []model.Word
	if m.cfg.LoadWords != nil {
		var err error
		words, err = m.cfg.LoadWords(ctx)
		if err != nil {
			m.fail(fmt.Sprintf("failed to load words: %v", err))
			return
		}
	}
	if err := m.ctrl.Start(ctx, words, m.cfg.Session); err != nil {
		if errors.Is(err, review.ErrEmptyPool) {
			m.fail("This deck has no words yet. Add some with: tuivoc word add")
			return
		}
		m.fail(fmt.Sprintf("failed to start session: %v", err))
	}
}

func (m *Model) fail(text string) {
	m.logger.Error("review unavailable", "reason", text)
	m.errText = text
	m.screen = screenError
}

func (m *Model) submit() (tea.Model, tea.Cmd) {
	text := m.input.Value()
	m.lastInput = text
	m.roundNotice = ""
	// Presentation events emitted by a correct answer wait for the hold.
	m.holding = true
	m.holdSeq++
	res, err := m.ctrl.Submit(context.Background(), text)
	if err != nil {
		m.holding = false
		m.logger.Warn("submit rejected", "err", err)
		return m, nil
	}
	m.lastAnswers = res.Answers
	if !res.Correct {
		m.holding = false
		m.screen = screenWrong
		m.input.Blur()
		return m, nil
	}
	m.screen = screenHold
	m.input.Blur()
	if m.cfg.AdvanceDelay <= 0 {
		m.releaseHold()
		return m, nil
	}
	seq := m.holdSeq
	return m, tea.Tick(m.cfg.AdvanceDelay, func(time.Time) tea.Msg {
		return advanceMsg{seq: seq}
	})
}

func (m *Model) continueSession() {
	if err := m.ctrl.Continue(context.Background()); err != nil {
		m.logger.Warn("continue rejected", "err", err)
	}
}

// releaseHold shows whatever the controller presented while the prompt was held.
func (m *Model) releaseHold() {
	m.holding = false
	if m.finished != nil {
		m.screen = screenSummary
		return
	}
	if m.queued != nil {
		m.showQuestion(*m.queued)
		m.queued = nil
		m.ctrl.MarkShown()
	}
}

func (m *Model) showQuestion(ev review.QuestionPresented) {
	m.prompt = ev.Prompt
	m.round = ev.Round
	m.index = ev.Index
	m.total = ev.Total
	m.screen = screenQuestion
	m.input.Reset()
	m.input.Focus()
}

func (m *Model) handleEvent(ev review.Event) {
	switch ev := ev.(type) {
	case review.QuestionPresented:
		if m.holding {
			m.queued = &ev
			return
		}
		m.showQuestion(ev)
	case review.RoundAdvanced:
		m.roundNotice = fmt.Sprintf("Round %d: %d word(s) to retry", ev.Round, ev.Questions)
	case review.TrainingSummary:
		m.training = &ev
	case review.SessionComplete:
		m.finished = &ev
		if !ev.Record.Training {
			m.hasLast = true
			m.lastPass = ev.Record.Summary.FirstPassPct
			m.allPassSum += ev.Record.Summary.FirstPassPct
			m.allSessions++
		}
		if !ev.Persisted {
			m.logger.Warn("session finished without being saved", "record", ev.Record.ID)
		}
		if !m.holding {
			m.screen = screenSummary
		}
	}
}

func (m *Model) loadFooterStats() {
	if m.cfg.History == nil {
		return
	}
	records, err := m.cfg.History.QueryRecords(context.Background(), m.cfg.Session.DeckID, m.cfg.Session.UserID)
	if err != nil {
		m.logger.Warn("failed to load review history", "err", err)
		return
	}
	records = stats.FilterRecords(records, model.StatsConfig{})
	if len(records) == 0 {
		return
	}
	m.hasLast = true
	m.lastPass = records[len(records)-1].Summary.FirstPassPct
	for _, rec := range records {
		m.allPassSum += rec.Summary.FirstPassPct
	}
	m.allSessions = len(records)
}

// View implements tea.Model.
func (m *Model) View() string {
	content := m.renderBody()
	if m.width == 0 || m.height == 0 {
		return content
	}
	content = lipgloss.NewStyle().Width(m.contentWidth()).Align(lipgloss.Center).Render(content)
	footer := m.renderFooter()
	if footer == "" || m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	body := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) contentWidth() int {
	if m.width == 0 {
		return 0
	}
	return max(1, int(float64(m.width)*0.70))
}

func (m *Model) renderBody() string {
	width := m.contentWidth()
	switch m.screen {
	case screenError:
		return wrapText(m.errText, width) + "\n\n" + pendingStyle.Render("r retry · q quit")
	case screenSummary:
		return m.renderSummary()
	}

	var lines []string
	if header := m.sessionHeader(); header != "" {
		lines = append(lines, pendingStyle.Render(header), "")
	}
	if m.roundNotice != "" {
		lines = append(lines, noticeStyle.Render(m.roundNotice), "")
	}
	lines = append(lines, promptStyle.Render(wrapText(m.prompt, width)), "")
	switch m.screen {
	case screenQuestion:
		lines = append(lines, m.input.View(), "", pendingStyle.Render("enter submit · esc quit"))
	case screenHold:
		lines = append(lines, correctStyle.Render("✓ Correct"))
	case screenWrong:
		closest := closestAnswer(m.lastInput, m.lastAnswers)
		lines = append(lines,
			incorrectStyle.Render("✗ Incorrect"),
			"",
			"Your answer: "+wrapStyledRunes(buildStyledRunes([]rune(closest), []rune(strings.TrimSpace(m.lastInput))), width),
			"Expected:    "+wrapText(strings.Join(m.lastAnswers, ", "), width),
			"",
			pendingStyle.Render(m.continueHint()),
		)
	}
	return strings.Join(lines, "\n")
}

func (m *Model) sessionHeader() string {
	parts := make([]string, 0, 2)
	if m.cfg.DeckName != "" {
		parts = append(parts, m.cfg.DeckName)
	}
	if m.cfg.UserName != "" {
		parts = append(parts, m.cfg.UserName)
	}
	return strings.Join(parts, " · ")
}

func (m *Model) continueHint() string {
	if m.ctrl.Training() {
		return "space try again"
	}
	return "space continue"
}

func (m *Model) renderSummary() string {
	if m.finished == nil {
		return ""
	}
	rec := m.finished.Record
	title := "Session complete"
	if rec.Training {
		title = "Training complete"
	}
	lines := []string{
		promptStyle.Render(title),
		"",
		fmt.Sprintf("Final round score: %d", m.finished.FinalScore),
		fmt.Sprintf("Questions: %d · Words: %d · Errors: %d", rec.TotalQuestions, rec.UniqueWords, rec.Summary.ErrorsTotal),
		fmt.Sprintf("First pass: %d%% · First-try correct: %d", rec.Summary.FirstPassPct, stats.FirstTryCorrect(rec)),
		fmt.Sprintf("Avg answer: %.2fs · Duration: %s", float64(rec.Summary.AvgMsOverall)/1000, time.Duration(rec.DurationMs)*time.Millisecond),
	}
	if m.training != nil && len(m.training.Entries) > 0 {
		lines = append(lines, "", "Attempts per word:")
		for _, e := range m.training.Entries {
			lines = append(lines, fmt.Sprintf("%s  %d", e.Prompt, e.Attempts))
		}
	}
	lines = append(lines, "", pendingStyle.Render("r restart · q quit"))
	return strings.Join(lines, "\n")
}

func (m *Model) renderFooter() string {
	var segments []string
	if m.screen != screenSummary && m.screen != screenError && m.total > 0 {
		segments = append(segments,
			fmt.Sprintf("Round %d", m.round),
			fmt.Sprintf("Question %d/%d", min(m.index+1, m.total), m.total),
			fmt.Sprintf("Score %d", m.ctrl.Score()),
		)
	}
	if m.cfg.Session.Training {
		segments = append(segments, "Training")
	}
	if m.hasLast {
		segments = append(segments, fmt.Sprintf("Last first pass %d%%", m.lastPass))
	}
	if m.allSessions > 0 {
		segments = append(segments, fmt.Sprintf("All-time %.1f%%", float64(m.allPassSum)/float64(m.allSessions)))
	}
	if len(segments) == 0 {
		return ""
	}
	return footerStyle.Render(strings.Join(segments, "  "))
}
