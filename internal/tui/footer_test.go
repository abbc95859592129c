package tui

import (
	"strings"
	"testing"

	"github.com/verte-zerg/tuivoc/internal/review"
)

func TestRenderFooterFormats(t *testing.T) {
	m := &Model{
		ctrl:        review.New(review.Options{}),
		screen:      screenQuestion,
		round:       2,
		index:       1,
		total:       4,
		hasLast:     true,
		lastPass:    80,
		allPassSum:  150,
		allSessions: 2,
	}
	out := m.renderFooter()
	if out == "" {
		t.Fatalf("expected footer output")
	}
	if !containsAll(out, []string{"Round 2", "Question 2/4", "Score 0", "Last first pass 80%", "All-time 75.0%"}) {
		t.Fatalf("footer missing expected segments: %s", out)
	}
}

func TestRenderFooterHidesProgressOnSummary(t *testing.T) {
	m := &Model{
		ctrl:    review.New(review.Options{}),
		screen:  screenSummary,
		total:   4,
		hasLast: true,
		cfg:     Config{Session: review.SessionConfig{Training: true}},
	}
	out := m.renderFooter()
	if strings.Contains(out, "Question") {
		t.Fatalf("summary footer should not show progress: %s", out)
	}
	if !containsAll(out, []string{"Training", "Last first pass 0%"}) {
		t.Fatalf("footer missing expected segments: %s", out)
	}
}

func TestRenderFooterEmpty(t *testing.T) {
	m := &Model{ctrl: review.New(review.Options{}), screen: screenError}
	if out := m.renderFooter(); out != "" {
		t.Fatalf("expected empty footer, got %q", out)
	}
}

func containsAll(haystack string, needles []string) bool {
	for _, needle := range needles {
		if !strings.Contains(haystack, needle) {
			return false
		}
	}
	return true
}
