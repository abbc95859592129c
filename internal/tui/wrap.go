package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

type styledRune struct {
	s       string
	width   int
	isSpace bool
}

// buildStyledRunes renders the typed answer against the expected one. Typed
// runes are marked correct or incorrect by position; expected runes the user
// never reached are appended in the pending style.
func buildStyledRunes(expectedRunes, inputRunes []rune) []styledRune {
	out := make([]styledRune, 0, max(len(expectedRunes), len(inputRunes)))
	for i, typed := range inputRunes {
		displayed := typed
		style := incorrectStyle
		matched := i < len(expectedRunes) && typed == expectedRunes[i]
		if matched {
			style = correctStyle
		} else if typed == ' ' {
			displayed = '•'
		}
		out = append(out, styledRune{
			s:       style.Render(string(displayed)),
			width:   runewidth.RuneWidth(displayed),
			isSpace: displayed == ' ',
		})
	}
	for i := len(inputRunes); i < len(expectedRunes); i++ {
		r := expectedRunes[i]
		out = append(out, styledRune{
			s:       pendingStyle.Render(string(r)),
			width:   runewidth.RuneWidth(r),
			isSpace: r == ' ',
		})
	}
	return out
}

// closestAnswer picks the accepted answer sharing the most runes by position
// with the input. Ties keep the first answer.
func closestAnswer(input string, answers []string) string {
	typed := []rune(strings.TrimSpace(input))
	best := ""
	bestScore := -1
	for _, answer := range answers {
		expected := []rune(answer)
		score := 0
		for i := 0; i < len(expected) && i < len(typed); i++ {
			if expected[i] == typed[i] {
				score++
			}
		}
		if score > bestScore {
			best = answer
			bestScore = score
		}
	}
	return best
}

func plainRunes(text string) []styledRune {
	out := make([]styledRune, 0, len(text))
	for _, r := range text {
		out = append(out, styledRune{
			s:       string(r),
			width:   runewidth.RuneWidth(r),
			isSpace: r == ' ',
		})
	}
	return out
}

// wrapText wraps text on spaces to the given display width.
func wrapText(text string, width int) string {
	return wrapStyledRunes(plainRunes(text), width)
}

func renderStyledRunes(runes []styledRune) string {
	var b strings.Builder
	for _, item := range runes {
		b.WriteString(item.s)
	}
	return b.String()
}

func wrapStyledRunes(runes []styledRune, width int) string {
	if width <= 0 {
		return renderStyledRunes(runes)
	}
	var out strings.Builder
	line := make([]styledRune, 0, len(runes))
	lineWidth := 0
	lastSpaceIdx := -1

	for i := 0; i < len(runes); {
		item := runes[i]
		if lineWidth+item.width > width && len(line) > 0 {
			if lastSpaceIdx >= 0 {
				out.WriteString(renderStyledRunes(line[:lastSpaceIdx]))
				out.WriteRune('\n')
				line = append([]styledRune{}, line[lastSpaceIdx+1:]...)
				lineWidth = lineWidthOf(line)
				lastSpaceIdx = lastSpaceIndex(line)
			} else {
				out.WriteString(renderStyledRunes(line))
				out.WriteRune('\n')
				line = line[:0]
				lineWidth = 0
				lastSpaceIdx = -1
			}
			continue
		}
		line = append(line, item)
		lineWidth += item.width
		if item.isSpace {
			lastSpaceIdx = len(line) - 1
		}
		i++
	}
	out.WriteString(renderStyledRunes(line))
	return out.String()
}

func lineWidthOf(line []styledRune) int {
	total := 0
	for _, item := range line {
		total += item.width
	}
	return total
}

func lastSpaceIndex(line []styledRune) int {
	for i := len(line) - 1; i >= 0; i-- {
		if line[i].isSpace {
			return i
		}
	}
	return -1
}
