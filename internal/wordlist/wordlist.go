// Package wordlist parses the answer lists typed on the command line.
package wordlist

import (
	"fmt"
	"strings"
)

// ParseAnswers splits a comma-separated answer list, trimming entries and
// dropping blanks and duplicates.
func ParseAnswers(raw string) []string {
	parts := strings.Split(raw, ",")
	answers := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if _, ok := seen[part]; ok {
			continue
		}
		seen[part] = struct{}{}
		answers = append(answers, part)
	}
	return answers
}

// FormatAnswers joins answers for display.
func FormatAnswers(answers []string) string {
	return strings.Join(answers, ", ")
}

// ParseEntry reads "prompt = answer1, answer2".
func ParseEntry(line string) (string, []string, error) {
	prompt, rest, ok := strings.Cut(line, "=")
	if !ok {
		return "", nil, fmt.Errorf("expected \"prompt = answers\", got %q", line)
	}
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", nil, fmt.Errorf("prompt is empty in %q", line)
	}
	answers := ParseAnswers(rest)
	if len(answers) == 0 {
		return "", nil, fmt.Errorf("no answers in %q", line)
	}
	return prompt, answers, nil
}
