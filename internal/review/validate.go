package review

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MatchPolicy selects how a submitted answer is compared to the accepted ones.
type MatchPolicy int

const (
	// MatchExact compares trimmed strings byte for byte.
	MatchExact MatchPolicy = iota
	// MatchLenient ignores case and diacritics.
	MatchLenient
)

func (p MatchPolicy) String() string {
	switch p {
	case MatchLenient:
		return "lenient"
	default:
		return "exact"
	}
}

// ParseMatchPolicy maps a config value to a policy. Empty means exact.
func ParseMatchPolicy(value string) (MatchPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "exact":
		return MatchExact, nil
	case "lenient":
		return MatchLenient, nil
	default:
		return MatchExact, fmt.Errorf("unknown match policy %q (want exact or lenient)", value)
	}
}

// Validate reports whether submitted matches any accepted answer.
// Empty input never matches.
func Validate(submitted string, answers []string, policy MatchPolicy) bool {
	input := strings.TrimSpace(submitted)
	if input == "" {
		return false
	}
	if policy == MatchLenient {
		input = fold(input)
	}
	for _, answer := range answers {
		candidate := strings.TrimSpace(answer)
		if candidate == "" {
			continue
		}
		if policy == MatchLenient {
			candidate = fold(candidate)
		}
		if candidate == input {
			return true
		}
	}
	return false
}

// fold lowercases s and strips combining marks, so "Élève" and "eleve" compare equal.
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, s)
	if err != nil {
		stripped = s
	}
	return cases.Fold().String(stripped)
}
