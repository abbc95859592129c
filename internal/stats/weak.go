package stats

import (
	"sort"

	"github.com/verte-zerg/tuivoc/internal/model"
)

// SelectWeakWords returns up to top words with the most recorded errors for
// userID, keeping deck order. Words without errors are never selected.
func SelectWeakWords(words []model.Word, userID string, top int) []model.Word {
	type candidate struct {
		pos    int
		errors int
	}
	candidates := make([]candidate, 0, len(words))
	for i, w := range words {
		if n := w.ErrorsByUser[userID]; n > 0 {
			candidates = append(candidates, candidate{pos: i, errors: n})
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].errors > candidates[j].errors
	})
	if top > 0 && top < len(candidates) {
		candidates = candidates[:top]
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].pos < candidates[j].pos
	})
	out := make([]model.Word, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, words[c.pos])
	}
	return out
}
