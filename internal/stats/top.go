package stats

import (
	"sort"

	"github.com/verte-zerg/tuivoc/internal/model"
)

// AggregateWords sums per-word results across records.
func AggregateWords(records []model.HistoryRecord) []model.WordAggregate {
	byID := map[string]*model.WordAggregate{}
	for _, rec := range records {
		for id, res := range rec.PerWord {
			agg, ok := byID[id]
			if !ok {
				agg = &model.WordAggregate{WordID: id}
				byID[id] = agg
			}
			if res.Prompt != "" {
				agg.Prompt = res.Prompt
			}
			agg.Attempts += res.Attempts
			agg.Errors += res.Errors
			agg.SumMs += res.AvgMs * int64(res.Attempts)
			agg.Sessions++
		}
	}
	out := make([]model.WordAggregate, 0, len(byID))
	for _, agg := range byID {
		out = append(out, *agg)
	}
	sortByErrors(out)
	return out
}

// TopWordsByErrors returns the n words with the most errors.
func TopWordsByErrors(aggs []model.WordAggregate, n int) []model.WordAggregate {
	if n <= 0 || len(aggs) == 0 {
		return nil
	}
	items := make([]model.WordAggregate, len(aggs))
	copy(items, aggs)
	sortByErrors(items)
	if n > len(items) {
		n = len(items)
	}
	return items[:n]
}

func sortByErrors(items []model.WordAggregate) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].Errors != items[j].Errors {
			return items[i].Errors > items[j].Errors
		}
		if items[i].Prompt != items[j].Prompt {
			return items[i].Prompt < items[j].Prompt
		}
		return items[i].WordID < items[j].WordID
	})
}
