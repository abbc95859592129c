package stats

import (
	"context"

	"github.com/verte-zerg/tuivoc/internal/model"
)

// RecordQuerier loads review history for a deck and user.
type RecordQuerier interface {
	QueryRecords(ctx context.Context, deckID, userID string) ([]model.HistoryRecord, error)
}

// Report contains precomputed data for stats rendering.
type Report struct {
	Records     []model.HistoryRecord
	Window      []model.HistoryRecord
	Series      ChartSeries
	WordsAll    []model.WordAggregate
	WordsWindow []model.WordAggregate
}

// BuildReport loads and prepares data for stats rendering.
func BuildReport(ctx context.Context, q RecordQuerier, cfg model.StatsConfig) (Report, error) {
	records, err := q.QueryRecords(ctx, cfg.DeckID, cfg.UserID)
	if err != nil {
		return Report{}, err
	}
	records = FilterRecords(records, cfg)
	window := lastRecords(records, cfg.CurveWindow)

	return Report{
		Records:     records,
		Window:      window,
		Series:      BuildFirstTrySeries(records),
		WordsAll:    AggregateWords(records),
		WordsWindow: AggregateWords(window),
	}, nil
}

// FilterRecords applies the training, since and last filters of cfg.
func FilterRecords(records []model.HistoryRecord, cfg model.StatsConfig) []model.HistoryRecord {
	out := make([]model.HistoryRecord, 0, len(records))
	for _, rec := range records {
		if rec.Training && !cfg.IncludeTraining {
			continue
		}
		if cfg.Since != nil && rec.StartedAt.Before(*cfg.Since) {
			continue
		}
		out = append(out, rec)
	}
	if cfg.Last > 0 && len(out) > cfg.Last {
		out = out[len(out)-cfg.Last:]
	}
	return out
}

func lastRecords(records []model.HistoryRecord, window int) []model.HistoryRecord {
	if window <= 0 || len(records) <= window {
		return records
	}
	return records[len(records)-window:]
}
