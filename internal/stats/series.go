package stats

import (
	"sort"

	"github.com/verte-zerg/tuivoc/internal/model"
)

// SeriesLabelLayout formats chart labels as yy-mm-dd hh:mm in local time.
const SeriesLabelLayout = "06-01-02 15:04"

// ChartSeries is the first-try chart data: one point per session.
type ChartSeries struct {
	Labels []string
	Values []int
}

// BuildFirstTrySeries orders records by start time and counts first-try
// correct answers per session as max(0, totalQuestions - errorsTotal).
// The input slice is not modified.
func BuildFirstTrySeries(records []model.HistoryRecord) ChartSeries {
	sorted := make([]model.HistoryRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartedAt.Before(sorted[j].StartedAt)
	})

	out := ChartSeries{
		Labels: make([]string, len(sorted)),
		Values: make([]int, len(sorted)),
	}
	for i, rec := range sorted {
		out.Labels[i] = rec.StartedAt.Local().Format(SeriesLabelLayout)
		out.Values[i] = FirstTryCorrect(rec)
	}
	return out
}

// FirstTryCorrect returns the number of questions answered without an error.
func FirstTryCorrect(rec model.HistoryRecord) int {
	v := rec.TotalQuestions - rec.Summary.ErrorsTotal
	if v < 0 {
		return 0
	}
	return v
}

// Floats converts the series values for plotting.
func (s ChartSeries) Floats() []float64 {
	out := make([]float64, len(s.Values))
	for i, v := range s.Values {
		out[i] = float64(v)
	}
	return out
}
