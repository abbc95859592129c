// Package stats contains review statistics and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/verte-zerg/tuivoc/internal/model"
)

const sparkChars = " .:-=+*#%@"

// HistoryTableLimit caps the number of sessions listed in the history table.
const HistoryTableLimit = 50

// SummaryMetrics aggregates a set of review records.
type SummaryMetrics struct {
	Sessions        int
	Questions       int
	Errors          int
	AvgFirstPassPct float64
	BestFirstTry    int
	AvgMs           float64
	TotalMinutes    float64
}

// Summarize computes SummaryMetrics over records.
func Summarize(records []model.HistoryRecord) SummaryMetrics {
	var m SummaryMetrics
	if len(records) == 0 {
		return m
	}
	var pctSum float64
	var msSum float64
	var durationMs int64
	for _, rec := range records {
		m.Questions += rec.TotalQuestions
		m.Errors += rec.Summary.ErrorsTotal
		pctSum += float64(rec.Summary.FirstPassPct)
		msSum += float64(rec.Summary.AvgMsOverall)
		durationMs += rec.DurationMs
		if v := FirstTryCorrect(rec); v > m.BestFirstTry {
			m.BestFirstTry = v
		}
	}
	m.Sessions = len(records)
	m.AvgFirstPassPct = pctSum / float64(len(records))
	m.AvgMs = msSum / float64(len(records))
	m.TotalMinutes = float64(durationMs) / 60000.0
	return m
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 1 || len(values) == 0 {
		copy(out, values)
		return out
	}
	var sum float64
	for i, v := range values {
		sum += v
		den := float64(i + 1)
		if i >= window {
			sum -= values[i-window]
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal, maxVal := values[0], values[0]
	for _, v := range values[1:] {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	last := len(sparkChars) - 1
	for _, v := range values {
		idx := int(math.Round((v - minVal) / (maxVal - minVal) * float64(last)))
		idx = max(0, min(idx, last))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// RenderSummary prints a summary of the records.
func RenderSummary(w io.Writer, records []model.HistoryRecord) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	m := Summarize(records)
	series := BuildFirstTrySeries(records)
	lines := []string{
		"Summary",
		fmt.Sprintf("Sessions: %d", m.Sessions),
		fmt.Sprintf("Questions: %d", m.Questions),
		fmt.Sprintf("Errors: %d", m.Errors),
		fmt.Sprintf("Avg first pass: %.1f%%", m.AvgFirstPassPct),
		fmt.Sprintf("Best first-try count: %d", m.BestFirstTry),
		fmt.Sprintf("Avg answer time: %.2fs", m.AvgMs/1000),
		fmt.Sprintf("Time spent: %.1f min", m.TotalMinutes),
		fmt.Sprintf("Trend: %s", Sparkline(series.Floats())),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderCurvesWithSize plots first-try counts and first-pass percentages.
func RenderCurvesWithSize(w io.Writer, records []model.HistoryRecord, window, totalWidth, height int, useColor bool) error {
	if len(records) == 0 {
		return nil
	}
	series := BuildFirstTrySeries(records)
	sorted := make([]model.HistoryRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartedAt.Before(sorted[j].StartedAt)
	})
	pcts := make([]float64, len(sorted))
	for i, rec := range sorted {
		pcts[i] = float64(rec.Summary.FirstPassPct)
	}

	width := 0
	if totalWidth > 0 {
		width = PlotWidthFor(totalWidth)
	}
	counts := series.Floats()
	opts := PlotOptions{Labels: series.Labels, Width: width, Height: height, Color: useColor}
	opts.Title = "First-try correct answers"
	if err := Plot(w, []Series{
		{Name: "Per session", Values: counts},
		{Name: fmt.Sprintf("Avg of %d", max(window, 1)), Values: MovingAverage(counts, window)},
	}, opts); err != nil {
		return err
	}
	opts.Title = "First pass %"
	return Plot(w, []Series{
		{Name: "First pass %", Values: MovingAverage(pcts, window)},
	}, opts)
}

// RenderWordTable prints per-word aggregates, most errors first.
func RenderWordTable(w io.Writer, aggs []model.WordAggregate) error {
	if len(aggs) == 0 {
		_, err := fmt.Fprintln(w, "No word stats found.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Per-Word"); err != nil {
		return err
	}
	headers := []string{"Word", "Errors", "Attempts", "Sessions", "Error rate", "Avg s"}
	rows := make([][]string, 0, len(aggs))
	for _, agg := range aggs {
		rows = append(rows, WordRow(agg))
	}
	return writeLines(w, formatTable(headers, rows, map[int]bool{1: true, 2: true, 3: true, 4: true, 5: true}))
}

// WordRow formats one aggregate for tables.
func WordRow(agg model.WordAggregate) []string {
	rate := 0.0
	avg := 0.0
	if agg.Attempts > 0 {
		rate = float64(agg.Errors) / float64(agg.Attempts) * 100
		avg = float64(agg.SumMs) / float64(agg.Attempts) / 1000
	}
	return []string{
		agg.Prompt,
		fmt.Sprintf("%d", agg.Errors),
		fmt.Sprintf("%d", agg.Attempts),
		fmt.Sprintf("%d", agg.Sessions),
		fmt.Sprintf("%.1f%%", rate),
		fmt.Sprintf("%.2f", avg),
	}
}

// HistoryHeaders are the column titles of the history table.
var HistoryHeaders = []string{"Date", "Mode", "Min", "Questions", "Words", "Errors", "First pass", "Avg s"}

// HistoryRow formats one record for tables.
func HistoryRow(rec model.HistoryRecord) []string {
	mode := "normal"
	if rec.Training {
		mode = "training"
	}
	return []string{
		rec.StartedAt.Local().Format("2006-01-02 15:04"),
		mode,
		fmt.Sprintf("%.1f", float64(rec.DurationMs)/60000.0),
		fmt.Sprintf("%d", rec.TotalQuestions),
		fmt.Sprintf("%d", rec.UniqueWords),
		fmt.Sprintf("%d", rec.Summary.ErrorsTotal),
		fmt.Sprintf("%d%%", rec.Summary.FirstPassPct),
		fmt.Sprintf("%.2f", float64(rec.Summary.AvgMsOverall)/1000),
	}
}

// NewestFirst returns up to limit records, most recent first.
func NewestFirst(records []model.HistoryRecord, limit int) []model.HistoryRecord {
	sorted := make([]model.HistoryRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartedAt.After(sorted[j].StartedAt)
	})
	if limit > 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}

// RenderHistoryTable prints the most recent sessions. With details, each
// session is followed by its per-word results.
func RenderHistoryTable(w io.Writer, records []model.HistoryRecord, limit int, details bool) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	recent := NewestFirst(records, limit)
	rightAlign := map[int]bool{2: true, 3: true, 4: true, 5: true, 6: true, 7: true}
	if !details {
		rows := make([][]string, 0, len(recent))
		for _, rec := range recent {
			rows = append(rows, HistoryRow(rec))
		}
		return writeLines(w, formatTable(HistoryHeaders, rows, rightAlign))
	}

	for _, rec := range recent {
		if err := writeLines(w, formatTable(HistoryHeaders, [][]string{HistoryRow(rec)}, rightAlign)); err != nil {
			return err
		}
		results := make([]model.WordResult, 0, len(rec.PerWord))
		for _, res := range rec.PerWord {
			results = append(results, res)
		}
		sort.Slice(results, func(i, j int) bool {
			if results[i].Errors != results[j].Errors {
				return results[i].Errors > results[j].Errors
			}
			return results[i].Prompt < results[j].Prompt
		})
		rows := make([][]string, 0, len(results))
		for _, res := range results {
			rows = append(rows, []string{
				"  " + res.Prompt,
				strings.Join(res.Answers, ", "),
				fmt.Sprintf("%d", res.Attempts),
				fmt.Sprintf("%d", res.Errors),
				fmt.Sprintf("%.2f", float64(res.AvgMs)/1000),
			})
		}
		if err := writeLines(w, formatTable([]string{"  Word", "Answers", "Attempts", "Errors", "Avg s"}, rows, map[int]bool{2: true, 3: true, 4: true})); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w, ""); err != nil {
			return err
		}
	}
	return nil
}

func writeLines(w io.Writer, lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
