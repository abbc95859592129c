package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

// Series represents a named data series for plotting.
type Series struct {
	Name   string
	Values []float64
}

// PlotOptions controls the layout of a braille plot. Zero Width and Height
// pick the terminal width and a default height.
type PlotOptions struct {
	Title  string
	Labels []string
	Width  int
	Height int
	Color  bool
}

type lineStyle struct {
	name   string
	period int
	on     int
}

const (
	defaultPlotHeight   = 10
	minPlotWidth        = 10
	axisLabelWidth      = 5
	axisSeparator       = " │ "
	colorReset          = "\x1b[0m"
	terminalWidthBackup = 80
)

var lineStyles = []lineStyle{
	{name: "solid", period: 1, on: 1},
	{name: "dashed", period: 6, on: 3},
	{name: "dotted", period: 4, on: 1},
}

var colorPalette = []string{
	"\x1b[36m", // cyan
	"\x1b[35m", // magenta
	"\x1b[33m", // yellow
	"\x1b[32m", // green
}

// brailleDots maps a dot position inside a cell, [row][column], to its bit.
var brailleDots = [4][2]uint8{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// Plot renders series as braille lines sharing one vertical scale that always
// includes zero. Labels, when present, annotate the first and last points on
// the x axis. Series without values are skipped.
func Plot(w io.Writer, series []Series, opts PlotOptions) error {
	var kept []Series
	for _, s := range series {
		if len(s.Values) > 0 {
			kept = append(kept, s)
		}
	}
	if len(kept) == 0 {
		return nil
	}
	height := opts.Height
	if height <= 0 {
		height = defaultPlotHeight
	}
	width := opts.Width
	if width <= 0 {
		width = PlotWidthFor(terminalWidth())
	}
	width = max(width, minPlotWidth)

	lo, hi := 0.0, 0.0
	for i, s := range kept {
		kept[i].Values = resampleSeries(s.Values, width)
		for _, v := range kept[i].Values {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	if hi-lo < 1 {
		hi = lo + 1
	}

	canvases := make([]canvas, len(kept))
	for i, s := range kept {
		canvases[i] = newCanvas(width, height)
		canvases[i].trace(s.Values, lo, hi, lineStyles[i%len(lineStyles)])
	}

	useColor := shouldUseColor(w, opts.Color)
	axis := makeAxisLabels(height, lo, hi)

	var out strings.Builder
	if opts.Title != "" {
		out.WriteString(opts.Title + "\n")
	}
	for y := 0; y < height; y++ {
		fmt.Fprintf(&out, "%*s%s", axisLabelWidth, axis[y], axisSeparator)
		for x := 0; x < width; x++ {
			mask, owner := mergeCell(canvases, x, y)
			ch := rune(0x2800 + int(mask))
			if useColor && owner >= 0 {
				out.WriteString(colorPalette[owner%len(colorPalette)] + string(ch) + colorReset)
				continue
			}
			out.WriteRune(ch)
		}
		out.WriteByte('\n')
	}
	if line := renderTimeAxis(opts.Labels, width); line != "" {
		out.WriteString(line + "\n")
	}
	out.WriteString(renderLegend(kept, useColor) + "\n\n")
	_, err := io.WriteString(w, out.String())
	return err
}

// PlotWidthFor computes a plot width that fits within the total available width.
func PlotWidthFor(totalWidth int) int {
	if totalWidth <= 0 {
		return minPlotWidth
	}
	return max(totalWidth-axisLabelWidth-runewidth.StringWidth(axisSeparator), minPlotWidth)
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

func shouldUseColor(w io.Writer, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	file, ok := w.(*os.File)
	return ok && term.IsTerminal(int(file.Fd()))
}

// canvas holds one series' braille cells; each cell is 2 dots wide and 4 tall.
type canvas [][]uint8

func newCanvas(width, height int) canvas {
	c := make(canvas, height)
	for y := range c {
		c[y] = make([]uint8, width)
	}
	return c
}

func (c canvas) set(x, y int) {
	if x < 0 || y < 0 || y/4 >= len(c) || x/2 >= len(c[y/4]) {
		return
	}
	c[y/4][x/2] |= brailleDots[y%4][x%2]
}

// trace draws values, one per cell column, joining neighbours with straight
// segments in dot space.
func (c canvas) trace(values []float64, lo, hi float64, style lineStyle) {
	rows := len(c) * 4
	prevX, prevY := -1, -1
	for i, v := range values {
		x, y := i*2, valueToRow(v, lo, hi, rows)
		if prevX < 0 {
			if style.visible(x) {
				c.set(x, y)
			}
		} else {
			c.segment(prevX, prevY, x, y, style)
		}
		prevX, prevY = x, y
	}
}

func (c canvas) segment(x0, y0, x1, y1 int, style lineStyle) {
	dx, dy := x1-x0, y1-y0
	steps := max(abs(dx), abs(dy))
	if steps == 0 {
		if style.visible(x0) {
			c.set(x0, y0)
		}
		return
	}
	for i := 0; i <= steps; i++ {
		x := x0 + int(math.Round(float64(i*dx)/float64(steps)))
		y := y0 + int(math.Round(float64(i*dy)/float64(steps)))
		if style.visible(x) {
			c.set(x, y)
		}
	}
}

// mergeCell overlays the canvases at one cell. The owner is the first series
// with a dot in the cell, or -1.
func mergeCell(canvases []canvas, x, y int) (uint8, int) {
	var mask uint8
	owner := -1
	for i, c := range canvases {
		if y >= len(c) || x >= len(c[y]) || c[y][x] == 0 {
			continue
		}
		if owner < 0 {
			owner = i
		}
		mask |= c[y][x]
	}
	return mask, owner
}

func (ls lineStyle) visible(x int) bool {
	if ls.period <= 1 {
		return true
	}
	return abs(x)%ls.period < ls.on
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func valueToRow(v, lo, hi float64, rows int) int {
	if rows <= 1 || hi <= lo {
		return 0
	}
	row := int(math.Round((hi - v) / (hi - lo) * float64(rows-1)))
	return max(0, min(row, rows-1))
}

func makeAxisLabels(height int, lo, hi float64) []string {
	labels := make([]string, height)
	if height <= 0 {
		return labels
	}
	labels[0] = formatAxisValue(hi)
	if height > 2 {
		labels[height/2] = formatAxisValue((lo + hi) / 2)
	}
	if height > 1 {
		labels[height-1] = formatAxisValue(lo)
	}
	return labels
}

func formatAxisValue(v float64) string {
	if math.Abs(v-math.Round(v)) < 0.05 {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.1f", v)
}

// renderTimeAxis places the first label under the plot start and the last one
// under its end.
func renderTimeAxis(labels []string, width int) string {
	if len(labels) == 0 {
		return ""
	}
	indent := strings.Repeat(" ", axisLabelWidth+runewidth.StringWidth(axisSeparator))
	first := labels[0]
	if len(labels) == 1 {
		return indent + first
	}
	last := labels[len(labels)-1]
	gap := width - runewidth.StringWidth(first) - runewidth.StringWidth(last)
	if gap < 1 {
		return indent + first
	}
	return indent + first + strings.Repeat(" ", gap) + last
}

func renderLegend(series []Series, useColor bool) string {
	parts := make([]string, 0, len(series))
	for i, s := range series {
		label := fmt.Sprintf("%c %s (%s)", rune(0x2800+int(brailleDots[0][0])), s.Name, lineStyles[i%len(lineStyles)].name)
		if useColor {
			label = colorPalette[i%len(colorPalette)] + label + colorReset
		}
		parts = append(parts, label)
	}
	return "Legend: " + strings.Join(parts, "  ")
}

// resampleSeries fits values to width columns: longer series are averaged
// into buckets, shorter ones are linearly interpolated.
func resampleSeries(values []float64, width int) []float64 {
	switch {
	case len(values) == 0 || width <= 0:
		return nil
	case len(values) == width:
		return append([]float64(nil), values...)
	case len(values) > width:
		return bucketMeans(values, width)
	default:
		return interpolate(values, width)
	}
}

func bucketMeans(values []float64, width int) []float64 {
	out := make([]float64, width)
	n := len(values)
	for i := range out {
		start := i * n / width
		end := max((i+1)*n/width, start+1)
		end = min(end, n)
		var sum float64
		for _, v := range values[start:end] {
			sum += v
		}
		out[i] = sum / float64(end-start)
	}
	return out
}

func interpolate(values []float64, width int) []float64 {
	out := make([]float64, width)
	last := len(values) - 1
	if last == 0 || width == 1 {
		for i := range out {
			out[i] = values[0]
		}
		return out
	}
	for i := range out {
		pos := float64(i) * float64(last) / float64(width-1)
		idx := int(pos)
		if idx >= last {
			out[i] = values[last]
			continue
		}
		frac := pos - float64(idx)
		out[i] = values[idx]*(1-frac) + values[idx+1]*frac
	}
	return out
}
