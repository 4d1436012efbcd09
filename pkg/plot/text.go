package plot

import (
	"fmt"
	"io"
	"math"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mchmarny/ppinet/pkg/report"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

const (
	defaultTextWidth = 50
	barRune          = "█"
	boxRune          = "▒"
	whiskerRune      = "─"
)

// TextSink draws distributions as text bars on a writer, for terminals.
type TextSink struct {
	w     io.Writer
	width int

	titleStyle lipgloss.Style
	barStyle   lipgloss.Style
	labelStyle lipgloss.Style
}

// NewTextSink creates a text sink writing to w.
func NewTextSink(w io.Writer) *TextSink {
	return &TextSink{
		w:          w,
		width:      defaultTextWidth,
		titleStyle: lipgloss.NewStyle().Bold(true),
		barStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		labelStyle: lipgloss.NewStyle().Faint(true),
	}
}

// Histogram implements Sink.
func (s *TextSink) Histogram(values []float64, opts Options) error {
	if len(values) == 0 {
		return ErrNoValues
	}

	dividers, counts := bin(values, opts.bins())
	peak := slices.Max(counts)

	var sb strings.Builder
	s.header(&sb, opts)
	for i, c := range counts {
		n := 0
		if peak > 0 {
			n = int(math.Round(c / peak * float64(s.width)))
		}
		label := fmt.Sprintf("[%10.4g, %10.4g)", dividers[i], dividers[i+1])
		fmt.Fprintf(&sb, "%s %s %d\n",
			s.labelStyle.Render(label),
			s.barStyle.Render(strings.Repeat(barRune, n)),
			int(c))
	}
	fmt.Fprintf(&sb, "%s\n", s.labelStyle.Render(fmt.Sprintf("n=%d bins=%d", len(values), len(counts))))

	_, err := io.WriteString(s.w, sb.String())
	return err
}

// BoxPlot implements Sink.
func (s *TextSink) BoxPlot(values []float64, opts Options) error {
	if len(values) == 0 {
		return ErrNoValues
	}

	sum := report.Summarize(values)

	var sb strings.Builder
	s.header(&sb, opts)
	sb.WriteString(s.box(sum))
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "%s\n", s.labelStyle.Render(fmt.Sprintf(
		"min=%.4g q1=%.4g median=%.4g q3=%.4g max=%.4g mean=%.4g n=%d",
		sum.Min, sum.Q1, sum.Median, sum.Q3, sum.Max, sum.Mean, sum.Count)))

	_, err := io.WriteString(s.w, sb.String())
	return err
}

func (s *TextSink) header(sb *strings.Builder, opts Options) {
	if opts.Title != "" {
		fmt.Fprintf(sb, "%s\n", s.titleStyle.Render(opts.Title))
	}
	if opts.XLabel != "" || opts.YLabel != "" {
		fmt.Fprintf(sb, "%s\n", s.labelStyle.Render(fmt.Sprintf("x: %s  y: %s", opts.XLabel, opts.YLabel)))
	}
}

// box draws min-q1 whisker, q1-q3 box with the median mark, q3-max whisker.
func (s *TextSink) box(sum report.Summary) string {
	span := sum.Max - sum.Min
	pos := func(v float64) int {
		if span == 0 {
			return 0
		}
		return int(math.Round((v - sum.Min) / span * float64(s.width-1)))
	}

	cells := make([]string, s.width)
	for i := range cells {
		cells[i] = " "
	}
	for i := 0; i <= pos(sum.Max); i++ {
		cells[i] = whiskerRune
	}
	for i := pos(sum.Q1); i <= pos(sum.Q3); i++ {
		cells[i] = boxRune
	}
	cells[pos(sum.Min)] = "|"
	cells[pos(sum.Max)] = "|"
	cells[pos(sum.Median)] = "┃"

	return s.barStyle.Render(strings.Join(cells, ""))
}

// bin splits values into n equal-width bins over their range.
func bin(values []float64, n int) (dividers, counts []float64) {
	x := slices.Clone(values)
	slices.Sort(x)

	lo, hi := x[0], x[len(x)-1]
	if hi == lo {
		hi = lo + 1
	}

	dividers = make([]float64, n+1)
	floats.Span(dividers, lo, hi)
	// the last bin is closed on the right
	dividers[n] = math.Nextafter(hi, math.Inf(1))

	counts = stat.Histogram(nil, dividers, x, nil)
	return dividers, counts
}
