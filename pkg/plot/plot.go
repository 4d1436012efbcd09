// Package plot renders numeric distributions. The analysis core only hands
// a Sink plain value sequences; how they are drawn is up to the sink.
package plot

import (
	"errors"
	"regexp"
	"strings"
)

// DefaultBins is the histogram bin count used when none is set.
const DefaultBins = 20

// ErrNoValues is returned when a sink is asked to draw an empty sequence.
var ErrNoValues = errors.New("no values to plot")

var slugRegEx = regexp.MustCompile("[^a-z0-9]+")

// Options label a rendered distribution.
type Options struct {
	Title  string
	XLabel string
	YLabel string
	Bins   int
}

func (o Options) bins() int {
	if o.Bins <= 0 {
		return DefaultBins
	}
	return o.Bins
}

// Sink draws histograms and box plots.
type Sink interface {
	Histogram(values []float64, opts Options) error
	BoxPlot(values []float64, opts Options) error
}

// Slug turns a title into a file name friendly token.
func Slug(title string) string {
	s := strings.Trim(slugRegEx.ReplaceAllString(strings.ToLower(title), "-"), "-")
	if s == "" {
		return "plot"
	}
	return s
}
