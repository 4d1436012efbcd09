package plot

import (
	"fmt"
	"image/color"
	"log/slog"
	"os"
	"path/filepath"

	gplot "gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

const (
	dirMode     = 0700
	pngExt      = ".png"
	boxWidthPts = 40
)

// PNGSink writes each plot as a PNG image into Dir.
type PNGSink struct {
	Dir    string
	Width  vg.Length
	Height vg.Length

	last string
}

// NewPNGSink creates a sink writing 8x5 inch images into dir.
func NewPNGSink(dir string) *PNGSink {
	return &PNGSink{
		Dir:    dir,
		Width:  8 * vg.Inch,
		Height: 5 * vg.Inch,
	}
}

// LastPath returns the file written by the most recent successful call.
func (s *PNGSink) LastPath() string {
	return s.last
}

// Histogram implements Sink.
func (s *PNGSink) Histogram(values []float64, opts Options) error {
	if len(values) == 0 {
		return ErrNoValues
	}

	p := newPlot(opts)
	h, err := plotter.NewHist(plotter.Values(values), opts.bins())
	if err != nil {
		return fmt.Errorf("creating histogram: %w", err)
	}
	h.FillColor = color.RGBA{R: 70, G: 130, B: 180, A: 255}
	h.LineStyle.Color = color.Black
	p.Add(h)

	return s.save(p, opts.Title)
}

// BoxPlot implements Sink.
func (s *PNGSink) BoxPlot(values []float64, opts Options) error {
	if len(values) == 0 {
		return ErrNoValues
	}

	p := newPlot(opts)
	b, err := plotter.NewBoxPlot(vg.Points(boxWidthPts), 0, plotter.Values(values))
	if err != nil {
		return fmt.Errorf("creating box plot: %w", err)
	}
	p.Add(b)
	p.NominalX(opts.XLabel)

	return s.save(p, opts.Title)
}

func newPlot(opts Options) *gplot.Plot {
	p := gplot.New()
	p.Title.Text = opts.Title
	p.X.Label.Text = opts.XLabel
	p.Y.Label.Text = opts.YLabel

	g := plotter.NewGrid()
	g.Vertical.Color = nil
	p.Add(g)
	return p
}

func (s *PNGSink) save(p *gplot.Plot, title string) error {
	if err := os.MkdirAll(s.Dir, dirMode); err != nil {
		return fmt.Errorf("creating plot dir %s: %w", s.Dir, err)
	}

	path := filepath.Join(s.Dir, Slug(title)+pngExt)
	if err := p.Save(s.Width, s.Height, path); err != nil {
		return fmt.Errorf("saving plot %s: %w", path, err)
	}

	s.last = path
	slog.Debug("plot saved", "path", path)
	return nil
}
