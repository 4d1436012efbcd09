// Package analyzer loads an interaction network with its annotations and
// exposes the neighborhood analyses over them.
package analyzer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mchmarny/ppinet/pkg/annotation"
	"github.com/mchmarny/ppinet/pkg/neighborhood"
	"github.com/mchmarny/ppinet/pkg/net"
	"github.com/mchmarny/ppinet/pkg/network"
	"github.com/mchmarny/ppinet/pkg/report"
	"github.com/mchmarny/ppinet/pkg/scoring"
	"golang.org/x/sync/errgroup"
)

// Distribution names a plottable sequence of values.
type Distribution string

const (
	DistributionDegree    Distribution = "degree"
	DistributionAnnotated Distribution = "annotated"
	DistributionHishigaki Distribution = "hishigaki"
)

// Distributions lists the supported distributions.
var Distributions = []Distribution{DistributionDegree, DistributionAnnotated, DistributionHishigaki}

// Sources locates the input files. Either may be a local path or an
// http(s) URL.
type Sources struct {
	PPI         string `json:"ppi" yaml:"ppi"`
	Annotations string `json:"annotations" yaml:"annotations"`
}

// Options tune how sources are parsed and analyzed.
type Options struct {
	Delimiter string
	// AnnotationColumn overrides the identifier column; nil keeps
	// annotation.DefaultColumn.
	AnnotationColumn *int
	MinScore         float64
	Header           bool
	// Workers caps the engine pool; zero uses one per CPU.
	Workers int
	// CacheDir receives downloaded sources.
	CacheDir string
	Refresh  bool
}

// Summary describes the loaded inputs.
type Summary struct {
	network.Stats `yaml:",inline"`
	Known         int     `json:"known" yaml:"known"`
	KnownInGraph  int     `json:"known_in_graph" yaml:"knownInGraph"`
	Frequency     float64 `json:"frequency" yaml:"frequency"`
}

// Analyzer holds an immutable graph and annotation set. It is safe for
// concurrent use.
type Analyzer struct {
	Graph   *network.Graph
	Known   annotation.KnownSet
	Sources Sources
	workers int
}

// New wraps an already built graph and annotation set.
func New(g *network.Graph, known annotation.KnownSet, workers int) *Analyzer {
	if known == nil {
		known = annotation.NewKnownSet()
	}
	return &Analyzer{
		Graph:   g,
		Known:   known,
		workers: workers,
	}
}

// Load fetches and parses both sources concurrently.
func Load(ctx context.Context, src Sources, opts Options) (*Analyzer, error) {
	if src.PPI == "" {
		return nil, fmt.Errorf("interaction source required")
	}
	if src.Annotations == "" {
		return nil, fmt.Errorf("annotation source required")
	}

	var (
		g     *network.Graph
		known annotation.KnownSet
	)

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		path, err := net.Fetch(ctx, src.PPI, opts.CacheDir, opts.Refresh)
		if err != nil {
			return err
		}
		g, err = network.BuildGraph(path, graphOptions(opts)...)
		return err
	})
	eg.Go(func() error {
		path, err := net.Fetch(ctx, src.Annotations, opts.CacheDir, opts.Refresh)
		if err != nil {
			return err
		}
		known, err = annotation.LoadKnownSet(path, annotationOptions(opts)...)
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	a := New(g, known, opts.Workers)
	a.Sources = src
	slog.Debug("analyzer loaded", "ppi", src.PPI, "annotations", src.Annotations,
		"nodes", g.CountNodes(), "edges", g.CountEdges(), "known", known.Len())
	return a, nil
}

func graphOptions(o Options) []network.Option {
	var opts []network.Option
	if o.Delimiter != "" {
		opts = append(opts, network.WithDelimiter(o.Delimiter))
	}
	if o.Header {
		opts = append(opts, network.WithHeader())
	}
	if o.MinScore > 0 {
		opts = append(opts, network.WithMinScore(o.MinScore))
	}
	return opts
}

func annotationOptions(o Options) []annotation.Option {
	var opts []annotation.Option
	if o.AnnotationColumn != nil {
		opts = append(opts, annotation.WithColumn(*o.AnnotationColumn))
	}
	if o.Delimiter != "" {
		opts = append(opts, annotation.WithDelimiter(o.Delimiter))
	}
	return opts
}

func (a *Analyzer) engineOptions() []neighborhood.Option {
	if a.workers <= 0 {
		return nil
	}
	return []neighborhood.Option{neighborhood.WithWorkers(a.workers)}
}

// Stats summarizes the graph and how much of it is annotated.
func (a *Analyzer) Stats() *Summary {
	return &Summary{
		Stats:        *a.Graph.Stats(),
		Known:        a.Known.Len(),
		KnownInGraph: a.Known.InGraph(a.Graph),
		Frequency:    scoring.Frequency(a.Graph, a.Known),
	}
}

// Degree returns the degree of the protein.
func (a *Analyzer) Degree(id string) (int, error) {
	return a.Graph.Degree(id)
}

// Neighbors returns the proteins adjacent to id.
func (a *Analyzer) Neighbors(id string) ([]string, error) {
	return a.Graph.Neighbors(id)
}

// Ratio returns the annotated share of the neighborhood of id.
func (a *Analyzer) Ratio(id string) (*neighborhood.Ratio, error) {
	return neighborhood.RatioFor(a.Graph, id, a.Known)
}

// MajorityVote counts annotated neighbors of every unannotated protein.
func (a *Analyzer) MajorityVote(ctx context.Context) (map[string]int, error) {
	return scoring.MajorityVote(ctx, a.Graph, a.Known, a.engineOptions()...)
}

// Hishigaki scores every unannotated protein.
func (a *Analyzer) Hishigaki(ctx context.Context) (map[string]float64, error) {
	return scoring.Hishigaki(ctx, a.Graph, a.Known, a.engineOptions()...)
}

// TopMajority returns the k unannotated proteins with the most annotated
// neighbors.
func (a *Analyzer) TopMajority(ctx context.Context, k int) ([]report.Entry, error) {
	counts, err := a.MajorityVote(ctx)
	if err != nil {
		return nil, err
	}
	return report.TopK(counts, k), nil
}

// TopHishigaki returns the k best Hishigaki candidates.
func (a *Analyzer) TopHishigaki(ctx context.Context, k int) ([]report.Entry, error) {
	scores, err := a.Hishigaki(ctx)
	if err != nil {
		return nil, err
	}
	return report.TopK(scores, k), nil
}

// Rank dispatches to the ranking of the given method.
func (a *Analyzer) Rank(ctx context.Context, m scoring.Method, k int) ([]report.Entry, error) {
	switch m {
	case scoring.MethodMajority:
		return a.TopMajority(ctx, k)
	case scoring.MethodHishigaki:
		return a.TopHishigaki(ctx, k)
	default:
		return nil, fmt.Errorf("unsupported scoring method: %s", m)
	}
}

// DegreeValues returns the degree of every protein.
func (a *Analyzer) DegreeValues() []float64 {
	return report.Ints(a.Graph.DegreeDistribution())
}

// AnnotatedCountValues returns the non-zero annotated neighbor counts of
// unannotated proteins.
func (a *Analyzer) AnnotatedCountValues(ctx context.Context) ([]float64, error) {
	counts, err := a.MajorityVote(ctx)
	if err != nil {
		return nil, err
	}
	return report.Values(counts, true), nil
}

// HishigakiValues returns every Hishigaki score.
func (a *Analyzer) HishigakiValues(ctx context.Context) ([]float64, error) {
	scores, err := a.Hishigaki(ctx)
	if err != nil {
		return nil, err
	}
	return report.Values(scores, false), nil
}

// Values returns the named distribution.
func (a *Analyzer) Values(ctx context.Context, d Distribution) ([]float64, error) {
	switch d {
	case DistributionDegree:
		return a.DegreeValues(), nil
	case DistributionAnnotated:
		return a.AnnotatedCountValues(ctx)
	case DistributionHishigaki:
		return a.HishigakiValues(ctx)
	default:
		return nil, fmt.Errorf("unsupported distribution: %s", d)
	}
}
