// Package scoring ranks unannotated proteins by the annotations found in
// their immediate neighborhood.
package scoring

import (
	"context"

	"github.com/mchmarny/ppinet/pkg/neighborhood"
	"github.com/mchmarny/ppinet/pkg/network"
)

// Epsilon replaces a zero expected frequency in the Hishigaki denominator.
// It is a numerical guard only and carries no statistical meaning.
const Epsilon = 1e-8

// Method names a scoring procedure.
type Method string

const (
	MethodMajority  Method = "majority"
	MethodHishigaki Method = "hishigaki"
)

// MajorityVote counts the annotated neighbors of every unannotated protein.
func MajorityVote(ctx context.Context, g *network.Graph, known neighborhood.Set, opts ...neighborhood.Option) (map[string]int, error) {
	return neighborhood.UnknownNodeCounts(ctx, g, known, opts...)
}

// Frequency returns the share of graph proteins that are annotated.
// Annotated identifiers missing from the graph do not count.
func Frequency(g *network.Graph, known neighborhood.Set) float64 {
	nodes := g.Nodes()
	if len(nodes) == 0 {
		return 0
	}
	pc := 0
	for _, n := range nodes {
		if known.Has(n) {
			pc++
		}
	}
	return float64(pc) / float64(len(nodes))
}

// Hishigaki scores every unannotated protein with the single-term
// chi-square-like statistic (nf - ef)^2 / ef where nf is the number of
// annotated neighbors and ef = freq * nf. The score is a ranking heuristic,
// not a test statistic.
func Hishigaki(ctx context.Context, g *network.Graph, known neighborhood.Set, opts ...neighborhood.Option) (map[string]float64, error) {
	counts, err := neighborhood.UnknownNodeCounts(ctx, g, known, opts...)
	if err != nil {
		return nil, err
	}

	freq := Frequency(g, known)
	scores := make(map[string]float64, len(counts))
	for id, nf := range counts {
		scores[id] = Score(nf, freq)
	}
	return scores, nil
}

// Score computes the Hishigaki score for nf annotated neighbors given the
// global annotation frequency.
func Score(nf int, freq float64) float64 {
	n := float64(nf)
	ef := freq * n
	d := ef
	if ef == 0 {
		d = ef + Epsilon
	}
	return (n - ef) * (n - ef) / d
}
