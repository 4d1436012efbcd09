// Package neighborhood derives per-protein neighbor statistics from a
// graph and a set of annotated proteins.
package neighborhood

import (
	"context"
	"fmt"
	"runtime"

	"github.com/mchmarny/ppinet/pkg/network"
	"github.com/mchmarny/ppinet/pkg/tabular"
	"golang.org/x/sync/errgroup"
)

const (
	chunkSize      = 256
	hundredPercent = 100
	minWorkers     = 1
)

// Set is the membership test for annotated proteins. Identifiers passed to
// Has are already normalized.
type Set interface {
	Has(id string) bool
}

// EmptyNeighborhoodError is returned when a ratio is requested for a
// protein without neighbors.
type EmptyNeighborhoodError struct {
	Node string
}

func (e *EmptyNeighborhoodError) Error() string {
	return fmt.Sprintf("protein %s has no neighbors", e.Node)
}

// Record holds the neighborhood of a single protein.
type Record struct {
	Node      string   `json:"node" yaml:"node"`
	Neighbors []string `json:"neighbors" yaml:"neighbors"`
	Known     int      `json:"known" yaml:"known"`
}

// Ratio describes the annotated share of one protein's neighborhood.
type Ratio struct {
	Node       string  `json:"node" yaml:"node"`
	Known      int     `json:"known" yaml:"known"`
	Total      int     `json:"total" yaml:"total"`
	Percentage float64 `json:"percentage" yaml:"percentage"`
}

type options struct {
	workers int
}

// Option configures the engine.
type Option func(*options)

// WithWorkers limits the number of goroutines scoring nodes. Values below
// one fall back to one.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = max(n, minWorkers)
	}
}

// Records computes the neighborhood of every protein that is not in known,
// in lexical order of the protein identifier. The graph and set are only
// read; nodes are split in chunks across the worker pool.
func Records(ctx context.Context, g *network.Graph, known Set, opts ...Option) ([]Record, error) {
	o := &options{workers: runtime.GOMAXPROCS(0)}
	for _, opt := range opts {
		opt(o)
	}

	nodes := unknownNodes(g, known)
	out := make([]Record, len(nodes))
	if len(nodes) == 0 {
		return out, nil
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(o.workers)

	for lo := 0; lo < len(nodes); lo += chunkSize {
		hi := min(lo+chunkSize, len(nodes))
		eg.Go(func() error {
			for i := lo; i < hi; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				rec, err := record(g, nodes[i], known)
				if err != nil {
					return err
				}
				out[i] = rec
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// UnknownNodeCounts maps every protein not in known to the number of its
// neighbors that are in known. Annotated proteins never appear in the result.
func UnknownNodeCounts(ctx context.Context, g *network.Graph, known Set, opts ...Option) (map[string]int, error) {
	recs, err := Records(ctx, g, known, opts...)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int, len(recs))
	for _, r := range recs {
		counts[r.Node] = r.Known
	}
	return counts, nil
}

// RatioFor computes the annotated share of the neighborhood of
// node, whether or not node itself is annotated.
func RatioFor(g *network.Graph, node string, known Set) (*Ratio, error) {
	id := tabular.Normalize(node)
	neighbors, err := g.Neighbors(id)
	if err != nil {
		return nil, err
	}
	if len(neighbors) == 0 {
		return nil, &EmptyNeighborhoodError{Node: id}
	}

	k := countKnown(neighbors, known)
	return &Ratio{
		Node:       id,
		Known:      k,
		Total:      len(neighbors),
		Percentage: float64(k) / float64(len(neighbors)) * hundredPercent,
	}, nil
}

func record(g *network.Graph, node string, known Set) (Record, error) {
	neighbors, err := g.Neighbors(node)
	if err != nil {
		return Record{}, err
	}
	return Record{
		Node:      node,
		Neighbors: neighbors,
		Known:     countKnown(neighbors, known),
	}, nil
}

func countKnown(ids []string, known Set) int {
	n := 0
	for _, id := range ids {
		if known.Has(id) {
			n++
		}
	}
	return n
}

func unknownNodes(g *network.Graph, known Set) []string {
	all := g.Nodes()
	out := make([]string, 0, len(all))
	for _, n := range all {
		if !known.Has(n) {
			out = append(out, n)
		}
	}
	return out
}
