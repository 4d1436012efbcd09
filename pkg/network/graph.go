// Package network holds the undirected weighted protein interaction graph
// and the builder that parses interaction records into it.
package network

import (
	"fmt"
	"math"
	"slices"

	"github.com/mchmarny/ppinet/pkg/tabular"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/stat"
)

// UnknownNodeError is returned when a query references a protein that is
// not part of the graph.
type UnknownNodeError struct {
	Node string
}

func (e *UnknownNodeError) Error() string {
	return fmt.Sprintf("unknown protein: %s", e.Node)
}

// Graph is a simple undirected graph keyed by normalized protein
// identifiers. It is read-only once built and safe for concurrent readers.
type Graph struct {
	g     *simple.WeightedUndirectedGraph
	ids   map[string]int64
	names []string
	// self-loops are kept aside, the gonum simple graph does not allow them
	loops map[int64]float64
}

// Stats summarizes the graph topology.
type Stats struct {
	Nodes      int     `json:"nodes" yaml:"nodes"`
	Edges      int     `json:"edges" yaml:"edges"`
	MinDegree  int     `json:"min_degree" yaml:"minDegree"`
	MaxDegree  int     `json:"max_degree" yaml:"maxDegree"`
	MeanDegree float64 `json:"mean_degree" yaml:"meanDegree"`
}

// Edge is a weighted interaction between two proteins.
type Edge struct {
	A      string  `json:"a" yaml:"a"`
	B      string  `json:"b" yaml:"b"`
	Weight float64 `json:"weight" yaml:"weight"`
}

// NewGraph builds a graph from interactions already held in memory. Later
// edges overwrite earlier ones between the same pair; edges with an empty
// endpoint are ignored. Extra nodes are added as isolated proteins.
func NewGraph(edges []Edge, nodes ...string) *Graph {
	g := newGraph()
	for _, e := range edges {
		if tabular.Normalize(e.A) == "" || tabular.Normalize(e.B) == "" {
			continue
		}
		g.addEdge(e.A, e.B, e.Weight)
	}
	for _, n := range nodes {
		if id := tabular.Normalize(n); id != "" {
			g.node(id)
		}
	}
	return g
}

func newGraph() *Graph {
	return &Graph{
		g:     simple.NewWeightedUndirectedGraph(0, math.Inf(1)),
		ids:   make(map[string]int64),
		loops: make(map[int64]float64),
	}
}

func (g *Graph) node(name string) int64 {
	if id, ok := g.ids[name]; ok {
		return id
	}
	id := int64(len(g.names))
	g.ids[name] = id
	g.names = append(g.names, name)
	g.g.AddNode(simple.Node(id))
	return id
}

// addEdge inserts or overwrites the edge between a and b.
func (g *Graph) addEdge(a, b string, weight float64) {
	u := g.node(tabular.Normalize(a))
	v := g.node(tabular.Normalize(b))
	if u == v {
		g.loops[u] = weight
		return
	}
	g.g.SetWeightedEdge(simple.WeightedEdge{F: simple.Node(u), T: simple.Node(v), W: weight})
}

func (g *Graph) lookup(name string) (int64, error) {
	n := tabular.Normalize(name)
	id, ok := g.ids[n]
	if !ok {
		return 0, &UnknownNodeError{Node: n}
	}
	return id, nil
}

// CountNodes returns the number of proteins in the graph.
func (g *Graph) CountNodes() int {
	return len(g.names)
}

// CountEdges returns the number of unique interactions in the graph.
func (g *Graph) CountEdges() int {
	return g.g.Edges().Len() + len(g.loops)
}

// HasNode reports whether the protein is part of the graph.
func (g *Graph) HasNode(name string) bool {
	_, ok := g.ids[tabular.Normalize(name)]
	return ok
}

// Nodes returns all protein identifiers in lexical order.
func (g *Graph) Nodes() []string {
	out := slices.Clone(g.names)
	slices.Sort(out)
	return out
}

// Weight returns the confidence score of the edge between a and b.
func (g *Graph) Weight(a, b string) (float64, bool) {
	u, err := g.lookup(a)
	if err != nil {
		return 0, false
	}
	v, err := g.lookup(b)
	if err != nil {
		return 0, false
	}
	if u == v {
		w, ok := g.loops[u]
		return w, ok
	}
	e := g.g.WeightedEdgeBetween(u, v)
	if e == nil {
		return 0, false
	}
	return e.Weight(), true
}

// Neighbors returns the proteins adjacent to name in lexical order.
func (g *Graph) Neighbors(name string) ([]string, error) {
	id, err := g.lookup(name)
	if err != nil {
		return nil, err
	}
	return g.neighbors(id), nil
}

func (g *Graph) neighbors(id int64) []string {
	it := g.g.From(id)
	out := make([]string, 0, it.Len()+1)
	for it.Next() {
		out = append(out, g.names[it.Node().ID()])
	}
	if _, ok := g.loops[id]; ok {
		out = append(out, g.names[id])
	}
	slices.Sort(out)
	return out
}

// Degree returns the number of edges incident to name.
func (g *Graph) Degree(name string) (int, error) {
	id, err := g.lookup(name)
	if err != nil {
		return 0, err
	}
	return g.degree(id), nil
}

func (g *Graph) degree(id int64) int {
	d := g.g.From(id).Len()
	if _, ok := g.loops[id]; ok {
		d++
	}
	return d
}

// DegreeDistribution returns the degree of every node, in node order.
func (g *Graph) DegreeDistribution() []int {
	nodes := g.Nodes()
	out := make([]int, len(nodes))
	for i, n := range nodes {
		out[i] = g.degree(g.ids[n])
	}
	return out
}

// Stats computes node and edge counts and the degree range.
func (g *Graph) Stats() *Stats {
	s := &Stats{
		Nodes: g.CountNodes(),
		Edges: g.CountEdges(),
	}
	if s.Nodes == 0 {
		return s
	}

	degrees := g.DegreeDistribution()
	values := make([]float64, len(degrees))
	s.MinDegree = degrees[0]
	for i, d := range degrees {
		values[i] = float64(d)
		s.MinDegree = min(s.MinDegree, d)
		s.MaxDegree = max(s.MaxDegree, d)
	}
	s.MeanDegree = stat.Mean(values, nil)
	return s
}
