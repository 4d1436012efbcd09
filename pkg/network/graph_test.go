package network

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mchmarny/ppinet/pkg/tabular"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chainPPI = "# protein1\tprotein2\tscore\na\tb\t0.9\nB\tC\t0.8\n c\td\t0.7\nC\tD\t0.7\n"

func readTestGraph(t *testing.T, in string, opts ...Option) *Graph {
	t.Helper()
	g, err := ReadGraph(strings.NewReader(in), "test.tsv", opts...)
	require.NoError(t, err)
	return g
}

func TestReadGraph_Chain(t *testing.T) {
	g := readTestGraph(t, chainPPI)

	assert.Equal(t, 4, g.CountNodes())
	assert.Equal(t, 3, g.CountEdges())
	assert.Equal(t, []string{"A", "B", "C", "D"}, g.Nodes())

	w, ok := g.Weight("a", "B")
	assert.True(t, ok)
	assert.InDelta(t, 0.9, w, 1e-12)

	w, ok = g.Weight("D", "C")
	assert.True(t, ok)
	assert.InDelta(t, 0.7, w, 1e-12)

	_, ok = g.Weight("A", "D")
	assert.False(t, ok)
	_, ok = g.Weight("A", "Z")
	assert.False(t, ok)
}

func TestReadGraph_DuplicateEdgeOverwrites(t *testing.T) {
	g := readTestGraph(t, "A\tB\t0.1\nb\ta\t0.6\n A\tB\t0.9\n")

	assert.Equal(t, 2, g.CountNodes())
	assert.Equal(t, 1, g.CountEdges())

	w, ok := g.Weight("A", "B")
	require.True(t, ok)
	assert.InDelta(t, 0.6, w, 1e-12)
}

func TestReadGraph_ExtraColumnsUseLastAsScore(t *testing.T) {
	g := readTestGraph(t, "A\tB\tneighborhood\t12\t0.42\n")
	w, ok := g.Weight("A", "B")
	require.True(t, ok)
	assert.InDelta(t, 0.42, w, 1e-12)
}

func TestReadGraph_SelfLoop(t *testing.T) {
	g := readTestGraph(t, "A\tA\t0.5\nA\tB\t0.4\n")

	assert.Equal(t, 2, g.CountNodes())
	assert.Equal(t, 2, g.CountEdges())

	n, err := g.Neighbors("A")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, n)

	d, err := g.Degree("A")
	require.NoError(t, err)
	assert.Equal(t, len(n), d)

	w, ok := g.Weight("a", "A")
	assert.True(t, ok)
	assert.InDelta(t, 0.5, w, 1e-12)
}

func TestReadGraph_WhitespaceLedLinesAreComments(t *testing.T) {
	g := readTestGraph(t, "\tA\tB\t0.5\n  X\tY\t0.2\nC\tD\t0.1\n")

	assert.Equal(t, []string{"C", "D"}, g.Nodes())
	assert.Equal(t, 1, g.CountEdges())
	assert.False(t, g.HasNode("A"))
}

func TestReadGraph_Malformed(t *testing.T) {
	tests := []struct {
		name string
		in   string
		line int
	}{
		{"missing score", "A\tB\t0.5\nA\tB\n", 2},
		{"non numeric score", "A\tB\thigh\n", 1},
		{"negative score", "A\tB\t-0.1\n", 1},
		{"nan score", "A\tB\tNaN\n", 1},
		{"empty identifier", "A\t \t0.3\n", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadGraph(strings.NewReader(tt.in), "bad.tsv")
			require.Error(t, err)

			var mre *tabular.MalformedRecordError
			require.ErrorAs(t, err, &mre)
			assert.Equal(t, tt.line, mre.Line)
			assert.Equal(t, "bad.tsv", mre.Source)
		})
	}
}

func TestReadGraph_HeaderAndMinScore(t *testing.T) {
	in := "protein1 protein2 combined_score\nA B 900\nB C 150\nC D 400\n"
	g := readTestGraph(t, in, WithDelimiter(" "), WithCommentPrefixes("#"), WithHeader(), WithMinScore(400))

	assert.Equal(t, 2, g.CountEdges())
	assert.Equal(t, []string{"A", "B", "C", "D"}, g.Nodes())
	_, ok := g.Weight("B", "C")
	assert.False(t, ok)
}

func TestReadGraph_Empty(t *testing.T) {
	g := readTestGraph(t, "# nothing here\n\n")
	assert.Equal(t, 0, g.CountNodes())
	assert.Equal(t, 0, g.CountEdges())
	assert.Empty(t, g.DegreeDistribution())
	assert.Equal(t, &Stats{}, g.Stats())
}

func TestDegreeAndNeighbors(t *testing.T) {
	g := readTestGraph(t, chainPPI)

	for _, n := range g.Nodes() {
		d, err := g.Degree(n)
		require.NoError(t, err)
		nb, err := g.Neighbors(n)
		require.NoError(t, err)
		assert.Equal(t, len(nb), d, n)
	}

	nb, err := g.Neighbors(" b ")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "C"}, nb)

	_, err = g.Degree("Z")
	var une *UnknownNodeError
	require.ErrorAs(t, err, &une)
	assert.Equal(t, "Z", une.Node)

	_, err = g.Neighbors("z")
	assert.ErrorAs(t, err, &une)

	assert.True(t, g.HasNode("c"))
	assert.False(t, g.HasNode("x"))
}

func TestStats(t *testing.T) {
	g := readTestGraph(t, chainPPI)

	assert.Equal(t, []int{1, 2, 2, 1}, g.DegreeDistribution())

	s := g.Stats()
	assert.Equal(t, 4, s.Nodes)
	assert.Equal(t, 3, s.Edges)
	assert.Equal(t, 1, s.MinDegree)
	assert.Equal(t, 2, s.MaxDegree)
	assert.InDelta(t, 1.5, s.MeanDegree, 1e-12)
}

func TestBuildGraph(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ppi.tsv")
	require.NoError(t, os.WriteFile(path, []byte(chainPPI), 0600))

	g, err := BuildGraph(path)
	require.NoError(t, err)
	assert.Equal(t, 4, g.CountNodes())
}

func TestBuildGraph_MissingFile(t *testing.T) {
	_, err := BuildGraph(filepath.Join(t.TempDir(), "missing.tsv"))
	assert.ErrorIs(t, err, tabular.ErrFileNotFound)
}

func TestNewGraph(t *testing.T) {
	g := NewGraph([]Edge{
		{A: "a", B: "b", Weight: 0.2},
		{A: "B", B: "A", Weight: 0.3},
	}, "z", "a", "")

	assert.Equal(t, []string{"A", "B", "Z"}, g.Nodes())
	assert.Equal(t, 1, g.CountEdges())

	w, ok := g.Weight("A", "B")
	require.True(t, ok)
	assert.InDelta(t, 0.3, w, 1e-12)

	n, err := g.Neighbors("Z")
	require.NoError(t, err)
	assert.Empty(t, n)

	d, err := g.Degree("z")
	require.NoError(t, err)
	assert.Equal(t, 0, d)
}
