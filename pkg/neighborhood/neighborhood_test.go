package neighborhood

import (
	"context"
	"fmt"
	"testing"

	"github.com/mchmarny/ppinet/pkg/annotation"
	"github.com/mchmarny/ppinet/pkg/network"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chainGraph() *network.Graph {
	return network.NewGraph([]network.Edge{
		{A: "A", B: "B", Weight: 0.9},
		{A: "B", B: "C", Weight: 0.8},
		{A: "C", B: "D", Weight: 0.7},
	})
}

func TestUnknownNodeCounts_Chain(t *testing.T) {
	counts, err := UnknownNodeCounts(context.Background(), chainGraph(), annotation.NewKnownSet("b"))
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"A": 1, "C": 1, "D": 0}, counts)
}

func TestUnknownNodeCounts_ExcludesKnown(t *testing.T) {
	g := chainGraph()
	known := annotation.NewKnownSet("A", "C", "X")

	counts, err := UnknownNodeCounts(context.Background(), g, known)
	require.NoError(t, err)
	for id := range counts {
		assert.False(t, known.Has(id), id)
	}
	assert.Equal(t, map[string]int{"B": 2, "D": 1}, counts)
}

func TestRecords_OrderedAndBounded(t *testing.T) {
	edges := make([]network.Edge, 0)
	for i := range 600 {
		edges = append(edges, network.Edge{A: fmt.Sprintf("P%04d", i), B: fmt.Sprintf("P%04d", (i+1)%600), Weight: 0.5})
		edges = append(edges, network.Edge{A: fmt.Sprintf("P%04d", i), B: "HUB", Weight: 0.1})
	}
	g := network.NewGraph(edges)
	known := annotation.NewKnownSet("HUB", "P0001")

	recs, err := Records(context.Background(), g, known, WithWorkers(3))
	require.NoError(t, err)
	require.Len(t, recs, g.CountNodes()-2)

	for i, r := range recs {
		if i > 0 {
			assert.Less(t, recs[i-1].Node, r.Node)
		}
		assert.LessOrEqual(t, r.Known, len(r.Neighbors))
		assert.False(t, known.Has(r.Node))
	}

	assert.Equal(t, "P0000", recs[0].Node)
	assert.Equal(t, []string{"HUB", "P0001", "P0599"}, recs[0].Neighbors)
	assert.Equal(t, 2, recs[0].Known)

	serial, err := Records(context.Background(), g, known, WithWorkers(0))
	require.NoError(t, err)
	assert.Equal(t, recs, serial)
}

func TestRecords_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Records(ctx, chainGraph(), annotation.NewKnownSet())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRecords_Empty(t *testing.T) {
	recs, err := Records(context.Background(), network.NewGraph(nil), annotation.NewKnownSet())
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestRatioFor(t *testing.T) {
	g := chainGraph()
	known := annotation.NewKnownSet("A", "B")

	r, err := RatioFor(g, "b", known)
	require.NoError(t, err)
	assert.Equal(t, "B", r.Node)
	assert.Equal(t, 1, r.Known)
	assert.Equal(t, 2, r.Total)
	assert.InDelta(t, 50.0, r.Percentage, 1e-12)

	r, err = RatioFor(g, "D", known)
	require.NoError(t, err)
	assert.Equal(t, 0, r.Known)
	assert.Equal(t, 1, r.Total)
	assert.InDelta(t, 0.0, r.Percentage, 1e-12)
}

func TestRatioFor_Errors(t *testing.T) {
	g := network.NewGraph([]network.Edge{{A: "A", B: "B", Weight: 1}}, "LONE")

	_, err := RatioFor(g, "lone", annotation.NewKnownSet("A"))
	var ene *EmptyNeighborhoodError
	require.ErrorAs(t, err, &ene)
	assert.Equal(t, "LONE", ene.Node)

	_, err = RatioFor(g, "missing", annotation.NewKnownSet("A"))
	var une *network.UnknownNodeError
	assert.ErrorAs(t, err, &une)
}
