package scoring

import (
	"context"
	"math"
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

func TestMajorityVote(t *testing.T) {
	counts, err := MajorityVote(context.Background(), chainGraph(), annotation.NewKnownSet("B"))
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"A": 1, "C": 1, "D": 0}, counts)
}

func TestFrequency(t *testing.T) {
	g := chainGraph()
	assert.InDelta(t, 0.25, Frequency(g, annotation.NewKnownSet("B", "NOT_IN_GRAPH")), 1e-12)
	assert.InDelta(t, 0.0, Frequency(g, annotation.NewKnownSet()), 1e-12)
	assert.InDelta(t, 0.0, Frequency(network.NewGraph(nil), annotation.NewKnownSet("B")), 1e-12)
}

func TestHishigaki_Chain(t *testing.T) {
	scores, err := Hishigaki(context.Background(), chainGraph(), annotation.NewKnownSet("B"))
	require.NoError(t, err)
	require.Len(t, scores, 3)
	assert.NotContains(t, scores, "B")

	// nf=1, freq=0.25: ef=0.25, (0.75^2)/0.25
	assert.InDelta(t, 2.25, scores["A"], 1e-12)
	assert.InDelta(t, 2.25, scores["C"], 1e-12)

	d := scores["D"]
	assert.False(t, math.IsNaN(d))
	assert.False(t, math.IsInf(d, 0))
	assert.InDelta(t, 0.0, d, 1e-12)
}

func TestHishigaki_NonNegative(t *testing.T) {
	g := network.NewGraph([]network.Edge{
		{A: "A", B: "B", Weight: 1}, {A: "A", B: "C", Weight: 1}, {A: "A", B: "D", Weight: 1},
		{A: "B", B: "C", Weight: 1}, {A: "D", B: "E", Weight: 1}, {A: "E", B: "F", Weight: 1},
	})
	scores, err := Hishigaki(context.Background(), g, annotation.NewKnownSet("B", "C", "E"))
	require.NoError(t, err)
	for id, s := range scores {
		assert.GreaterOrEqual(t, s, 0.0, id)
		assert.False(t, math.IsNaN(s), id)
	}
}

func TestScore(t *testing.T) {
	tests := []struct {
		name string
		nf   int
		freq float64
		want float64
	}{
		{"no annotated neighbors", 0, 0.3, 0},
		{"observed equals expected", 2, 1, 0},
		{"typical", 4, 0.5, 2},
		{"zero frequency uses epsilon", 3, 0, 9 / Epsilon},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(tt.nf, tt.freq)
			assert.InEpsilon(t, tt.want+1, got+1, 1e-9)
			assert.False(t, math.IsInf(got, 0))
		})
	}
}
