package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTopK_DeterministicTies(t *testing.T) {
	counts := map[string]int{"D": 0, "C": 1, "A": 1, "E": 3, "B": 1}

	got := TopK(counts, 3)
	assert.Equal(t, []Entry{
		{ID: "E", Score: 3},
		{ID: "A", Score: 1},
		{ID: "B", Score: 1},
	}, got)

	for range 10 {
		assert.Equal(t, got, TopK(counts, 3))
	}
}

func TestTopK_Length(t *testing.T) {
	scores := map[string]float64{"A": 0.5, "B": 2.5}

	tests := []struct {
		k    int
		want int
	}{
		{-1, 0},
		{0, 0},
		{1, 1},
		{2, 2},
		{DefaultTopK, 2},
	}
	for _, tt := range tests {
		assert.Len(t, TopK(scores, tt.k), tt.want)
	}
	assert.Empty(t, TopK(map[string]float64{}, 5))
}

func TestRank_Sorted(t *testing.T) {
	scores := map[string]float64{"X": 1.5, "Y": 9, "Z": 1.5, "W": 0}
	ranked := Rank(scores)
	for i := 1; i < len(ranked); i++ {
		prev, cur := ranked[i-1], ranked[i]
		assert.True(t, prev.Score > cur.Score || (prev.Score == cur.Score && prev.ID < cur.ID))
	}
	assert.Equal(t, "Y", ranked[0].ID)
	assert.Equal(t, "W", ranked[3].ID)
}

func TestValues(t *testing.T) {
	counts := map[string]int{"C": 2, "A": 0, "B": 5}
	assert.Equal(t, []float64{0, 5, 2}, Values(counts, false))
	assert.Equal(t, []float64{5, 2}, Values(counts, true))
	assert.Empty(t, Values(map[string]float64{}, false))
}

func TestInts(t *testing.T) {
	assert.Equal(t, []float64{1, 2, 2, 1}, Ints([]int{1, 2, 2, 1}))
}

func TestSummarize(t *testing.T) {
	s := Summarize([]float64{5, 1, 4, 2, 3})
	assert.Equal(t, 5, s.Count)
	assert.InDelta(t, 1, s.Min, 1e-12)
	assert.InDelta(t, 3, s.Median, 1e-12)
	assert.InDelta(t, 5, s.Max, 1e-12)
	assert.InDelta(t, 3, s.Mean, 1e-12)
	assert.LessOrEqual(t, s.Q1, s.Median)
	assert.LessOrEqual(t, s.Median, s.Q3)

	assert.Equal(t, Summary{}, Summarize(nil))
}
