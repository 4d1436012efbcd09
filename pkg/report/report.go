// Package report orders scored proteins and prepares score distributions
// for presentation.
package report

import (
	"cmp"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// DefaultTopK is the number of candidates reported when none is requested.
const DefaultTopK = 5

// Number is a score value type.
type Number interface {
	~int | ~float64
}

// Entry is a single ranked protein.
type Entry struct {
	ID    string  `json:"id" yaml:"id"`
	Score float64 `json:"score" yaml:"score"`
}

// Summary is the five-number summary plus mean of a distribution.
type Summary struct {
	Count  int     `json:"count" yaml:"count"`
	Min    float64 `json:"min" yaml:"min"`
	Q1     float64 `json:"q1" yaml:"q1"`
	Median float64 `json:"median" yaml:"median"`
	Q3     float64 `json:"q3" yaml:"q3"`
	Max    float64 `json:"max" yaml:"max"`
	Mean   float64 `json:"mean" yaml:"mean"`
}

// Rank orders all scores descending; equal scores are ordered by
// ascending identifier.
func Rank[V Number](scores map[string]V) []Entry {
	out := make([]Entry, 0, len(scores))
	for id, s := range scores {
		out = append(out, Entry{ID: id, Score: float64(s)})
	}
	slices.SortFunc(out, func(a, b Entry) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}

// TopK returns the k best entries of scores. A non-positive k yields an
// empty list.
func TopK[V Number](scores map[string]V, k int) []Entry {
	if k <= 0 {
		return []Entry{}
	}
	ranked := Rank(scores)
	return ranked[:min(k, len(ranked))]
}

// Values returns the scores in identifier order, optionally without zeros.
func Values[V Number](scores map[string]V, dropZeros bool) []float64 {
	ids := make([]string, 0, len(scores))
	for id := range scores {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	out := make([]float64, 0, len(ids))
	for _, id := range ids {
		v := float64(scores[id])
		if dropZeros && v == 0 {
			continue
		}
		out = append(out, v)
	}
	return out
}

// Ints converts integer observations to a float sequence.
func Ints(values []int) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = float64(v)
	}
	return out
}

// Summarize computes the summary of values. An empty input yields a zero
// Summary.
func Summarize(values []float64) Summary {
	if len(values) == 0 {
		return Summary{}
	}
	x := slices.Clone(values)
	slices.Sort(x)

	return Summary{
		Count:  len(x),
		Min:    x[0],
		Q1:     stat.Quantile(0.25, stat.Empirical, x, nil),
		Median: stat.Quantile(0.5, stat.Empirical, x, nil),
		Q3:     stat.Quantile(0.75, stat.Empirical, x, nil),
		Max:    x[len(x)-1],
		Mean:   stat.Mean(x, nil),
	}
}
