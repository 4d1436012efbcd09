package network

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/mchmarny/ppinet/pkg/tabular"
)

const minRecordFields = 3

// DefaultCommentPrefixes mark comment lines in interaction files. Any line
// led by whitespace is a comment.
var DefaultCommentPrefixes = []string{"#", " ", "\t"}

type options struct {
	delimiter string
	comments  []string
	header    bool
	minScore  float64
}

// Option configures how interaction records are parsed.
type Option func(*options)

// WithDelimiter sets the field delimiter (tab by default).
func WithDelimiter(d string) Option {
	return func(o *options) {
		o.delimiter = d
	}
}

// WithCommentPrefixes replaces the default comment line prefixes.
func WithCommentPrefixes(prefixes ...string) Option {
	return func(o *options) {
		o.comments = prefixes
	}
}

// WithHeader skips the first data line (e.g. STRING "protein1 protein2 combined_score").
func WithHeader() Option {
	return func(o *options) {
		o.header = true
	}
}

// WithMinScore drops interactions with a confidence score below score.
func WithMinScore(score float64) Option {
	return func(o *options) {
		o.minScore = score
	}
}

// BuildGraph reads the interaction file at path into a Graph.
func BuildGraph(path string, opts ...Option) (*Graph, error) {
	f, err := tabular.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ReadGraph(f, path, opts...)
}

// ReadGraph parses interaction records from r. Each data line carries at
// least two protein identifiers followed by a numeric confidence score in
// the last field. The first bad line aborts the build.
func ReadGraph(r io.Reader, source string, opts ...Option) (*Graph, error) {
	o := &options{
		delimiter: tabular.DefaultDelimiter,
		comments:  DefaultCommentPrefixes,
	}
	for _, opt := range opts {
		opt(o)
	}

	rd := tabular.NewReader(r, source,
		tabular.WithDelimiter(o.delimiter),
		tabular.WithCommentPrefixes(o.comments...),
		tabular.WithMinFields(minRecordFields),
	)

	g := newGraph()
	skipped := 0
	first := true
	for {
		rec, err := rd.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		if first && o.header {
			first = false
			continue
		}
		first = false

		a, b := tabular.Normalize(rec.Fields[0]), tabular.Normalize(rec.Fields[1])
		if a == "" || b == "" {
			return nil, tabular.Malformed(source, rec, "empty protein identifier")
		}

		score, err := parseScore(rec.Last())
		if err != nil {
			return nil, tabular.Malformed(source, rec, err.Error())
		}

		if score < o.minScore {
			skipped++
			continue
		}
		g.addEdge(a, b, score)
	}

	slog.Debug("graph built",
		"source", source,
		"nodes", g.CountNodes(),
		"edges", g.CountEdges(),
		"below_min_score", skipped)

	return g, nil
}

func parseScore(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("confidence score %q is not numeric", s)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("confidence score %q is not finite", s)
	}
	if v < 0 {
		return 0, fmt.Errorf("confidence score %q is negative", s)
	}
	return v, nil
}
