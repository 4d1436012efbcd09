// Package annotation loads the set of proteins known to carry a function.
package annotation

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/mchmarny/ppinet/pkg/network"
	"github.com/mchmarny/ppinet/pkg/tabular"
)

const (
	// DefaultColumn is the zero-based field holding the protein identifier.
	DefaultColumn = 2

	minRecordFields = 3
)

// DefaultCommentPrefixes covers GAF headers and hash comments.
var DefaultCommentPrefixes = []string{"!", "#"}

// KnownSet is a deduplicated set of normalized protein identifiers.
type KnownSet map[string]struct{}

// NewKnownSet builds a set from raw identifiers.
func NewKnownSet(ids ...string) KnownSet {
	s := make(KnownSet, len(ids))
	for _, id := range ids {
		if n := tabular.Normalize(id); n != "" {
			s[n] = struct{}{}
		}
	}
	return s
}

// Has reports whether the normalized identifier is in the set.
func (s KnownSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Len returns the number of identifiers.
func (s KnownSet) Len() int {
	return len(s)
}

// IDs returns the identifiers in lexical order.
func (s KnownSet) IDs() []string {
	out := make([]string, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// InGraph counts the members that are proteins of g.
func (s KnownSet) InGraph(g *network.Graph) int {
	n := 0
	for id := range s {
		if g.HasNode(id) {
			n++
		}
	}
	return n
}

type options struct {
	delimiter string
	column    int
	comments  []string
}

// Option configures the loader.
type Option func(*options)

// WithDelimiter sets the field delimiter (tab by default).
func WithDelimiter(d string) Option {
	return func(o *options) {
		o.delimiter = d
	}
}

// WithColumn sets the zero-based identifier column.
func WithColumn(col int) Option {
	return func(o *options) {
		o.column = col
	}
}

// LoadKnownSet reads the annotation file at path.
func LoadKnownSet(path string, opts ...Option) (KnownSet, error) {
	f, err := tabular.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ReadKnownSet(f, path, opts...)
}

// ReadKnownSet parses annotation records from r and collects the
// identifier column of every line.
func ReadKnownSet(r io.Reader, source string, opts ...Option) (KnownSet, error) {
	o := &options{
		delimiter: tabular.DefaultDelimiter,
		column:    DefaultColumn,
		comments:  DefaultCommentPrefixes,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.column < 0 {
		return nil, fmt.Errorf("invalid identifier column: %d", o.column)
	}

	rd := tabular.NewReader(r, source,
		tabular.WithDelimiter(o.delimiter),
		tabular.WithCommentPrefixes(o.comments...),
		tabular.WithMinFields(max(minRecordFields, o.column+1)),
	)

	set := make(KnownSet)
	lines := 0
	for {
		rec, err := rd.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		lines++

		id := tabular.Normalize(rec.Fields[o.column])
		if id == "" {
			return nil, tabular.Malformed(source, rec, "empty protein identifier")
		}
		set[id] = struct{}{}
	}

	slog.Debug("annotations loaded", "source", source, "records", lines, "proteins", len(set))
	return set, nil
}
