// Package tabular reads delimited text sources one record per line and
// owns the identifier normalization shared by every loader.
package tabular

import (
	"bufio"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

const (
	// DefaultDelimiter separates fields in both input formats.
	DefaultDelimiter = "\t"

	maxLineBytes = 4 << 20
	gzipSuffix   = ".gz"
)

// ErrFileNotFound is returned by Open when the input path does not exist.
var ErrFileNotFound = errors.New("file not found")

// Normalize returns the canonical form of a protein identifier.
// Both loaders and all query entry points go through it so identifiers
// from different files match.
func Normalize(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}

// Record is a single data line split into fields.
type Record struct {
	Line   int
	Raw    string
	Fields []string
}

// Last returns the last field of the record.
func (r *Record) Last() string {
	return r.Fields[len(r.Fields)-1]
}

// MalformedRecordError reports a line that violates the format constraints.
type MalformedRecordError struct {
	Source  string
	Line    int
	Content string
	Reason  string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed record in %s at line %d (%s): %q", e.Source, e.Line, e.Reason, e.Content)
}

// Malformed builds a MalformedRecordError for the given record.
func Malformed(source string, rec *Record, reason string) *MalformedRecordError {
	return &MalformedRecordError{
		Source:  source,
		Line:    rec.Line,
		Content: rec.Raw,
		Reason:  reason,
	}
}

// Option configures a Reader.
type Option func(*Reader)

// WithDelimiter sets the field delimiter.
func WithDelimiter(d string) Option {
	return func(r *Reader) {
		if d != "" {
			r.delimiter = d
		}
	}
}

// WithCommentPrefixes sets the line prefixes that mark a line as a comment.
func WithCommentPrefixes(prefixes ...string) Option {
	return func(r *Reader) {
		r.comments = prefixes
	}
}

// WithMinFields sets the minimum number of fields a data line must carry.
func WithMinFields(n int) Option {
	return func(r *Reader) {
		r.minFields = n
	}
}

// Reader yields data records from a delimited text source.
type Reader struct {
	scanner   *bufio.Scanner
	source    string
	delimiter string
	comments  []string
	minFields int
	line      int
}

// NewReader creates a Reader over r. Source names the input in errors.
func NewReader(r io.Reader, source string, opts ...Option) *Reader {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	rd := &Reader{
		scanner:   s,
		source:    source,
		delimiter: DefaultDelimiter,
	}
	for _, opt := range opts {
		opt(rd)
	}
	return rd
}

// Source returns the name of the input.
func (r *Reader) Source() string {
	return r.source
}

// Next returns the next data record, skipping blank and comment lines.
// It returns io.EOF when the input is exhausted.
func (r *Reader) Next() (*Record, error) {
	for r.scanner.Scan() {
		r.line++
		raw := strings.TrimRight(r.scanner.Text(), "\r\n")
		if strings.TrimSpace(raw) == "" || r.isComment(raw) {
			continue
		}

		rec := &Record{
			Line:   r.line,
			Raw:    raw,
			Fields: strings.Split(strings.TrimSpace(raw), r.delimiter),
		}
		if len(rec.Fields) < r.minFields {
			return nil, Malformed(r.source, rec,
				fmt.Sprintf("expected at least %d fields, got %d", r.minFields, len(rec.Fields)))
		}
		return rec, nil
	}

	if err := r.scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s at line %d: %w", r.source, r.line+1, err)
	}
	return nil, io.EOF
}

func (r *Reader) isComment(line string) bool {
	for _, p := range r.comments {
		if p != "" && strings.HasPrefix(line, p) {
			return true
		}
	}
	return false
}

// Open opens a local input file. Missing files are reported as
// ErrFileNotFound before any parsing happens. Paths ending in .gz are
// decompressed on the fly.
func Open(path string) (io.ReadCloser, error) {
	if path == "" {
		return nil, errors.New("input path not specified")
	}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}

	if !strings.HasSuffix(strings.ToLower(path), gzipSuffix) {
		return f, nil
	}

	zr, err := gzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("opening gzip stream %s: %w", path, err)
	}
	return &gzipFile{Reader: zr, file: f}, nil
}

type gzipFile struct {
	*gzip.Reader
	file *os.File
}

func (g *gzipFile) Close() error {
	zerr := g.Reader.Close()
	if err := g.file.Close(); err != nil {
		return err
	}
	return zerr
}
