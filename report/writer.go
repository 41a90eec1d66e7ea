package report

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/quay/hound"
)

// Format names an output encoding.
type Format string

// Supported output formats.
const (
	CSV    Format = "csv"
	JSON   Format = "jsonl"
	SQLite Format = "sqlite"
)

// Header is the first row of CSV output.
var Header = []string{"Package Path", "Package Name", "Type", "Version", "Found", "Repository", "Error"}

// Writer is a sink for verification results.
type Writer interface {
	Write(context.Context, []hound.Result) error
	Close() error
}

// FormatFor guesses the Format from a file name, defaulting to CSV. A
// trailing ".gz" is ignored.
func FormatFor(name string) Format {
	switch filepath.Ext(strings.TrimSuffix(name, ".gz")) {
	case ".json", ".jsonl", ".ndjson":
		return JSON
	case ".db", ".sqlite", ".sqlite3":
		return SQLite
	default:
		return CSV
	}
}

// Create opens the named file for results in the given Format. An empty
// Format is guessed from the name. CSV and JSON output is compressed when
// the name ends in ".gz".
//
// The run identifier is recorded by the structured formats.
func Create(ctx context.Context, name string, f Format, run string) (Writer, error) {
	const op = "report.Create"
	if f == "" {
		f = FormatFor(name)
	}
	switch f {
	case CSV, JSON:
	case SQLite:
		return OpenDB(ctx, name, run)
	default:
		return nil, &hound.Error{Op: op, Kind: hound.ErrInvalid, Message: "unknown output format: " + string(f)}
	}

	fd, err := os.Create(name)
	if err != nil {
		return nil, &hound.Error{Op: op, Kind: hound.ErrInvalid, Message: "unable to create output", Inner: err}
	}
	var w io.Writer = fd
	closers := []io.Closer{fd}
	if strings.HasSuffix(name, ".gz") {
		z := gzip.NewWriter(fd)
		w = z
		closers = []io.Closer{z, fd}
	}
	c := &fileCloser{closers: closers}
	if f == JSON {
		return &jsonWriter{enc: json.NewEncoder(w), run: run, fileCloser: c}, nil
	}
	return &csvWriter{w: csv.NewWriter(w), fileCloser: c}, nil
}

type fileCloser struct {
	closers []io.Closer
}

// Close closes every underlying closer in order, returning the first error.
func (c *fileCloser) Close() error {
	var first error
	for _, cl := range c.closers {
		if err := cl.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// NewCSV returns a Writer producing the tabular format, starting with
// [Header]. Closing it flushes but does not close "w".
func NewCSV(w io.Writer) Writer {
	return &csvWriter{w: csv.NewWriter(w), fileCloser: &fileCloser{}}
}

type csvWriter struct {
	w      *csv.Writer
	header bool
	*fileCloser
}

// Write implements [Writer].
func (w *csvWriter) Write(_ context.Context, rs []hound.Result) error {
	if !w.header {
		if err := w.w.Write(Header); err != nil {
			return err
		}
		w.header = true
	}
	for i := range rs {
		r := &rs[i]
		found := "False"
		if r.Found {
			found = "True"
		}
		row := []string{
			r.Identity.RawPath,
			r.Identity.Name,
			r.Identity.Ecosystem.String(),
			r.Identity.Version,
			found,
			r.Repository,
			r.Error,
		}
		if err := w.w.Write(row); err != nil {
			return err
		}
	}
	w.w.Flush()
	return w.w.Error()
}

// Close implements [Writer].
func (w *csvWriter) Close() error {
	if !w.header {
		w.w.Write(Header)
		w.header = true
	}
	w.w.Flush()
	if err := w.w.Error(); err != nil {
		w.fileCloser.Close()
		return err
	}
	return w.fileCloser.Close()
}

// NewJSON returns a Writer producing one JSON [Record] per line. Closing it
// does not close "w".
func NewJSON(w io.Writer, run string) Writer {
	return &jsonWriter{enc: json.NewEncoder(w), run: run, fileCloser: &fileCloser{}}
}

type jsonWriter struct {
	enc *json.Encoder
	run string
	*fileCloser
}

// Write implements [Writer].
func (w *jsonWriter) Write(ctx context.Context, rs []hound.Result) error {
	for i := range rs {
		if err := w.enc.Encode(NewRecord(ctx, w.run, &rs[i])); err != nil {
			return err
		}
	}
	return nil
}
