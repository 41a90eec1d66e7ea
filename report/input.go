// Package report reads artifact lists and writes verification results.
package report

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/quay/hound"
)

// Entry is one row of an input list.
type Entry struct {
	Path      string
	Ecosystem hound.Ecosystem
}

// ReadFile reads the named input list. Files ending in ".gz" are
// decompressed.
func ReadFile(ctx context.Context, name string) ([]Entry, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, &hound.Error{Op: "report.ReadFile", Kind: hound.ErrInvalid, Message: "unable to open input", Inner: err}
	}
	defer f.Close()
	var r io.Reader = f
	if strings.HasSuffix(name, ".gz") {
		z, err := gzip.NewReader(f)
		if err != nil {
			return nil, &hound.Error{Op: "report.ReadFile", Kind: hound.ErrInvalid, Message: "unable to decompress input", Inner: err}
		}
		defer z.Close()
		r = z
	}
	return Read(ctx, r)
}

// Read parses a CSV artifact list.
//
// The first row is a header and must have at least two columns. Each
// following row holds a path and an ecosystem tag; extra columns are
// ignored. Rows with fewer than two columns are skipped, as are rows naming
// an unsupported ecosystem.
func Read(ctx context.Context, r io.Reader) ([]Entry, error) {
	const op = "report.Read"
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	header, err := cr.Read()
	switch {
	case errors.Is(err, io.EOF):
		return nil, &hound.Error{Op: op, Kind: hound.ErrInvalid, Message: "empty input: missing header"}
	case err != nil:
		return nil, &hound.Error{Op: op, Kind: hound.ErrInvalid, Message: "unable to read header", Inner: err}
	case len(header) < 2:
		return nil, &hound.Error{
			Op:      op,
			Kind:    hound.ErrInvalid,
			Message: "invalid header: expected at least two columns: package path and package type",
		}
	}

	var out []Entry
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &hound.Error{Op: op, Kind: hound.ErrInvalid, Message: "unable to read row", Inner: err}
		}
		if len(row) < 2 {
			line, _ := cr.FieldPos(0)
			slog.DebugContext(ctx, "skipping short row", "line", line)
			continue
		}
		path := strings.TrimSpace(row[0])
		e, err := hound.ParseEcosystem(row[1])
		if err != nil {
			slog.WarnContext(ctx, "skipping row",
				"path", path,
				"type", strings.TrimSpace(row[1]),
				"reason", err)
			continue
		}
		out = append(out, Entry{Path: path, Ecosystem: e})
	}
	slog.InfoContext(ctx, "loaded artifact list", "count", len(out))
	return out, nil
}

