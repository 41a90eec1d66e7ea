// Package libhound runs verification end to end: connectivity check,
// catalog refresh, resolution, and verification.
package libhound

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/quay/claircore/toolkit/log"

	"github.com/quay/hound"
	"github.com/quay/hound/catalog"
	"github.com/quay/hound/orchestrator"
	"github.com/quay/hound/report"
	"github.com/quay/hound/resolver"
	"github.com/quay/hound/verifier"
)

// Setup failures. Errors returned by [New] wrap one of these.
var (
	ErrConnect = errors.New("unable to connect to artifact store")
	ErrCatalog = errors.New("unable to build repository catalog")
)

// Libhound verifies artifact lists against one store.
//
// The catalog is refreshed once in [New]; after that a Libhound is
// read-only and may verify any number of batches concurrently.
type Libhound struct {
	*Options
	catalog *catalog.Catalog
	orch    *orchestrator.Orchestrator
}

// New checks connectivity, then builds the repository catalog from the
// store's live listing. Verification cannot start until both succeed.
func New(ctx context.Context, opts *Options) (*Libhound, error) {
	ctx = log.With(ctx, "component", "libhound/New")
	if opts.Store == nil {
		return nil, &hound.Error{Op: "libhound.New", Kind: hound.ErrInvalid, Message: "field Store cannot be nil"}
	}
	if opts.Workers == 0 {
		opts.Workers = DefaultWorkers
	}

	if err := opts.Store.Ping(ctx); err != nil {
		return nil, errors.Join(ErrConnect, err)
	}
	live, err := opts.Store.Repositories(ctx)
	if err != nil {
		return nil, errors.Join(ErrCatalog, err)
	}
	if len(live) == 0 {
		return nil, errors.Join(ErrCatalog, &hound.Error{
			Op:      "libhound.New",
			Kind:    hound.ErrPrecondition,
			Message: "store reported no repositories",
		})
	}
	c := catalog.New(opts.Repositories)
	c.Refresh(ctx, live)

	l := &Libhound{
		Options: opts,
		catalog: c,
	}
	l.orch = orchestrator.New(ctx, verifier.New(opts.Store, c), opts.Workers)
	return l, nil
}

// CandidatesFor reports the refreshed candidate repositories for an
// ecosystem.
func (l *Libhound) CandidatesFor(e hound.Ecosystem) []string {
	return l.catalog.CandidatesFor(e)
}

// Verify resolves and verifies every entry, returning one Result per entry
// in the same order.
func (l *Libhound) Verify(ctx context.Context, entries []report.Entry) []hound.Result {
	ids := make([]hound.Identity, len(entries))
	for i, e := range entries {
		ids[i] = resolver.Resolve(e.Path, e.Ecosystem)
	}
	return l.orch.Run(ctx, ids)
}

// Summary describes a finished run.
type Summary struct {
	Run   uuid.UUID
	Total int
	Found int
}

// Run reads the input list, verifies it, and writes the results. If the
// Context is canceled before verification finishes, Run writes nothing and
// returns the cause.
func Run(ctx context.Context, opts *Options, input, output string, format report.Format) (*Summary, error) {
	s := Summary{Run: uuid.New()}
	ctx = log.With(ctx, "run", s.Run.String())

	entries, err := report.ReadFile(ctx, input)
	if err != nil {
		return nil, err
	}
	l, err := New(ctx, opts)
	if err != nil {
		return nil, err
	}
	results := l.Verify(ctx, entries)
	// A canceled batch is incomplete, so nothing is written.
	if err := context.Cause(ctx); err != nil {
		return nil, &hound.Error{Op: "libhound.Run", Kind: hound.ErrTransient, Message: "run canceled", Inner: err}
	}

	w, err := report.Create(ctx, output, format, s.Run.String())
	if err != nil {
		return nil, err
	}
	if err := w.Write(ctx, results); err != nil {
		w.Close()
		return nil, &hound.Error{Op: "libhound.Run", Kind: hound.ErrInternal, Message: "unable to write results", Inner: err}
	}
	if err := w.Close(); err != nil {
		return nil, &hound.Error{Op: "libhound.Run", Kind: hound.ErrInternal, Message: "unable to write results", Inner: err}
	}

	s.Total = len(results)
	for i := range results {
		if results[i].Found {
			s.Found++
		}
	}
	slog.InfoContext(ctx, "results written",
		"output", output,
		"total", s.Total,
		"found", s.Found)
	return &s, nil
}
