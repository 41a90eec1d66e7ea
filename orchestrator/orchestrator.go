// Package orchestrator runs verification over a batch of identities with a
// bounded pool of workers.
package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/quay/claircore/toolkit/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/quay/hound"
	"github.com/quay/hound/verifier"
)

// DefaultWorkers is the pool size used when none is configured.
const DefaultWorkers = 10

// Verifier produces the Result for one identity. Implementations must be
// safe for concurrent use.
type Verifier interface {
	Verify(context.Context, *hound.Identity) hound.Result
}

// Orchestrator fans a batch of identities out to a Verifier.
type Orchestrator struct {
	v       Verifier
	workers int
}

// New returns an Orchestrator running at most "workers" verifications at
// once.
func New(ctx context.Context, v Verifier, workers int) *Orchestrator {
	if workers < 1 {
		slog.WarnContext(ctx, "rectifying nonsense 'workers' argument",
			"value", workers,
			"default", DefaultWorkers)
		workers = DefaultWorkers
	}
	return &Orchestrator{v: v, workers: workers}
}

// Run verifies every identity and returns one Result per identity, at the
// same index.
//
// A task that panics is recorded as a failed Result and its siblings keep
// going. Cancellation is not per task: once the Context is canceled, the
// remaining tasks return without probing and the batch as a whole is void.
// Callers must check the Context before using the Results of a canceled
// batch.
func (o *Orchestrator) Run(ctx context.Context, ids []hound.Identity) []hound.Result {
	ctx, span := tracer.Start(ctx, "Run", trace.WithAttributes(
		attribute.Int("hound.batch.size", len(ids)),
		attribute.Int("hound.batch.workers", o.workers),
	))
	defer span.End()
	ctx = log.With(ctx, "component", "orchestrator/Orchestrator.Run")
	slog.InfoContext(ctx, "verification start", "count", len(ids), "workers", o.workers)
	start := time.Now()

	out := make([]hound.Result, len(ids))
	var g errgroup.Group
	g.SetLimit(o.workers)
	for i := range ids {
		g.Go(func() error {
			out[i] = o.task(ctx, &ids[i])
			return nil
		})
	}
	g.Wait()

	var found int
	for i := range out {
		if out[i].Found {
			found++
		}
	}
	span.SetAttributes(attribute.Int("hound.batch.found", found))
	slog.InfoContext(ctx, "verification done",
		"count", len(out),
		"found", found,
		"elapsed", time.Since(start))
	return out
}

// Task runs one verification, converting a panic or cancellation into a
// failed Result.
func (o *Orchestrator) task(ctx context.Context, id *hound.Identity) (res hound.Result) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		taskFaults.Inc()
		slog.ErrorContext(ctx, "verification task panicked",
			"path", id.RawPath,
			"ecosystem", id.Ecosystem,
			"panic", r,
			"stack", string(debug.Stack()))
		res = hound.Result{
			Identity: *id,
			Error:    fmt.Sprintf("internal error: %v", r),
		}
	}()
	if err := context.Cause(ctx); err != nil {
		return hound.Result{Identity: *id, Error: verifier.CanceledMessage + ": " + err.Error()}
	}
	return o.v.Verify(ctx, id)
}
