// Package verifier decides whether a resolved artifact exists in any of its
// candidate repositories.
package verifier

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/quay/claircore/toolkit/log"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/quay/hound"
	"github.com/quay/hound/resolver"
)

// UnresolvedMessage is the Result error for identities that lack a name or
// version.
const UnresolvedMessage = "unable to extract package name or version from path"

// CanceledMessage starts the Result error for a verification cut short by
// cancellation. Such a Result says nothing about the artifact.
const CanceledMessage = "verification canceled"

// Prober checks whether an object exists at a store-relative path.
//
// Exists returns nil when the object exists. Any error is treated as a miss.
type Prober interface {
	Exists(ctx context.Context, path string) error
}

// Candidates provides the ordered candidate repositories for an ecosystem.
type Candidates interface {
	CandidatesFor(hound.Ecosystem) []string
}

// Verifier probes candidate repositories in order and reports the first
// one holding the artifact.
//
// A Verifier holds no mutable state and is safe for concurrent use.
type Verifier struct {
	prober  Prober
	catalog Candidates
}

// New returns a Verifier using the provided Prober and candidate source. The
// candidate source must not change once verification starts.
func New(p Prober, c Candidates) *Verifier {
	return &Verifier{prober: p, catalog: c}
}

// Verify produces the Result for one identity.
//
// Probing is sequential and stops at the first success. An unresolved
// identity is never probed. If the Context is canceled, probing stops and
// the Result error starts with [CanceledMessage].
func (v *Verifier) Verify(ctx context.Context, id *hound.Identity) (res hound.Result) {
	ctx = log.With(ctx, "path", id.RawPath, "ecosystem", id.Ecosystem)
	ctx, span := tracer.Start(ctx, "Verify", trace.WithAttributes(
		pathKey.String(id.RawPath),
		ecosystemKey.String(id.Ecosystem.String()),
		nameKey.String(id.Name),
		versionKey.String(id.Version),
	))
	defer func() {
		span.SetAttributes(foundKey.Bool(res.Found), repositoryKey.String(res.Repository))
		if res.Error != "" && !res.Found {
			span.SetStatus(codes.Error, res.Error)
		}
		span.End()
		resultCounter.WithLabelValues(id.Ecosystem.String(), strconv.FormatBool(res.Found)).Inc()
	}()

	res.Identity = *id
	s, ok := resolver.For(id.Ecosystem)
	switch {
	case !ok:
		res.Error = "unsupported ecosystem: " + id.Ecosystem.String()
		return res
	case !id.Resolved():
		res.Error = UnresolvedMessage
		slog.WarnContext(ctx, "NOT FOUND", "reason", res.Error)
		return res
	}

	tried := Order(id.RepositoryHint, v.catalog.CandidatesFor(id.Ecosystem))
	if len(tried) == 0 {
		res.Error = "no candidate repositories for " + id.Ecosystem.String()
		slog.WarnContext(ctx, "NOT FOUND", "reason", res.Error)
		return res
	}
	for _, repo := range tried {
		loc := Location(s, repo, id)
		err := v.probe(ctx, id.Ecosystem, loc)
		if err == nil {
			res.Found = true
			res.Repository = repo
			slog.InfoContext(ctx, "FOUND", "repository", repo, "location", loc)
			return res
		}
		// A probe failing because the run is over is not a miss.
		if cause := context.Cause(ctx); cause != nil {
			res.Error = CanceledMessage + ": " + cause.Error()
			slog.DebugContext(ctx, "verification canceled", "repository", repo)
			return res
		}
		slog.DebugContext(ctx, "probe missed",
			"repository", repo,
			"location", loc,
			"reason", err)
	}
	res.Error = "not found in: " + strings.Join(tried, ", ")
	slog.InfoContext(ctx, "NOT FOUND", "reason", res.Error)
	return res
}

func (v *Verifier) probe(ctx context.Context, e hound.Ecosystem, loc string) error {
	start := time.Now()
	err := v.prober.Exists(ctx, loc)
	probeDuration.WithLabelValues(e.String()).Observe(time.Since(start).Seconds())
	var result string
	switch {
	case err == nil:
		result = "hit"
	case errors.Is(err, hound.ErrNotFound):
		result = "miss"
	default:
		result = "error"
	}
	probeCounter.WithLabelValues(e.String(), result).Inc()
	return err
}

// Order returns the probe order: the hint, if any, followed by the
// candidates in order, without duplicates.
func Order(hint string, candidates []string) []string {
	out := make([]string, 0, len(candidates)+1)
	seen := make(map[string]struct{}, len(candidates)+1)
	add := func(k string) {
		if _, ok := seen[k]; ok || k == "" {
			return
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	add(hint)
	for _, c := range candidates {
		add(c)
	}
	return out
}

// Location picks what to probe in a repository: the package descriptor's
// fixed location for descriptors, the raw path when it is already rooted in
// the repository, and otherwise the ecosystem's canonical location.
func Location(s hound.Strategy, repo string, id *hound.Identity) string {
	if id.Descriptor {
		if loc, ok := s.DescriptorLocation(repo, id); ok {
			return loc
		}
	}
	if p := id.Path(); p.RootedAt(repo) {
		return p.Rel()
	}
	return s.Location(repo, id)
}
