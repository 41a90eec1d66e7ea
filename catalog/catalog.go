// Package catalog holds the candidate repositories for each ecosystem.
package catalog

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/quay/hound"
	"github.com/quay/hound/resolver"
)

// Catalog maps each ecosystem to an ordered, duplicate-free list of
// candidate repository keys.
//
// A Catalog is seeded at construction and may be refreshed exactly once from
// the store's live listing. After that it is read-only and safe for
// concurrent use.
type Catalog struct {
	once  sync.Once
	types map[hound.Ecosystem]string
	m     map[hound.Ecosystem][]string
}

// New returns a Catalog seeded with the default repositories of every
// ecosystem, with any entries in "overrides" replacing the default for that
// ecosystem.
func New(overrides map[hound.Ecosystem][]string) *Catalog {
	c := Catalog{
		types: resolver.PackageTypes(),
		m:     resolver.Defaults(),
	}
	for e, keys := range overrides {
		c.m[e] = keys
	}
	for e, keys := range c.m {
		c.m[e] = dedupe(keys)
	}
	return &c
}

// Dedupe removes repeated and empty keys, keeping the first occurrence.
func dedupe(keys []string) []string {
	seen := make(map[string]struct{}, len(keys))
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if _, ok := seen[k]; ok || k == "" {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}

// Refresh reconciles the seed with the live repository listing.
//
// For each ecosystem: if any seeded keys exist in the listing, only those
// are kept, in seed order. Otherwise every listed repository of the
// ecosystem's package type is used, in listing order. An ecosystem with no
// matching live repositories keeps its seed.
//
// Only the first call has any effect.
func (c *Catalog) Refresh(ctx context.Context, live []hound.Repository) {
	c.once.Do(func() { c.refresh(ctx, live) })
}

func (c *Catalog) refresh(ctx context.Context, live []hound.Repository) {
	present := make(map[string]struct{}, len(live))
	byType := make(map[string][]string)
	for _, r := range live {
		present[r.Key] = struct{}{}
		t := strings.ToLower(r.PackageType)
		byType[t] = append(byType[t], r.Key)
	}

	for e, keys := range c.m {
		existing := slices.DeleteFunc(slices.Clone(keys), func(k string) bool {
			_, ok := present[k]
			return !ok
		})
		switch typed := byType[strings.ToLower(c.types[e])]; {
		case len(existing) != 0:
			c.m[e] = existing
		case len(typed) != 0:
			c.m[e] = dedupe(typed)
		}
	}

	slog.InfoContext(ctx, "updated repository mappings", "live", len(live))
	for _, e := range hound.Ecosystems {
		slog.InfoContext(ctx, "candidate repositories",
			"ecosystem", e,
			"repositories", strings.Join(c.m[e], ", "))
	}
}

// CandidatesFor returns the ordered candidate repositories for an
// ecosystem. The returned slice is a copy.
func (c *Catalog) CandidatesFor(e hound.Ecosystem) []string {
	return slices.Clone(c.m[e])
}
