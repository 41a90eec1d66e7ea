package report

import (
	"context"
	"log/slog"

	"github.com/quay/hound"
	"github.com/quay/hound/resolver"
)

// Record is the flattened form of a Result used by the structured sinks.
type Record struct {
	Run        string `json:"run,omitempty"`
	Path       string `json:"path"`
	Name       string `json:"name,omitempty"`
	Ecosystem  string `json:"ecosystem"`
	Version    string `json:"version,omitempty"`
	Descriptor bool   `json:"descriptor,omitempty"`
	PURL       string `json:"purl,omitempty"`
	Found      bool   `json:"found"`
	Repository string `json:"repository,omitempty"`
	Error      string `json:"error,omitempty"`
}

// NewRecord flattens a Result. The package URL is only filled in for
// resolved identities.
func NewRecord(ctx context.Context, run string, r *hound.Result) Record {
	id := &r.Identity
	rec := Record{
		Run:        run,
		Path:       id.RawPath,
		Name:       id.Name,
		Ecosystem:  id.Ecosystem.String(),
		Version:    id.Version,
		Descriptor: id.Descriptor,
		Found:      r.Found,
		Repository: r.Repository,
		Error:      r.Error,
	}
	if s, ok := resolver.For(id.Ecosystem); ok && id.Resolved() {
		p, err := s.PURL(id)
		if err != nil {
			slog.DebugContext(ctx, "unable to construct package URL",
				"path", id.RawPath,
				"reason", err)
		} else {
			rec.PURL = p.ToString()
		}
	}
	return rec
}
