package libhound

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/quay/claircore/toolkit/log"

	"github.com/quay/hound"
	"github.com/quay/hound/resolver"
)

// Info is the package-level detail document for a package, as served by
// the store.
type Info struct {
	// Repository is where the document was found.
	Repository string `json:"repository"`
	// Data is the store's document, verbatim.
	Data json.RawMessage `json:"data"`
}

// PackageInfo looks up the package details for a canonical package name.
//
// If "repo" is empty, the ecosystem's candidate repositories are tried in
// order and the first document found wins. Errors from individual
// repositories are logged and skipped; if no repository answers, the
// returned error has kind [hound.ErrNotFound].
func (l *Libhound) PackageInfo(ctx context.Context, e hound.Ecosystem, name, repo string) (*Info, error) {
	const op = "libhound.PackageInfo"
	ctx = log.With(ctx, "component", "libhound/Libhound.PackageInfo", "ecosystem", e, "name", name)
	s, ok := resolver.For(e)
	if !ok {
		return nil, &hound.Error{Op: op, Kind: hound.ErrInvalid, Message: "unsupported ecosystem: " + e.String()}
	}
	if name == "" || !hound.ParsePath(name).Clean() {
		return nil, &hound.Error{Op: op, Kind: hound.ErrInvalid, Message: "bad package name: " + name}
	}
	repos := []string{repo}
	if repo == "" {
		repos = l.catalog.CandidatesFor(e)
	}

	var tried []string
	for _, r := range repos {
		loc, ok := s.InfoLocation(r, name)
		if !ok {
			return nil, &hound.Error{Op: op, Kind: hound.ErrInvalid, Message: "package name not in canonical form: " + name}
		}
		tried = append(tried, r)
		data, err := l.Store.PackageInfo(ctx, loc)
		if err == nil {
			slog.InfoContext(ctx, "FOUND", "repository", r, "location", loc)
			return &Info{Repository: r, Data: data}, nil
		}
		if cause := context.Cause(ctx); cause != nil {
			return nil, cause
		}
		slog.DebugContext(ctx, "no package information",
			"repository", r,
			"location", loc,
			"reason", err)
	}
	return nil, &hound.Error{
		Op:      op,
		Kind:    hound.ErrNotFound,
		Message: "no package information for " + name + " in: " + strings.Join(tried, ", "),
	}
}
