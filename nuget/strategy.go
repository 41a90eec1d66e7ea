// Package nuget resolves and locates packages in NuGet feeds.
package nuget

import (
	"path"
	"regexp"
	"strings"

	"golang.org/x/text/cases"

	"github.com/quay/hound"
)

// IndexFile is the version listing document for a package.
const IndexFile = "index.json"

var (
	_ hound.Strategy = (*Strategy)(nil)

	// PackageFile splits "<id>.<version>" at the version suffix: three or four
	// numeric components with an optional pre-release and build part.
	//
	// The id group is greedy, so the longest id and shortest trailing
	// version wins. Ids with embedded numeric components that look like a
	// truncated version are ambiguous: "foo.1.2.3.4" splits as "foo.1" and
	// "2.3.4". This is a heuristic, not a guaranteed-correct parse.
	packageFile = regexp.MustCompile(`^(.+)\.(\d+\.\d+\.\d+(?:\.\d+)?(?:-[0-9A-Za-z][0-9A-Za-z.-]*)?(?:\+[0-9A-Za-z.-]+)?)$`)

	pkgExts = []string{".snupkg", ".nupkg"}
)

// Strategy implements [hound.Strategy] for NuGet repositories.
//
// Two shapes are understood: "repo/<id>/<version>/..." and a bare
// "<id>.<version>.nupkg" filename, optionally directly inside a repository
// or an id directory.
//
// The zero value is ready to use.
type Strategy struct{}

// Ecosystem implements [hound.Strategy].
func (*Strategy) Ecosystem() hound.Ecosystem { return hound.NuGet }

// PackageType implements [hound.Strategy].
func (*Strategy) PackageType() string { return "nuget" }

// DefaultRepositories implements [hound.Strategy].
func (*Strategy) DefaultRepositories() []string {
	return []string{"nuget-local", "nuget-remote", "nuget-virtual"}
}

// Resolve implements [hound.Strategy].
func (*Strategy) Resolve(p hound.Path) hound.Coordinates {
	file := p.Filename()
	n := p.Len()
	switch {
	case p.Bare(), n == 2:
		return SplitFilename(file)
	case file == IndexFile:
		return hound.Coordinates{Name: p.At(1), Descriptor: p.At(1) != ""}
	case n == 3 && isPackageFile(file):
		c := SplitFilename(file)
		// Prefer the directory's spelling of the id.
		if strings.EqualFold(c.Name, p.At(1)) {
			c.Name = p.At(1)
		}
		return c
	}
	if p.At(1) == "" || p.At(2) == "" {
		return hound.Coordinates{}
	}
	return hound.Coordinates{Name: p.At(1), Version: p.At(2)}
}

func isPackageFile(file string) bool {
	_, ok := trimExt(file)
	return ok
}

func trimExt(file string) (string, bool) {
	lower := strings.ToLower(file)
	for _, ext := range pkgExts {
		if strings.HasSuffix(lower, ext) {
			return file[:len(file)-len(ext)], true
		}
	}
	return file, false
}

// SplitFilename recovers the package id and version from a
// "<id>.<version>.nupkg" filename. Files that are not packages, or whose
// version cannot be found, are unresolved.
func SplitFilename(file string) hound.Coordinates {
	stem, ok := trimExt(file)
	if !ok {
		return hound.Coordinates{}
	}
	m := packageFile.FindStringSubmatch(stem)
	if m == nil {
		return hound.Coordinates{}
	}
	return hound.Coordinates{Name: m[1], Version: m[2]}
}

// Lower returns the lowercased id used by the flat container API.
func lower(id string) string { return cases.Fold().String(id) }

// DescriptorLocation implements [hound.Strategy].
func (*Strategy) DescriptorLocation(repo string, id *hound.Identity) (string, bool) {
	if id.Name == "" {
		return "", false
	}
	return path.Join("api/nuget/v3", repo, "flatcontainer", lower(id.Name), IndexFile), true
}

// Location implements [hound.Strategy].
func (*Strategy) Location(repo string, id *hound.Identity) string {
	return path.Join(repo, id.Name, id.Version)
}

// InfoLocation implements [hound.Strategy].
func (*Strategy) InfoLocation(repo, name string) (string, bool) {
	if name == "" {
		return "", false
	}
	return path.Join("api/nuget", repo, "packages", name), true
}
