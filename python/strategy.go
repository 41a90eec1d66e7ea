// Package python resolves and locates distributions in PyPI-style
// repositories.
package python

import (
	"path"
	"regexp"
	"strings"

	"golang.org/x/text/cases"

	"github.com/quay/hound"
)

const (
	// IndexMarker is the path segment preceding the package name in simple
	// index paths.
	IndexMarker = "simple"
	// IndexFile is the listing page for a package.
	IndexFile = "index.html"
)

var (
	_ hound.Strategy = (*Strategy)(nil)

	// NamePrefix captures a distribution name: everything before the first
	// hyphen followed by a digit.
	namePrefix = regexp.MustCompile(`^(.+?)-\d`)
	// VersionPart captures the first digit-led, hyphen-delimited token.
	versionPart = regexp.MustCompile(`-(\d[.\w]*)`)
	// Separators are collapsed by name normalization.
	separators = regexp.MustCompile(`[-_.]+`)
)

// Distribution file extensions, longest first so ".tar.gz" wins over ".gz".
var distExts = []string{".tar.bz2", ".tar.gz", ".whl", ".zip", ".egg", ".tgz"}

// Strategy implements [hound.Strategy] for PyPI repositories.
//
// Names are normalized as described in PEP 503.
//
// The zero value is ready to use.
type Strategy struct{}

// Ecosystem implements [hound.Strategy].
func (*Strategy) Ecosystem() hound.Ecosystem { return hound.Python }

// PackageType implements [hound.Strategy].
func (*Strategy) PackageType() string { return "pypi" }

// DefaultRepositories implements [hound.Strategy].
func (*Strategy) DefaultRepositories() []string {
	return []string{"pypi-local", "pypi-remote", "pypi-virtual"}
}

// Resolve implements [hound.Strategy].
func (*Strategy) Resolve(p hound.Path) hound.Coordinates {
	var c hound.Coordinates
	file := p.Filename()
	stem, dist := trimDist(file)
	n := p.Len()
	for i := 1; i < n-1; i++ {
		if p.Segments[i] != IndexMarker {
			continue
		}
		c.Name = Normalize(p.Segments[i+1])
		// The package's listing page: the path ends at the package, with or
		// without a trailing slash or explicit index file.
		if !dist && (i+1 == n-1 || (i+2 == n-1 && (file == "" || file == IndexFile))) {
			c.Descriptor = c.Name != ""
			return c
		}
		break
	}
	if !dist {
		if c.Name == "" {
			return hound.Coordinates{}
		}
		return c
	}
	if m := namePrefix.FindStringSubmatch(stem); m != nil {
		c.Name = Normalize(m[1])
	}
	if m := versionPart.FindStringSubmatch(stem); m != nil && c.Name != "" {
		c.Version = m[1]
	}
	return c
}

// TrimDist removes a distribution extension, reporting whether one was
// present.
func trimDist(file string) (string, bool) {
	for _, ext := range distExts {
		if stem, ok := strings.CutSuffix(file, ext); ok && stem != "" {
			return stem, true
		}
	}
	return file, false
}

// Normalize returns the PEP 503 normalized form of a project name.
//
// A Caser is stateful, so one is constructed per call.
func Normalize(name string) string {
	return cases.Fold().String(separators.ReplaceAllString(name, "-"))
}

// DescriptorLocation implements [hound.Strategy].
func (*Strategy) DescriptorLocation(repo string, id *hound.Identity) (string, bool) {
	if id.Name == "" {
		return "", false
	}
	return path.Join("api/pypi", repo, IndexMarker, id.Name) + "/", true
}

// Location implements [hound.Strategy].
func (*Strategy) Location(repo string, id *hound.Identity) string {
	return path.Join(repo, id.Name, id.Version) + "/"
}

// InfoLocation implements [hound.Strategy].
func (*Strategy) InfoLocation(repo, name string) (string, bool) {
	if name == "" {
		return "", false
	}
	return path.Join("api/pypi", repo, IndexMarker, Normalize(name)), true
}
