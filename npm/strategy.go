// Package npm resolves and locates packages in npm registries.
package npm

import (
	"path"
	"strings"

	"github.com/Masterminds/semver"

	"github.com/quay/hound"
)

// ManifestFile is the package manifest, which names a package but not a
// release.
const ManifestFile = "package.json"

var _ hound.Strategy = (*Strategy)(nil)

// Strategy implements [hound.Strategy] for npm repositories.
//
// Paths are interpreted as "repo/<name>/..." or "repo/@scope/<name>/...",
// where the version is either the segment following the name or embedded in
// a "<name>-<version>.tgz" tarball.
//
// The zero value is ready to use.
type Strategy struct{}

// Ecosystem implements [hound.Strategy].
func (*Strategy) Ecosystem() hound.Ecosystem { return hound.NPM }

// PackageType implements [hound.Strategy].
func (*Strategy) PackageType() string { return "npm" }

// DefaultRepositories implements [hound.Strategy].
func (*Strategy) DefaultRepositories() []string {
	return []string{"npm-local", "npm-remote", "npm-virtual"}
}

// Resolve implements [hound.Strategy].
func (*Strategy) Resolve(p hound.Path) hound.Coordinates {
	if p.Bare() {
		return hound.Coordinates{}
	}
	segs := p.Segments[1:]
	var name string
	var rest []string
	switch {
	case strings.HasPrefix(segs[0], "@"):
		if len(segs) < 2 || segs[0] == "@" || segs[1] == "" {
			return hound.Coordinates{}
		}
		name, rest = segs[0]+"/"+segs[1], segs[2:]
	case segs[0] == "":
		return hound.Coordinates{}
	default:
		name, rest = segs[0], segs[1:]
	}

	c := hound.Coordinates{Name: name}
	if len(rest) == 0 {
		return c
	}
	file := p.Filename()
	switch {
	case file == ManifestFile:
		c.Descriptor = true
	case looksLikeVersion(rest[0]):
		c.Version = rest[0]
	case isTarball(file):
		c.Version = tarballVersion(name, file)
	}
	return c
}

// LooksLikeVersion reports whether the segment parses as a semantic
// version. Registries never use a "v" prefix, so one is not accepted.
func looksLikeVersion(s string) bool {
	if s == "" || s[0] < '0' || s[0] > '9' {
		return false
	}
	_, err := semver.NewVersion(s)
	return err == nil
}

var tarballExts = []string{".tgz", ".tar.gz"}

func isTarball(file string) bool {
	for _, ext := range tarballExts {
		if strings.HasSuffix(file, ext) {
			return true
		}
	}
	return false
}

// TarballVersion extracts the version from "<base>-<version>.tgz", where base
// is the unscoped package name. The match is anchored on the package name so
// a hyphenated token elsewhere in the filename is never mistaken for the
// version.
func tarballVersion(name, file string) string {
	rest, ok := strings.CutPrefix(file, basename(name)+"-")
	if !ok {
		return ""
	}
	for _, ext := range tarballExts {
		if v, ok := strings.CutSuffix(rest, ext); ok {
			if looksLikeVersion(v) {
				return v
			}
			return ""
		}
	}
	return ""
}

// Basename returns the unscoped part of a package name.
func basename(name string) string {
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		return name[i+1:]
	}
	return name
}

// DescriptorLocation implements [hound.Strategy].
//
// The registry API serves the package document for every version.
func (*Strategy) DescriptorLocation(repo string, id *hound.Identity) (string, bool) {
	if id.Name == "" {
		return "", false
	}
	return path.Join("api/npm", repo, id.Name), true
}

// Location implements [hound.Strategy].
func (*Strategy) Location(repo string, id *hound.Identity) string {
	return path.Join(repo, id.Name, "-", basename(id.Name)+"-"+id.Version+".tgz")
}

// InfoLocation implements [hound.Strategy]. It is the same registry document
// as the descriptor.
func (*Strategy) InfoLocation(repo, name string) (string, bool) {
	if name == "" {
		return "", false
	}
	return path.Join("api/npm", repo, name), true
}
