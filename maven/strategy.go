// Package maven resolves and locates artifacts in Maven-layout repositories.
package maven

import (
	"path"
	"slices"
	"strings"

	"github.com/quay/hound"
)

// MetadataFile is the package-level descriptor every Maven artifact
// directory carries.
const MetadataFile = "maven-metadata.xml"

var _ hound.Strategy = (*Strategy)(nil)

// Strategy implements [hound.Strategy] for Maven repositories.
//
// Paths are interpreted as "repo/<group path>/<artifactId>/<version>/<file>".
//
// The zero value is ready to use.
type Strategy struct{}

// Ecosystem implements [hound.Strategy].
func (*Strategy) Ecosystem() hound.Ecosystem { return hound.Maven }

// PackageType implements [hound.Strategy].
func (*Strategy) PackageType() string { return "maven" }

// DefaultRepositories implements [hound.Strategy].
func (*Strategy) DefaultRepositories() []string {
	return []string{"maven-local", "maven-remote", "maven-virtual", "libs-release", "maven-authorized"}
}

// Resolve implements [hound.Strategy].
func (*Strategy) Resolve(p hound.Path) hound.Coordinates {
	n := p.Len()
	if p.Filename() == MetadataFile {
		// The directory holding the descriptor is the artifact.
		if n < 4 {
			return hound.Coordinates{Descriptor: true}
		}
		return hound.Coordinates{
			Name:       coordinate(p.Segments[1:n-2], p.At(-2)),
			Descriptor: true,
		}
	}
	if n < 5 {
		return hound.Coordinates{}
	}
	c := hound.Coordinates{
		Name: coordinate(p.Segments[1:n-3], p.At(-3)),
	}
	if c.Name != "" {
		c.Version = p.At(-2)
	}
	return c
}

// Coordinate joins group path segments and an artifact id into
// "group.id:artifact-id", or returns the empty string if any part is empty.
func coordinate(group []string, artifact string) string {
	if len(group) == 0 || artifact == "" || slices.Contains(group, "") {
		return ""
	}
	return strings.Join(group, ".") + ":" + artifact
}

// Split returns the group path and artifact id of a canonical name.
func split(name string) (groupPath, artifact string, ok bool) {
	g, a, ok := strings.Cut(name, ":")
	if !ok || g == "" || a == "" {
		return "", "", false
	}
	return strings.ReplaceAll(g, ".", "/"), a, true
}

// DescriptorLocation implements [hound.Strategy].
func (*Strategy) DescriptorLocation(repo string, id *hound.Identity) (string, bool) {
	g, a, ok := split(id.Name)
	if !ok {
		return "", false
	}
	return path.Join(repo, g, a, MetadataFile), true
}

// Location implements [hound.Strategy].
//
// The POM is used rather than the jar, since every release carries one
// regardless of packaging.
func (*Strategy) Location(repo string, id *hound.Identity) string {
	g, a, _ := split(id.Name)
	return path.Join(repo, g, a, id.Version, a+"-"+id.Version+".pom")
}

// InfoLocation implements [hound.Strategy].
//
// The storage API lists the artifact directory, one child per release.
func (*Strategy) InfoLocation(repo, name string) (string, bool) {
	g, a, ok := split(name)
	if !ok {
		return "", false
	}
	return path.Join("api/storage", repo, g, a), true
}
