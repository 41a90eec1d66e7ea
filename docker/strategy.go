// Package docker resolves and locates images in Docker registries backed by
// the artifact store's repository layout.
package docker

import (
	"path"
	"slices"
	"strings"

	"github.com/package-url/packageurl-go"

	"github.com/quay/hound"
)

const (
	// Latest is the tag assumed when the path carries none.
	Latest = "latest"
	// UploadsMarker marks in-progress blob uploads, which are untagged.
	UploadsMarker = "_uploads"
	// ManifestFile is the manifest stored under every tag directory.
	ManifestFile = "manifest.json"
	// PURLType is the type of package URL for Docker images.
	PURLType = "docker"
)

var _ hound.Strategy = (*Strategy)(nil)

// Strategy implements [hound.Strategy] for Docker repositories.
//
// Paths are interpreted as "repo/<namespace>/<image>/<tag>/...". The tag
// always comes from the fourth segment, never from the file at the end of
// the path, which is usually a digest-named blob or manifest.
//
// The zero value is ready to use.
type Strategy struct{}

// Ecosystem implements [hound.Strategy].
func (*Strategy) Ecosystem() hound.Ecosystem { return hound.Docker }

// PackageType implements [hound.Strategy].
func (*Strategy) PackageType() string { return "docker" }

// DefaultRepositories implements [hound.Strategy].
func (*Strategy) DefaultRepositories() []string {
	return []string{"docker-local", "docker-remote", "docker-virtual"}
}

// Resolve implements [hound.Strategy].
func (*Strategy) Resolve(p hound.Path) hound.Coordinates {
	if p.Len() < 3 || p.At(1) == "" || p.At(2) == "" {
		return hound.Coordinates{}
	}
	c := hound.Coordinates{Name: p.At(1) + "/" + p.At(2)}
	switch tag := p.At(3); {
	case slices.Contains(p.Segments, UploadsMarker):
		c.Version = Latest
	case p.Len() >= 4 && !internal(tag):
		c.Version = tag
	default:
		c.Version = Latest
	}
	return c
}

// Internal reports whether a segment is a store-internal marker rather than
// a tag. Tags may not begin with "_" or ".".
func internal(seg string) bool {
	return seg == "" || strings.HasPrefix(seg, "_") || strings.HasPrefix(seg, ".")
}

// DescriptorLocation implements [hound.Strategy]. Docker has no
// package-level descriptor.
func (*Strategy) DescriptorLocation(string, *hound.Identity) (string, bool) {
	return "", false
}

// Location implements [hound.Strategy].
func (*Strategy) Location(repo string, id *hound.Identity) string {
	return path.Join(repo, id.Name, id.Version, ManifestFile)
}

// InfoLocation implements [hound.Strategy]. It lists the image's tags.
func (*Strategy) InfoLocation(repo, name string) (string, bool) {
	if name == "" {
		return "", false
	}
	return path.Join("api/docker", repo, name, "tags"), true
}

// PURL implements [hound.Strategy].
// Example: pkg:docker/bitnami/nginx@1.25.3
func (*Strategy) PURL(id *hound.Identity) (packageurl.PackageURL, error) {
	ns, name, _ := strings.Cut(id.Name, "/")
	return packageurl.PackageURL{
		Type:      PURLType,
		Namespace: ns,
		Name:      name,
		Version:   id.Version,
	}, nil
}
