// Package resolver is the single entry point for turning raw artifact paths
// into identities.
//
// Each ecosystem contributes one [hound.Strategy]; adding an ecosystem means
// adding a Strategy here and nowhere else.
package resolver

import (
	"github.com/quay/hound"
	"github.com/quay/hound/docker"
	"github.com/quay/hound/maven"
	"github.com/quay/hound/npm"
	"github.com/quay/hound/nuget"
	"github.com/quay/hound/python"
	"github.com/quay/hound/terraform"
)

var strategies = map[hound.Ecosystem]hound.Strategy{
	hound.Maven:     new(maven.Strategy),
	hound.NPM:       new(npm.Strategy),
	hound.Python:    new(python.Strategy),
	hound.NuGet:     new(nuget.Strategy),
	hound.Terraform: new(terraform.Strategy),
	hound.Docker:    new(docker.Strategy),
}

// For returns the Strategy for an ecosystem.
func For(e hound.Ecosystem) (hound.Strategy, bool) {
	s, ok := strategies[e]
	return s, ok
}

// Resolve builds the Identity for a raw path in the given ecosystem.
//
// Resolve never fails: anything that cannot be determined is left empty and
// the returned Identity reports itself as unresolved. Paths with "." or ".."
// segments are never resolved. The result is a pure
// function of the arguments.
func Resolve(raw string, e hound.Ecosystem) hound.Identity {
	p := hound.ParsePath(raw)
	id := hound.Identity{
		RawPath:        p.Raw,
		Ecosystem:      e,
		RepositoryHint: p.Repository(),
		Filename:       p.Filename(),
	}
	s, ok := strategies[e]
	if !ok || p.Raw == "" || !p.Clean() {
		return id
	}
	id.Coordinates = s.Resolve(p)
	if id.Descriptor {
		id.Version = ""
	}
	return id
}

// Defaults returns the static candidate repositories for every ecosystem.
func Defaults() map[hound.Ecosystem][]string {
	m := make(map[hound.Ecosystem][]string, len(strategies))
	for e, s := range strategies {
		m[e] = s.DefaultRepositories()
	}
	return m
}

// PackageTypes returns the store-reported package type for every ecosystem.
func PackageTypes() map[hound.Ecosystem]string {
	m := make(map[hound.Ecosystem]string, len(strategies))
	for e, s := range strategies {
		m[e] = s.PackageType()
	}
	return m
}
