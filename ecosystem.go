package hound

import (
	"fmt"
	"strings"

	"github.com/package-url/packageurl-go"
)

// Ecosystem names one of the supported package-hosting conventions.
type Ecosystem string

// The closed set of ecosystems.
const (
	Maven     Ecosystem = "maven"
	NPM       Ecosystem = "npm"
	Python    Ecosystem = "python"
	NuGet     Ecosystem = "nuget"
	Terraform Ecosystem = "terraform"
	Docker    Ecosystem = "docker"
)

// Ecosystems lists every supported ecosystem, in a stable order.
var Ecosystems = []Ecosystem{Python, NPM, Maven, NuGet, Terraform, Docker}

// ParseEcosystem maps an ecosystem tag, as found in input files, to an
// Ecosystem. Tags are compared after trimming and lowercasing.
func ParseEcosystem(tag string) (Ecosystem, error) {
	e := Ecosystem(strings.ToLower(strings.TrimSpace(tag)))
	if !e.Valid() {
		return "", &Error{
			Kind:    ErrInvalid,
			Op:      "ParseEcosystem",
			Message: fmt.Sprintf("unsupported package type %q", tag),
		}
	}
	return e, nil
}

// Valid reports whether the Ecosystem is a member of the closed set.
func (e Ecosystem) Valid() bool {
	switch e {
	case Maven, NPM, Python, NuGet, Terraform, Docker:
		return true
	}
	return false
}

// String implements [fmt.Stringer].
func (e Ecosystem) String() string { return string(e) }

// Strategy is the per-ecosystem resolution and location logic.
//
// Every Ecosystem has exactly one Strategy; see the resolver package for the
// registry.
type Strategy interface {
	// Ecosystem reports which ecosystem this Strategy handles.
	Ecosystem() Ecosystem
	// PackageType is the package type the artifact store reports for
	// repositories of this ecosystem.
	PackageType() string
	// DefaultRepositories is the static candidate seed.
	DefaultRepositories() []string
	// Resolve derives the coordinates from a path. It must be a pure
	// function and must not panic on malformed input; unresolvable parts
	// are left empty.
	Resolve(Path) Coordinates
	// DescriptorLocation reports the fixed location of the package-level
	// metadata descriptor in the named repository, if the ecosystem has one.
	DescriptorLocation(repo string, id *Identity) (string, bool)
	// Location synthesizes the canonical location of a specific release in
	// the named repository.
	Location(repo string, id *Identity) string
	// InfoLocation reports the store API location of the package-level
	// details for a canonical name in the named repository. It reports false
	// if the name is not in the ecosystem's canonical form.
	InfoLocation(repo, name string) (string, bool)
	// PURL returns the package URL for the identity.
	PURL(id *Identity) (packageurl.PackageURL, error)
}
