// Package terraform resolves and locates modules in Terraform module
// registries.
package terraform

import (
	"path"
	"strings"

	"github.com/package-url/packageurl-go"

	"github.com/quay/hound"
)

const (
	// ModulesMarker is the second segment of every module path.
	ModulesMarker = "modules"
	// PURLType is the type of package URL used for Terraform modules.
	PURLType = "terraform"
)

var _ hound.Strategy = (*Strategy)(nil)

// Strategy implements [hound.Strategy] for Terraform repositories.
//
// Only "repo/modules/<namespace>/<name>/<version>" paths resolve; anything
// shorter is unresolved.
//
// The zero value is ready to use.
type Strategy struct{}

// Ecosystem implements [hound.Strategy].
func (*Strategy) Ecosystem() hound.Ecosystem { return hound.Terraform }

// PackageType implements [hound.Strategy].
func (*Strategy) PackageType() string { return "terraform" }

// DefaultRepositories implements [hound.Strategy].
func (*Strategy) DefaultRepositories() []string {
	return []string{"terraform-local", "terraform-remote", "terraform-virtual"}
}

// Resolve implements [hound.Strategy].
func (*Strategy) Resolve(p hound.Path) hound.Coordinates {
	if p.Len() < 5 || p.At(1) != ModulesMarker {
		return hound.Coordinates{}
	}
	ns, name, v := p.At(2), p.At(3), p.At(4)
	if ns == "" || name == "" || v == "" {
		return hound.Coordinates{}
	}
	return hound.Coordinates{Name: ns + "/" + name, Version: v}
}

// DescriptorLocation implements [hound.Strategy]. Terraform has no
// package-level descriptor.
func (*Strategy) DescriptorLocation(string, *hound.Identity) (string, bool) {
	return "", false
}

// Location implements [hound.Strategy].
func (*Strategy) Location(repo string, id *hound.Identity) string {
	return path.Join(repo, ModulesMarker, id.Name, id.Version)
}

// InfoLocation implements [hound.Strategy]. Names without a namespace are
// passed through as-is.
func (*Strategy) InfoLocation(repo, name string) (string, bool) {
	if name == "" {
		return "", false
	}
	return path.Join("api/terraform", repo, ModulesMarker, name), true
}

// PURL implements [hound.Strategy].
func (*Strategy) PURL(id *hound.Identity) (packageurl.PackageURL, error) {
	ns, name, _ := strings.Cut(id.Name, "/")
	return packageurl.PackageURL{
		Type:      PURLType,
		Namespace: ns,
		Name:      name,
		Version:   id.Version,
	}, nil
}
