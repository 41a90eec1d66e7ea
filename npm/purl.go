package npm

import (
	"strings"

	"github.com/package-url/packageurl-go"

	"github.com/quay/hound"
)

const (
	// PURLType is the type of package URL for npm packages.
	PURLType = "npm"
)

// PURL implements [hound.Strategy].
// Example: pkg:npm/%40angular/core@15.2.0
func (*Strategy) PURL(id *hound.Identity) (packageurl.PackageURL, error) {
	p := packageurl.PackageURL{
		Type:    PURLType,
		Name:    id.Name,
		Version: id.Version,
	}
	if scope, name, ok := strings.Cut(id.Name, "/"); ok {
		p.Namespace, p.Name = scope, name
	}
	return p, nil
}
