package python

import (
	"github.com/package-url/packageurl-go"

	"github.com/quay/hound"
)

const (
	// PURLType is the type of package URL for Python packages.
	PURLType = "pypi"
)

// PURL implements [hound.Strategy].
// Example: pkg:pypi/django@1.11.1
func (*Strategy) PURL(id *hound.Identity) (packageurl.PackageURL, error) {
	return packageurl.PackageURL{
		Type:    PURLType,
		Name:    id.Name,
		Version: id.Version,
	}, nil
}
