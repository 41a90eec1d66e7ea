package nuget

import (
	"github.com/package-url/packageurl-go"

	"github.com/quay/hound"
)

const (
	// PURLType is the type of package URL for NuGet packages.
	PURLType = "nuget"
)

// PURL implements [hound.Strategy].
// Example: pkg:nuget/Newtonsoft.Json@13.0.3
func (*Strategy) PURL(id *hound.Identity) (packageurl.PackageURL, error) {
	return packageurl.PackageURL{
		Type:    PURLType,
		Name:    id.Name,
		Version: id.Version,
	}, nil
}
