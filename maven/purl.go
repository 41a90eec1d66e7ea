package maven

import (
	"fmt"
	"strings"

	"github.com/package-url/packageurl-go"

	"github.com/quay/hound"
)

const (
	// PURLType is the type of package URL for Maven packages.
	PURLType = "maven"
)

// PURL implements [hound.Strategy].
//
// The PURL examples show that the group ID is used as the namespace for
// Maven PURLs, so split the canonical name on the colon.
// https://github.com/package-url/purl-spec?tab=readme-ov-file#some-purl-examples
func (*Strategy) PURL(id *hound.Identity) (packageurl.PackageURL, error) {
	group, artifact, ok := strings.Cut(id.Name, ":")
	if !ok || group == "" || artifact == "" {
		return packageurl.PackageURL{}, fmt.Errorf("maven: invalid package name: %q", id.Name)
	}
	return packageurl.PackageURL{
		Type:      PURLType,
		Namespace: group,
		Name:      artifact,
		Version:   id.Version,
	}, nil
}
