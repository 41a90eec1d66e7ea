package maven

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/package-url/packageurl-go"

	"github.com/quay/hound"
)

func TestResolve(t *testing.T) {
	t.Parallel()
	tt := []struct {
		Name string
		In   string
		Want hound.Coordinates
	}{
		{
			Name: "Jar",
			In:   "maven-repo/org/apache/commons/commons-lang3/3.12.0/commons-lang3-3.12.0.jar",
			Want: hound.Coordinates{
				Name:    "org.apache.commons:commons-lang3",
				Version: "3.12.0",
			},
		},
		{
			Name: "Metadata",
			In:   "maven-repo/org/apache/commons/commons-lang3/maven-metadata.xml",
			Want: hound.Coordinates{
				Name:       "org.apache.commons:commons-lang3",
				Descriptor: true,
			},
		},
		{
			Name: "SingleSegmentGroup",
			In:   "libs-release/junit/junit/4.13.2/junit-4.13.2.pom",
			Want: hound.Coordinates{
				Name:    "junit:junit",
				Version: "4.13.2",
			},
		},
		{
			Name: "Snapshot",
			In:   "maven-local/com/example/app/1.0-SNAPSHOT/app-1.0-20240101.120000-1.jar",
			Want: hound.Coordinates{
				Name:    "com.example:app",
				Version: "1.0-SNAPSHOT",
			},
		},
		{
			Name: "TooShort",
			In:   "maven-repo/commons-lang3/3.12.0/commons-lang3-3.12.0.jar",
			Want: hound.Coordinates{},
		},
		{
			Name: "MetadataTooShort",
			In:   "maven-repo/maven-metadata.xml",
			Want: hound.Coordinates{Descriptor: true},
		},
		{
			Name: "EmptyGroupSegment",
			In:   "maven-repo/org//commons-lang3/3.12.0/commons-lang3-3.12.0.jar",
			Want: hound.Coordinates{},
		},
		{
			Name: "Bare",
			In:   "commons-lang3-3.12.0.jar",
			Want: hound.Coordinates{},
		},
	}
	var s Strategy
	for _, tc := range tt {
		t.Run(tc.Name, func(t *testing.T) {
			got := s.Resolve(hound.ParsePath(tc.In))
			if !cmp.Equal(got, tc.Want) {
				t.Error(cmp.Diff(got, tc.Want))
			}
		})
	}
}

func TestLocation(t *testing.T) {
	t.Parallel()
	var s Strategy
	id := hound.Identity{
		Ecosystem: hound.Maven,
		Coordinates: hound.Coordinates{
			Name:    "org.apache.commons:commons-lang3",
			Version: "3.12.0",
		},
	}
	if got, want := s.Location("maven-local", &id), "maven-local/org/apache/commons/commons-lang3/3.12.0/commons-lang3-3.12.0.pom"; got != want {
		t.Errorf("got: %q, want: %q", got, want)
	}
	got, ok := s.DescriptorLocation("maven-local", &id)
	if !ok {
		t.Fatal("expected a descriptor location")
	}
	if want := "maven-local/org/apache/commons/commons-lang3/maven-metadata.xml"; got != want {
		t.Errorf("got: %q, want: %q", got, want)
	}
	if _, ok := s.DescriptorLocation("maven-local", &hound.Identity{}); ok {
		t.Error("unexpected descriptor location for an unresolved identity")
	}
}

func TestPURL(t *testing.T) {
	t.Parallel()
	var s Strategy
	id := hound.Identity{
		Coordinates: hound.Coordinates{
			Name:    "org.slf4j:slf4j-api",
			Version: "2.0.12",
		},
	}
	got, err := s.PURL(&id)
	if err != nil {
		t.Fatalf("PURL: %v", err)
	}
	t.Logf("generated PURL: %s", got.String())
	want := packageurl.PackageURL{
		Type:      PURLType,
		Namespace: "org.slf4j",
		Name:      "slf4j-api",
		Version:   "2.0.12",
	}
	if diff := cmp.Diff(got, want); diff != "" {
		t.Fatalf("purl mismatch (-got +want):\n%s", diff)
	}

	if _, err := s.PURL(&hound.Identity{}); err == nil {
		t.Error("expected error for empty name")
	}
}
