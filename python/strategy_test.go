package python

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
			Name: "Wheel",
			In:   "pypi-repo/simple/requests/requests-2.31.0-py3-none-any.whl",
			Want: hound.Coordinates{Name: "requests", Version: "2.31.0"},
		},
		{
			Name: "Sdist",
			In:   "pypi-remote/simple/django/Django-4.2.7.tar.gz",
			Want: hound.Coordinates{Name: "django", Version: "4.2.7"},
		},
		{
			Name: "NoMarker",
			In:   "pypi-local/typing_extensions/4.8.0/typing_extensions-4.8.0-py3-none-any.whl",
			Want: hound.Coordinates{Name: "typing-extensions", Version: "4.8.0"},
		},
		{
			Name: "Prerelease",
			In:   "pypi-remote/simple/numpy/numpy-1.26.0rc1-cp311-cp311-manylinux_2_17_x86_64.whl",
			Want: hound.Coordinates{Name: "numpy", Version: "1.26.0rc1"},
		},
		{
			Name: "DottedName",
			In:   "pypi-remote/simple/zope-interface/Zope.Interface-6.1.zip",
			Want: hound.Coordinates{Name: "zope-interface", Version: "6.1"},
		},
		{
			Name: "IndexTrailingSlash",
			In:   "pypi-repo/simple/requests/",
			Want: hound.Coordinates{Name: "requests", Descriptor: true},
		},
		{
			Name: "IndexNoSlash",
			In:   "pypi-repo/simple/Flask",
			Want: hound.Coordinates{Name: "flask", Descriptor: true},
		},
		{
			Name: "IndexFile",
			In:   "pypi-repo/simple/requests/index.html",
			Want: hound.Coordinates{Name: "requests", Descriptor: true},
		},
		{
			Name: "EmptyIndex",
			In:   "pypi-repo/simple/",
			Want: hound.Coordinates{},
		},
		{
			Name: "UnknownFile",
			In:   "pypi-repo/simple/requests/README.txt",
			Want: hound.Coordinates{Name: "requests"},
		},
		{
			Name: "Nothing",
			In:   "pypi-repo/packages/notes.txt",
			Want: hound.Coordinates{},
		},
		{
			Name: "Bare",
			In:   "requests-2.31.0.tar.gz",
			Want: hound.Coordinates{Name: "requests", Version: "2.31.0"},
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

func TestNormalize(t *testing.T) {
	t.Parallel()
	for in, want := range map[string]string{
		"Django":            "django",
		"typing_extensions": "typing-extensions",
		"Zope.Interface":    "zope-interface",
		"a-_.b":             "a-b",
	} {
		if got := Normalize(in); got != want {
			t.Errorf("%q: got: %q, want: %q", in, got, want)
		}
	}
}

func TestLocation(t *testing.T) {
	t.Parallel()
	var s Strategy
	id := hound.Identity{
		Coordinates: hound.Coordinates{Name: "requests", Version: "2.31.0"},
	}
	if got, want := s.Location("pypi-local", &id), "pypi-local/requests/2.31.0/"; got != want {
		t.Errorf("got: %q, want: %q", got, want)
	}
	got, ok := s.DescriptorLocation("pypi-local", &id)
	if !ok {
		t.Fatal("expected a descriptor location")
	}
	if want := "api/pypi/pypi-local/simple/requests/"; got != want {
		t.Errorf("got: %q, want: %q", got, want)
	}
}

func TestPURL(t *testing.T) {
	t.Parallel()
	var s Strategy
	got, err := s.PURL(&hound.Identity{
		Coordinates: hound.Coordinates{Name: "django", Version: "1.11.1"},
	})
	if err != nil {
		t.Fatalf("PURL: %v", err)
	}
	want := packageurl.PackageURL{Type: PURLType, Name: "django", Version: "1.11.1"}
	if diff := cmp.Diff(got, want); diff != "" {
		t.Fatalf("purl mismatch (-got +want):\n%s", diff)
	}
}
