package hound

import (
	"errors"
	"testing"
)

func TestParseEcosystem(t *testing.T) {
	t.Parallel()
	for in, want := range map[string]Ecosystem{
		"maven":     Maven,
		" NPM ":     NPM,
		"Python":    Python,
		"nuget":     NuGet,
		"TERRAFORM": Terraform,
		"docker\t":  Docker,
	} {
		got, err := ParseEcosystem(in)
		if err != nil {
			t.Errorf("%q: %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("%q: got: %q, want: %q", in, got, want)
		}
	}
	for _, in := range []string{"", "cargo", "pypi", "maven2"} {
		_, err := ParseEcosystem(in)
		if !errors.Is(err, ErrInvalid) {
			t.Errorf("%q: got: %v, want: %v", in, err, ErrInvalid)
		}
	}
}

func TestEcosystems(t *testing.T) {
	t.Parallel()
	seen := make(map[Ecosystem]bool)
	for _, e := range Ecosystems {
		if !e.Valid() {
			t.Errorf("%q: not valid", e)
		}
		if seen[e] {
			t.Errorf("%q: listed twice", e)
		}
		seen[e] = true
	}
	if len(seen) != 6 {
		t.Errorf("got %d ecosystems, want 6", len(seen))
	}
}

func TestResolved(t *testing.T) {
	t.Parallel()
	tt := []struct {
		Coordinates
		Want bool
	}{
		{Coordinates{}, false},
		{Coordinates{Name: "a"}, false},
		{Coordinates{Version: "1"}, false},
		{Coordinates{Name: "a", Version: "1"}, true},
		{Coordinates{Name: "a", Descriptor: true}, true},
		{Coordinates{Descriptor: true}, false},
	}
	for _, tc := range tt {
		id := Identity{Coordinates: tc.Coordinates}
		if got := id.Resolved(); got != tc.Want {
			t.Errorf("%+v: got: %v, want: %v", tc.Coordinates, got, tc.Want)
		}
	}
}
