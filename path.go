package hound

import "strings"

// Path is a repository-relative artifact path, split on "/".
//
// A Path with a single segment is "bare": it names a file without any
// repository prefix.
type Path struct {
	// Raw is the input with surrounding whitespace removed.
	Raw string
	// Segments are the "/"-separated components of Raw, with any leading
	// slashes dropped.
	Segments []string
}

// ParsePath trims and splits a raw path string.
func ParsePath(raw string) Path {
	raw = strings.TrimSpace(raw)
	return Path{
		Raw:      raw,
		Segments: strings.Split(strings.TrimLeft(raw, "/"), "/"),
	}
}

// Len reports the number of segments.
func (p Path) Len() int { return len(p.Segments) }

// At returns the segment at index i, or the empty string if i is out of
// range. Negative indexes count from the end.
func (p Path) At(i int) string {
	if i < 0 {
		i += len(p.Segments)
	}
	if i < 0 || i >= len(p.Segments) {
		return ""
	}
	return p.Segments[i]
}

// Bare reports whether the path has no repository prefix.
func (p Path) Bare() bool { return len(p.Segments) < 2 }

// Repository returns the repository hint, the first segment of a
// repository-rooted path. Bare paths have no hint.
func (p Path) Repository() string {
	if p.Bare() {
		return ""
	}
	return p.Segments[0]
}

// Filename returns the last segment, which is the whole input for a bare
// path.
func (p Path) Filename() string { return p.At(-1) }

// RootedAt reports whether the path lives in the named repository. A path
// with dot segments is never rooted, since joining it onto a URL could leave
// the repository.
func (p Path) RootedAt(repo string) bool {
	return repo != "" && !p.Bare() && p.Segments[0] == repo && p.Clean()
}

// Clean reports whether the path has no "." or ".." segments.
func (p Path) Clean() bool {
	for _, s := range p.Segments {
		if s == "." || s == ".." {
			return false
		}
	}
	return true
}

// Rel returns the path without leading slashes, suitable for joining onto a
// base URL.
func (p Path) Rel() string { return strings.Join(p.Segments, "/") }
