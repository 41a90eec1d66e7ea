package hound

// Coordinates are the ecosystem-normalized parts of an artifact identity.
type Coordinates struct {
	// Name is the canonical package name, e.g. "group.id:artifact-id" for
	// maven or "@scope/name" for npm. Empty when unresolved.
	Name string
	// Version is the release version. Empty for descriptors and when
	// unresolved.
	Version string
	// Descriptor is set when the path names a package-level metadata or
	// index document rather than a specific release.
	Descriptor bool
}

// Identity is the result of resolving a raw path for an ecosystem.
type Identity struct {
	RawPath   string
	Ecosystem Ecosystem
	// RepositoryHint is the first path segment of a repository-rooted path.
	// Empty for bare filenames.
	RepositoryHint string
	// Filename is the last path segment, or the whole input for a bare
	// filename.
	Filename string
	Coordinates
}

// Resolved reports whether the identity carries enough information to be
// verified. Unresolved identities must never be probed.
func (id *Identity) Resolved() bool {
	switch {
	case id.Name == "":
		return false
	case id.Descriptor:
		return true
	default:
		return id.Version != ""
	}
}

// Path returns the parsed form of RawPath.
func (id *Identity) Path() Path { return ParsePath(id.RawPath) }
