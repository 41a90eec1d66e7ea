package hound

// Repository is an entry in the artifact store's live repository listing.
type Repository struct {
	// Key is the repository key, used as the first path segment of every
	// artifact stored in it.
	Key string `json:"key"`
	// PackageType is the store-reported package type, e.g. "Maven" or
	// "Pypi". Comparisons against it are case-insensitive.
	PackageType string `json:"packageType"`
	// Type is the repository class: local, remote, virtual, or federated.
	Type string `json:"type,omitempty"`
	URL  string `json:"url,omitempty"`
}
