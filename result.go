package hound

// Result is the outcome of verifying one Identity.
//
// Exactly one Result is produced per verified Identity.
type Result struct {
	Identity Identity
	Found    bool
	// Repository is the repository the artifact was found in.
	Repository string
	// Error explains a negative result. It is empty on success.
	Error string
}
