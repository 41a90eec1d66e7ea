// Package hound is the data model for checking whether build artifacts
// exist in an artifact store.
//
// A raw artifact path and an [Ecosystem] resolve to an [Identity]; verifying
// an Identity against the store's candidate repositories produces a
// [Result]. The per-ecosystem rules live behind the [Strategy] interface.
package hound
