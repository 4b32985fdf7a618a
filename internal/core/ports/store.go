package ports

import "go.trai.ch/mast/internal/core/domain"

// ManifestStore owns the in-memory manifest and its persistence.
//
//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type ManifestStore interface {
	// Manifest returns the in-memory manifest. Mutations become durable on
	// the next Save.
	Manifest() *domain.Manifest

	// Dir returns the output directory holding the fingerprinted files.
	Dir() string

	// PathFor returns the on-disk location for a fingerprint.
	PathFor(fingerprint string) string

	// Save rewrites the whole manifest file. The write is atomic (temp file
	// plus rename) under an advisory lock.
	Save() error
}
