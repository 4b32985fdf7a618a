package ports

import (
	"context"

	"go.trai.ch/mast/internal/core/domain"
)

// Mismatch reports one tracked file whose on-disk content disagrees with
// the manifest.
type Mismatch struct {
	Fingerprint string
	Want        string
	Got         string
	Missing     bool
}

// Verifier checks tracked files against their recorded digests.
//
//go:generate go run go.uber.org/mock/mockgen -source=verifier.go -destination=mocks/mock_verifier.go -package=mocks
type Verifier interface {
	// Verify recomputes the digest of every given file under dir and
	// returns the entries that are missing or changed.
	Verify(ctx context.Context, dir string, files map[string]domain.FileRecord) ([]Mismatch, error)
}
