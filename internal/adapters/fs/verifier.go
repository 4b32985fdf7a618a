package fs

import (
	"context"
	"errors"
	iofs "io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"

	"go.trai.ch/mast/internal/core/domain"
	"go.trai.ch/mast/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

var _ ports.Verifier = (*Verifier)(nil)

// Verifier checks tracked files against their recorded digests.
type Verifier struct {
	hasher *Hasher
}

// NewVerifier creates a new Verifier.
func NewVerifier() *Verifier {
	return &Verifier{hasher: NewHasher()}
}

// Verify recomputes the digest of every given file under dir. Missing or
// changed entries are reported as mismatches, sorted by fingerprint.
func (v *Verifier) Verify(ctx context.Context, dir string, files map[string]domain.FileRecord) ([]ports.Mismatch, error) {
	var (
		mu         sync.Mutex
		mismatches []ports.Mismatch
	)

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for fingerprint, rec := range files {
		g.Go(func() error {
			path := filepath.Join(dir, fingerprint)

			if _, err := os.Stat(path); err != nil {
				if errors.Is(err, iofs.ErrNotExist) {
					mu.Lock()
					mismatches = append(mismatches, ports.Mismatch{
						Fingerprint: fingerprint,
						Want:        rec.Digest,
						Missing:     true,
					})
					mu.Unlock()
					return nil
				}
				return zerr.With(zerr.Wrap(err, "failed to stat artifact"), "path", path)
			}

			got, err := v.hasher.ComputeFileDigest(path)
			if err != nil {
				return err
			}

			if got != rec.Digest {
				mu.Lock()
				mismatches = append(mismatches, ports.Mismatch{
					Fingerprint: fingerprint,
					Want:        rec.Digest,
					Got:         got,
				})
				mu.Unlock()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(mismatches, func(i, j int) bool {
		return mismatches[i].Fingerprint < mismatches[j].Fingerprint
	})

	return mismatches, nil
}
