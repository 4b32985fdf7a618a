// Package pipeline implements the manifest bookkeeping operations: compile
// coordination, backup retention, and artifact removal.
package pipeline

import (
	"errors"
	iofs "io/fs"
	"os"

	"go.trai.ch/mast/internal/core/domain"
	"go.trai.ch/mast/internal/core/ports"
	"go.trai.ch/zerr"
)

// Remover deletes tracked artifacts from the index and the disk together.
type Remover struct {
	store ports.ManifestStore
	log   ports.Logger
}

// NewRemover creates a new Remover.
func NewRemover(store ports.ManifestStore, log ports.Logger) *Remover {
	return &Remover{store: store, log: log}
}

// Remove deletes the file entry for a fingerprint, the underlying file if
// present, and persists the store. When the fingerprint is the current one
// for its logical path, the pointer is cleared entirely; the name stays
// unresolvable until a future compile republishes it. Returns
// domain.ErrNotTracked when the fingerprint has no entry.
func (r *Remover) Remove(fingerprint string) error {
	m := r.store.Manifest()

	rec, ok := m.Lookup(fingerprint)
	if !ok {
		return zerr.With(domain.ErrNotTracked, "fingerprint", fingerprint)
	}

	if m.AssetMap()[rec.LogicalPath] == fingerprint {
		delete(m.AssetMap(), rec.LogicalPath)
	}
	delete(m.FileMap(), fingerprint)

	path := r.store.PathFor(fingerprint)
	if err := os.Remove(path); err != nil && !errors.Is(err, iofs.ErrNotExist) {
		return zerr.With(zerr.Wrap(err, "failed to remove artifact"), "path", path)
	}

	if err := r.store.Save(); err != nil {
		return err
	}

	r.log.Info("removed artifact", "fingerprint", fingerprint, "name", rec.LogicalPath)
	return nil
}

// Clobber recursively deletes the entire output directory and resets the
// in-memory manifest, so a later Save cannot resurrect stale entries.
func (r *Remover) Clobber() error {
	dir := r.store.Dir()
	if err := os.RemoveAll(dir); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to remove output directory"), "dir", dir)
	}

	r.store.Manifest().Reset()

	r.log.Info("removed output directory", "dir", dir)
	return nil
}
