// Package manifest implements the JSON-backed manifest store.
package manifest

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"go.trai.ch/mast/internal/core/domain"
	"go.trai.ch/mast/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.ManifestStore = (*Store)(nil)

// Store implements ports.ManifestStore using a flat JSON file. The whole
// manifest is rewritten on every Save; there is no incremental update on
// disk.
type Store struct {
	path     string
	dir      string
	lock     *flock.Flock
	log      ports.Logger
	manifest *domain.Manifest
}

// NewStore creates a ManifestStore backed by the file at the given path.
// A missing or unparseable file yields an empty manifest; corruption is
// logged, never fatal.
func NewStore(path string, log ports.Logger) (*Store, error) {
	path = filepath.Clean(path)
	s := &Store{
		path: path,
		dir:  filepath.Dir(path),
		lock: flock.New(path + ".lock"),
		log:  log,
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	s.manifest = domain.NewManifest()

	//nolint:gosec // Path is cleaned and provided by trusted caller
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return zerr.Wrap(err, "failed to read manifest file")
	}

	if len(data) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, s.manifest); err != nil {
		s.log.Warn("discarding unparseable manifest", "path", s.path, "error", err)
		s.manifest = domain.NewManifest()
	}

	return nil
}

// Manifest returns the in-memory manifest.
func (s *Store) Manifest() *domain.Manifest {
	return s.manifest
}

// Dir returns the output directory holding the fingerprinted files.
func (s *Store) Dir() string {
	return s.dir
}

// PathFor returns the on-disk location for a fingerprint.
func (s *Store) PathFor(fingerprint string) string {
	return filepath.Join(s.dir, fingerprint)
}

// Save serializes the full manifest and replaces the manifest file. The
// content is written to a temporary file and renamed into place under an
// advisory lock, so a reader never observes a partial write.
func (s *Store) Save() error {
	data, err := json.MarshalIndent(s.manifest, "", "  ")
	if err != nil {
		return zerr.Wrap(err, "failed to marshal manifest")
	}

	if err := os.MkdirAll(s.dir, 0o750); err != nil {
		return zerr.Wrap(err, "failed to create output directory")
	}

	if err := s.lock.Lock(); err != nil {
		return zerr.Wrap(err, "failed to acquire manifest lock")
	}
	defer s.lock.Unlock() //nolint:errcheck // Best effort unlock in defer

	tmp, err := os.CreateTemp(s.dir, ".manifest-*.tmp")
	if err != nil {
		return zerr.Wrap(err, "failed to create temporary manifest file")
	}

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return zerr.Wrap(err, "failed to write manifest")
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return zerr.Wrap(err, "failed to close temporary manifest file")
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		_ = os.Remove(tmp.Name())
		return zerr.Wrap(err, "failed to replace manifest file")
	}

	return nil
}
