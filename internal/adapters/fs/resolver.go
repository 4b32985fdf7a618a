package fs

import (
	"context"
	"errors"
	"io"
	iofs "io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.trai.ch/mast/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Resolver = (*Resolver)(nil)

// Resolver implements ports.Resolver against a directory of source assets.
// The fingerprint of an asset is its logical path with the content digest
// inserted before the extension, e.g. "application-0123456789abcdef.js".
type Resolver struct {
	root   string
	walker *Walker
	hasher *Hasher
}

// NewResolver creates a Resolver rooted at the given source directory.
func NewResolver(root string) *Resolver {
	return &Resolver{
		root:   filepath.Clean(root),
		walker: NewWalker(),
		hasher: NewHasher(),
	}
}

// Expand resolves specifiers into the logical paths of matching source
// files. A specifier matches a file whose relative path equals it or
// matches it as a glob pattern. Specifiers that match nothing contribute
// nothing.
func (r *Resolver) Expand(_ context.Context, specifiers []string) ([]string, error) {
	if len(specifiers) == 0 {
		return nil, nil
	}

	unique := make(map[string]bool)
	for rel := range r.walker.WalkFiles(r.root) {
		for _, spec := range specifiers {
			if rel == spec {
				unique[rel] = true
				continue
			}
			matched, err := filepath.Match(spec, rel)
			if err != nil {
				return nil, zerr.With(zerr.Wrap(err, "bad specifier pattern"), "specifier", spec)
			}
			if matched {
				unique[rel] = true
			}
		}
	}

	names := make([]string, 0, len(unique))
	for name := range unique {
		names = append(names, name)
	}
	sort.Strings(names)

	return names, nil
}

// Resolve returns the compiled artifact for a logical path, or nil, nil
// when no source file exists for it. Absolute paths are resolved as-is,
// keyed by their base name.
func (r *Resolver) Resolve(_ context.Context, name string) (ports.Artifact, error) {
	src, logical := filepath.Join(r.root, name), name
	if filepath.IsAbs(name) {
		src, logical = name, filepath.Base(name)
	}

	info, err := os.Stat(src)
	if err != nil {
		if errors.Is(err, iofs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(err, "failed to stat source"), "path", src)
	}
	if info.IsDir() {
		return nil, nil
	}

	digest, err := r.hasher.ComputeFileDigest(src)
	if err != nil {
		return nil, err
	}

	return &asset{
		logicalPath: logical,
		fingerprint: fingerprintPath(logical, digest),
		digest:      digest,
		mtime:       info.ModTime(),
		size:        info.Size(),
		src:         src,
	}, nil
}

// fingerprintPath inserts the digest before the extension of a logical path.
func fingerprintPath(logical, digest string) string {
	ext := filepath.Ext(logical)
	return strings.TrimSuffix(logical, ext) + "-" + digest + ext
}

type asset struct {
	logicalPath string
	fingerprint string
	digest      string
	mtime       time.Time
	size        int64
	src         string
}

func (a *asset) LogicalPath() string { return a.logicalPath }
func (a *asset) Fingerprint() string { return a.fingerprint }
func (a *asset) Digest() string      { return a.digest }
func (a *asset) Mtime() time.Time    { return a.mtime }
func (a *asset) Size() int64         { return a.size }

// WriteTo copies the source file to the destination path.
func (a *asset) WriteTo(dst string) error {
	in, err := os.Open(a.src) //nolint:gosec // Path is controlled by resolver
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to open source"), "path", a.src)
	}
	defer in.Close() //nolint:errcheck // Best effort close in defer

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644) //nolint:gosec // Destination is inside the output directory
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create artifact"), "path", dst)
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return zerr.With(zerr.Wrap(err, "failed to write artifact"), "path", dst)
	}

	if err := out.Close(); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to close artifact"), "path", dst)
	}
	return nil
}
