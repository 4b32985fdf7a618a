package pipeline

import (
	"context"
	"errors"
	iofs "io/fs"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"go.trai.ch/mast/internal/core/domain"
	"go.trai.ch/mast/internal/core/ports"
	"go.trai.ch/zerr"
)

// CompiledAsset describes one artifact processed by a compile run.
type CompiledAsset struct {
	LogicalPath string
	Fingerprint string
	Record      domain.FileRecord
	// Written is false when the fingerprinted file already existed and the
	// write was skipped.
	Written bool
}

// Coordinator resolves requested names through the build resolver, upserts
// manifest entries, and performs content-addressed writes.
type Coordinator struct {
	store    ports.ManifestStore
	resolver ports.Resolver
	tracer   ports.Tracer
	log      ports.Logger
}

// NewCoordinator creates a new Coordinator.
func NewCoordinator(store ports.ManifestStore, resolver ports.Resolver, tracer ports.Tracer, log ports.Logger) *Coordinator {
	return &Coordinator{store: store, resolver: resolver, tracer: tracer, log: log}
}

// Compile expands the specifiers into logical paths (absolute file paths
// pass through unchanged), resolves each one, records it in the manifest,
// and materializes the fingerprinted file unless it already exists. The
// store is persisted after every processed name, so a failure partway
// through leaves all prior successes durably recorded. Unresolved names
// are skipped silently.
func (c *Coordinator) Compile(ctx context.Context, specifiers []string) ([]CompiledAsset, error) {
	var relative, names []string
	for _, spec := range specifiers {
		if filepath.IsAbs(spec) {
			names = append(names, spec)
		} else {
			relative = append(relative, spec)
		}
	}

	expanded, err := c.resolver.Expand(ctx, relative)
	if err != nil {
		return nil, err
	}
	names = append(expanded, names...)

	var compiled []CompiledAsset
	for _, name := range names {
		asset, err := c.compileOne(ctx, name)
		if err != nil {
			return compiled, err
		}
		if asset == nil {
			continue
		}
		compiled = append(compiled, *asset)
	}

	return compiled, nil
}

func (c *Coordinator) compileOne(ctx context.Context, name string) (*CompiledAsset, error) {
	ctx, vertex := c.tracer.Record(ctx, name)

	art, err := c.resolver.Resolve(ctx, name)
	if err != nil {
		vertex.Complete(err)
		return nil, zerr.With(err, "name", name)
	}
	if art == nil {
		c.log.Debug("name did not resolve", "name", name)
		vertex.Complete(nil)
		return nil, nil
	}

	rec := domain.FileRecord{
		LogicalPath: art.LogicalPath(),
		Mtime:       art.Mtime(),
		Size:        art.Size(),
		Digest:      art.Digest(),
	}
	c.store.Manifest().Record(art.Fingerprint(), rec)

	written, err := c.materialize(art)
	if err != nil {
		vertex.Complete(err)
		return nil, err
	}
	if !written {
		vertex.Cached()
	}

	if err := c.store.Save(); err != nil {
		vertex.Complete(err)
		return nil, err
	}
	vertex.Complete(nil)

	c.log.Info("compiled asset",
		"name", art.LogicalPath(),
		"fingerprint", art.Fingerprint(),
		"size", humanize.IBytes(uint64(art.Size())),
		"written", written,
	)

	return &CompiledAsset{
		LogicalPath: art.LogicalPath(),
		Fingerprint: art.Fingerprint(),
		Record:      rec,
		Written:     written,
	}, nil
}

// materialize writes the artifact to its fingerprinted path. An existing
// file is left untouched: an identical fingerprint implies identical bytes.
func (c *Coordinator) materialize(art ports.Artifact) (bool, error) {
	dst := c.store.PathFor(art.Fingerprint())

	_, err := os.Stat(dst)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, iofs.ErrNotExist) {
		return false, zerr.With(zerr.Wrap(err, "failed to stat artifact"), "path", dst)
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
		return false, zerr.Wrap(err, "failed to create output directory")
	}
	if err := art.WriteTo(dst); err != nil {
		return false, err
	}
	return true, nil
}
