// Package app implements the application layer for mast.
package app

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"go.trai.ch/mast/internal/adapters/fs"       //nolint:depguard // Wired in app layer
	"go.trai.ch/mast/internal/adapters/manifest" //nolint:depguard // Wired in app layer
	"go.trai.ch/mast/internal/core/domain"
	"go.trai.ch/mast/internal/core/ports"
	"go.trai.ch/mast/internal/engine/pipeline"
	"go.trai.ch/zerr"
)

// DefaultConfigPath is the configuration file looked up when no -c flag is
// given.
const DefaultConfigPath = "mast.yaml"

// App represents the main application logic. The manifest store and the
// resolver depend on the loaded configuration, so they are built per
// operation rather than at wiring time.
type App struct {
	loader     ports.ConfigLoader
	log        ports.Logger
	tracer     ports.Tracer
	verifier   ports.Verifier
	configPath string

	// Construction seams, replaced in tests.
	newStore    func(path string, log ports.Logger) (ports.ManifestStore, error)
	newResolver func(root string) ports.Resolver
}

// New creates a new App instance.
func New(loader ports.ConfigLoader, log ports.Logger, tracer ports.Tracer, verifier ports.Verifier) *App {
	return &App{
		loader:     loader,
		log:        log,
		tracer:     tracer,
		verifier:   verifier,
		configPath: DefaultConfigPath,
		newStore: func(path string, log ports.Logger) (ports.ManifestStore, error) {
			return manifest.NewStore(path, log)
		},
		newResolver: func(root string) ports.Resolver {
			return fs.NewResolver(root)
		},
	}
}

// SetConfigPath overrides the configuration file location.
func (a *App) SetConfigPath(path string) {
	if path != "" {
		a.configPath = path
	}
}

// Close flushes any pending telemetry.
func (a *App) Close() error {
	return a.tracer.Close()
}

type session struct {
	cfg      *domain.Config
	store    ports.ManifestStore
	resolver ports.Resolver
}

func (a *App) open() (*session, error) {
	cfg, err := a.loader.Load(a.configPath)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}

	store, err := a.newStore(cfg.ManifestPath(), a.log)
	if err != nil {
		return nil, err
	}

	return &session{
		cfg:      cfg,
		store:    store,
		resolver: a.newResolver(cfg.Source),
	}, nil
}

// Compile resolves the specifiers and publishes the resulting artifacts.
func (a *App) Compile(ctx context.Context, specifiers []string) error {
	s, err := a.open()
	if err != nil {
		return err
	}

	coordinator := pipeline.NewCoordinator(s.store, s.resolver, a.tracer, a.log)
	compiled, err := coordinator.Compile(ctx, specifiers)
	if err != nil {
		return zerr.Wrap(err, "compile failed")
	}

	a.log.Info("compile finished", "assets", len(compiled))
	return nil
}

// Clean prunes superseded backups, keeping the given number per name. A
// negative keep falls back to the configured retention.
func (a *App) Clean(keep int) error {
	s, err := a.open()
	if err != nil {
		return err
	}
	if keep < 0 {
		keep = s.cfg.Keep
	}

	remover := pipeline.NewRemover(s.store, a.log)
	return pipeline.NewRetention(s.store, remover, a.log).Clean(keep)
}

// Remove deletes the given fingerprints from the index and the disk.
func (a *App) Remove(fingerprints []string) error {
	s, err := a.open()
	if err != nil {
		return err
	}

	remover := pipeline.NewRemover(s.store, a.log)
	for _, fingerprint := range fingerprints {
		if err := remover.Remove(fingerprint); err != nil {
			return err
		}
	}
	return nil
}

// Clobber deletes the entire output directory.
func (a *App) Clobber() error {
	s, err := a.open()
	if err != nil {
		return err
	}

	return pipeline.NewRemover(s.store, a.log).Clobber()
}

// Verify recomputes the digests of all tracked files and fails when any is
// missing or changed.
func (a *App) Verify(ctx context.Context) error {
	s, err := a.open()
	if err != nil {
		return err
	}

	mismatches, err := a.verifier.Verify(ctx, s.store.Dir(), s.store.Manifest().FileMap())
	if err != nil {
		return zerr.Wrap(err, "verification failed")
	}

	for _, m := range mismatches {
		if m.Missing {
			a.log.Warn("tracked file missing", "fingerprint", m.Fingerprint)
			continue
		}
		a.log.Warn("tracked file changed", "fingerprint", m.Fingerprint, "want", m.Want, "got", m.Got)
	}

	if len(mismatches) > 0 {
		return zerr.With(domain.ErrDigestMismatch, "mismatches", len(mismatches))
	}

	a.log.Info("verified manifest", "files", len(s.store.Manifest().FileMap()))
	return nil
}

// Status writes the tracked assets with their current fingerprint, size,
// and backup count.
func (a *App) Status(w io.Writer) error {
	s, err := a.open()
	if err != nil {
		return err
	}

	m := s.store.Manifest()
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tFINGERPRINT\tSIZE\tBACKUPS")
	for _, name := range m.Names() {
		fingerprint := m.AssetMap()[name]
		rec := m.FileMap()[fingerprint]
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n",
			name, fingerprint, humanize.IBytes(uint64(rec.Size)), len(m.Backups(name)))
	}
	return tw.Flush()
}
