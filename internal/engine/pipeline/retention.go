package pipeline

import (
	"go.trai.ch/mast/internal/core/ports"
)

// Retention prunes superseded backup versions per logical path.
type Retention struct {
	store   ports.ManifestStore
	remover *Remover
	log     ports.Logger
}

// NewRetention creates a new Retention using the given remover.
func NewRetention(store ports.ManifestStore, remover *Remover, log ports.Logger) *Retention {
	return &Retention{store: store, remover: remover, log: log}
}

// Clean removes, for every name currently present in the index, all backups
// beyond the keep newest. keep = 0 removes every backup; a keep larger than
// the backup count leaves the name untouched. The current entry is never
// removed.
func (c *Retention) Clean(keep int) error {
	if keep < 0 {
		keep = 0
	}

	m := c.store.Manifest()
	for _, name := range m.Names() {
		backups := m.Backups(name)
		if len(backups) <= keep {
			continue
		}

		c.log.Debug("pruning backups", "name", name, "count", len(backups)-keep, "keep", keep)
		for _, fingerprint := range backups[keep:] {
			if err := c.remover.Remove(fingerprint); err != nil {
				return err
			}
		}
	}

	return nil
}
