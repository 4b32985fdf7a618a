// Package domain contains core domain types for the asset manifest.
package domain

import (
	"sort"
	"time"
)

// ManifestVersion is the current schema version written to new manifests.
const ManifestVersion = 1

// FileRecord holds the metadata kept for every fingerprinted file ever produced.
type FileRecord struct {
	LogicalPath string    `json:"logical_path"`
	Mtime       time.Time `json:"mtime"`
	Size        int64     `json:"size"`
	Digest      string    `json:"digest"`
}

// Manifest is the persisted index. Assets maps a logical path to the
// fingerprint of its current file; Files keeps a record per fingerprint.
// Entries superseded in Assets stay in Files as backups.
type Manifest struct {
	Version int                   `json:"version,omitempty"`
	Assets  map[string]string     `json:"assets"`
	Files   map[string]FileRecord `json:"files"`
}

// NewManifest returns an empty manifest at the current schema version.
func NewManifest() *Manifest {
	return &Manifest{
		Version: ManifestVersion,
		Assets:  make(map[string]string),
		Files:   make(map[string]FileRecord),
	}
}

// AssetMap returns the assets map, initializing it if absent.
func (m *Manifest) AssetMap() map[string]string {
	if m.Assets == nil {
		m.Assets = make(map[string]string)
	}
	return m.Assets
}

// FileMap returns the files map, initializing it if absent.
func (m *Manifest) FileMap() map[string]FileRecord {
	if m.Files == nil {
		m.Files = make(map[string]FileRecord)
	}
	return m.Files
}

// Record upserts the file record for a fingerprint and points the logical
// path at it. A previously current fingerprint stays in Files as a backup.
func (m *Manifest) Record(fingerprint string, rec FileRecord) {
	m.FileMap()[fingerprint] = rec
	m.AssetMap()[rec.LogicalPath] = fingerprint
}

// Lookup returns the file record for a fingerprint.
func (m *Manifest) Lookup(fingerprint string) (FileRecord, bool) {
	rec, ok := m.FileMap()[fingerprint]
	return rec, ok
}

// Names returns the logical paths currently present in Assets, sorted.
func (m *Manifest) Names() []string {
	names := make([]string, 0, len(m.Assets))
	for name := range m.Assets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Backups returns the fingerprints of all file entries for a logical path
// other than its current one, newest mtime first. Entries with identical
// mtimes are ordered by fingerprint in descending lexical order so the
// result is deterministic.
func (m *Manifest) Backups(name string) []string {
	current := m.AssetMap()[name]

	var backups []string
	for fingerprint, rec := range m.FileMap() {
		if rec.LogicalPath == name && fingerprint != current {
			backups = append(backups, fingerprint)
		}
	}

	sort.Slice(backups, func(i, j int) bool {
		a, b := m.Files[backups[i]], m.Files[backups[j]]
		if !a.Mtime.Equal(b.Mtime) {
			return a.Mtime.After(b.Mtime)
		}
		return backups[i] > backups[j]
	})

	return backups
}

// Reset discards all entries, leaving an empty manifest at the current
// schema version.
func (m *Manifest) Reset() {
	m.Version = ManifestVersion
	m.Assets = make(map[string]string)
	m.Files = make(map[string]FileRecord)
}
