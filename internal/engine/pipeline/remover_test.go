package pipeline_test

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/mast/internal/adapters/manifest"
	"go.trai.ch/mast/internal/core/domain"
	"go.trai.ch/mast/internal/engine/pipeline"
)

func seedArtifact(t *testing.T, store *manifest.Store, name, fingerprint string, mtime time.Time) {
	t.Helper()
	store.Manifest().Record(fingerprint, domain.FileRecord{
		LogicalPath: name,
		Mtime:       mtime,
		Size:        3,
		Digest:      fingerprint,
	})
	require.NoError(t, os.WriteFile(store.PathFor(fingerprint), []byte("xyz"), 0o600))
}

func TestRemover_Remove(t *testing.T) {
	out := t.TempDir()
	store := newStore(t, out)
	seedArtifact(t, store, "application.js", "application-aaa.js", time.Now())

	r := pipeline.NewRemover(store, testLogger())
	require.NoError(t, r.Remove("application-aaa.js"))

	m := store.Manifest()
	_, ok := m.Lookup("application-aaa.js")
	assert.False(t, ok)
	_, ok = m.AssetMap()["application.js"]
	assert.False(t, ok, "current pointer must be cleared, not repointed")

	_, err := os.Stat(store.PathFor("application-aaa.js"))
	assert.True(t, errors.Is(err, os.ErrNotExist))

	// Removal must be persisted.
	reloaded := newStore(t, out)
	_, ok = reloaded.Manifest().Lookup("application-aaa.js")
	assert.False(t, ok)
}

func TestRemover_RemoveBackupKeepsCurrent(t *testing.T) {
	store := newStore(t, t.TempDir())
	seedArtifact(t, store, "application.js", "application-old.js", time.Now().Add(-time.Hour))
	seedArtifact(t, store, "application.js", "application-new.js", time.Now())

	r := pipeline.NewRemover(store, testLogger())
	require.NoError(t, r.Remove("application-old.js"))

	m := store.Manifest()
	assert.Equal(t, "application-new.js", m.AssetMap()["application.js"])
	_, ok := m.Lookup("application-new.js")
	assert.True(t, ok)
}

func TestRemover_RemoveUntracked(t *testing.T) {
	store := newStore(t, t.TempDir())

	r := pipeline.NewRemover(store, testLogger())
	err := r.Remove("ghost-000.js")
	assert.True(t, errors.Is(err, domain.ErrNotTracked))
}

func TestRemover_RemoveMissingFile(t *testing.T) {
	store := newStore(t, t.TempDir())
	seedArtifact(t, store, "application.js", "application-aaa.js", time.Now())
	require.NoError(t, os.Remove(store.PathFor("application-aaa.js")))

	r := pipeline.NewRemover(store, testLogger())
	assert.NoError(t, r.Remove("application-aaa.js"), "a file already gone from disk is not an error")
}

func TestRemover_Clobber(t *testing.T) {
	out := t.TempDir()
	store := newStore(t, out)
	seedArtifact(t, store, "application.js", "application-aaa.js", time.Now())
	require.NoError(t, store.Save())

	r := pipeline.NewRemover(store, testLogger())
	require.NoError(t, r.Clobber())

	_, err := os.Stat(out)
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.Empty(t, store.Manifest().AssetMap())
	assert.Empty(t, store.Manifest().FileMap())
}
