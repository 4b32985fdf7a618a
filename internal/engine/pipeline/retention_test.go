package pipeline_test

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/mast/internal/adapters/manifest"
	"go.trai.ch/mast/internal/engine/pipeline"
)

func newRetention(store *manifest.Store) *pipeline.Retention {
	remover := pipeline.NewRemover(store, testLogger())
	return pipeline.NewRetention(store, remover, testLogger())
}

func onDisk(t *testing.T, store *manifest.Store, fingerprint string) bool {
	t.Helper()
	_, err := os.Stat(store.PathFor(fingerprint))
	if err == nil {
		return true
	}
	require.True(t, errors.Is(err, os.ErrNotExist))
	return false
}

func TestRetention_CleanPrunesOldestBackups(t *testing.T) {
	store := newStore(t, t.TempDir())
	base := time.Now().Add(-time.Hour)
	seedArtifact(t, store, "application.js", "application-aaa.js", base)
	seedArtifact(t, store, "application.js", "application-ccc.js", base.Add(time.Minute))
	seedArtifact(t, store, "application.js", "application-ddd.js", base.Add(2*time.Minute))
	seedArtifact(t, store, "application.js", "application-eee.js", base.Add(3*time.Minute))

	require.NoError(t, newRetention(store).Clean(2))

	m := store.Manifest()
	assert.Equal(t, "application-eee.js", m.AssetMap()["application.js"])

	_, ok := m.Lookup("application-aaa.js")
	assert.False(t, ok, "backup beyond keep must be removed")
	assert.False(t, onDisk(t, store, "application-aaa.js"))

	for _, kept := range []string{"application-ccc.js", "application-ddd.js", "application-eee.js"} {
		_, ok := m.Lookup(kept)
		assert.True(t, ok, "%s must survive", kept)
		assert.True(t, onDisk(t, store, kept))
	}
}

func TestRetention_CleanZeroRemovesAllBackups(t *testing.T) {
	store := newStore(t, t.TempDir())
	base := time.Now().Add(-time.Hour)
	seedArtifact(t, store, "application.js", "application-aaa.js", base)
	seedArtifact(t, store, "application.js", "application-bbb.js", base.Add(time.Minute))

	require.NoError(t, newRetention(store).Clean(0))

	m := store.Manifest()
	assert.Equal(t, "application-bbb.js", m.AssetMap()["application.js"])
	_, ok := m.Lookup("application-aaa.js")
	assert.False(t, ok)
	_, ok = m.Lookup("application-bbb.js")
	assert.True(t, ok, "the current entry is never a backup")
}

func TestRetention_CleanNegativeKeepTreatedAsZero(t *testing.T) {
	store := newStore(t, t.TempDir())
	base := time.Now().Add(-time.Hour)
	seedArtifact(t, store, "application.js", "application-aaa.js", base)
	seedArtifact(t, store, "application.js", "application-bbb.js", base.Add(time.Minute))

	require.NoError(t, newRetention(store).Clean(-1))

	_, ok := store.Manifest().Lookup("application-aaa.js")
	assert.False(t, ok)
}

func TestRetention_CleanKeepExceedsBackups(t *testing.T) {
	store := newStore(t, t.TempDir())
	base := time.Now().Add(-time.Hour)
	seedArtifact(t, store, "application.js", "application-aaa.js", base)
	seedArtifact(t, store, "application.js", "application-bbb.js", base.Add(time.Minute))

	require.NoError(t, newRetention(store).Clean(5))

	m := store.Manifest()
	for _, fp := range []string{"application-aaa.js", "application-bbb.js"} {
		_, ok := m.Lookup(fp)
		assert.True(t, ok)
	}
}

func TestRetention_CleanMultipleNames(t *testing.T) {
	store := newStore(t, t.TempDir())
	base := time.Now().Add(-time.Hour)
	seedArtifact(t, store, "application.js", "application-aaa.js", base)
	seedArtifact(t, store, "application.js", "application-bbb.js", base.Add(time.Minute))
	seedArtifact(t, store, "styles.css", "styles-111.css", base)
	seedArtifact(t, store, "styles.css", "styles-222.css", base.Add(time.Minute))

	require.NoError(t, newRetention(store).Clean(0))

	m := store.Manifest()
	assert.Equal(t, "application-bbb.js", m.AssetMap()["application.js"])
	assert.Equal(t, "styles-222.css", m.AssetMap()["styles.css"])
	assert.Len(t, m.FileMap(), 2)
}
