package app

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/mast/internal/adapters/config"
	"go.trai.ch/mast/internal/adapters/fs"
	"go.trai.ch/mast/internal/adapters/logger"
	"go.trai.ch/mast/internal/adapters/manifest"
	"go.trai.ch/mast/internal/adapters/telemetry"
	"go.trai.ch/mast/internal/core/domain"
	"go.trai.ch/mast/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	app *App
	src string
	out string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	src, out := t.TempDir(), t.TempDir()

	cfgPath := filepath.Join(t.TempDir(), "mast.yaml")
	cfg := "version: \"1\"\nsource: " + src + "\noutput: " + out + "\nkeep: 1\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o600))

	log := logger.NewWithOptions(io.Discard, slog.LevelError)
	a := New(config.NewLoader(), log, telemetry.NewNoOpTracer(), fs.NewVerifier())
	a.SetConfigPath(cfgPath)
	t.Cleanup(func() { _ = a.Close() })

	return &fixture{app: a, src: src, out: out}
}

func (f *fixture) writeSource(t *testing.T, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(f.src, name), []byte(content), 0o600))
}

// manifest reloads the persisted manifest from disk so assertions see what
// the next process would see.
func (f *fixture) manifest(t *testing.T) *domain.Manifest {
	t.Helper()
	store, err := manifest.NewStore(filepath.Join(f.out, ".manifest.json"), logger.NewWithOptions(io.Discard, slog.LevelError))
	require.NoError(t, err)
	return store.Manifest()
}

func TestAppCompileAndStatus(t *testing.T) {
	f := newFixture(t)
	f.writeSource(t, "application.js", "var a;")

	require.NoError(t, f.app.Compile(context.Background(), []string{"application.js"}))

	m := f.manifest(t)
	fingerprint, ok := m.AssetMap()["application.js"]
	require.True(t, ok)
	_, err := os.Stat(filepath.Join(f.out, fingerprint))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, f.app.Status(&buf))
	assert.Contains(t, buf.String(), "application.js")
	assert.Contains(t, buf.String(), fingerprint)
}

func TestAppCleanUsesConfiguredKeep(t *testing.T) {
	f := newFixture(t)

	// Three versions of the same asset; keep: 1 in the config must leave
	// the current plus one backup.
	for _, content := range []string{"one", "two", "three"} {
		f.writeSource(t, "application.js", content)
		require.NoError(t, f.app.Compile(context.Background(), []string{"application.js"}))
		time.Sleep(10 * time.Millisecond)
	}

	require.NoError(t, f.app.Clean(-1))

	m := f.manifest(t)
	assert.Len(t, m.FileMap(), 2)
	assert.Len(t, m.Backups("application.js"), 1)
}

func TestAppRemove(t *testing.T) {
	f := newFixture(t)
	f.writeSource(t, "application.js", "var a;")
	require.NoError(t, f.app.Compile(context.Background(), []string{"application.js"}))

	fingerprint := f.manifest(t).AssetMap()["application.js"]
	require.NoError(t, f.app.Remove([]string{fingerprint}))

	m := f.manifest(t)
	assert.Empty(t, m.AssetMap())
	_, err := os.Stat(filepath.Join(f.out, fingerprint))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestAppRemoveUntracked(t *testing.T) {
	f := newFixture(t)
	err := f.app.Remove([]string{"ghost-000.js"})
	assert.True(t, errors.Is(err, domain.ErrNotTracked))
}

func TestAppClobber(t *testing.T) {
	f := newFixture(t)
	f.writeSource(t, "application.js", "var a;")
	require.NoError(t, f.app.Compile(context.Background(), []string{"application.js"}))

	require.NoError(t, f.app.Clobber())

	_, err := os.Stat(f.out)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestAppVerify(t *testing.T) {
	f := newFixture(t)
	f.writeSource(t, "application.js", "var a;")
	require.NoError(t, f.app.Compile(context.Background(), []string{"application.js"}))

	require.NoError(t, f.app.Verify(context.Background()))

	// Corrupt the artifact on disk.
	fingerprint := f.manifest(t).AssetMap()["application.js"]
	require.NoError(t, os.WriteFile(filepath.Join(f.out, fingerprint), []byte("tampered"), 0o600))

	err := f.app.Verify(context.Background())
	assert.True(t, errors.Is(err, domain.ErrDigestMismatch))
}

func TestAppConfigLoadFailure(t *testing.T) {
	log := logger.NewWithOptions(io.Discard, slog.LevelError)
	a := New(config.NewLoader(), log, telemetry.NewNoOpTracer(), fs.NewVerifier())
	a.SetConfigPath(filepath.Join(t.TempDir(), "missing.yaml"))

	err := a.Compile(context.Background(), []string{"application.js"})
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "failed to load configuration"))
}

func TestAppVerifyPropagatesVerifierError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	src, out := t.TempDir(), t.TempDir()
	cfgPath := filepath.Join(t.TempDir(), "mast.yaml")
	cfg := "version: \"1\"\nsource: " + src + "\noutput: " + out + "\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o600))

	verifier := mocks.NewMockVerifier(ctrl)
	verifier.EXPECT().Verify(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, assert.AnError)

	log := logger.NewWithOptions(io.Discard, slog.LevelError)
	a := New(config.NewLoader(), log, telemetry.NewNoOpTracer(), verifier)
	a.SetConfigPath(cfgPath)

	err := a.Verify(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, assert.AnError))
}
