package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/mast/internal/adapters/config"
	"go.trai.ch/mast/internal/core/domain"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mast.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoader_Load(t *testing.T) {
	path := writeConfig(t, `version: "1"
source: app/assets
output: public/assets
keep: 5
`)

	cfg, err := config.NewLoader().Load(path)
	require.NoError(t, err)

	assert.Equal(t, "app/assets", cfg.Source)
	assert.Equal(t, "public/assets", cfg.Output)
	assert.Equal(t, 5, cfg.Keep)
	assert.Equal(t, filepath.Join("public/assets", ".manifest.json"), cfg.ManifestPath())
}

func TestLoader_DefaultKeep(t *testing.T) {
	path := writeConfig(t, `source: app/assets
output: public/assets
`)

	cfg, err := config.NewLoader().Load(path)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultKeep, cfg.Keep)
}

func TestLoader_ExplicitManifestPath(t *testing.T) {
	path := writeConfig(t, `source: app/assets
output: public/assets
manifest: state/manifest.json
`)

	cfg, err := config.NewLoader().Load(path)
	require.NoError(t, err)
	assert.Equal(t, "state/manifest.json", cfg.ManifestPath())
}

func TestLoader_ZeroKeepIsValid(t *testing.T) {
	path := writeConfig(t, `source: app/assets
output: public/assets
keep: 0
`)

	cfg, err := config.NewLoader().Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.Keep)
}

func TestLoader_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing source", "output: public/assets\n"},
		{"missing output", "source: app/assets\n"},
		{"negative keep", "source: a\noutput: b\nkeep: -1\n"},
		{"bad yaml", "source: [unclosed\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.NewLoader().Load(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestLoader_MissingFile(t *testing.T) {
	_, err := config.NewLoader().Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
