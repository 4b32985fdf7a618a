package domain

import "path/filepath"

// DefaultKeep is the number of backups retained per asset when the
// configuration does not say otherwise.
const DefaultKeep = 2

// Config holds the tool configuration loaded from mast.yaml.
type Config struct {
	Version  string
	Source   string
	Output   string
	Manifest string
	Keep     int
}

// ManifestPath returns the configured manifest file location, defaulting to
// a dotfile inside the output directory so it never collides with an
// artifact name.
func (c *Config) ManifestPath() string {
	if c.Manifest != "" {
		return c.Manifest
	}
	return filepath.Join(c.Output, ".manifest.json")
}
