// Package config provides the configuration loader for mast.
package config

import (
	"os"

	"go.trai.ch/mast/internal/core/domain"
	"go.trai.ch/mast/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.ConfigLoader = (*Loader)(nil)

// Mastfile represents the structure of the mast.yaml configuration file.
type Mastfile struct {
	Version  string `yaml:"version"`
	Source   string `yaml:"source"`
	Output   string `yaml:"output"`
	Manifest string `yaml:"manifest"`
	Keep     *int   `yaml:"keep"`
}

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct{}

// NewLoader creates a new Loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads a configuration file from the given path.
func (l *Loader) Load(path string) (*domain.Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		return nil, zerr.Wrap(err, "failed to read config file")
	}

	var mastfile Mastfile
	if err := yaml.Unmarshal(data, &mastfile); err != nil {
		return nil, zerr.Wrap(err, "failed to parse config file")
	}

	if mastfile.Source == "" {
		return nil, zerr.With(zerr.New("config is missing source directory"), "path", path)
	}
	if mastfile.Output == "" {
		return nil, zerr.With(zerr.New("config is missing output directory"), "path", path)
	}

	keep := domain.DefaultKeep
	if mastfile.Keep != nil {
		keep = *mastfile.Keep
		if keep < 0 {
			return nil, zerr.With(zerr.New("keep must not be negative"), "keep", keep)
		}
	}

	return &domain.Config{
		Version:  mastfile.Version,
		Source:   mastfile.Source,
		Output:   mastfile.Output,
		Manifest: mastfile.Manifest,
		Keep:     keep,
	}, nil
}
