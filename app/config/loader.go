// Package config loads per-podcast definition files from the podcasts
// directory, one YAML file per subscription.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

type Loader struct {
	podcastsDir string
}

func NewLoader(podcastsDir string) *Loader {
	return &Loader{podcastsDir: podcastsDir}
}

// LoadAll loads every .yml/.yaml definition in the podcasts directory,
// keyed by podcast name. A missing directory is an empty subscription set,
// not an error.
func (l *Loader) LoadAll() (map[string]*Podcast, error) {
	definitions := make(map[string]*Podcast)

	if _, err := os.Stat(l.podcastsDir); os.IsNotExist(err) {
		return definitions, nil
	}

	files, err := filepath.Glob(filepath.Join(l.podcastsDir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("failed to find YAML files: %w", err)
	}
	ymlFiles, err := filepath.Glob(filepath.Join(l.podcastsDir, "*.yml"))
	if err != nil {
		return nil, fmt.Errorf("failed to find YML files: %w", err)
	}
	files = append(files, ymlFiles...)

	for _, file := range files {
		definition, err := l.loadFile(file)
		if err != nil {
			return nil, fmt.Errorf("error loading %s: %w", file, err)
		}
		if err := l.validate(definition); err != nil {
			return nil, fmt.Errorf("invalid definition %s: %w", file, err)
		}

		definitions[definition.Name] = definition
		slog.Debug("Podcast definition loaded", "podcast", definition.Name, "url", definition.URL, "enabled", definition.Enabled)
	}

	return definitions, nil
}

func (l *Loader) loadFile(path string) (*Podcast, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var definition Podcast
	if err := yaml.Unmarshal(data, &definition); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	base := filepath.Base(path)
	definition.Name = strings.TrimSuffix(base, filepath.Ext(base))
	if definition.Title == "" {
		definition.Title = definition.Name
	}

	return &definition, nil
}

func (l *Loader) validate(definition *Podcast) error {
	if definition.URL == "" && definition.Type != "upload" {
		return fmt.Errorf("podcast URL is required")
	}
	return nil
}
