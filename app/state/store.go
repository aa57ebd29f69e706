// Package state is the host-side snapshot store the update core hands its
// diffs to. It keeps each podcast's last signature and known items in a
// single JSON file between update passes. The core itself never persists
// anything; it only sees the snapshots returned here.
package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"github.com/tejuri/podcast-server/app/config"
	"github.com/tejuri/podcast-server/app/podcast"
	"github.com/tejuri/podcast-server/app/updater"
)

type Store struct {
	path string

	mu       sync.Mutex
	podcasts map[string]*podcast.Podcast
}

type stateFile struct {
	Podcasts map[string]*podcast.Podcast `json:"podcasts"`
}

// Open reads the state file at path. A missing file is an empty store.
func Open(path string) (*Store, error) {
	store := &Store{
		path:     path,
		podcasts: make(map[string]*podcast.Podcast),
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return store, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}

	var file stateFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse state file: %w", err)
	}
	if file.Podcasts != nil {
		store.podcasts = file.Podcasts
	}
	return store, nil
}

// Podcast returns the snapshot for a definition, creating it on first sight.
// The definition's URL, title and type always win over stored values so that
// edits to a definition file take effect on the next pass.
func (s *Store) Podcast(definition *config.Podcast) podcast.Podcast {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.podcasts[definition.Name]
	if !ok {
		p = &podcast.Podcast{ID: uuid.NewString()}
		s.podcasts[definition.Name] = p
	}
	p.Title = definition.Title
	p.URL = definition.URL
	if definition.Type != "" {
		p.Type = definition.Type
	}
	return *p
}

// Apply folds an update result into the stored snapshot: records the fresh
// signature and updater type, admits the new items with persistent IDs and
// prunes known items the result's predicate marks as no longer belonging.
// It returns how many items were added and removed.
func (s *Store) Apply(name string, typeKey string, result updater.Result) (added, removed int) {
	if result.Unmodified() {
		return 0, 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.podcasts[name]
	if !ok {
		return 0, 0
	}

	p.Signature = result.Podcast.Signature
	p.Type = typeKey

	kept := p.Items[:0]
	for _, item := range p.Items {
		if result.NotIn(item) {
			removed++
			continue
		}
		kept = append(kept, item)
	}
	p.Items = kept

	for _, item := range result.NewItems {
		item.ID = uuid.NewString()
		p.Items = append(p.Items, item)
		added++
	}

	return added, removed
}

// Save writes the store back to disk, going through a temp file so a crash
// mid-write cannot truncate the previous state.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(stateFile{Podcasts: s.podcasts}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace state file: %w", err)
	}
	return nil
}
