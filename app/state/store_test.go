package state

import (
	"path/filepath"
	"testing"

	"github.com/tejuri/podcast-server/app/config"
	"github.com/tejuri/podcast-server/app/podcast"
	"github.com/tejuri/podcast-server/app/updater"
)

func TestOpen_MissingFile(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "state.json"))
	if err != nil {
		t.Fatalf("Missing file should open an empty store, got %v", err)
	}

	p := store.Podcast(&config.Podcast{Name: "live", Title: "Live", URL: "http://example.com"})
	if p.ID == "" {
		t.Error("Expected a generated podcast ID")
	}
	if p.URL != "http://example.com" {
		t.Errorf("Unexpected URL %q", p.URL)
	}
}

func TestPodcast_StableID(t *testing.T) {
	store, _ := Open(filepath.Join(t.TempDir(), "state.json"))
	definition := &config.Podcast{Name: "live", URL: "http://example.com"}

	first := store.Podcast(definition)
	second := store.Podcast(definition)
	if first.ID != second.ID {
		t.Error("Podcast ID should be stable across lookups")
	}
}

func TestApply_AddsNewItems(t *testing.T) {
	store, _ := Open(filepath.Join(t.TempDir(), "state.json"))
	definition := &config.Podcast{Name: "live", URL: "http://example.com"}
	snapshot := store.Podcast(definition)

	snapshot.Signature = "sig-1"
	result := updater.Result{
		Podcast: snapshot,
		NewItems: []podcast.Item{
			{Title: "Episode 1", URL: "http://example.com/1"},
			{Title: "Episode 2", URL: "http://example.com/2"},
		},
		NotIn: updater.DefaultNotIn(snapshot),
	}

	added, removed := store.Apply("live", "RSS", result)
	if added != 2 || removed != 0 {
		t.Errorf("Expected 2 added, 0 removed, got %d/%d", added, removed)
	}

	p := store.Podcast(definition)
	if p.Signature != "sig-1" {
		t.Errorf("Expected signature to be recorded, got %q", p.Signature)
	}
	if p.Type != "RSS" {
		t.Errorf("Expected type to be recorded, got %q", p.Type)
	}
	if len(p.Items) != 2 {
		t.Fatalf("Expected 2 items, got %d", len(p.Items))
	}
	for _, item := range p.Items {
		if item.ID == "" {
			t.Error("Admitted items should carry a persistent ID")
		}
	}
}

func TestApply_Unmodified(t *testing.T) {
	store, _ := Open(filepath.Join(t.TempDir(), "state.json"))
	definition := &config.Podcast{Name: "live", URL: "http://example.com"}
	store.Podcast(definition)

	added, removed := store.Apply("live", "RSS", updater.NoModification())
	if added != 0 || removed != 0 {
		t.Errorf("No-modification result should change nothing, got %d/%d", added, removed)
	}
}

func TestApply_NeverPrunesWithConstantFalsePredicate(t *testing.T) {
	store, _ := Open(filepath.Join(t.TempDir(), "state.json"))
	definition := &config.Podcast{Name: "archive", Type: "upload"}
	snapshot := store.Podcast(definition)

	seed := updater.Result{
		Podcast:  snapshot,
		NewItems: []podcast.Item{{Title: "Kept", URL: "http://example.com/kept"}},
		NotIn:    updater.DefaultNotIn(snapshot),
	}
	store.Apply("archive", "upload", seed)

	// Upload-style predicate: constant false, so nothing is pruned.
	result := updater.Result{
		Podcast: store.Podcast(definition),
		NotIn:   func(podcast.Item) bool { return false },
	}
	added, removed := store.Apply("archive", "upload", result)
	if added != 0 || removed != 0 {
		t.Errorf("Expected nothing added or removed, got %d/%d", added, removed)
	}
	if got := len(store.Podcast(definition).Items); got != 1 {
		t.Errorf("Expected known item to survive, got %d items", got)
	}
}

func TestSaveAndReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	store, _ := Open(path)
	definition := &config.Podcast{Name: "live", URL: "http://example.com"}
	snapshot := store.Podcast(definition)

	snapshot.Signature = "sig-1"
	store.Apply("live", "RSS", updater.Result{
		Podcast:  snapshot,
		NewItems: []podcast.Item{{Title: "Episode 1", URL: "http://example.com/1"}},
		NotIn:    updater.DefaultNotIn(snapshot),
	})
	if err := store.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("Reopen failed: %v", err)
	}
	p := reopened.Podcast(definition)
	if p.Signature != "sig-1" {
		t.Errorf("Expected persisted signature, got %q", p.Signature)
	}
	if len(p.Items) != 1 || p.Items[0].Title != "Episode 1" {
		t.Errorf("Expected persisted item, got %+v", p.Items)
	}
}
