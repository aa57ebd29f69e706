package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeDefinition(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write definition: %v", err)
	}
}

func TestLoadAll(t *testing.T) {
	dir := t.TempDir()
	writeDefinition(t, dir, "nineteen-live.yml", `
title: "19h Live"
url: "http://www.tf1.fr/tf1/19h-live/videos"
enabled: true
`)
	writeDefinition(t, dir, "archive.yaml", `
type: upload
enabled: true
`)

	definitions, err := NewLoader(dir).LoadAll()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(definitions) != 2 {
		t.Fatalf("Expected 2 definitions, got %d", len(definitions))
	}

	live := definitions["nineteen-live"]
	if live == nil {
		t.Fatal("Expected definition named after the file")
	}
	if live.Title != "19h Live" {
		t.Errorf("Expected title '19h Live', got %q", live.Title)
	}
	if live.URL != "http://www.tf1.fr/tf1/19h-live/videos" {
		t.Errorf("Unexpected URL %q", live.URL)
	}
	if !live.Enabled {
		t.Error("Expected definition to be enabled")
	}

	archive := definitions["archive"]
	if archive == nil {
		t.Fatal("Expected upload definition")
	}
	if archive.Type != "upload" {
		t.Errorf("Expected type 'upload', got %q", archive.Type)
	}
	if archive.Title != "archive" {
		t.Errorf("Expected title to default to the name, got %q", archive.Title)
	}
}

func TestLoadAll_MissingDir(t *testing.T) {
	definitions, err := NewLoader(filepath.Join(t.TempDir(), "nope")).LoadAll()
	if err != nil {
		t.Fatalf("Missing directory should not be an error, got %v", err)
	}
	if len(definitions) != 0 {
		t.Errorf("Expected empty set, got %d definitions", len(definitions))
	}
}

func TestLoadAll_MissingURL(t *testing.T) {
	dir := t.TempDir()
	writeDefinition(t, dir, "broken.yml", `
title: "No URL"
enabled: true
`)

	if _, err := NewLoader(dir).LoadAll(); err == nil {
		t.Error("Expected error for definition without URL")
	}
}

func TestLoadAll_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	writeDefinition(t, dir, "broken.yml", "title: [unclosed")

	if _, err := NewLoader(dir).LoadAll(); err == nil {
		t.Error("Expected error for invalid YAML")
	}
}
