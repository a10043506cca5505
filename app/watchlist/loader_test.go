package watchlist

import (
	"os"
	"path/filepath"
	"testing"
)

func writeWatchlist(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "watchlist.yml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write watchlist file: %v", err)
	}
	return path
}

func TestLoad_ValidWatchlist(t *testing.T) {
	path := writeWatchlist(t, `
entities:
  - id: tesla
    display_name: Tesla
    google_news_query: Tesla Optimus
    keywords: [optimus, robot]
    youtube_channel_ids: [UC5WjFrtBdufl6CZojX3D8dQ]
    official_sitemaps:
      - https://www.tesla.com/sitemap.xml
  - id: figure
    display_name: Figure
    google_news_query: Figure AI robot
dedupe:
  similarity_threshold: 95
  primary_domains: [tesla.com, figure.ai]
`)

	wl, err := Load(path)
	if err != nil {
		t.Fatalf("Expected watchlist to load, got error: %v", err)
	}

	if len(wl.Entities) != 2 {
		t.Errorf("Expected 2 entities, got %d", len(wl.Entities))
	}
	if wl.Dedupe.SimilarityThreshold != 95 {
		t.Errorf("Expected threshold override 95, got %d", wl.Dedupe.SimilarityThreshold)
	}
	if len(wl.Dedupe.PrimaryDomains) != 2 {
		t.Errorf("Expected 2 primary domain overrides, got %d", len(wl.Dedupe.PrimaryDomains))
	}

	entity := wl.Entity("tesla")
	if entity == nil {
		t.Fatalf("Entity lookup by id failed")
	}
	if entity.DisplayName != "Tesla" {
		t.Errorf("Expected display name Tesla, got %q", entity.DisplayName)
	}
	if wl.Entity("unknown") != nil {
		t.Errorf("Unknown entity id should return nil")
	}
}

func TestLoad_DefaultsWhenDedupeOmitted(t *testing.T) {
	path := writeWatchlist(t, `
entities:
  - id: apptronik
    display_name: Apptronik
`)

	wl, err := Load(path)
	if err != nil {
		t.Fatalf("Expected watchlist to load, got error: %v", err)
	}

	if wl.Dedupe.SimilarityThreshold != 0 {
		t.Errorf("Omitted threshold should stay zero (meaning default), got %d", wl.Dedupe.SimilarityThreshold)
	}
	if len(wl.Dedupe.PrimaryDomains) != 0 {
		t.Errorf("Omitted primary domains should stay empty, got %v", wl.Dedupe.PrimaryDomains)
	}
}

func TestLoad_RejectsDuplicateIDs(t *testing.T) {
	path := writeWatchlist(t, `
entities:
  - id: tesla
    display_name: Tesla
  - id: tesla
    display_name: Tesla Again
`)

	if _, err := Load(path); err == nil {
		t.Errorf("Expected duplicate entity id to be rejected")
	}
}

func TestLoad_RejectsMissingFields(t *testing.T) {
	for name, content := range map[string]string{
		"no entities":     `entities: []`,
		"no id":           "entities:\n  - display_name: Tesla",
		"no display_name": "entities:\n  - id: tesla",
	} {
		path := writeWatchlist(t, content)
		if _, err := Load(path); err == nil {
			t.Errorf("Case %q: expected validation error", name)
		}
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/watchlist.yml"); err == nil {
		t.Errorf("Expected error for missing file")
	}
}
