package watchlist

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads and validates the watchlist configuration file.
func Load(path string) (*Watchlist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read watchlist file: %w", err)
	}

	var wl Watchlist
	if err := yaml.Unmarshal(data, &wl); err != nil {
		return nil, fmt.Errorf("failed to parse watchlist file: %w", err)
	}

	if err := validate(&wl); err != nil {
		return nil, fmt.Errorf("invalid watchlist %s: %w", path, err)
	}

	for _, entity := range wl.Entities {
		slog.Debug("Watchlist entity loaded", "id", entity.ID, "name", entity.DisplayName,
			"youtube_channels", len(entity.YoutubeChannelIDs), "sitemaps", len(entity.OfficialSitemaps))
	}

	return &wl, nil
}

func validate(wl *Watchlist) error {
	if len(wl.Entities) == 0 {
		return fmt.Errorf("watchlist has no entities")
	}

	seen := make(map[string]bool)
	for i, entity := range wl.Entities {
		if entity.ID == "" {
			return fmt.Errorf("entity %d has no id", i)
		}
		if entity.DisplayName == "" {
			return fmt.Errorf("entity %s has no display_name", entity.ID)
		}
		if seen[entity.ID] {
			return fmt.Errorf("duplicate entity id: %s", entity.ID)
		}
		seen[entity.ID] = true
	}

	if wl.Dedupe.SimilarityThreshold < 0 {
		return fmt.Errorf("similarity_threshold must not be negative")
	}

	return nil
}

// Entity returns the entity with the given id, or nil.
func (wl *Watchlist) Entity(id string) *Entity {
	for i := range wl.Entities {
		if wl.Entities[i].ID == id {
			return &wl.Entities[i]
		}
	}
	return nil
}
