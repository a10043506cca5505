package digest

import (
	"time"

	"github.com/araddon/dateparse"
)

// RawItem is a link item as collected from a source feed. All fields are
// untrusted strings; the loader normalizes them into Item.
type RawItem struct {
	EntityID   string `json:"entity_id"`
	EntityName string `json:"entity_name"`
	SourceFeed string `json:"source_feed"`
	Title      string `json:"title"`
	URL        string `json:"url"`
	Published  string `json:"published"`
	Summary    string `json:"summary"`
}

// Item is the normalized working form of a collected link. URL is canonical
// (tracking parameters removed) and Domain is the lowercased host of the
// canonical URL, empty when the URL cannot be parsed. Published stays a raw
// string and is parsed on demand via ParseTimeSafe.
type Item struct {
	EntityID   string `json:"entity_id"`
	EntityName string `json:"entity_name"`
	SourceFeed string `json:"source_feed"`
	Title      string `json:"title"`
	URL        string `json:"url"`
	Domain     string `json:"domain"`
	Published  string `json:"published"`
	Summary    string `json:"summary"`
}

// ParseTimeSafe parses a timestamp in any common format. Malformed or empty
// values yield the zero time, which sorts before every real timestamp and
// therefore loses time-based tie-breaks and sorts last in newest-first order.
func ParseTimeSafe(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	t, err := dateparse.ParseAny(value)
	if err != nil {
		return time.Time{}
	}
	return t
}
