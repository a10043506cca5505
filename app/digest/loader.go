package digest

import (
	"strings"
)

// LoadItems normalizes raw collected records: title and summary are trimmed,
// the URL is canonicalized and the domain derived from it. Timestamps are
// carried through as strings; consumers parse them with ParseTimeSafe so a
// malformed value never aborts a run.
func LoadItems(raw []RawItem) []Item {
	items := make([]Item, 0, len(raw))
	for _, r := range raw {
		canonical := CanonicalizeURL(r.URL)
		items = append(items, Item{
			EntityID:   r.EntityID,
			EntityName: r.EntityName,
			SourceFeed: r.SourceFeed,
			Title:      strings.TrimSpace(r.Title),
			URL:        canonical,
			Domain:     DomainOf(canonical),
			Published:  r.Published,
			Summary:    strings.TrimSpace(r.Summary),
		})
	}
	return items
}
