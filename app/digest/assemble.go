package digest

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortDigest orders the deduplicated set for display: published time
// descending with unparsable timestamps last, then entity display name
// ascending case-insensitively, then domain ascending. The sort is stable,
// items equal on all three keys keep their relative input order. The input
// slice is not modified.
func SortDigest(items []Item) []Item {
	out := make([]Item, len(items))
	copy(out, items)

	// Collators are not safe for concurrent use, so build one per call.
	col := collate.New(language.Und, collate.IgnoreCase)

	sort.SliceStable(out, func(i, j int) bool {
		ti := ParseTimeSafe(out[i].Published)
		tj := ParseTimeSafe(out[j].Published)
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		if c := col.CompareString(out[i].EntityName, out[j].EntityName); c != 0 {
			return c < 0
		}
		return out[i].Domain < out[j].Domain
	})

	return out
}
