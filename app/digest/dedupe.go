package digest

import (
	"sort"
)

// DefaultSimilarityThreshold is the token-set score at or above which two
// titles from the same entity are collapsed. The single tunable knob of the
// fuzzy pass; it is deliberately not range-checked, an out-of-range value
// degrades to "always merge" or "never merge".
const DefaultSimilarityThreshold = 92

// Deduplicator collapses a day's collected items in two passes: exact by
// canonical URL, then fuzzy by title similarity within each entity. It holds
// no state between runs; every Run works on its own maps and slices.
type Deduplicator struct {
	policy    *Policy
	threshold int
}

func NewDeduplicator(policy *Policy, threshold int) *Deduplicator {
	if policy == nil {
		policy = NewPolicy(nil)
	}
	return &Deduplicator{policy: policy, threshold: threshold}
}

// Run applies both passes and sorts the result into digest order.
func (d *Deduplicator) Run(items []Item) []Item {
	return SortDigest(d.DedupeFuzzy(d.DedupeExact(items)))
}

// DedupeExact keeps one item per distinct canonical URL. Items with an empty
// URL carry no identity and are dropped. When a URL repeats, the tie-break
// policy picks the survivor. First-seen URL order is preserved so repeated
// runs over the same input are reproducible.
func (d *Deduplicator) DedupeExact(items []Item) []Item {
	byURL := make(map[string]Item, len(items))
	order := make([]string, 0, len(items))

	for _, item := range items {
		if item.URL == "" {
			continue
		}
		existing, seen := byURL[item.URL]
		if !seen {
			byURL[item.URL] = item
			order = append(order, item.URL)
			continue
		}
		byURL[item.URL] = d.policy.ChooseBetter(existing, item)
	}

	out := make([]Item, 0, len(order))
	for _, u := range order {
		out = append(out, byURL[u])
	}
	return out
}

// DedupeFuzzy collapses near-duplicate titles within each entity group.
// Groups are keyed by EntityID; items of different entities are never
// compared. Each group is walked newest first (unparsable timestamps last)
// against an accepted list: the first accepted item scoring at or above the
// threshold absorbs the candidate via the tie-break policy, keeping its slot;
// otherwise the candidate is accepted. Quadratic in group size, which is fine
// for single-entity single-day volumes.
func (d *Deduplicator) DedupeFuzzy(items []Item) []Item {
	groups := make(map[string][]Item)
	groupOrder := make([]string, 0)
	for _, item := range items {
		if _, seen := groups[item.EntityID]; !seen {
			groupOrder = append(groupOrder, item.EntityID)
		}
		groups[item.EntityID] = append(groups[item.EntityID], item)
	}

	kept := make([]Item, 0, len(items))
	for _, entityID := range groupOrder {
		kept = append(kept, d.dedupeGroup(groups[entityID])...)
	}
	return kept
}

func (d *Deduplicator) dedupeGroup(group []Item) []Item {
	if len(group) <= 1 {
		return group
	}

	sorted := make([]Item, len(group))
	copy(sorted, group)
	sort.SliceStable(sorted, func(i, j int) bool {
		return ParseTimeSafe(sorted[i].Published).After(ParseTimeSafe(sorted[j].Published))
	})

	accepted := make([]Item, 0, len(sorted))
	for _, candidate := range sorted {
		dupIndex := -1
		for i, acc := range accepted {
			if Similarity(candidate.Title, acc.Title) >= d.threshold {
				dupIndex = i
				break
			}
		}
		if dupIndex < 0 {
			accepted = append(accepted, candidate)
			continue
		}
		accepted[dupIndex] = d.policy.ChooseBetter(accepted[dupIndex], candidate)
	}
	return accepted
}
