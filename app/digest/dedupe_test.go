package digest

import (
	"testing"
)

func TestDedupeExact_CollapsesCanonicalURL(t *testing.T) {
	deduper := NewDeduplicator(nil, DefaultSimilarityThreshold)

	items := LoadItems([]RawItem{
		{EntityID: "x", EntityName: "X", Title: "Post A", URL: "https://x.com/a?utm_source=tw", Published: "2026-08-28T10:00:00Z"},
		{EntityID: "x", EntityName: "X", Title: "Post A", URL: "https://x.com/a", Published: "2026-08-28T11:00:00Z"},
	})

	out := deduper.DedupeExact(items)

	if len(out) != 1 {
		t.Fatalf("Expected 1 item after exact dedupe, got %d", len(out))
	}
	if out[0].URL != "https://x.com/a" {
		t.Errorf("Expected canonical URL \"https://x.com/a\", got %q", out[0].URL)
	}
}

func TestDedupeExact_DropsEmptyURLs(t *testing.T) {
	deduper := NewDeduplicator(nil, DefaultSimilarityThreshold)

	out := deduper.DedupeExact([]Item{
		{EntityID: "x", Title: "No link"},
		{EntityID: "x", Title: "Has link", URL: "https://x.com/a"},
	})

	if len(out) != 1 {
		t.Fatalf("Expected 1 item, got %d", len(out))
	}
	if out[0].URL != "https://x.com/a" {
		t.Errorf("Wrong survivor: %+v", out[0])
	}
}

func TestDedupeExact_OneItemPerDistinctURL(t *testing.T) {
	deduper := NewDeduplicator(nil, DefaultSimilarityThreshold)

	items := []Item{
		{EntityID: "a", URL: "https://x.com/1"},
		{EntityID: "a", URL: "https://x.com/2"},
		{EntityID: "a", URL: "https://x.com/1"},
		{EntityID: "b", URL: "https://x.com/3"},
		{EntityID: "b", URL: ""},
	}

	out := deduper.DedupeExact(items)

	seen := make(map[string]bool)
	for _, item := range out {
		if seen[item.URL] {
			t.Errorf("URL %q appears more than once in output", item.URL)
		}
		seen[item.URL] = true
	}
	if len(out) != 3 {
		t.Errorf("Expected 3 distinct URLs, got %d", len(out))
	}
}

func TestDedupeExact_PrimaryDomainSurvives(t *testing.T) {
	deduper := NewDeduplicator(nil, DefaultSimilarityThreshold)

	// Same canonical URL reported by two feeds with different source domains.
	items := []Item{
		{EntityID: "tesla", Title: "Update", URL: "https://investor.tesla.com/p", Domain: "news-aggregator.example.com", SourceFeed: "aggregator"},
		{EntityID: "tesla", Title: "Update", URL: "https://investor.tesla.com/p", Domain: "investor.tesla.com", SourceFeed: "official_site"},
	}

	out := deduper.DedupeExact(items)

	if len(out) != 1 {
		t.Fatalf("Expected 1 item, got %d", len(out))
	}
	if out[0].Domain != "investor.tesla.com" {
		t.Errorf("Expected the primary-domain item to survive, got %q", out[0].Domain)
	}
}

func TestDedupeFuzzy_CollapsesNearDuplicateTitles(t *testing.T) {
	deduper := NewDeduplicator(nil, DefaultSimilarityThreshold)

	items := []Item{
		{EntityID: "figure", EntityName: "Figure", Title: "Figure Unveils Helix Update",
			URL: "https://a.example.com/1", Domain: "a.example.com", Published: "2026-08-28T08:00:00Z"},
		{EntityID: "figure", EntityName: "Figure", Title: "Figure unveils Helix update",
			URL: "https://b.example.com/1", Domain: "b.example.com", Published: "2026-08-28T12:00:00Z"},
	}

	out := deduper.DedupeFuzzy(items)

	if len(out) != 1 {
		t.Fatalf("Expected 1 item after fuzzy dedupe, got %d", len(out))
	}
	// Same URL length, no primary domain: rule 3 keeps the earlier report.
	if out[0].Published != "2026-08-28T08:00:00Z" {
		t.Errorf("Expected the earlier-published item to survive, got %q", out[0].Published)
	}
}

func TestDedupeFuzzy_EntityIsolation(t *testing.T) {
	deduper := NewDeduplicator(nil, DefaultSimilarityThreshold)

	items := []Item{
		{EntityID: "figure", EntityName: "Figure", Title: "Humanoid Robot Unveiled", URL: "https://a.com/1", Published: "2026-08-28T10:00:00Z"},
		{EntityID: "apptronik", EntityName: "Apptronik", Title: "Humanoid Robot Unveiled", URL: "https://b.com/1", Published: "2026-08-28T11:00:00Z"},
	}

	out := deduper.DedupeFuzzy(items)

	if len(out) != 2 {
		t.Fatalf("Items of different entities must never merge, got %d items", len(out))
	}
}

func TestDedupeFuzzy_SmallGroupsUnchanged(t *testing.T) {
	deduper := NewDeduplicator(nil, DefaultSimilarityThreshold)

	if out := deduper.DedupeFuzzy(nil); len(out) != 0 {
		t.Errorf("Empty input should stay empty, got %d items", len(out))
	}

	single := []Item{{EntityID: "x", Title: "Only one", URL: "https://x.com/a"}}
	out := deduper.DedupeFuzzy(single)
	if len(out) != 1 || out[0].Title != "Only one" {
		t.Errorf("Single-item group should be returned unchanged, got %+v", out)
	}
}

func TestDedupeFuzzy_ThresholdMonotonicity(t *testing.T) {
	policy := NewPolicy(nil)

	items := []Item{
		{EntityID: "x", EntityName: "X", Title: "Tesla unveils Optimus Gen 3", URL: "https://a.com/1", Published: "2026-08-28T09:00:00Z"},
		{EntityID: "x", EntityName: "X", Title: "Optimus Gen 3 unveiled by Tesla", URL: "https://b.com/1", Published: "2026-08-28T10:00:00Z"},
		{EntityID: "x", EntityName: "X", Title: "Quarterly earnings call", URL: "https://c.com/1", Published: "2026-08-28T11:00:00Z"},
		{EntityID: "y", EntityName: "Y", Title: "Atlas does a backflip", URL: "https://d.com/1", Published: "2026-08-28T12:00:00Z"},
		{EntityID: "y", EntityName: "Y", Title: "Atlas does another backflip", URL: "https://e.com/1", Published: "2026-08-28T13:00:00Z"},
	}

	previous := -1
	for _, threshold := range []int{0, 50, 80, 92, 101} {
		out := NewDeduplicator(policy, threshold).DedupeFuzzy(items)
		if previous >= 0 && len(out) < previous {
			t.Errorf("Raising the threshold to %d reduced output from %d to %d items", threshold, previous, len(out))
		}
		previous = len(out)
	}

	// The degenerate thresholds are design affordances, not errors.
	if out := NewDeduplicator(policy, 0).DedupeFuzzy(items); len(out) != 2 {
		t.Errorf("Threshold 0 should collapse each entity to one item, got %d", len(out))
	}
	if out := NewDeduplicator(policy, 101).DedupeFuzzy(items); len(out) != len(items) {
		t.Errorf("Threshold above 100 should never merge, got %d of %d items", len(out), len(items))
	}
}

func TestDedupeFuzzy_WinnerKeepsAcceptedSlot(t *testing.T) {
	deduper := NewDeduplicator(nil, DefaultSimilarityThreshold)

	// Newest first the group reads: B, duplicate-of-B, A. The survivor of the
	// B pair must stay ahead of A in the group's accepted order.
	items := []Item{
		{EntityID: "x", EntityName: "X", Title: "Apptronik ships Apollo units", URL: "https://a.com/2", Published: "2026-08-28T08:00:00Z"},
		{EntityID: "x", EntityName: "X", Title: "Robot league announces season", URL: "https://a.com/3", Published: "2026-08-28T06:00:00Z"},
		{EntityID: "x", EntityName: "X", Title: "Apptronik ships apollo units", URL: "https://b.com/2", Published: "2026-08-28T09:00:00Z"},
	}

	out := deduper.DedupeFuzzy(items)

	if len(out) != 2 {
		t.Fatalf("Expected 2 items, got %d", len(out))
	}
	if out[0].Title != "Apptronik ships Apollo units" {
		t.Errorf("Survivor should occupy the first accepted slot, got %q", out[0].Title)
	}
}

func TestRun_FullPipeline(t *testing.T) {
	deduper := NewDeduplicator(nil, DefaultSimilarityThreshold)

	raw := []RawItem{
		{EntityID: "figure", EntityName: "Figure", Title: "Figure Unveils Helix Update", URL: "https://x.com/a?utm_source=tw", Published: "2026-08-28T08:00:00Z"},
		{EntityID: "figure", EntityName: "Figure", Title: "Figure Unveils Helix Update", URL: "https://x.com/a", Published: "2026-08-28T09:00:00Z"},
		{EntityID: "tesla", EntityName: "Tesla", Title: "Optimus update", URL: "https://tesla.com/n", Published: "2026-08-28T12:00:00Z"},
		{EntityID: "tesla", EntityName: "Tesla", Title: "Broken", URL: "", Published: "2026-08-28T13:00:00Z"},
	}

	out := deduper.Run(LoadItems(raw))

	if len(out) != 2 {
		t.Fatalf("Expected 2 items, got %d", len(out))
	}
	// Assembled order: newest first.
	if out[0].EntityID != "tesla" || out[1].EntityID != "figure" {
		t.Errorf("Unexpected digest order: %q, %q", out[0].EntityID, out[1].EntityID)
	}
	if out[1].URL != "https://x.com/a" {
		t.Errorf("Expected collapsed canonical URL, got %q", out[1].URL)
	}
}
