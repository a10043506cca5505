package digest

import (
	"testing"
)

func TestPolicy_PrimaryDomainWins(t *testing.T) {
	policy := NewPolicy(nil)

	official := Item{
		Title:     "Tesla Q2 Update",
		URL:       "https://investor.tesla.com/some/very/long/path/to/the/announcement",
		Domain:    "investor.tesla.com",
		Published: "2026-08-28T18:00:00Z",
	}
	repost := Item{
		Title:     "Tesla Q2 Update",
		URL:       "https://n.example.com/a",
		Domain:    "news-aggregator.example.com",
		Published: "2026-08-28T08:00:00Z",
	}

	// Primary domain beats both the shorter URL and the earlier timestamp.
	if got := policy.ChooseBetter(official, repost); got.Domain != "investor.tesla.com" {
		t.Errorf("Expected primary domain to win, got %q", got.Domain)
	}
	if got := policy.ChooseBetter(repost, official); got.Domain != "investor.tesla.com" {
		t.Errorf("Expected primary domain to win regardless of argument order, got %q", got.Domain)
	}
}

func TestPolicy_ShorterURLWins(t *testing.T) {
	policy := NewPolicy(nil)

	short := Item{URL: "https://example.com/a", Domain: "example.com"}
	long := Item{URL: "https://example.com/a/reposted", Domain: "example.com"}

	if got := policy.ChooseBetter(long, short); got.URL != short.URL {
		t.Errorf("Expected shorter URL to win, got %q", got.URL)
	}
}

func TestPolicy_EarlierPublishedWins(t *testing.T) {
	policy := NewPolicy(nil)

	early := Item{URL: "https://example.com/a", Domain: "example.com", Published: "2026-08-28T08:00:00Z"}
	late := Item{URL: "https://example.com/b", Domain: "example.com", Published: "2026-08-28T12:00:00Z"}

	if got := policy.ChooseBetter(late, early); got.Published != early.Published {
		t.Errorf("Expected earlier published item to win, got %q", got.Published)
	}
}

func TestPolicy_UnparsableTimestampLosesToNothing(t *testing.T) {
	policy := NewPolicy(nil)

	// Unparsable parses to the minimum sentinel, so it counts as earlier.
	malformed := Item{URL: "https://example.com/a", Domain: "example.com", Published: "not-a-date"}
	valid := Item{URL: "https://example.com/b", Domain: "example.com", Published: "2026-08-28T12:00:00Z"}

	if got := policy.ChooseBetter(valid, malformed); got.Published != "not-a-date" {
		t.Errorf("Expected sentinel-minimum item to win the time tie-break, got %q", got.Published)
	}
}

func TestPolicy_DefaultKeepsLeftArgument(t *testing.T) {
	policy := NewPolicy(nil)

	first := Item{SourceFeed: "google_news", URL: "https://example.com/a", Domain: "example.com", Published: "not-a-date"}
	second := Item{SourceFeed: "youtube", URL: "https://example.com/b", Domain: "example.com", Published: "also-bad"}

	if got := policy.ChooseBetter(first, second); got.SourceFeed != "google_news" {
		t.Errorf("Expected left-hand argument to win the final tie, got %q", got.SourceFeed)
	}
}

func TestPolicy_Deterministic(t *testing.T) {
	policy := NewPolicy(nil)

	a := Item{URL: "https://example.com/a", Domain: "example.com", Published: "2026-08-28T08:00:00Z"}
	b := Item{URL: "https://example.com/b", Domain: "example.com", Published: "2026-08-28T08:00:00Z"}

	first := policy.ChooseBetter(a, b)
	for i := 0; i < 10; i++ {
		if got := policy.ChooseBetter(a, b); got != first {
			t.Fatalf("ChooseBetter is not deterministic: run %d returned %+v", i, got)
		}
	}
}

func TestPolicy_CustomKeywordTable(t *testing.T) {
	policy := NewPolicy([]string{"robotics.example"})

	if !policy.IsPrimaryDomain("news.robotics.example") {
		t.Errorf("Expected injected keyword to match")
	}
	if policy.IsPrimaryDomain("investor.tesla.com") {
		t.Errorf("Default keywords should not apply when a table is injected")
	}
}
