package digest

import (
	"testing"
)

func TestSortDigest_NewestFirst(t *testing.T) {
	items := []Item{
		{EntityName: "Figure", Domain: "figure.ai", Published: "2026-08-28T08:00:00Z"},
		{EntityName: "Tesla", Domain: "tesla.com", Published: "2026-08-28T12:00:00Z"},
		{EntityName: "Apptronik", Domain: "apptronik.com", Published: "2026-08-28T10:00:00Z"},
	}

	out := SortDigest(items)

	expected := []string{"Tesla", "Apptronik", "Figure"}
	for i, name := range expected {
		if out[i].EntityName != name {
			t.Errorf("Position %d: expected %q, got %q", i, name, out[i].EntityName)
		}
	}
}

func TestSortDigest_UnparsableSortsLast(t *testing.T) {
	items := []Item{
		{EntityName: "Broken", Domain: "a.com", Published: "not-a-date"},
		{EntityName: "Old", Domain: "b.com", Published: "1999-01-01T00:00:00Z"},
		{EntityName: "New", Domain: "c.com", Published: "2026-08-28T12:00:00Z"},
	}

	out := SortDigest(items)

	if out[len(out)-1].EntityName != "Broken" {
		t.Errorf("Item with unparsable timestamp should sort last, got order %v",
			[]string{out[0].EntityName, out[1].EntityName, out[2].EntityName})
	}
	if out[0].EntityName != "New" {
		t.Errorf("Expected newest item first, got %q", out[0].EntityName)
	}
}

func TestSortDigest_EntityNameCaseInsensitive(t *testing.T) {
	items := []Item{
		{EntityName: "tesla", Domain: "a.com", Published: "2026-08-28T12:00:00Z"},
		{EntityName: "Apptronik", Domain: "b.com", Published: "2026-08-28T12:00:00Z"},
		{EntityName: "BOSTON Dynamics", Domain: "c.com", Published: "2026-08-28T12:00:00Z"},
	}

	out := SortDigest(items)

	expected := []string{"Apptronik", "BOSTON Dynamics", "tesla"}
	for i, name := range expected {
		if out[i].EntityName != name {
			t.Errorf("Position %d: expected %q, got %q", i, name, out[i].EntityName)
		}
	}
}

func TestSortDigest_DomainIsTertiaryKey(t *testing.T) {
	items := []Item{
		{EntityName: "Tesla", Domain: "z.example.com", Published: "2026-08-28T12:00:00Z"},
		{EntityName: "Tesla", Domain: "a.example.com", Published: "2026-08-28T12:00:00Z"},
	}

	out := SortDigest(items)

	if out[0].Domain != "a.example.com" {
		t.Errorf("Expected domain ascending on full tie, got %q first", out[0].Domain)
	}
}

func TestSortDigest_StableBeyondKeys(t *testing.T) {
	items := []Item{
		{EntityName: "Tesla", Domain: "x.com", SourceFeed: "first", Published: "2026-08-28T12:00:00Z"},
		{EntityName: "Tesla", Domain: "x.com", SourceFeed: "second", Published: "2026-08-28T12:00:00Z"},
	}

	out := SortDigest(items)

	if out[0].SourceFeed != "first" || out[1].SourceFeed != "second" {
		t.Errorf("Full-tie items must keep their relative input order, got %q then %q",
			out[0].SourceFeed, out[1].SourceFeed)
	}
}

func TestSortDigest_DoesNotMutateInput(t *testing.T) {
	items := []Item{
		{EntityName: "B", Published: "2026-08-28T08:00:00Z"},
		{EntityName: "A", Published: "2026-08-28T12:00:00Z"},
	}

	SortDigest(items)

	if items[0].EntityName != "B" {
		t.Errorf("SortDigest must not mutate its input, got %q first", items[0].EntityName)
	}
}
