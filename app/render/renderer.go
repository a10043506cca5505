package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"sort"
	"strings"
	"time"

	"github.com/MaxwellProfit/humanoid-robots-monitor/app/database"
	"github.com/MaxwellProfit/humanoid-robots-monitor/app/digest"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Renderer produces the static HTML views of stored digests: one page per
// day plus an index listing recent days. It only reads digest entries and
// never re-deduplicates.
type Renderer struct {
	templates *template.Template
}

func NewRenderer() (*Renderer, error) {
	templates, err := template.New("").Funcs(template.FuncMap{
		"formatTime": formatTime,
		"truncate":   truncate,
	}).ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	return &Renderer{templates: templates}, nil
}

type EntityGroup struct {
	Name    string
	Entries []database.DigestEntry
}

type DayPage struct {
	Day    string
	Groups []EntityGroup
	Total  int
}

type IndexPage struct {
	LatestDay string
	Groups    []EntityGroup
	Total     int
	Days      []string
}

// RenderDay renders one day's digest grouped by entity display name.
func (r *Renderer) RenderDay(day string, entries []database.DigestEntry) (string, error) {
	page := DayPage{
		Day:    day,
		Groups: groupByEntity(entries),
		Total:  len(entries),
	}

	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, "day.tmpl", page); err != nil {
		return "", fmt.Errorf("failed to render day page: %w", err)
	}
	return buf.String(), nil
}

// RenderIndex renders the landing page: the latest day's digest plus links to
// recent days.
func (r *Renderer) RenderIndex(latestDay string, entries []database.DigestEntry, days []string) (string, error) {
	page := IndexPage{
		LatestDay: latestDay,
		Groups:    groupByEntity(entries),
		Total:     len(entries),
		Days:      days,
	}

	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, "index.tmpl", page); err != nil {
		return "", fmt.Errorf("failed to render index page: %w", err)
	}
	return buf.String(), nil
}

// groupByEntity buckets entries by display name, groups ordered by name,
// entries keeping their stored digest order.
func groupByEntity(entries []database.DigestEntry) []EntityGroup {
	buckets := make(map[string][]database.DigestEntry)
	for _, entry := range entries {
		name := entry.EntityName
		if name == "" {
			name = "Other"
		}
		buckets[name] = append(buckets[name], entry)
	}

	names := make([]string, 0, len(buckets))
	for name := range buckets {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return strings.ToLower(names[i]) < strings.ToLower(names[j])
	})

	groups := make([]EntityGroup, 0, len(names))
	for _, name := range names {
		groups = append(groups, EntityGroup{Name: name, Entries: buckets[name]})
	}
	return groups
}

// formatTime renders a stored published string for display; unparsable values
// pass through as-is rather than disappearing.
func formatTime(published string) string {
	t := digest.ParseTimeSafe(published)
	if t.IsZero() {
		return published
	}
	return t.In(time.Local).Format("Jan 2, 2006 15:04")
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "…"
}
