package collectors

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/MaxwellProfit/humanoid-robots-monitor/app/digest"
	"github.com/MaxwellProfit/humanoid-robots-monitor/app/watchlist"
)

const googleNewsURLTemplate = "https://news.google.com/rss/search?q=%s&hl=en-US&gl=US&ceid=US:en"

// NewsCollector fetches Google News RSS results for an entity's query and
// turns them into raw items for the day's collection.
type NewsCollector struct {
	parser   *gofeed.Parser
	lookback time.Duration
}

func NewNewsCollector(httpClient *http.Client, userAgent string, lookback time.Duration) *NewsCollector {
	parser := gofeed.NewParser()
	parser.Client = httpClient
	parser.UserAgent = userAgent

	return &NewsCollector{
		parser:   parser,
		lookback: lookback,
	}
}

func (c *NewsCollector) Run(ctx context.Context, entity watchlist.Entity) ([]digest.RawItem, error) {
	query := entity.GoogleNewsQuery
	if query == "" {
		query = entity.DisplayName
	}

	feedURL := fmt.Sprintf(googleNewsURLTemplate, url.QueryEscape(query))
	feed, err := c.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch news feed for %s: %w", entity.ID, err)
	}

	return c.collectEntries(feed, entity), nil
}

func (c *NewsCollector) collectEntries(feed *gofeed.Feed, entity watchlist.Entity) []digest.RawItem {
	cutoff := time.Now().Add(-c.lookback)

	var items []digest.RawItem
	for _, entry := range feed.Items {
		published := entryPublished(entry)
		if t := digest.ParseTimeSafe(published); !t.IsZero() && t.Before(cutoff) {
			continue
		}
		if !matchesKeywords(entity.Keywords, entry.Title, entry.Description) {
			continue
		}

		items = append(items, digest.RawItem{
			EntityID:   entity.ID,
			EntityName: entity.DisplayName,
			SourceFeed: "google_news",
			Title:      entry.Title,
			URL:        entry.Link,
			Published:  published,
			Summary:    entry.Description,
		})
	}

	return items
}

// entryPublished returns the best available timestamp of a feed entry as an
// RFC 3339 string, falling back to the raw feed value, then to empty.
func entryPublished(entry *gofeed.Item) string {
	if entry.PublishedParsed != nil {
		return entry.PublishedParsed.Format(time.RFC3339)
	}
	if entry.UpdatedParsed != nil {
		return entry.UpdatedParsed.Format(time.RFC3339)
	}
	if entry.Published != "" {
		return entry.Published
	}
	return entry.Updated
}

// matchesKeywords reports whether any keyword occurs in the title or summary,
// case-insensitively. An empty keyword list matches everything.
func matchesKeywords(keywords []string, title, summary string) bool {
	if len(keywords) == 0 {
		return true
	}
	haystack := strings.ToLower(title + " " + summary)
	for _, keyword := range keywords {
		if strings.Contains(haystack, strings.ToLower(keyword)) {
			return true
		}
	}
	return false
}
