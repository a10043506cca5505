package collectors

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/MaxwellProfit/humanoid-robots-monitor/app/digest"
	"github.com/MaxwellProfit/humanoid-robots-monitor/app/watchlist"
)

const youtubeFeedURLTemplate = "https://www.youtube.com/feeds/videos.xml?channel_id=%s"

// YoutubeCollector fetches the upload feeds of an entity's YouTube channels.
type YoutubeCollector struct {
	parser   *gofeed.Parser
	lookback time.Duration
}

func NewYoutubeCollector(httpClient *http.Client, userAgent string, lookback time.Duration) *YoutubeCollector {
	parser := gofeed.NewParser()
	parser.Client = httpClient
	parser.UserAgent = userAgent

	return &YoutubeCollector{
		parser:   parser,
		lookback: lookback,
	}
}

func (c *YoutubeCollector) Run(ctx context.Context, entity watchlist.Entity) ([]digest.RawItem, error) {
	cutoff := time.Now().Add(-c.lookback)

	var items []digest.RawItem
	for _, channelID := range entity.YoutubeChannelIDs {
		feedURL := fmt.Sprintf(youtubeFeedURLTemplate, channelID)
		feed, err := c.parser.ParseURLWithContext(feedURL, ctx)
		if err != nil {
			return items, fmt.Errorf("failed to fetch youtube feed %s for %s: %w", channelID, entity.ID, err)
		}

		for _, entry := range feed.Items {
			published := entryPublished(entry)
			if t := digest.ParseTimeSafe(published); !t.IsZero() && t.Before(cutoff) {
				continue
			}

			items = append(items, digest.RawItem{
				EntityID:   entity.ID,
				EntityName: entity.DisplayName,
				SourceFeed: "youtube",
				Title:      entry.Title,
				URL:        entry.Link,
				Published:  published,
				Summary:    entry.Description,
			})
		}
	}

	return items, nil
}
