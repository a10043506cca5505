package collectors

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"

	"github.com/MaxwellProfit/humanoid-robots-monitor/app/database"
	"github.com/MaxwellProfit/humanoid-robots-monitor/app/digest"
	"github.com/MaxwellProfit/humanoid-robots-monitor/app/watchlist"
)

const (
	maxPagesPerEntity = 10
	snippetMaxRunes   = 300
)

// SiteCollector monitors official sites through their sitemaps and a short
// list of specific pages. It is not a scraper: it only picks up pages that
// are new or changed since the last run (tracked in site_state) and extracts
// the title plus a short snippet from each.
type SiteCollector struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	stateRepo  database.SiteStateRepository
	userAgent  string
	lookback   time.Duration
}

func NewSiteCollector(httpClient *http.Client, stateRepo database.SiteStateRepository,
	userAgent string, lookback time.Duration) *SiteCollector {
	return &SiteCollector{
		httpClient: httpClient,
		// One request every two seconds keeps the crawl polite.
		limiter:   rate.NewLimiter(rate.Every(2*time.Second), 1),
		stateRepo: stateRepo,
		userAgent: userAgent,
		lookback:  lookback,
	}
}

func (c *SiteCollector) Run(ctx context.Context, entity watchlist.Entity) ([]digest.RawItem, error) {
	candidates := make([]sitemapURL, 0, maxPagesPerEntity)

	for _, sitemap := range entity.OfficialSitemaps {
		urls, err := c.fetchSitemap(ctx, sitemap)
		if err != nil {
			slog.Warn("Failed to fetch sitemap", "entity", entity.ID, "sitemap", sitemap, "error", err)
			continue
		}
		candidates = append(candidates, c.selectCandidates(urls)...)
	}

	for _, page := range entity.OfficialPages {
		candidates = append(candidates, sitemapURL{Loc: page})
	}

	if len(candidates) > maxPagesPerEntity {
		candidates = candidates[:maxPagesPerEntity]
	}

	var items []digest.RawItem
	for _, candidate := range candidates {
		item, err := c.checkPage(ctx, entity, candidate)
		if err != nil {
			if ctx.Err() != nil {
				return items, ctx.Err()
			}
			slog.Warn("Failed to check page", "entity", entity.ID, "url", candidate.Loc, "error", err)
			continue
		}
		if item != nil {
			items = append(items, *item)
		}
	}

	return items, nil
}

// selectCandidates keeps sitemap URLs with a recent lastmod, plus ones with
// no lastmod at all (those are settled later against the seen-state).
func (c *SiteCollector) selectCandidates(urls []sitemapURL) []sitemapURL {
	cutoff := time.Now().Add(-c.lookback)

	selected := make([]sitemapURL, 0, len(urls))
	for _, u := range urls {
		if u.Loc == "" {
			continue
		}
		if u.LastMod != "" {
			if t := digest.ParseTimeSafe(u.LastMod); !t.IsZero() && t.Before(cutoff) {
				continue
			}
		}
		selected = append(selected, u)
	}
	return selected
}

// checkPage fetches a page conditionally and reports it as a raw item when it
// is new or its validators changed. Unchanged pages only get their state
// touched.
func (c *SiteCollector) checkPage(ctx context.Context, entity watchlist.Entity, candidate sitemapURL) (*digest.RawItem, error) {
	state, err := c.stateRepo.GetState(candidate.Loc)
	if err != nil {
		return nil, err
	}

	// A sitemap entry without lastmod that we have already recorded is
	// assumed unchanged; the conditional request below covers the rest.
	if state != nil && candidate.LastMod == "" && state.LastModified == "" && state.ETag == "" {
		return nil, c.touchState(state)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, candidate.Loc, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	if state != nil {
		if state.ETag != "" {
			req.Header.Set("If-None-Match", state.ETag)
		}
		if state.LastModified != "" {
			req.Header.Set("If-Modified-Since", state.LastModified)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotModified {
		return nil, c.touchState(state)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected HTTP status %d", resp.StatusCode)
	}

	etag := resp.Header.Get("ETag")
	lastModified := resp.Header.Get("Last-Modified")

	newState := database.SiteState{
		URL:          candidate.Loc,
		EntityID:     entity.ID,
		ETag:         etag,
		LastModified: lastModified,
	}
	if err := c.stateRepo.UpsertState(newState); err != nil {
		return nil, err
	}

	// Validators unchanged means the page content is the same as last time.
	if state != nil && (etag != "" || lastModified != "") &&
		state.ETag == etag && state.LastModified == lastModified {
		return nil, nil
	}

	title, snippet, err := extractPageContent(resp.Body)
	if err != nil {
		return nil, err
	}
	if title == "" {
		title = candidate.Loc
	}

	published := candidate.LastMod
	if published == "" {
		published = lastModified
	}

	return &digest.RawItem{
		EntityID:   entity.ID,
		EntityName: entity.DisplayName,
		SourceFeed: "official_site",
		Title:      title,
		URL:        candidate.Loc,
		Published:  published,
		Summary:    snippet,
	}, nil
}

func (c *SiteCollector) touchState(state *database.SiteState) error {
	if state == nil {
		return nil
	}
	return c.stateRepo.UpsertState(*state)
}

func (c *SiteCollector) fetchSitemap(ctx context.Context, sitemapURLStr string) ([]sitemapURL, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sitemapURLStr, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch sitemap: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected HTTP status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read sitemap body: %w", err)
	}

	return parseSitemap(data)
}

// extractPageContent pulls the document title and a short snippet: the meta
// description when present, otherwise the first non-empty paragraph.
func extractPageContent(body io.Reader) (string, string, error) {
	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return "", "", fmt.Errorf("failed to parse page HTML: %w", err)
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())

	snippet := strings.TrimSpace(doc.Find(`meta[name="description"]`).AttrOr("content", ""))
	if snippet == "" {
		snippet = strings.TrimSpace(doc.Find(`meta[property="og:description"]`).AttrOr("content", ""))
	}
	if snippet == "" {
		doc.Find("p").EachWithBreak(func(_ int, s *goquery.Selection) bool {
			text := strings.TrimSpace(s.Text())
			if text != "" {
				snippet = text
				return false
			}
			return true
		})
	}

	if runes := []rune(snippet); len(runes) > snippetMaxRunes {
		snippet = string(runes[:snippetMaxRunes]) + "…"
	}

	return title, snippet, nil
}
