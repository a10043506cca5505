package collectors

import (
	"encoding/xml"
	"fmt"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod"`
}

// parseSitemap extracts page URLs and their lastmod values from a sitemap
// urlset document.
func parseSitemap(data []byte) ([]sitemapURL, error) {
	var urlset sitemapURLSet
	if err := xml.Unmarshal(data, &urlset); err != nil {
		return nil, fmt.Errorf("failed to parse sitemap: %w", err)
	}
	return urlset.URLs, nil
}
