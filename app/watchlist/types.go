package watchlist

// Entity is a tracked subject: a company whose news items are collected and
// grouped for deduplication.
type Entity struct {
	ID                string   `yaml:"id"`
	DisplayName       string   `yaml:"display_name"`
	GoogleNewsQuery   string   `yaml:"google_news_query"`
	Keywords          []string `yaml:"keywords"`
	YoutubeChannelIDs []string `yaml:"youtube_channel_ids"`
	OfficialSitemaps  []string `yaml:"official_sitemaps"`
	OfficialPages     []string `yaml:"official_pages"`
}

// DedupeSettings overrides the built-in dedupe defaults. A zero
// SimilarityThreshold or empty PrimaryDomains list means "use the default".
type DedupeSettings struct {
	SimilarityThreshold int      `yaml:"similarity_threshold"`
	PrimaryDomains      []string `yaml:"primary_domains"`
}

type Watchlist struct {
	Entities []Entity       `yaml:"entities"`
	Dedupe   DedupeSettings `yaml:"dedupe"`
}
