package database

import (
	"time"
)

// DigestEntry is a stored digest row. Position preserves the assembled order
// so reads return the digest exactly as it was built.
type DigestEntry struct {
	ID         int64
	Day        string
	Position   int
	EntityID   string
	EntityName string
	SourceFeed string
	Title      string
	URL        string
	Domain     string
	Published  string
	Summary    string
	CreatedAt  time.Time
}

// SiteState tracks what the official-site collector has already seen for a
// page URL, so unchanged pages are not re-reported.
type SiteState struct {
	URL           string
	EntityID      string
	ETag          string
	LastModified  string
	FirstSeenAt   time.Time
	LastCheckedAt time.Time
}

// Stats summarizes stored data for the /stats endpoint.
type Stats struct {
	RawItemCount     int
	DigestEntryCount int
	DayCount         int
	LatestDay        string
}
