package digest

import (
	"net/url"
	"strings"
)

var trackingKeysExact = map[string]bool{
	"ref":    true,
	"fbclid": true,
	"gclid":  true,
}

const trackingPrefix = "utm_"

// CanonicalizeURL strips known tracking query parameters from a URL so it can
// serve as a stable identity key. Remaining query pairs keep their original
// relative order, duplicate keys included. On any parse failure the input is
// returned unchanged; the result is idempotent either way.
func CanonicalizeURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}

	filtered, changed := filterTrackingParams(u.RawQuery)
	if !changed {
		return rawURL
	}

	u.RawQuery = filtered
	return u.String()
}

// filterTrackingParams removes tracking pairs from a raw query string without
// re-encoding the pairs it keeps. Keys are matched case-sensitively.
func filterTrackingParams(rawQuery string) (string, bool) {
	if rawQuery == "" {
		return rawQuery, false
	}

	pairs := strings.Split(rawQuery, "&")
	kept := make([]string, 0, len(pairs))
	changed := false

	for _, pair := range pairs {
		key := pair
		if i := strings.Index(pair, "="); i >= 0 {
			key = pair[:i]
		}
		if decoded, err := url.QueryUnescape(key); err == nil {
			key = decoded
		}

		if trackingKeysExact[key] || strings.HasPrefix(key, trackingPrefix) {
			changed = true
			continue
		}
		kept = append(kept, pair)
	}

	if !changed {
		return rawQuery, false
	}
	return strings.Join(kept, "&"), true
}

// DomainOf returns the lowercased host of a URL, or an empty string when the
// URL cannot be parsed or has no host.
func DomainOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Host)
}
