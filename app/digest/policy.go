package digest

import (
	"strings"
)

// DefaultPrimaryDomains marks sources that are considered more authoritative
// than ordinary reposts: official company domains plus investor-relations,
// newsroom and press style hosts. Substring match on the lowercased domain.
var DefaultPrimaryDomains = []string{
	"tesla.com",
	"bostondynamics.com",
	"apptronik.com",
	"figure.ai",
	"sanctuary.ai",
	"sec.gov",
	"investor",
	"ir.",
	"newsroom",
	"press",
	"blog",
}

// Policy decides which of two duplicate items survives. The keyword table is
// injectable so the authority heuristic can be replaced without touching the
// merge logic.
type Policy struct {
	primaryDomains []string
}

func NewPolicy(primaryDomains []string) *Policy {
	if len(primaryDomains) == 0 {
		primaryDomains = DefaultPrimaryDomains
	}
	return &Policy{primaryDomains: primaryDomains}
}

// IsPrimaryDomain reports whether a domain matches any configured keyword.
func (p *Policy) IsPrimaryDomain(domain string) bool {
	d := strings.ToLower(domain)
	for _, keyword := range p.primaryDomains {
		if strings.Contains(d, keyword) {
			return true
		}
	}
	return false
}

// ChooseBetter selects which of two duplicates to retain. Criteria in order,
// each consulted only when the previous one ties:
//  1. primary domain beats non-primary
//  2. shorter canonical URL wins
//  3. earlier published time wins (unparsable counts as the minimum)
//  4. the left-hand argument wins
func (p *Policy) ChooseBetter(a, b Item) Item {
	aPrimary := p.IsPrimaryDomain(a.Domain)
	bPrimary := p.IsPrimaryDomain(b.Domain)
	if aPrimary && !bPrimary {
		return a
	}
	if bPrimary && !aPrimary {
		return b
	}

	if len(a.URL) != len(b.URL) {
		if len(a.URL) < len(b.URL) {
			return a
		}
		return b
	}

	aTime := ParseTimeSafe(a.Published)
	bTime := ParseTimeSafe(b.Published)
	if !aTime.Equal(bTime) {
		if aTime.Before(bTime) {
			return a
		}
		return b
	}

	return a
}
