package domain

// Tier is one request-construction strategy in the fallback chain.
// Tiers are tried strictly in declaration order; the first tier to
// return a structurally valid response is authoritative.
type Tier int

const (
	// TierRich is the full-capability search request: relevance
	// ranking, aggregations, sorting and collapsing.
	TierRich Tier = iota

	// TierText is a plain keyword request against the resolved
	// class's default listing endpoint.
	TierText

	// TierFilter uses only literal predicates translated from the
	// structured filters; no free-text operator support is assumed.
	TierFilter
)

// String returns the tier's display name.
func (t Tier) String() string {
	switch t {
	case TierRich:
		return "rich"
	case TierText:
		return "text"
	case TierFilter:
		return "filter"
	default:
		return "unknown"
	}
}
