package domain

import "strings"

// Hit is one normalised search result. Hit containers from the backend
// are flattened into a single ordered list; backend rank order is
// authoritative and never re-sorted.
type Hit struct {
	// EntityType identifies the kind of content that matched.
	EntityType EntityType

	// Rank is the backend-assigned position within the hit's
	// container, starting at 1.
	Rank int

	// Summary is the backend's match snippet, possibly empty.
	Summary string

	// Resource is the raw per-type payload as returned by the
	// backend. Shapes differ per entity type.
	Resource map[string]any

	// Enrichment holds the result of the optional secondary detail
	// call. Nil when enrichment was not requested or does not apply
	// to this entity type.
	Enrichment *Enrichment
}

// Enrichment is the outcome of a best-effort per-hit detail call.
// A failed call is recorded here and never fails the batch.
type Enrichment struct {
	// Available is true when Detail holds fetched data.
	Available bool

	// Detail is the fetched sub-resource metadata.
	Detail map[string]any

	// Err describes why enrichment is unavailable, when it is.
	Err string
}

// Title extracts a display title from the hit's resource payload.
// Falls back through the common name fields used across entity types.
func (h *Hit) Title() string {
	for _, key := range []string{"name", "subject", "displayName", "title"} {
		if v, ok := h.Resource[key].(string); ok && v != "" {
			return v
		}
	}
	if v, ok := h.Resource["id"].(string); ok {
		return v
	}
	return ""
}

// WebURL extracts the openable link from the hit's resource payload,
// or returns an empty string when none is present.
func (h *Hit) WebURL() string {
	for _, key := range []string{"webUrl", "webLink"} {
		if v, ok := h.Resource[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

// summaryMarkup strips the backend's hit-highlight tokens from match
// snippets. Highlights arrive as tag pairs or private-use glyphs
// depending on the serving tier.
var summaryMarkup = strings.NewReplacer(
	"<c0>", "", "</c0>", "",
	"<b>", "", "</b>", "",
	"<ddd/>", "...",
	"", "", "", "",
)

// PlainSummary returns the hit's match snippet with highlight markup
// removed and surrounding whitespace trimmed.
func (h *Hit) PlainSummary() string {
	return strings.TrimSpace(summaryMarkup.Replace(h.Summary))
}

// SearchResponse is the unified result of one search invocation.
type SearchResponse struct {
	// Hits are the normalised results in backend order.
	Hits []Hit

	// Facets are the aggregated dimensions, when any were planned
	// and the serving tier supports aggregation.
	Facets []FacetResult

	// Total is the backend's total match count across containers.
	// Zero with no hits is a valid empty result, not an error.
	Total int

	// Advisory carries non-fatal notices: entity types dropped by
	// the resolver, backend query alterations. Empty when clean.
	Advisory string

	// Tier records which execution tier produced the response.
	Tier Tier
}
