package domain

// Query describes one unified search invocation. A Query is built fresh
// per call and never mutated after construction; services derive new
// values instead of writing back.
type Query struct {
	// Text is the free-text part of the query. May be empty when the
	// structured filters fully specify intent.
	Text string

	// EntityTypes is the requested entity-type set. Empty means the
	// default set. The resolver narrows mixed-class sets before the
	// backend ever sees them.
	EntityTypes []EntityType

	// Filters holds the structured predicates merged into the
	// synthesised query string.
	Filters FilterSet

	// Facets names the requested aggregation dimensions, in order.
	// Unknown names are dropped by the planner.
	Facets []string

	// Size is the requested page size. Clamped to [1, MaxPageSize];
	// zero means DefaultPageSize.
	Size int

	// From is the result offset. Negative values clamp to zero.
	From int

	// Sort optionally orders results by a backend field instead of
	// relevance rank.
	Sort *SortSpec

	// CollapseFields requests duplicate collapsing on the named fields.
	// Only honoured for entity classes that support collapsing.
	CollapseFields []string

	// Relevance opts into backend relevance ranking, which forces the
	// richest execution tier to be tried first.
	Relevance bool

	// Enrich enables best-effort per-hit enrichment calls.
	Enrich bool
}

// FilterSet holds the optional structured predicates of a Query.
// The zero value means "no filters".
type FilterSet struct {
	// FileTypes restricts matches to the given file extensions
	// (without dots, e.g. "docx").
	FileTypes []string

	// After bounds the modification date from below. Accepts
	// "YYYY-MM-DD" or a relative token such as "7 days ago".
	After string

	// Before bounds the modification date from above. Same formats
	// as After.
	Before string

	// Raw is a backend-native clause appended verbatim as the last
	// clause of the synthesised query.
	Raw string

	// From matches the sender of a message.
	From string

	// To matches a recipient of a message.
	To string

	// Subject matches words in the subject or title.
	Subject string

	// HasAttachment filters on attachment presence when non-nil.
	HasAttachment *bool

	// IsRead filters on read state when non-nil.
	IsRead *bool

	// Importance filters on message importance (low, normal, high).
	Importance string
}

// IsZero reports whether no filter is set at all.
func (f FilterSet) IsZero() bool {
	return len(f.FileTypes) == 0 &&
		f.After == "" &&
		f.Before == "" &&
		f.Raw == "" &&
		f.From == "" &&
		f.To == "" &&
		f.Subject == "" &&
		f.HasAttachment == nil &&
		f.IsRead == nil &&
		f.Importance == ""
}

// FieldPredicateCount returns the number of field-level predicates set.
// Used by the tier policy's complexity measure.
func (f FilterSet) FieldPredicateCount() int {
	n := 0
	if f.From != "" {
		n++
	}
	if f.To != "" {
		n++
	}
	if f.Subject != "" {
		n++
	}
	if f.HasAttachment != nil {
		n++
	}
	if f.IsRead != nil {
		n++
	}
	if f.Importance != "" {
		n++
	}
	return n
}

// HasDateRange reports whether either date bound is present.
func (f FilterSet) HasDateRange() bool {
	return f.After != "" || f.Before != ""
}

// HasListingPredicates reports whether any filter other than the raw
// passthrough clause is set. Raw clauses ride the query string verbatim
// and cannot be re-expressed as listing predicates.
func (f FilterSet) HasListingPredicates() bool {
	withoutRaw := f
	withoutRaw.Raw = ""
	return !withoutRaw.IsZero()
}

// SortSpec orders results by a single backend field.
type SortSpec struct {
	// Field is the backend property name to sort on.
	Field string

	// Descending sorts high-to-low when true.
	Descending bool
}

// Pagination bounds imposed by the backend.
const (
	// DefaultPageSize is used when the caller does not specify a size.
	DefaultPageSize = 25

	// MaxPageSize is the backend's hard page-size ceiling.
	MaxPageSize = 500
)
