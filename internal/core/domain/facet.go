package domain

// FacetPlan is one aggregation definition emitted to the backend.
// Plans are produced from the dimension registry by the aggregation
// planner; callers never construct them directly.
type FacetPlan struct {
	// Dimension is the caller-facing dimension name.
	Dimension string

	// Field is the backend property the aggregation groups on.
	Field string

	// Size is the maximum number of buckets to return.
	Size int

	// SortBy orders buckets by "count" or "keyAsString".
	SortBy string

	// Descending orders buckets high-to-low when true.
	Descending bool

	// MinimumCount drops buckets with fewer matches.
	MinimumCount int

	// Ranges optionally fixes the buckets to explicit ranges instead
	// of letting the backend choose (used for recency windows).
	Ranges []FacetRange
}

// FacetRange is one fixed bucket boundary for a range aggregation.
// Open ends are expressed by leaving From or To empty.
type FacetRange struct {
	// From is the inclusive lower bound (backend literal).
	From string

	// To is the exclusive upper bound (backend literal).
	To string
}

// FacetResult is one aggregated dimension extracted from a response
// envelope. Derived per response, never persisted.
type FacetResult struct {
	// Dimension is the caller-facing dimension name.
	Dimension string

	// Buckets are the returned groupings in backend order.
	Buckets []FacetBucket

	// Truncated is true when the backend reported more buckets than
	// the plan's Size allowed.
	Truncated bool
}

// FacetBucket is a single key/count grouping.
type FacetBucket struct {
	// Key is the bucket's value (file type, person, range label...).
	Key string

	// Count is the number of matching hits.
	Count int
}
