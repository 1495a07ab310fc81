package domain

import "time"

// HistoryEntry records one completed search for the history surface.
// Recording is best-effort; a failed write never fails the search.
type HistoryEntry struct {
	// ID is the unique identifier (UUID).
	ID string

	// QueryText is the caller's free-text query.
	QueryText string

	// Synthesised is the structured query string actually sent.
	Synthesised string

	// EntityTypes are the resolved entity types, comma-joined for display.
	EntityTypes []EntityType

	// Tier is the execution tier that served the request.
	Tier Tier

	// ResultCount is the number of hits returned.
	ResultCount int

	// Total is the backend's total match count.
	Total int

	// Advisory is the advisory surfaced with the results, if any.
	Advisory string

	// Duration is the end-to-end search duration.
	Duration time.Duration

	// CreatedAt is when the search completed.
	CreatedAt time.Time
}
