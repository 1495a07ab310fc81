package search

import "errors"

// ErrNoSearchService is returned when the view is asked to search
// without a search service wired in.
var ErrNoSearchService = errors.New("search: search service is required")
