package services

import "github.com/meridian-labs/graphseek-cli/internal/core/domain"

// ClampSize normalises a requested page size to what the backend
// accepts: zero or negative falls back to the default, anything over
// the ceiling is cut to the ceiling. Out-of-range input is never an
// error.
func ClampSize(size int) int {
	if size <= 0 {
		return domain.DefaultPageSize
	}
	if size > domain.MaxPageSize {
		return domain.MaxPageSize
	}
	return size
}

// ClampOffset normalises a result offset to be non-negative.
func ClampOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}
