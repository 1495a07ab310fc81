package driving

import "github.com/meridian-labs/graphseek-cli/internal/core/domain"

// ConfigEntry is one known configuration key with its effective value.
type ConfigEntry struct {
	// Key is the dotted configuration key.
	Key string

	// Value is the display form of the effective value.
	Value string

	// Default is true when the value is the built-in default rather
	// than an explicitly stored one.
	Default bool
}

// SearchDefaults are the configured per-query defaults applied when a
// caller does not say otherwise.
type SearchDefaults struct {
	// Limit is the default page size.
	Limit int

	// EntityTypes is the default entity-type set.
	EntityTypes []domain.EntityType

	// Enrich enables per-hit enrichment by default.
	Enrich bool

	// Relevance forces backend relevance ranking by default.
	Relevance bool
}

// ConfigService reads and writes the known configuration keys.
// Keys outside the known set are rejected rather than stored.
type ConfigService interface {
	// Get returns the effective value for a known key.
	Get(key string) (string, error)

	// Set validates, coerces and persists a value for a known key.
	Set(key, value string) error

	// List returns every known key with its effective value, sorted
	// by key.
	List() []ConfigEntry

	// SearchDefaults returns the configured per-query defaults.
	SearchDefaults() SearchDefaults

	// Path returns the backing file path.
	Path() string
}
