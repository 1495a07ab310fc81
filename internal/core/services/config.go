package services

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/meridian-labs/graphseek-cli/internal/core/domain"
	"github.com/meridian-labs/graphseek-cli/internal/core/ports/driven"
	"github.com/meridian-labs/graphseek-cli/internal/core/ports/driving"
)

// Ensure ConfigService implements the interface.
var _ driving.ConfigService = (*ConfigService)(nil)

// Config keys understood by the commands and services.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keySearchLimit       = "search.limit"
	keySearchEntityTypes = "search.entity_types"
	keySearchEnrich      = "search.enrich"
	keySearchRelevance   = "search.relevance"
	keyTierBooleanOps    = "tier.max_boolean_ops"
	keyTierFieldPreds    = "tier.max_field_predicates"
	keyAPIBaseURL        = "api.base_url"
	keyAPITimeout        = "api.timeout_seconds"
	keyAuthTenant        = "auth.tenant"
	keyAuthClientID      = "auth.client_id"
	keyAuthClientSecret  = "auth.client_secret"
	keyAuthScopes        = "auth.scopes"
)

// keyKind is the value type a configuration key accepts.
type keyKind int

const (
	kindString keyKind = iota
	kindInt
	kindBool
	kindStrings
	kindSecret
)

// keySpec describes one known key: its type and built-in default in
// display form.
type keySpec struct {
	kind keyKind
	def  string
}

// configKeys is the closed registry of known keys. Set rejects
// anything outside it, so typos never end up in the file.
var configKeys = map[string]keySpec{
	keySearchLimit:       {kind: kindInt, def: strconv.Itoa(domain.DefaultPageSize)},
	keySearchEntityTypes: {kind: kindStrings, def: joinDisplay(domain.DefaultEntityTypes())},
	keySearchEnrich:      {kind: kindBool, def: "false"},
	keySearchRelevance:   {kind: kindBool, def: "false"},
	keyTierBooleanOps:    {kind: kindInt, def: "1"},
	keyTierFieldPreds:    {kind: kindInt, def: "2"},
	keyAPIBaseURL:        {kind: kindString, def: "https://graph.microsoft.com/v1.0"},
	keyAPITimeout:        {kind: kindInt, def: "30"},
	keyAuthTenant:        {kind: kindString, def: ""},
	keyAuthClientID:      {kind: kindString, def: ""},
	keyAuthClientSecret:  {kind: kindSecret, def: ""},
	keyAuthScopes:        {kind: kindStrings, def: ""},
}

// ConfigService exposes the known configuration keys over the config
// store, with validation and type coercion on writes.
type ConfigService struct {
	store driven.ConfigStore
}

// NewConfigService creates a new config service.
func NewConfigService(store driven.ConfigStore) *ConfigService {
	return &ConfigService{store: store}
}

// Get returns the effective value for a known key.
func (s *ConfigService) Get(key string) (string, error) {
	spec, ok := configKeys[key]
	if !ok {
		return "", fmt.Errorf("%w: unknown config key %q", domain.ErrNotFound, key)
	}
	value, _ := s.displayValue(key, spec)
	return value, nil
}

// Set validates, coerces and persists a value for a known key.
func (s *ConfigService) Set(key, value string) error {
	spec, ok := configKeys[key]
	if !ok {
		return fmt.Errorf("%w: unknown config key %q", domain.ErrInvalidInput, key)
	}

	coerced, err := coerceValue(spec.kind, value)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrInvalidInput, key, err)
	}

	if err := s.store.Set(key, coerced); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// List returns every known key with its effective value, sorted by key.
func (s *ConfigService) List() []driving.ConfigEntry {
	keys := make([]string, 0, len(configKeys))
	for key := range configKeys {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	entries := make([]driving.ConfigEntry, len(keys))
	for i, key := range keys {
		value, isDefault := s.displayValue(key, configKeys[key])
		entries[i] = driving.ConfigEntry{Key: key, Value: value, Default: isDefault}
	}
	return entries
}

// SearchDefaults returns the configured per-query defaults.
func (s *ConfigService) SearchDefaults() driving.SearchDefaults {
	defaults := driving.SearchDefaults{
		Limit:     s.getInt(keySearchLimit, domain.DefaultPageSize),
		Enrich:    s.getBool(keySearchEnrich, false),
		Relevance: s.getBool(keySearchRelevance, false),
	}

	for _, tag := range s.store.GetStringSlice(keySearchEntityTypes) {
		if et, ok := domain.ParseEntityType(tag); ok {
			defaults.EntityTypes = append(defaults.EntityTypes, et)
		}
	}
	return defaults
}

// Path returns the backing file path.
func (s *ConfigService) Path() string {
	return s.store.Path()
}

// TierPolicyFromConfig derives the complexity thresholds from config,
// falling back to the built-in defaults for unset or nonsense values.
func TierPolicyFromConfig(store driven.ConfigStore) TierPolicy {
	policy := DefaultTierPolicy()
	if v := store.GetInt(keyTierBooleanOps); v > 0 {
		policy.MaxBooleanOps = v
	}
	if v := store.GetInt(keyTierFieldPreds); v > 0 {
		policy.MaxFieldPredicates = v
	}
	return policy
}

// displayValue resolves a key to its display string, reporting whether
// the built-in default was used.
func (s *ConfigService) displayValue(key string, spec keySpec) (string, bool) {
	switch spec.kind {
	case kindInt:
		if v := s.store.GetInt(key); v != 0 {
			return strconv.Itoa(v), false
		}
	case kindBool:
		if _, exists := s.store.Get(key); exists {
			return strconv.FormatBool(s.store.GetBool(key)), false
		}
	case kindStrings:
		if v := s.store.GetStringSlice(key); len(v) > 0 {
			return strings.Join(v, ","), false
		}
	case kindSecret:
		if v := s.store.GetString(key); v != "" {
			return maskSecret(v), false
		}
	default:
		if v := s.store.GetString(key); v != "" {
			return v, false
		}
	}
	return spec.def, true
}

// coerceValue converts a raw string into the typed value a key stores.
func coerceValue(kind keyKind, value string) (any, error) {
	switch kind {
	case kindInt:
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return nil, fmt.Errorf("expected an integer, got %q", value)
		}
		return n, nil
	case kindBool:
		b, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return nil, fmt.Errorf("expected true or false, got %q", value)
		}
		return b, nil
	case kindStrings:
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out, nil
	default:
		return strings.TrimSpace(value), nil
	}
}

// getInt reads an int key, treating zero as unset.
func (s *ConfigService) getInt(key string, defaultVal int) int {
	if v := s.store.GetInt(key); v != 0 {
		return v
	}
	return defaultVal
}

// getBool reads a bool key, distinguishing unset from explicit false.
func (s *ConfigService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.store.Get(key); !exists {
		return defaultVal
	}
	return s.store.GetBool(key)
}

// maskSecret hides all but the edges of a stored secret.
func maskSecret(v string) string {
	if len(v) <= 8 {
		return "****"
	}
	return v[:4] + "..." + v[len(v)-4:]
}

func joinDisplay(types []domain.EntityType) string {
	names := make([]string, len(types))
	for i, et := range types {
		names[i] = string(et)
	}
	return strings.Join(names, ",")
}
