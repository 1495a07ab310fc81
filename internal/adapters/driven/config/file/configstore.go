package file

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/meridian-labs/graphseek-cli/internal/core/ports/driven"
)

// Ensure ConfigStore implements the interface.
var _ driven.ConfigStore = (*ConfigStore)(nil)

// defaultDirName is the dot-directory under the user's home.
const defaultDirName = ".graphseek"

// ConfigStore persists configuration as sectioned TOML. Keys use dot
// notation ("search.limit"); on disk every segment before the last
// becomes a TOML table, so the file reads as [search], [auth], [api]
// and [tier] sections rather than a flat key dump.
type ConfigStore struct {
	mu     sync.RWMutex
	path   string
	values map[string]any
}

// NewConfigStore opens (or creates) the config file under configDir.
// An empty configDir means ~/.graphseek. A missing file is not an
// error; the store starts empty and the file appears on first Set.
func NewConfigStore(configDir string) (*ConfigStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		configDir = filepath.Join(home, defaultDirName)
	}
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, err
	}

	s := &ConfigStore{
		path:   filepath.Join(configDir, "config.toml"),
		values: map[string]any{},
	}
	if err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Load replaces the in-memory view with the file's contents.
func (s *ConfigStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.values = map[string]any{}
			return nil
		}
		return err
	}

	var tables map[string]any
	if err := toml.Unmarshal(raw, &tables); err != nil {
		return err
	}

	s.values = map[string]any{}
	collapseTables(s.values, "", tables)
	return nil
}

// Save writes the sectioned TOML file with owner-only permissions.
func (s *ConfigStore) Save() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.persist()
}

// Set stores a value and persists immediately.
func (s *ConfigStore) Set(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return s.persist()
}

// persist marshals the current view. Caller holds the lock.
func (s *ConfigStore) persist() error {
	doc, err := toml.Marshal(expandTables(s.values))
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, doc, 0600)
}

// Get returns the raw value for a dot-notation key.
func (s *ConfigStore) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

// GetString returns a string value, or "" for missing or non-strings.
func (s *ConfigStore) GetString(key string) string {
	v, _ := s.Get(key)
	str, _ := v.(string)
	return str
}

// GetInt accepts the integer shapes TOML decoding produces.
func (s *ConfigStore) GetInt(key string) int {
	v, _ := s.Get(key)
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	default:
		return 0
	}
}

// GetBool returns a bool value, or false for missing or non-bools.
func (s *ConfigStore) GetBool(key string) bool {
	v, _ := s.Get(key)
	b, _ := v.(bool)
	return b
}

// GetStringSlice returns a string list. TOML arrays decode as []any;
// non-string elements are skipped.
func (s *ConfigStore) GetStringSlice(key string) []string {
	v, _ := s.Get(key)
	switch list := v.(type) {
	case []string:
		return list
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			if str, ok := item.(string); ok {
				out = append(out, str)
			}
		}
		return out
	}
	return nil
}

// Path returns the backing file path.
func (s *ConfigStore) Path() string {
	return s.path
}

// collapseTables folds nested TOML tables into dot-notation keys.
func collapseTables(flat map[string]any, prefix string, tables map[string]any) {
	for name, v := range tables {
		key := name
		if prefix != "" {
			key = prefix + "." + name
		}
		if table, ok := v.(map[string]any); ok {
			collapseTables(flat, key, table)
			continue
		}
		flat[key] = v
	}
}

// expandTables is the inverse: dot-notation keys become nested tables,
// so the saved file keeps its [section] layout.
func expandTables(flat map[string]any) map[string]any {
	root := map[string]any{}
	for key, v := range flat {
		parts := strings.Split(key, ".")
		node := root
		for _, part := range parts[:len(parts)-1] {
			child, ok := node[part].(map[string]any)
			if !ok {
				child = map[string]any{}
				node[part] = child
			}
			node = child
		}
		node[parts[len(parts)-1]] = v
	}
	return root
}
