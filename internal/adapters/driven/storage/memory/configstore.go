// Package memory provides in-memory implementations of driven ports:
// the graph store every analysis run describes into, and config stores
// used for tests and command-line overrides.
package memory

import (
	"sync"

	"github.com/custodia-labs/sercha-inspect/internal/core/ports/driven"
)

// Ensure the stores implement the interface.
var (
	_ driven.ConfigStore = (*ConfigStore)(nil)
	_ driven.ConfigStore = (*Overlay)(nil)
)

// ConfigStore is an in-memory implementation of driven.ConfigStore.
type ConfigStore struct {
	mu     sync.RWMutex
	values map[string]any
}

// NewConfigStore creates a new in-memory config store.
func NewConfigStore() *ConfigStore {
	return &ConfigStore{
		values: make(map[string]any),
	}
}

// Get retrieves a configuration value by key.
func (s *ConfigStore) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	val, ok := s.values[key]
	return val, ok
}

// GetString retrieves a string configuration value.
func (s *ConfigStore) GetString(key string) string {
	val, _ := s.Get(key)
	return asString(val)
}

// GetInt retrieves an integer configuration value.
func (s *ConfigStore) GetInt(key string) int {
	val, _ := s.Get(key)
	return asInt(val)
}

// GetInt64 retrieves a wide integer configuration value.
func (s *ConfigStore) GetInt64(key string) int64 {
	val, _ := s.Get(key)
	return asInt64(val)
}

// GetStringSlice retrieves a string slice configuration value.
func (s *ConfigStore) GetStringSlice(key string) []string {
	val, _ := s.Get(key)
	return asStrings(val)
}

// Set stores a configuration value.
func (s *ConfigStore) Set(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

// Delete removes a key.
func (s *ConfigStore) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
}

// Save persists the current configuration (no-op for memory store).
func (s *ConfigStore) Save() error {
	return nil
}

// Load reads configuration from storage (no-op for memory store).
func (s *ConfigStore) Load() error {
	return nil
}

// Path returns the configuration file path.
func (s *ConfigStore) Path() string {
	return ":memory:"
}

// Overlay layers in-memory values over another store. Reads prefer the
// overlay; Set only touches the overlay, so overrides (command-line flags)
// are never written back to the base. Save and Load go to the base.
type Overlay struct {
	base      driven.ConfigStore
	overrides *ConfigStore
}

// NewOverlay creates an overlay over base.
func NewOverlay(base driven.ConfigStore) *Overlay {
	return &Overlay{base: base, overrides: NewConfigStore()}
}

// Get implements driven.ConfigStore.
func (o *Overlay) Get(key string) (any, bool) {
	if val, ok := o.overrides.Get(key); ok {
		return val, true
	}
	return o.base.Get(key)
}

// GetString implements driven.ConfigStore.
func (o *Overlay) GetString(key string) string {
	if val, ok := o.overrides.Get(key); ok {
		return asString(val)
	}
	return o.base.GetString(key)
}

// GetInt implements driven.ConfigStore.
func (o *Overlay) GetInt(key string) int {
	if val, ok := o.overrides.Get(key); ok {
		return asInt(val)
	}
	return o.base.GetInt(key)
}

// GetInt64 implements driven.ConfigStore.
func (o *Overlay) GetInt64(key string) int64 {
	if val, ok := o.overrides.Get(key); ok {
		return asInt64(val)
	}
	return o.base.GetInt64(key)
}

// GetStringSlice implements driven.ConfigStore.
func (o *Overlay) GetStringSlice(key string) []string {
	if val, ok := o.overrides.Get(key); ok {
		return asStrings(val)
	}
	return o.base.GetStringSlice(key)
}

// Set records an override.
func (o *Overlay) Set(key string, value any) error {
	return o.overrides.Set(key, value)
}

// Save persists the base store. Overrides are not saved.
func (o *Overlay) Save() error {
	return o.base.Save()
}

// Load reloads the base store.
func (o *Overlay) Load() error {
	return o.base.Load()
}

// Path returns the base store path.
func (o *Overlay) Path() string {
	return o.base.Path()
}

func asString(val any) string {
	str, _ := val.(string)
	return str
}

func asInt(val any) int {
	return int(asInt64(val))
}

// asInt64 handles int, int64 and float64 since values may come from TOML,
// JSON or command-line flags.
func asInt64(val any) int64 {
	switch v := val.(type) {
	case int:
		return int64(v)
	case int64:
		return v
	case float64:
		return int64(v)
	default:
		return 0
	}
}

func asStrings(val any) []string {
	switch v := val.(type) {
	case []string:
		return v
	case []any:
		result := make([]string, 0, len(v))
		for _, item := range v {
			if str, ok := item.(string); ok {
				result = append(result, str)
			}
		}
		return result
	default:
		return nil
	}
}
