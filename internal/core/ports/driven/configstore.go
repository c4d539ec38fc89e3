package driven

// ConfigStore provides access to engine configuration as dotted keys
// ("analysis.max_depth"). Implementations handle persistence (TOML files,
// in-memory overlays) and type conversion.
type ConfigStore interface {
	// Get retrieves a configuration value by key.
	// Returns the value and a boolean indicating if the key exists.
	Get(key string) (any, bool)

	// GetString retrieves a string configuration value.
	// Returns empty string if key doesn't exist or isn't a string.
	GetString(key string) string

	// GetInt retrieves an integer configuration value.
	// Returns 0 if key doesn't exist or isn't an integer.
	GetInt(key string) int

	// GetInt64 retrieves a byte size or other wide integer value.
	// Returns 0 if key doesn't exist or isn't an integer.
	GetInt64(key string) int64

	// GetStringSlice retrieves a string slice configuration value.
	// Returns nil if key doesn't exist or isn't a slice.
	GetStringSlice(key string) []string

	// Set stores a configuration value. File-backed stores persist it
	// immediately; overlays keep it in memory.
	Set(key string, value any) error

	// Save persists the current configuration to storage.
	Save() error

	// Load reads configuration from storage.
	Load() error

	// Path returns the configuration file path, or a label for stores
	// without one.
	Path() string
}
