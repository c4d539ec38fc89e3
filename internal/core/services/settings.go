package services

import (
	"fmt"

	"github.com/custodia-labs/sercha-inspect/internal/core/domain"
	"github.com/custodia-labs/sercha-inspect/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-inspect/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyHashAlgorithms  = "hash.algorithms"
	keyHashPreferred   = "hash.preferred"
	keyMaxDepth        = "analysis.max_depth"
	keyMaxInlineLength = "analysis.max_inline_length"
	keySpillThreshold  = "analysis.spill_threshold"
	keyChunkSize       = "analysis.chunk_size"
	keyTempDir         = "analysis.temp_dir"
	keyExclude         = "analysis.exclude"
	keyFormatWorkers   = "analysis.format_workers"
	keyCacheSize       = "analysis.cache_size"
)

// SettingsService manages engine settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
	}
}

// Get retrieves current settings. Unset keys take their default value.
func (s *SettingsService) Get() (*domain.Settings, error) {
	defaults := domain.DefaultSettings()

	settings := &domain.Settings{
		Hash: domain.HashSettings{
			Algorithms: s.getStrings(keyHashAlgorithms, defaults.Hash.Algorithms),
			Preferred:  s.getStrings(keyHashPreferred, defaults.Hash.Preferred),
		},
		Analysis: domain.AnalysisSettings{
			MaxDepth:        s.getInt(keyMaxDepth, defaults.Analysis.MaxDepth),
			MaxInlineLength: s.getInt(keyMaxInlineLength, defaults.Analysis.MaxInlineLength),
			SpillThreshold:  s.getInt64(keySpillThreshold, defaults.Analysis.SpillThreshold),
			ChunkSize:       s.getInt(keyChunkSize, defaults.Analysis.ChunkSize),
			TempDir:         s.configStore.GetString(keyTempDir),
			Exclude:         s.getStrings(keyExclude, defaults.Analysis.Exclude),
			FormatWorkers:   s.getInt(keyFormatWorkers, defaults.Analysis.FormatWorkers),
			CacheSize:       s.getInt(keyCacheSize, defaults.Analysis.CacheSize),
		},
	}

	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("settings from %s: %w", s.configStore.Path(), err)
	}
	return settings, nil
}

// Save persists settings.
func (s *SettingsService) Save(settings *domain.Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	values := []struct {
		key   string
		value any
	}{
		{keyHashAlgorithms, settings.Hash.Algorithms},
		{keyHashPreferred, settings.Hash.Preferred},
		{keyMaxDepth, settings.Analysis.MaxDepth},
		{keyMaxInlineLength, settings.Analysis.MaxInlineLength},
		{keySpillThreshold, settings.Analysis.SpillThreshold},
		{keyChunkSize, settings.Analysis.ChunkSize},
		{keyTempDir, settings.Analysis.TempDir},
		{keyExclude, settings.Analysis.Exclude},
		{keyFormatWorkers, settings.Analysis.FormatWorkers},
		{keyCacheSize, settings.Analysis.CacheSize},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	return s.configStore.Save()
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.Settings {
	return domain.DefaultSettings()
}

// getInt returns a config int or the default if the key is unset.
func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, ok := s.configStore.Get(key); !ok {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

// getInt64 returns a config int64 or the default if the key is unset.
func (s *SettingsService) getInt64(key string, defaultVal int64) int64 {
	if _, ok := s.configStore.Get(key); !ok {
		return defaultVal
	}
	return s.configStore.GetInt64(key)
}

// getStrings returns a config string list or the default if the key is unset.
func (s *SettingsService) getStrings(key string, defaultVal []string) []string {
	if _, ok := s.configStore.Get(key); !ok {
		return defaultVal
	}
	return s.configStore.GetStringSlice(key)
}
