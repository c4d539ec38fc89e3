package domain

import (
	"errors"
	"fmt"
)

// Setting validation errors.
var (
	// ErrNoHashAlgorithms indicates the configured hash list is empty.
	ErrNoHashAlgorithms = errors.New("no hash algorithms configured")

	// ErrInvalidSetting indicates a numeric setting is out of range.
	ErrInvalidSetting = errors.New("invalid setting")
)

// HashSettings selects which hash algorithms run over every content object.
type HashSettings struct {
	// Algorithms is the ordered list of hash algorithm names to compute.
	Algorithms []string

	// Preferred lists algorithms, in order, used to derive node identities
	// for content too large to embed.
	Preferred []string
}

// AnalysisSettings tunes the classifier and the recursion.
type AnalysisSettings struct {
	// MaxDepth bounds recursive format matching. Entities deeper than this
	// are still classified and hashed, but no formats are tried.
	MaxDepth int

	// MaxInlineLength overrides the derived inline threshold when positive.
	MaxInlineLength int

	// SpillThreshold is the size above which re-readable copies of
	// single-access content are spilled to a temporary file.
	SpillThreshold int64

	// ChunkSize is the read size of the sequential read loop.
	ChunkSize int

	// TempDir holds spill files. Empty means os.TempDir().
	TempDir string

	// Exclude lists glob patterns; matching children are skipped.
	Exclude []string

	// FormatWorkers bounds concurrent full format matches per content object.
	FormatWorkers int

	// CacheSize is the number of content identities remembered for deduplication.
	CacheSize int
}

// Settings holds all engine settings.
type Settings struct {
	Hash     HashSettings
	Analysis AnalysisSettings
}

// Defaults for AnalysisSettings.
const (
	DefaultMaxDepth       = 8
	DefaultSpillThreshold = 16 << 20
	DefaultChunkSize      = 64 << 10
	DefaultFormatWorkers  = 4
	DefaultCacheSize      = 4096
)

// DefaultSettings returns settings with sensible defaults.
func DefaultSettings() Settings {
	return Settings{
		Hash: HashSettings{
			Algorithms: []string{"sha256", "blake3"},
			Preferred:  []string{"sha256"},
		},
		Analysis: AnalysisSettings{
			MaxDepth:       DefaultMaxDepth,
			SpillThreshold: DefaultSpillThreshold,
			ChunkSize:      DefaultChunkSize,
			FormatWorkers:  DefaultFormatWorkers,
			CacheSize:      DefaultCacheSize,
		},
	}
}

// Validate checks the settings for values the engine cannot run with.
func (s Settings) Validate() error {
	if len(s.Hash.Algorithms) == 0 {
		return ErrNoHashAlgorithms
	}
	if s.Analysis.MaxDepth < 0 {
		return fmt.Errorf("%w: max depth %d", ErrInvalidSetting, s.Analysis.MaxDepth)
	}
	if s.Analysis.MaxInlineLength < 0 {
		return fmt.Errorf("%w: max inline length %d", ErrInvalidSetting, s.Analysis.MaxInlineLength)
	}
	if s.Analysis.ChunkSize <= 0 {
		return fmt.Errorf("%w: chunk size %d", ErrInvalidSetting, s.Analysis.ChunkSize)
	}
	if s.Analysis.SpillThreshold < 0 {
		return fmt.Errorf("%w: spill threshold %d", ErrInvalidSetting, s.Analysis.SpillThreshold)
	}
	if s.Analysis.FormatWorkers <= 0 {
		return fmt.Errorf("%w: format workers %d", ErrInvalidSetting, s.Analysis.FormatWorkers)
	}
	if s.Analysis.CacheSize <= 0 {
		return fmt.Errorf("%w: cache size %d", ErrInvalidSetting, s.Analysis.CacheSize)
	}
	return nil
}
