package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()

	assert.Equal(t, []string{"sha256", "blake3"}, s.Hash.Algorithms)
	assert.Equal(t, []string{"sha256"}, s.Hash.Preferred)
	assert.Equal(t, 8, s.Analysis.MaxDepth)
	assert.Zero(t, s.Analysis.MaxInlineLength)
	assert.Equal(t, int64(16<<20), s.Analysis.SpillThreshold)
	assert.Equal(t, 64<<10, s.Analysis.ChunkSize)
	assert.Empty(t, s.Analysis.TempDir)
	assert.Empty(t, s.Analysis.Exclude)
	assert.Equal(t, 4, s.Analysis.FormatWorkers)
	assert.Equal(t, 4096, s.Analysis.CacheSize)
	require.NoError(t, s.Validate())
}

func TestSettings_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Settings)
		want   error
	}{
		{"no hashes", func(s *Settings) { s.Hash.Algorithms = nil }, ErrNoHashAlgorithms},
		{"negative depth", func(s *Settings) { s.Analysis.MaxDepth = -1 }, ErrInvalidSetting},
		{"negative inline", func(s *Settings) { s.Analysis.MaxInlineLength = -1 }, ErrInvalidSetting},
		{"zero chunk", func(s *Settings) { s.Analysis.ChunkSize = 0 }, ErrInvalidSetting},
		{"negative spill", func(s *Settings) { s.Analysis.SpillThreshold = -1 }, ErrInvalidSetting},
		{"zero workers", func(s *Settings) { s.Analysis.FormatWorkers = 0 }, ErrInvalidSetting},
		{"zero cache", func(s *Settings) { s.Analysis.CacheSize = 0 }, ErrInvalidSetting},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.modify(&s)
			assert.ErrorIs(t, s.Validate(), tt.want)
		})
	}
}

func TestSettings_ValidateEdges(t *testing.T) {
	s := DefaultSettings()
	s.Analysis.MaxDepth = 0
	s.Analysis.SpillThreshold = 0
	s.Hash.Preferred = nil
	assert.NoError(t, s.Validate(), "depth zero, an empty preferred list and always spilling are valid")
}

func TestSettings_ValidateMessage(t *testing.T) {
	s := DefaultSettings()
	s.Analysis.ChunkSize = -5
	assert.EqualError(t, s.Validate(), "invalid setting: chunk size -5")
}
