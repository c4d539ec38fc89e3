package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-inspect/internal/core/domain"
	"github.com/custodia-labs/sercha-inspect/internal/core/ports/driven"
)

func analyzerNames(list []driven.EntityAnalyzer) []string {
	out := make([]string, len(list))
	for i, a := range list {
		out[i] = a.Name()
	}
	return out
}

func TestAnalyzerRegistry_Ordering(t *testing.T) {
	r := NewAnalyzerRegistry()
	for _, a := range []*stubAnalyzer{
		{name: "any", kind: domain.KindAny, priority: 5},
		{name: "stream-low", kind: domain.KindStream, priority: 10},
		{name: "stream-b", kind: domain.KindStream, priority: 50},
		{name: "stream-a", kind: domain.KindStream, priority: 50},
		{name: "entry", kind: domain.KindEntry, priority: 1},
		{name: "image", kind: domain.KindImage, priority: 90},
	} {
		require.NoError(t, r.Register(a))
	}
	r.Freeze()

	tests := []struct {
		kind domain.Kind
		want []string
	}{
		{domain.KindEntry, []string{"entry", "stream-a", "stream-b", "stream-low", "any"}},
		{domain.KindStream, []string{"stream-a", "stream-b", "stream-low", "any"}},
		{domain.KindDecompressed, []string{"stream-a", "stream-b", "stream-low", "any"}},
		{domain.KindXML, []string{"any"}},
		{domain.KindImage, []string{"image", "any"}},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, analyzerNames(r.AnalyzersFor(tt.kind)))
		})
	}
}

func TestAnalyzerRegistry_BeforeFreeze(t *testing.T) {
	r := NewAnalyzerRegistry()
	require.NoError(t, r.Register(&stubAnalyzer{name: "a", kind: domain.KindStream}))

	assert.False(t, r.Frozen())
	assert.Empty(t, r.AnalyzersFor(domain.KindStream))
	assert.Len(t, r.Analyzers(), 1)
}

func TestAnalyzerRegistry_DuplicateName(t *testing.T) {
	r := NewAnalyzerRegistry()
	require.NoError(t, r.Register(&stubAnalyzer{name: "a", kind: domain.KindStream}))

	err := r.Register(&stubAnalyzer{name: "a", kind: domain.KindFile})
	assert.ErrorContains(t, err, "already registered")
}

func TestAnalyzerRegistry_Frozen(t *testing.T) {
	r := NewAnalyzerRegistry()
	r.Freeze()
	r.Freeze()

	assert.True(t, r.Frozen())
	assert.ErrorIs(t, r.Register(&stubAnalyzer{name: "a"}), ErrRegistryFrozen)
	assert.ErrorIs(t, r.RegisterProvider(&stubProvider{name: "p"}), ErrRegistryFrozen)
}

func TestAnalyzerRegistry_Providers(t *testing.T) {
	r := NewAnalyzerRegistry()
	require.NoError(t, r.RegisterProvider(&stubProvider{name: "first"}))
	require.NoError(t, r.RegisterProvider(&stubProvider{name: "second"}))

	providers := r.Providers()
	require.Len(t, providers, 2)
	assert.Equal(t, "first", providers[0].Name())
	assert.Equal(t, "second", providers[1].Name())

	providers[0] = nil
	assert.NotNil(t, r.Providers()[0], "Providers returns a copy")
}
