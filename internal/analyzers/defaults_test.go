package analyzers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-inspect/internal/core/domain"
	"github.com/custodia-labs/sercha-inspect/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-inspect/internal/core/services"
)

func names(list []driven.EntityAnalyzer) []string {
	out := make([]string, len(list))
	for i, a := range list {
		out[i] = a.Name()
	}
	return out
}

func TestRegisterDefaults(t *testing.T) {
	r := services.NewAnalyzerRegistry()
	require.NoError(t, RegisterDefaults(r))
	r.Freeze()

	tests := []struct {
		kind domain.Kind
		want []string
	}{
		{domain.KindFile, []string{"file"}},
		{domain.KindDirectory, []string{"directory"}},
		{domain.KindStream, []string{"content"}},
		{domain.KindEntry, []string{"entry", "content"}},
		{domain.KindDecompressed, []string{"decompressed", "content"}},
		{domain.KindArchive, []string{"archive"}},
		{domain.KindXML, []string{"xml", "document"}},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, names(r.AnalyzersFor(tt.kind)))
		})
	}
}

func TestRegisterDefaults_Twice(t *testing.T) {
	r := services.NewAnalyzerRegistry()
	require.NoError(t, RegisterDefaults(r))
	assert.ErrorContains(t, RegisterDefaults(r), "already registered")
}

func TestDefaults_UniqueNames(t *testing.T) {
	seen := make(map[string]bool)
	for _, a := range Defaults() {
		assert.False(t, seen[a.Name()], a.Name())
		seen[a.Name()] = true
	}
	assert.Len(t, seen, 9)
}
