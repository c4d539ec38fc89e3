package values

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-inspect/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/sercha-inspect/internal/core/domain"
	"github.com/custodia-labs/sercha-inspect/internal/core/ports/driven"
)

type fakeArchive struct {
	entries []domain.EntryEntity
	err     error
}

func (a *fakeArchive) Format() string { return "zip" }

func (a *fakeArchive) Walk(_ context.Context, fn func(domain.EntryEntity) error) error {
	for _, e := range a.entries {
		if err := fn(e); err != nil {
			return err
		}
	}
	return a.err
}

func setup() (*memory.GraphStore, domain.AnalysisContext) {
	graph := memory.NewGraphStore()
	return graph, domain.NewAnalysisContext().WithService(domain.ServiceGraph, graph).Child("urn:content")
}

func value(format string, kind domain.Kind, v any) domain.FormatValue {
	return domain.FormatValue{Match: &domain.FormatMatch{Format: format}, Value: v, ValueKind: kind}
}

func props(t *testing.T, graph *memory.GraphStore, id domain.Node) domain.GraphNode {
	t.Helper()
	for _, n := range graph.Snapshot(context.Background()) {
		if n.ID == id {
			return n
		}
	}
	t.Fatalf("node %s not described", id)
	return domain.GraphNode{}
}

func TestAnalyzers_Metadata(t *testing.T) {
	tests := []struct {
		analyzer driven.EntityAnalyzer
		name     string
		kind     domain.Kind
	}{
		{NewArchive(), "archive", domain.KindArchive},
		{NewImage(), "image", domain.KindImage},
		{NewDocument(), "document", domain.KindDocument},
		{NewXML(), "xml", domain.KindXML},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.name, tt.analyzer.Name())
		assert.Equal(t, tt.kind, tt.analyzer.Kind())
		assert.Equal(t, 60, tt.analyzer.Priority())
	}
}

func TestArchive_Analyze(t *testing.T) {
	graph, actx := setup()
	archive := &fakeArchive{entries: []domain.EntryEntity{
		{Archive: "zip", Path: "a.txt"},
		{Archive: "zip", Path: "skipped"},
		{Archive: "zip", Path: "b.txt"},
	}}

	var depths []int
	dispatcher := driven.DispatcherFunc(func(_ context.Context, entity domain.Entity, actx domain.AnalysisContext) (domain.AnalysisResult, error) {
		depths = append(depths, actx.Depth())
		e := entity.(domain.EntryEntity)
		if e.Path == "skipped" {
			return domain.AnalysisResult{}, nil
		}
		return domain.AnalysisResult{Node: domain.Node(actx.Parent().String() + "/" + e.Path)}, nil
	})

	result, err := NewArchive().Analyze(context.Background(), value("zip", domain.KindArchive, archive), actx, dispatcher)
	require.NoError(t, err)
	assert.Equal(t, domain.Node("urn:content#zip"), result.Node)
	assert.Equal(t, "zip archive", result.Label)
	assert.Equal(t, []int{2, 2, 2}, depths)

	node := props(t, graph, result.Node)
	assert.Equal(t, []domain.Node{"urn:content#zip/a.txt", "urn:content#zip/b.txt"}, node.Targets(domain.RelContains))
	assert.Equal(t, []any{3}, node.Properties[domain.PropEntries])
}

func TestArchive_WalkError(t *testing.T) {
	_, actx := setup()
	boom := errors.New("truncated")
	archive := &fakeArchive{err: boom}

	_, err := NewArchive().Analyze(context.Background(), value("zip", domain.KindArchive, archive), actx, driven.DispatcherFunc(nil))
	assert.ErrorIs(t, err, boom)
	assert.ErrorContains(t, err, "walk zip archive")
}

func TestArchive_WrongValue(t *testing.T) {
	_, actx := setup()
	_, err := NewArchive().Analyze(context.Background(), value("zip", domain.KindArchive, "nope"), actx, nil)
	assert.ErrorIs(t, err, domain.ErrUnsupportedType)

	_, err = NewArchive().Analyze(context.Background(), domain.StreamEntity{}, actx, nil)
	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
}

func TestImage_Analyze(t *testing.T) {
	graph, actx := setup()
	info := domain.ImageInfo{Format: "png", Width: 640, Height: 480, ColorModel: "nrgba"}

	result, err := NewImage().Analyze(context.Background(), value("png", domain.KindImage, info), actx, nil)
	require.NoError(t, err)
	assert.Equal(t, "png 640x480", result.Label)

	node := props(t, graph, result.Node)
	assert.Equal(t, []any{640}, node.Properties[domain.PropWidth])
	assert.Equal(t, []any{480}, node.Properties[domain.PropHeight])
	assert.Equal(t, []any{"nrgba"}, node.Properties[domain.PropColorModel])
}

func TestDocument_Analyze(t *testing.T) {
	tests := []struct {
		name        string
		root        any
		wantType    string
		wantMembers []any
	}{
		{"object", map[string]any{"a": 1, "b": 2}, "object", []any{2}},
		{"cbor map", map[any]any{1: "x"}, "object", []any{1}},
		{"array", []any{1, 2, 3}, "array", []any{3}},
		{"string", "hi", "string", nil},
		{"null", nil, "null", nil},
		{"number", json.Number("4"), "scalar", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			graph, actx := setup()
			doc := domain.StructuredDocument{Syntax: "json", Root: tt.root}

			result, err := NewDocument().Analyze(context.Background(), value("json", domain.KindDocument, doc), actx, nil)
			require.NoError(t, err)
			assert.Equal(t, "json "+tt.wantType, result.Label)

			node := props(t, graph, result.Node)
			assert.Equal(t, []any{tt.wantType}, node.Properties[domain.PropRootType])
			assert.Equal(t, tt.wantMembers, node.Properties[domain.PropMembers])
		})
	}
}

func TestXML_Analyze(t *testing.T) {
	graph, actx := setup()
	doc := domain.XMLDocument{RootName: "feed", RootNamespace: "http://www.w3.org/2005/Atom", Version: "1.0", Elements: 4}

	result, err := NewXML().Analyze(context.Background(), value("xml", domain.KindXML, doc), actx.WithNode("urn:pre"), nil)
	require.NoError(t, err)
	assert.Equal(t, domain.Node("urn:pre"), result.Node)
	assert.Equal(t, "<feed>", result.Label)

	node := props(t, graph, "urn:pre")
	assert.Equal(t, []any{domain.TypeXML}, node.Properties[domain.PropType])
	assert.Equal(t, []any{"http://www.w3.org/2005/Atom"}, node.Properties[domain.PropNamespace])
	assert.Equal(t, []any{4}, node.Properties[domain.PropElements])
	assert.NotContains(t, node.Properties, domain.PropEncoding)
}
