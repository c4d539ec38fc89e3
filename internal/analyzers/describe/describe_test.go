package describe

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-inspect/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/sercha-inspect/internal/core/domain"
)

func TestServices(t *testing.T) {
	_, err := Graph(domain.NewAnalysisContext())
	assert.True(t, domain.IsInternal(err))

	_, err = Classifier(domain.NewAnalysisContext())
	assert.True(t, domain.IsInternal(err))

	graph := memory.NewGraphStore()
	got, err := Graph(domain.NewAnalysisContext().WithService(domain.ServiceGraph, graph))
	require.NoError(t, err)
	assert.Same(t, graph, got)
}

func TestHandoff(t *testing.T) {
	actx := domain.NewAnalysisContext().WithDepth(3).WithNode("file:///a")
	child := Handoff(actx, "file:///a")

	assert.Equal(t, 3, child.Depth())
	assert.Equal(t, domain.Node("file:///a"), child.Parent())
	assert.True(t, child.Node().IsZero())
}

func TestValueNode(t *testing.T) {
	v := domain.FormatValue{Match: &domain.FormatMatch{Format: "zip"}}
	actx := domain.NewAnalysisContext().Child("ni:///sha-256;abc")

	assert.Equal(t, domain.Node("ni:///sha-256;abc#zip"), ValueNode(actx, v))
	assert.Equal(t, domain.Node("urn:x"), ValueNode(actx.WithNode("urn:x"), v))
	assert.Equal(t, domain.Node("ni:///sha-256;abc#value"), ValueNode(actx, domain.FormatValue{}))
}

func TestEntryNode(t *testing.T) {
	assert.Equal(t, domain.Node("a#zip/dir/b.txt"), EntryNode("a#zip", "dir/b.txt"))
	assert.Equal(t, domain.Node("a#zip/my%20file%3F.txt"), EntryNode("a#zip", "my file?.txt"))
	assert.Equal(t, domain.Node("a#tar/etc/passwd"), EntryNode("a#tar", "/etc/passwd"))
}

func TestTimestamp(t *testing.T) {
	assert.Empty(t, Timestamp(time.Time{}))
	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.FixedZone("x", 3600))
	assert.Equal(t, "2024-03-01T11:00:00Z", Timestamp(ts))
}

func TestDescription(t *testing.T) {
	ctx := context.Background()
	graph := memory.NewGraphStore()

	err := Node(ctx, graph, "urn:a").
		Set(domain.PropType, domain.TypeFile).
		Set(domain.PropName, "").
		Set(domain.PropSize, int64(0)).
		Set(domain.PropLabel, nil).
		Link(domain.RelContent, "urn:b").
		Link(domain.RelContains, "").
		Err()
	require.NoError(t, err)

	nodes := graph.Snapshot(ctx)
	require.Len(t, nodes, 1)
	assert.Equal(t, map[string][]any{
		domain.PropType: {domain.TypeFile},
		domain.PropSize: {int64(0)},
	}, nodes[0].Properties)
	assert.Equal(t, []domain.Node{"urn:b"}, nodes[0].Targets(domain.RelContent))
	assert.Empty(t, nodes[0].Targets(domain.RelContains))
}

func TestDescription_StopsOnError(t *testing.T) {
	ctx := context.Background()
	graph := memory.NewGraphStore()

	err := Node(ctx, graph, "").Set(domain.PropType, "x").Set(domain.PropName, "y").Err()
	assert.ErrorIs(t, err, memory.ErrEmptyNode)
	assert.Empty(t, graph.Snapshot(ctx))
}
