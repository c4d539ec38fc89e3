package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnalysisContext_Root(t *testing.T) {
	c := NewAnalysisContext()
	assert.Zero(t, c.Depth())
	assert.True(t, c.Parent().IsZero())
	assert.True(t, c.Node().IsZero())
	_, ok := c.Service(ServiceGraph)
	assert.False(t, ok)
}

func TestAnalysisContext_DerivationsCopy(t *testing.T) {
	base := NewAnalysisContext().WithService(ServiceGraph, "graph")

	derived := base.WithDepth(3).WithParent("urn:p").WithNode("urn:n").WithService(ServiceSource, "src")

	assert.Equal(t, 3, derived.Depth())
	assert.Equal(t, Node("urn:p"), derived.Parent())
	assert.Equal(t, Node("urn:n"), derived.Node())
	v, ok := derived.Service(ServiceSource)
	assert.True(t, ok)
	assert.Equal(t, "src", v)
	v, ok = derived.Service(ServiceGraph)
	assert.True(t, ok)
	assert.Equal(t, "graph", v)

	assert.Zero(t, base.Depth(), "the receiver is never modified")
	_, ok = base.Service(ServiceSource)
	assert.False(t, ok)
}

func TestAnalysisContext_RemoveService(t *testing.T) {
	c := NewAnalysisContext().WithService(ServiceContent, 1)
	removed := c.WithService(ServiceContent, nil)

	_, ok := removed.Service(ServiceContent)
	assert.False(t, ok)
	_, ok = c.Service(ServiceContent)
	assert.True(t, ok)
}

func TestAnalysisContext_Child(t *testing.T) {
	c := NewAnalysisContext().WithDepth(2).WithParent("urn:grand").WithNode("urn:self").WithService(ServiceGraph, "g")

	child := c.Child("urn:self")

	assert.Equal(t, 3, child.Depth())
	assert.Equal(t, Node("urn:self"), child.Parent())
	assert.True(t, child.Node().IsZero(), "children get no pre-assigned identity")
	_, ok := child.Service(ServiceGraph)
	assert.True(t, ok, "services are inherited")
}
