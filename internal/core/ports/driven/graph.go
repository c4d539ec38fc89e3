package driven

import (
	"context"

	"github.com/custodia-labs/sercha-inspect/internal/core/domain"
)

// GraphStore receives the description the analyzers produce.
// Serialising it (RDF, JSON-LD) is the job of whoever reads it back.
type GraphStore interface {
	// Describe sets property on node. Repeated properties accumulate values.
	Describe(ctx context.Context, node domain.Node, property string, value any) error

	// Link records a relation from one node to another.
	Link(ctx context.Context, from domain.Node, relation string, to domain.Node) error

	// Has reports whether node has been described.
	Has(ctx context.Context, node domain.Node) bool

	// Snapshot returns every node described so far, ordered by first description.
	Snapshot(ctx context.Context) []domain.GraphNode
}
