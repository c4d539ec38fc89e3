// Package describe holds what the built-in analyzers share: access to the
// run's services, node naming for nested entities, and a batching writer
// for graph descriptions.
package describe

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/custodia-labs/sercha-inspect/internal/core/domain"
	"github.com/custodia-labs/sercha-inspect/internal/core/ports/driven"
)

// Graph returns the graph store of the run. A context without one is an
// engine defect.
func Graph(actx domain.AnalysisContext) (driven.GraphStore, error) {
	v, _ := actx.Service(domain.ServiceGraph)
	g, ok := v.(driven.GraphStore)
	if !ok {
		return nil, domain.Internal(errors.New("analysis context has no graph"))
	}
	return g, nil
}

// Classifier returns the content classifier of the run.
func Classifier(actx domain.AnalysisContext) (driven.ContentClassifier, error) {
	v, _ := actx.Service(domain.ServiceClassifier)
	c, ok := v.(driven.ContentClassifier)
	if !ok {
		return nil, domain.Internal(errors.New("analysis context has no classifier"))
	}
	return c, nil
}

// Handoff returns the context for an entity that is another view of parent
// rather than something decoded from it (a file's content, a directory's
// members). The depth does not grow.
func Handoff(actx domain.AnalysisContext, parent domain.Node) domain.AnalysisContext {
	return actx.Child(parent).WithDepth(actx.Depth())
}

// ValueNode names a decoded format value: the pre-assigned node if a
// container set one, else the content node with the format as fragment.
func ValueNode(actx domain.AnalysisContext, v domain.FormatValue) domain.Node {
	if n := actx.Node(); !n.IsZero() {
		return n
	}
	format := "value"
	if v.Match != nil {
		format = v.Match.Format
	}
	return domain.Node(actx.Parent().String() + "#" + format)
}

// EntryNode names an archive member below the archive's node. Path
// segments are escaped; separators are kept.
func EntryNode(archive domain.Node, path string) domain.Node {
	segments := strings.Split(strings.TrimPrefix(path, "/"), "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return domain.Node(archive.String() + "/" + strings.Join(segments, "/"))
}

// Timestamp formats a modification time for the graph.
func Timestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// Description batches the writes for one node and keeps the first error.
// Empty strings and nil values are skipped.
type Description struct {
	ctx   context.Context
	graph driven.GraphStore
	node  domain.Node
	err   error
}

// Node starts a description of node.
func Node(ctx context.Context, graph driven.GraphStore, node domain.Node) *Description {
	return &Description{ctx: ctx, graph: graph, node: node}
}

// Set records property.
func (d *Description) Set(property string, value any) *Description {
	if d.err != nil || value == nil {
		return d
	}
	if s, ok := value.(string); ok && s == "" {
		return d
	}
	d.err = d.graph.Describe(d.ctx, d.node, property, value)
	return d
}

// Link records a relation to another node. Zero targets are skipped.
func (d *Description) Link(relation string, to domain.Node) *Description {
	if d.err != nil || to.IsZero() {
		return d
	}
	d.err = d.graph.Link(d.ctx, d.node, relation, to)
	return d
}

// Err returns the first error.
func (d *Description) Err() error {
	return d.err
}
