// Package content provides the analyzers for raw streams: the generic
// stream analyzer that drives the classifier, and the analyzers for
// archive entries and decompressed streams, which describe where a stream
// came from before handing it on.
package content

import (
	"context"
	"encoding/hex"

	"github.com/custodia-labs/sercha-inspect/internal/analyzers/describe"
	"github.com/custodia-labs/sercha-inspect/internal/core/domain"
	"github.com/custodia-labs/sercha-inspect/internal/core/ports/driven"
)

// Ensure the analyzers implement the interface.
var (
	_ driven.EntityAnalyzer = (*Stream)(nil)
	_ driven.EntityAnalyzer = (*Entry)(nil)
	_ driven.EntityAnalyzer = (*Decompressed)(nil)
)

// Stream classifies any entity that exposes a stream and describes the
// resulting content object. The content is linked from the parent node.
type Stream struct{}

// NewStream creates the stream analyzer.
func NewStream() *Stream {
	return &Stream{}
}

// Name identifies the analyzer.
func (a *Stream) Name() string { return "content" }

// Kind returns domain.KindStream.
func (a *Stream) Kind() domain.Kind { return domain.KindStream }

// Priority returns the selection priority.
func (a *Stream) Priority() int { return 50 }

// Analyze implements driven.EntityAnalyzer. Entities without a stream are
// declined.
func (a *Stream) Analyze(ctx context.Context, entity domain.Entity, actx domain.AnalysisContext, dispatcher driven.Dispatcher) (domain.AnalysisResult, error) {
	src, ok := domain.SourceOf(entity)
	if !ok {
		return domain.AnalysisResult{}, nil
	}
	graph, err := describe.Graph(actx)
	if err != nil {
		return domain.AnalysisResult{}, err
	}
	classifier, err := describe.Classifier(actx)
	if err != nil {
		return domain.AnalysisResult{}, err
	}

	content, err := classifier.Classify(ctx, src, actx, dispatcher)
	if err != nil {
		return domain.AnalysisResult{}, err
	}

	if !content.Duplicate {
		if err := describeContent(ctx, graph, content); err != nil {
			return domain.AnalysisResult{}, err
		}
	}
	if parent := actx.Parent(); !parent.IsZero() {
		if err := graph.Link(ctx, parent, domain.RelContent, content.Node); err != nil {
			return domain.AnalysisResult{}, err
		}
	}
	return domain.AnalysisResult{Node: content.Node, Label: label(content)}, nil
}

func describeContent(ctx context.Context, graph driven.GraphStore, c *domain.ContentObject) error {
	desc := describe.Node(ctx, graph, c.Node).
		Set(domain.PropType, domain.TypeContent).
		Set(domain.PropSize, c.ActualLength).
		Set(domain.PropBinary, c.IsBinary).
		Set(domain.PropMediaType, c.MediaType).
		Set(domain.PropExtension, c.Extension).
		Set(domain.PropCharset, c.Charset)
	if c.HasText {
		desc.Set(domain.PropText, c.Text)
	}
	for _, id := range c.HashIDs() {
		desc.Set(domain.PropDigest, id.String()+":"+hex.EncodeToString(c.Hashes[id]))
	}
	for _, m := range c.Formats {
		desc.Set(domain.PropFormat, m.Format).Link(domain.RelFormat, m.Result.Node)
	}
	return desc.Err()
}

// label prefers the most specific recognised format.
func label(c *domain.ContentObject) string {
	if len(c.Formats) > 0 {
		return c.Formats[0].Label
	}
	return c.MediaType
}
