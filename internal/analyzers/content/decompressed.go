package content

import (
	"context"
	"fmt"

	"github.com/custodia-labs/sercha-inspect/internal/analyzers/describe"
	"github.com/custodia-labs/sercha-inspect/internal/core/domain"
	"github.com/custodia-labs/sercha-inspect/internal/core/ports/driven"
)

// Decompressed describes the payload of a compressed stream and classifies
// it. The payload content is linked back to the compressed content it was
// derived from.
type Decompressed struct{}

// NewDecompressed creates the decompressed stream analyzer.
func NewDecompressed() *Decompressed {
	return &Decompressed{}
}

// Name identifies the analyzer.
func (a *Decompressed) Name() string { return "decompressed" }

// Kind returns domain.KindDecompressed.
func (a *Decompressed) Kind() domain.Kind { return domain.KindDecompressed }

// Priority returns the selection priority.
func (a *Decompressed) Priority() int { return 60 }

// Analyze implements driven.EntityAnalyzer.
func (a *Decompressed) Analyze(ctx context.Context, entity domain.Entity, actx domain.AnalysisContext, dispatcher driven.Dispatcher) (domain.AnalysisResult, error) {
	fv, ok := entity.(domain.FormatValue)
	if !ok {
		return domain.AnalysisResult{}, fmt.Errorf("%w: %T", domain.ErrUnsupportedType, entity)
	}
	d, ok := fv.Value.(domain.Decompressed)
	if !ok {
		return domain.AnalysisResult{}, fmt.Errorf("%w: %T", domain.ErrUnsupportedType, fv.Value)
	}
	graph, err := describe.Graph(actx)
	if err != nil {
		return domain.AnalysisResult{}, err
	}

	node := describe.ValueNode(actx, fv)
	desc := describe.Node(ctx, graph, node).
		Set(domain.PropType, domain.TypeDecompressed).
		Set(domain.PropAlgorithm, d.Algorithm).
		Set(domain.PropName, d.Name)
	if err := desc.Err(); err != nil {
		return domain.AnalysisResult{}, err
	}

	payload, err := dispatcher.Dispatch(ctx, domain.StreamEntity{Name: d.Source.Name(), Source: d.Source}, describe.Handoff(actx, node))
	if err != nil {
		return domain.AnalysisResult{}, err
	}
	if source := actx.Parent(); !payload.IsEmpty() && !source.IsZero() {
		if err := graph.Link(ctx, payload.Node, domain.RelDerivedFrom, source); err != nil {
			return domain.AnalysisResult{}, err
		}
	}
	return domain.AnalysisResult{Node: node, Label: d.Algorithm}, nil
}
