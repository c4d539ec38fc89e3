package values

import (
	"context"
	"fmt"

	"github.com/custodia-labs/sercha-inspect/internal/analyzers/describe"
	"github.com/custodia-labs/sercha-inspect/internal/core/domain"
	"github.com/custodia-labs/sercha-inspect/internal/core/ports/driven"
)

// Ensure Archive implements the interface.
var _ driven.EntityAnalyzer = (*Archive)(nil)

// Archive describes a decoded archive and dispatches every entry one level
// deeper.
type Archive struct{}

// NewArchive creates the archive analyzer.
func NewArchive() *Archive {
	return &Archive{}
}

// Name identifies the analyzer.
func (a *Archive) Name() string { return "archive" }

// Kind returns domain.KindArchive.
func (a *Archive) Kind() domain.Kind { return domain.KindArchive }

// Priority returns the selection priority.
func (a *Archive) Priority() int { return 60 }

// Analyze implements driven.EntityAnalyzer.
func (a *Archive) Analyze(ctx context.Context, entity domain.Entity, actx domain.AnalysisContext, dispatcher driven.Dispatcher) (domain.AnalysisResult, error) {
	fv, archive, err := valueOf[domain.Archive](entity)
	if err != nil {
		return domain.AnalysisResult{}, err
	}
	graph, err := describe.Graph(actx)
	if err != nil {
		return domain.AnalysisResult{}, err
	}

	node := describe.ValueNode(actx, fv)
	desc := describe.Node(ctx, graph, node).
		Set(domain.PropType, domain.TypeArchive).
		Set(domain.PropFormat, archive.Format())
	if err := desc.Err(); err != nil {
		return domain.AnalysisResult{}, err
	}

	entries := 0
	err = archive.Walk(ctx, func(e domain.EntryEntity) error {
		entries++
		result, err := dispatcher.Dispatch(ctx, e, actx.Child(node))
		if err != nil {
			return err
		}
		return desc.Link(domain.RelContains, result.Node).Err()
	})
	if err != nil {
		return domain.AnalysisResult{}, fmt.Errorf("walk %s archive: %w", archive.Format(), err)
	}
	if err := desc.Set(domain.PropEntries, entries).Err(); err != nil {
		return domain.AnalysisResult{}, err
	}
	return domain.AnalysisResult{Node: node, Label: archive.Format() + " archive"}, nil
}

// valueOf unpacks a format value of type T.
func valueOf[T any](entity domain.Entity) (domain.FormatValue, T, error) {
	var zero T
	fv, ok := entity.(domain.FormatValue)
	if !ok {
		return fv, zero, fmt.Errorf("%w: %T", domain.ErrUnsupportedType, entity)
	}
	v, ok := fv.Value.(T)
	if !ok {
		return fv, zero, fmt.Errorf("%w: %T", domain.ErrUnsupportedType, fv.Value)
	}
	return fv, v, nil
}
