package containers

import (
	"context"

	"github.com/custodia-labs/sercha-inspect/internal/analyzers/describe"
	"github.com/custodia-labs/sercha-inspect/internal/core/domain"
	"github.com/custodia-labs/sercha-inspect/internal/core/ports/driven"
)

// Ensure Archive implements the interface.
var _ driven.ContainerProvider = (*Archive)(nil)

// Archive claims decoded archives. Each entry is named below the archive's
// node and linked back to it with domain.RelInArchive once analysed.
type Archive struct{}

// NewArchive creates the archive provider.
func NewArchive() *Archive {
	return &Archive{}
}

// Name identifies the provider.
func (p *Archive) Name() string { return "archive" }

// MatchRoot implements driven.ContainerProvider.
func (p *Archive) MatchRoot(_ context.Context, entity domain.Entity, _ domain.AnalysisContext) (driven.ContainerAnalyzer, error) {
	fv, ok := entity.(domain.FormatValue)
	if !ok {
		return nil, nil
	}
	if _, ok := fv.Value.(domain.Archive); !ok {
		return nil, nil
	}
	return archiveEntries{}, nil
}

type archiveEntries struct{}

// AnalyzeChild implements driven.ContainerAnalyzer.
func (archiveEntries) AnalyzeChild(ctx context.Context, parent, entity domain.Entity, actx domain.AnalysisContext, next driven.ChildContinuation) (domain.AnalysisResult, error) {
	e, ok := entity.(domain.EntryEntity)
	if !ok || parent == nil {
		return next(ctx, entity, actx, 0)
	}

	archive := actx.Parent()
	if actx.Node().IsZero() && !archive.IsZero() {
		actx = actx.WithNode(describe.EntryNode(archive, e.Path))
	}
	result, err := next(ctx, entity, actx, 0)
	if err != nil || result.IsEmpty() || archive.IsZero() {
		return result, err
	}

	graph, err := describe.Graph(actx)
	if err != nil {
		return domain.AnalysisResult{}, err
	}
	if err := graph.Link(ctx, result.Node, domain.RelInArchive, archive); err != nil {
		return domain.AnalysisResult{}, err
	}
	return result, nil
}
