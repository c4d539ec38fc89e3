package containers

import (
	"context"

	"github.com/custodia-labs/sercha-inspect/internal/connectors/filesystem"
	"github.com/custodia-labs/sercha-inspect/internal/core/domain"
	"github.com/custodia-labs/sercha-inspect/internal/core/ports/driven"
)

// Ensure Directory implements the interface.
var _ driven.ContainerProvider = (*Directory)(nil)

// Directory claims directory trees. Every file and directory inside a
// claimed tree gets its file: URI as identity, and the provider follows
// into subdirectories. A directory that already carries an identity is part
// of an enclosing tree and is not claimed again.
type Directory struct{}

// NewDirectory creates the directory tree provider.
func NewDirectory() *Directory {
	return &Directory{}
}

// Name identifies the provider.
func (p *Directory) Name() string { return "directory" }

// MatchRoot implements driven.ContainerProvider.
func (p *Directory) MatchRoot(_ context.Context, entity domain.Entity, actx domain.AnalysisContext) (driven.ContainerAnalyzer, error) {
	if _, ok := entity.(domain.DirectoryEntity); !ok || !actx.Node().IsZero() {
		return nil, nil
	}
	return directoryTree{}, nil
}

type directoryTree struct{}

// AnalyzeChild implements driven.ContainerAnalyzer.
func (directoryTree) AnalyzeChild(ctx context.Context, _, entity domain.Entity, actx domain.AnalysisContext, next driven.ChildContinuation) (domain.AnalysisResult, error) {
	switch e := entity.(type) {
	case domain.DirectoryEntity:
		return next(ctx, entity, assign(actx, e.Path), domain.FollowChildren)
	case domain.FileEntity:
		return next(ctx, entity, assign(actx, e.Path), 0)
	default:
		return next(ctx, entity, actx, 0)
	}
}

func assign(actx domain.AnalysisContext, path string) domain.AnalysisContext {
	if !actx.Node().IsZero() {
		return actx
	}
	return actx.WithNode(filesystem.NodeForPath(path))
}
