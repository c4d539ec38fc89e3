package driven

import (
	"context"

	"github.com/custodia-labs/sercha-inspect/internal/core/domain"
)

// ContainerProvider recognises entities that are the root of a nested
// structure it understands (a directory tree, an archive).
type ContainerProvider interface {
	// Name identifies the provider in logs.
	Name() string

	// MatchRoot returns an analyzer scoped to entity when the provider claims
	// it as a root, or nil when it does not. An error is treated as no claim.
	MatchRoot(ctx context.Context, entity domain.Entity, actx domain.AnalysisContext) (ContainerAnalyzer, error)
}

// ContainerAnalyzer governs the analysis of the entities inside a claimed root.
type ContainerAnalyzer interface {
	// AnalyzeChild is invoked for every entity dispatched under the root
	// (and for the root itself, with a nil parent). It may filter or rewrite
	// the entity and its context, then continue with next, passing the
	// behaviour flags that apply to the child's subtree. Not calling next
	// skips the entity. A returned error before next is called is treated as
	// "no container here" for this entity.
	AnalyzeChild(ctx context.Context, parent, entity domain.Entity, actx domain.AnalysisContext, next ChildContinuation) (domain.AnalysisResult, error)
}

// ChildContinuation resumes analysis of a child after a container analyzer.
type ChildContinuation func(ctx context.Context, entity domain.Entity, actx domain.AnalysisContext, behavior domain.ContainerBehavior) (domain.AnalysisResult, error)
