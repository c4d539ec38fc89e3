package driven

import (
	"context"

	"github.com/custodia-labs/sercha-inspect/internal/core/domain"
)

// EntityAnalyzer describes one kind of entity.
// Each analyzer is registered for a Kind and receives entities of that kind
// or any kind specialising it (e.g. "stream/entry" for a "stream" analyzer).
type EntityAnalyzer interface {
	// Name identifies the analyzer in logs and ordering ties.
	Name() string

	// Kind returns the kind this analyzer handles.
	Kind() domain.Kind

	// Priority returns the selection priority among analyzers of the same kind
	// (higher = preferred).
	// Built-in analyzers should return 50-89.
	// Fallback analyzers should return 1-9.
	Priority() int

	// Analyze describes entity and returns its node. Returning an empty result
	// with a nil error declines the entity so the next analyzer may try.
	// Nested entities are handed back to the engine through dispatcher.
	Analyze(ctx context.Context, entity domain.Entity, actx domain.AnalysisContext, dispatcher Dispatcher) (domain.AnalysisResult, error)
}

// Dispatcher routes an entity to the analyzers able to handle it.
// The dispatcher an analyzer receives is scoped to the entity being analysed,
// so nested entities inherit its container chain.
type Dispatcher interface {
	Dispatch(ctx context.Context, entity domain.Entity, actx domain.AnalysisContext) (domain.AnalysisResult, error)
}

// DispatcherFunc adapts a function to the Dispatcher interface.
type DispatcherFunc func(ctx context.Context, entity domain.Entity, actx domain.AnalysisContext) (domain.AnalysisResult, error)

// Dispatch implements Dispatcher.
func (f DispatcherFunc) Dispatch(ctx context.Context, entity domain.Entity, actx domain.AnalysisContext) (domain.AnalysisResult, error) {
	return f(ctx, entity, actx)
}
