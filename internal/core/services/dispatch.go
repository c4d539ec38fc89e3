package services

import (
	"context"
	"log/slog"
	"sync"

	"github.com/custodia-labs/sercha-inspect/internal/core/domain"
	"github.com/custodia-labs/sercha-inspect/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-inspect/internal/logger"
)

// FallbackFunc describes an entity no analyzer produced a result for.
type FallbackFunc func(ctx context.Context, entity domain.Entity, actx domain.AnalysisContext) (domain.AnalysisResult, error)

// EntityDispatcher routes an entity to the first registered analyzer that
// produces a result for it.
//
// Recoverable analyzer errors are logged and the next analyzer is tried.
// Internal errors abort the dispatch and are returned still marked, so they
// cross every nested dispatch up to the caller of ContainerTree.Analyze.
type EntityDispatcher struct {
	registry *AnalyzerRegistry
	stats    *runStats
	fallback FallbackFunc
	log      *slog.Logger

	mu        sync.Mutex
	instances map[domain.Kind]int64
	warned    map[domain.Kind]bool
}

// NewEntityDispatcher creates a dispatcher over a frozen registry.
func NewEntityDispatcher(registry *AnalyzerRegistry) *EntityDispatcher {
	return &EntityDispatcher{
		registry:  registry,
		log:       logger.For("dispatch"),
		instances: make(map[domain.Kind]int64),
		warned:    make(map[domain.Kind]bool),
	}
}

// SetFallback installs the function describing unclassified entities.
func (d *EntityDispatcher) SetFallback(fn FallbackFunc) {
	d.fallback = fn
}

// Analyze runs the analyzers registered for the entity's kind until one
// returns a non-empty result. dispatcher is handed to the analyzers for
// nested entities.
func (d *EntityDispatcher) Analyze(ctx context.Context, entity domain.Entity, actx domain.AnalysisContext, dispatcher driven.Dispatcher) (domain.AnalysisResult, error) {
	kind := entity.Kind()
	instance := d.nextInstance(kind)
	if d.stats != nil {
		d.stats.entities.Add(1)
	}

	analyzers := d.registry.AnalyzersFor(kind)
	if len(analyzers) == 0 {
		if d.warnOnce(kind) {
			d.log.Warn("no analyzer registered", "kind", kind.String())
		}
		return d.unclassified(ctx, entity, actx)
	}

	for _, a := range analyzers {
		if err := ctx.Err(); err != nil {
			return domain.AnalysisResult{}, err
		}

		attrs := []any{"kind", kind.String(), "instance", instance, "analyzer", a.Name(), "depth", actx.Depth()}
		d.log.Debug("analyzing", attrs...)

		result, err := a.Analyze(ctx, entity, actx, dispatcher)
		if err != nil {
			if domain.IsInternal(err) {
				return domain.AnalysisResult{}, err
			}
			if ctx.Err() != nil {
				return domain.AnalysisResult{}, ctx.Err()
			}
			d.log.Warn("error", append(attrs, "error", err)...)
			continue
		}
		if result.IsEmpty() {
			d.log.Debug("no result", attrs...)
			continue
		}

		d.log.Debug("ok", append(attrs, "node", result.Node.String())...)
		return result, nil
	}

	d.log.Warn("no analyzer produced a result", "kind", kind.String(), "instance", instance)
	return d.unclassified(ctx, entity, actx)
}

func (d *EntityDispatcher) unclassified(ctx context.Context, entity domain.Entity, actx domain.AnalysisContext) (domain.AnalysisResult, error) {
	if d.stats != nil {
		d.stats.unclassified.Add(1)
	}
	if d.fallback == nil {
		return domain.AnalysisResult{}, nil
	}
	return d.fallback(ctx, entity, actx)
}

func (d *EntityDispatcher) nextInstance(kind domain.Kind) int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.instances[kind]++
	return d.instances[kind]
}

// warnOnce reports whether this is the first miss for kind.
func (d *EntityDispatcher) warnOnce(kind domain.Kind) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.warned[kind] {
		return false
	}
	d.warned[kind] = true
	return true
}
