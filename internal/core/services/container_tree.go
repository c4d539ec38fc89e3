package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/custodia-labs/sercha-inspect/internal/core/domain"
	"github.com/custodia-labs/sercha-inspect/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-inspect/internal/logger"
)

// nodeHandle indexes the container tree arena.
type nodeHandle struct {
	index      int
	generation uint64
}

// activeProvider is a container analyzer wrapping the analysis of children.
type activeProvider struct {
	provider driven.ContainerProvider
	analyzer driven.ContainerAnalyzer
}

// containerNode is one level of container nesting.
type containerNode struct {
	generation uint64
	live       bool

	// entity is nil for the tree root.
	entity domain.Entity
	parent int

	// chain wraps the analysis of every child of this node, in order.
	chain []activeProvider

	// blocked forbids claiming fresh roots anywhere below this node.
	blocked bool
}

// ContainerTree composes container providers around entity dispatch.
//
// Every entity is dispatched as a child of a node. The node's active
// provider chain runs first; each provider may filter or rewrite the child
// and decides, through the behavior flags it passes on, whether it follows
// into the child's own children and whether other providers may claim the
// child's subtree as a fresh root. Unblocked entities are then offered to
// every provider as a fresh root before reaching the EntityDispatcher.
//
// Nodes live in an arena addressed by handles; a node is released when the
// analysis of its subtree returns.
type ContainerTree struct {
	registry   *AnalyzerRegistry
	dispatcher *EntityDispatcher
	log        *slog.Logger

	mu    sync.Mutex
	nodes []containerNode
	free  []int
	gen   uint64
}

// NewContainerTree creates a tree dispatching through dispatcher.
func NewContainerTree(registry *AnalyzerRegistry, dispatcher *EntityDispatcher) *ContainerTree {
	t := &ContainerTree{
		registry:   registry,
		dispatcher: dispatcher,
		log:        logger.For("containers"),
	}
	t.nodes = append(t.nodes, containerNode{live: true, parent: -1})
	return t
}

// root is the handle of the tree root. It is never released.
var root = nodeHandle{}

// Analyze dispatches a top-level entity. Internal errors are returned
// unwrapped.
func (t *ContainerTree) Analyze(ctx context.Context, entity domain.Entity, actx domain.AnalysisContext) (domain.AnalysisResult, error) {
	result, err := t.dispatch(ctx, root, entity, actx)
	if err != nil {
		return domain.AnalysisResult{}, domain.UnwrapInternal(err)
	}
	return result, nil
}

// Dispatcher returns a dispatcher rooted at the top of the tree.
func (t *ContainerTree) Dispatcher() driven.Dispatcher {
	return t.scoped(root)
}

// Live returns the number of allocated nodes, the root included.
func (t *ContainerTree) Live() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.nodes) - len(t.free)
}

func (t *ContainerTree) scoped(h nodeHandle) driven.Dispatcher {
	return driven.DispatcherFunc(func(ctx context.Context, entity domain.Entity, actx domain.AnalysisContext) (domain.AnalysisResult, error) {
		return t.dispatch(ctx, h, entity, actx)
	})
}

// chainState accumulates what the providers decided for one child.
type chainState struct {
	follow  []activeProvider
	blocked bool
}

// dispatch analyses entity as a child of node h.
func (t *ContainerTree) dispatch(ctx context.Context, h nodeHandle, entity domain.Entity, actx domain.AnalysisContext) (domain.AnalysisResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.AnalysisResult{}, err
	}
	parent, err := t.get(h)
	if err != nil {
		return domain.AnalysisResult{}, err
	}
	state := chainState{blocked: parent.blocked}
	return t.runChain(ctx, h, parent.entity, parent.chain, entity, actx, state)
}

// runChain invokes the remaining active providers around entity.
func (t *ContainerTree) runChain(ctx context.Context, h nodeHandle, parentEntity domain.Entity, chain []activeProvider, entity domain.Entity, actx domain.AnalysisContext, state chainState) (domain.AnalysisResult, error) {
	if len(chain) == 0 {
		return t.offerRoots(ctx, h, entity, actx, state)
	}

	current, rest := chain[0], chain[1:]
	called := false
	next := func(ctx context.Context, e domain.Entity, a domain.AnalysisContext, behavior domain.ContainerBehavior) (domain.AnalysisResult, error) {
		called = true
		s := chainState{blocked: state.blocked || behavior.Has(domain.BlockOther)}
		s.follow = append(append(s.follow, state.follow...), followed(current, behavior)...)
		return t.runChain(ctx, h, parentEntity, rest, e, a, s)
	}

	result, err := current.analyzer.AnalyzeChild(ctx, parentEntity, entity, actx, next)
	if err == nil {
		return result, nil
	}
	if domain.IsInternal(err) || ctx.Err() != nil {
		return domain.AnalysisResult{}, err
	}
	if called {
		t.log.Warn("container error after continuation", "provider", current.provider.Name(), "kind", entity.Kind().String(), "error", err)
		return result, nil
	}

	t.log.Warn("container error", "provider", current.provider.Name(), "kind", entity.Kind().String(), "error", err)
	return t.runChain(ctx, h, parentEntity, rest, entity, actx, state)
}

func followed(p activeProvider, behavior domain.ContainerBehavior) []activeProvider {
	if behavior.Has(domain.FollowChildren) {
		return []activeProvider{p}
	}
	return nil
}

// offerRoots offers entity to every provider as a fresh root, unless blocked.
func (t *ContainerTree) offerRoots(ctx context.Context, h nodeHandle, entity domain.Entity, actx domain.AnalysisContext, state chainState) (domain.AnalysisResult, error) {
	if state.blocked {
		return t.analyze(ctx, h, entity, actx, state.follow, true)
	}

	var claims []activeProvider
	for _, p := range t.registry.Providers() {
		analyzer, err := p.MatchRoot(ctx, entity, actx)
		if err != nil {
			if domain.IsInternal(err) || ctx.Err() != nil {
				return domain.AnalysisResult{}, err
			}
			t.log.Warn("match root error", "provider", p.Name(), "kind", entity.Kind().String(), "error", err)
			continue
		}
		if analyzer != nil {
			t.log.Debug("root claimed", "provider", p.Name(), "kind", entity.Kind().String())
			claims = append(claims, activeProvider{provider: p, analyzer: analyzer})
		}
	}
	if len(claims) == 0 {
		return t.analyze(ctx, h, entity, actx, state.follow, false)
	}

	// The claims see the root itself, with no parent, and always stay active
	// for the root's children.
	return t.runClaims(ctx, h, claims, claims, entity, actx, state)
}

func (t *ContainerTree) runClaims(ctx context.Context, h nodeHandle, all, remaining []activeProvider, entity domain.Entity, actx domain.AnalysisContext, state chainState) (domain.AnalysisResult, error) {
	if len(remaining) == 0 {
		chain := make([]activeProvider, 0, len(state.follow)+len(all))
		chain = append(append(chain, state.follow...), all...)
		return t.analyze(ctx, h, entity, actx, chain, state.blocked)
	}

	current, rest := remaining[0], remaining[1:]
	called := false
	next := func(ctx context.Context, e domain.Entity, a domain.AnalysisContext, behavior domain.ContainerBehavior) (domain.AnalysisResult, error) {
		called = true
		s := state
		s.blocked = s.blocked || behavior.Has(domain.BlockOther)
		return t.runClaims(ctx, h, all, rest, e, a, s)
	}

	result, err := current.analyzer.AnalyzeChild(ctx, nil, entity, actx, next)
	if err == nil {
		return result, nil
	}
	if domain.IsInternal(err) || ctx.Err() != nil {
		return domain.AnalysisResult{}, err
	}
	if called {
		t.log.Warn("container error after continuation", "provider", current.provider.Name(), "kind", entity.Kind().String(), "error", err)
		return result, nil
	}

	t.log.Warn("container error", "provider", current.provider.Name(), "kind", entity.Kind().String(), "error", err)
	return t.runClaims(ctx, h, all, rest, entity, actx, state)
}

// analyze allocates the node for entity and runs ordinary dispatch with a
// dispatcher scoped to it.
func (t *ContainerTree) analyze(ctx context.Context, h nodeHandle, entity domain.Entity, actx domain.AnalysisContext, chain []activeProvider, blocked bool) (domain.AnalysisResult, error) {
	child := t.alloc(h, entity, chain, blocked)
	defer t.release(child)
	if logger.IsVerbose() {
		t.log.Debug("enter", "kind", entity.Kind().String(), "level", t.level(child), "providers", len(chain), "blocked", blocked)
	}
	return t.dispatcher.Analyze(ctx, entity, actx, t.scoped(child))
}

func (t *ContainerTree) alloc(parent nodeHandle, entity domain.Entity, chain []activeProvider, blocked bool) nodeHandle {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.gen++
	node := containerNode{
		generation: t.gen,
		live:       true,
		entity:     entity,
		parent:     parent.index,
		chain:      chain,
		blocked:    blocked,
	}

	if n := len(t.free); n > 0 {
		index := t.free[n-1]
		t.free = t.free[:n-1]
		t.nodes[index] = node
		return nodeHandle{index: index, generation: node.generation}
	}
	t.nodes = append(t.nodes, node)
	return nodeHandle{index: len(t.nodes) - 1, generation: node.generation}
}

func (t *ContainerTree) release(h nodeHandle) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if h.index == root.index {
		return
	}
	t.nodes[h.index] = containerNode{parent: -1}
	t.free = append(t.free, h.index)
}

// get returns a copy of the node behind h. A stale handle means a dispatcher
// was used after the analysis that received it returned.
func (t *ContainerTree) get(h nodeHandle) (containerNode, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if h.index >= len(t.nodes) {
		return containerNode{}, domain.Internal(fmt.Errorf("container node %d out of range", h.index))
	}
	node := t.nodes[h.index]
	if !node.live || node.generation != h.generation {
		return containerNode{}, domain.Internal(fmt.Errorf("stale container node %d", h.index))
	}
	return node, nil
}

// level returns the container nesting level of h, following parent links.
func (t *ContainerTree) level(h nodeHandle) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	level := 0
	for i := h.index; i > 0; i = t.nodes[i].parent {
		level++
	}
	return level
}
