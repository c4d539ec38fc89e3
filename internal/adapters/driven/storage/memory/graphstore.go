package memory

import (
	"context"
	"errors"
	"reflect"
	"sync"

	"github.com/custodia-labs/sercha-inspect/internal/core/domain"
	"github.com/custodia-labs/sercha-inspect/internal/core/ports/driven"
)

// Ensure GraphStore implements the interface.
var _ driven.GraphStore = (*GraphStore)(nil)

// ErrEmptyNode is returned when describing or linking the zero node.
var ErrEmptyNode = errors.New("empty node")

// GraphStore is an in-memory implementation of driven.GraphStore.
type GraphStore struct {
	mu    sync.RWMutex
	order []domain.Node
	nodes map[domain.Node]*domain.GraphNode
	links map[domain.Node]map[domain.GraphLink]bool
}

// NewGraphStore creates a new in-memory graph store.
func NewGraphStore() *GraphStore {
	return &GraphStore{
		nodes: make(map[domain.Node]*domain.GraphNode),
		links: make(map[domain.Node]map[domain.GraphLink]bool),
	}
}

// node returns the entry for id, creating it. Caller holds the lock.
func (s *GraphStore) node(id domain.Node) *domain.GraphNode {
	n, ok := s.nodes[id]
	if !ok {
		n = &domain.GraphNode{ID: id, Properties: make(map[string][]any)}
		s.nodes[id] = n
		s.order = append(s.order, id)
	}
	return n
}

// Describe sets property on node. Repeated identical values are kept once.
func (s *GraphStore) Describe(_ context.Context, node domain.Node, property string, value any) error {
	if node.IsZero() {
		return ErrEmptyNode
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.node(node)
	for _, existing := range n.Properties[property] {
		if reflect.DeepEqual(existing, value) {
			return nil
		}
	}
	n.Properties[property] = append(n.Properties[property], value)
	return nil
}

// Link records a relation from one node to another. Duplicate links are ignored.
func (s *GraphStore) Link(_ context.Context, from domain.Node, relation string, to domain.Node) error {
	if from.IsZero() || to.IsZero() {
		return ErrEmptyNode
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	link := domain.GraphLink{Relation: relation, Target: to}
	if s.links[from][link] {
		return nil
	}
	if s.links[from] == nil {
		s.links[from] = make(map[domain.GraphLink]bool)
	}
	s.links[from][link] = true
	n := s.node(from)
	n.Links = append(n.Links, link)
	return nil
}

// Has reports whether node has been described or linked from.
func (s *GraphStore) Has(_ context.Context, node domain.Node) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.nodes[node]
	return ok
}

// Snapshot returns a copy of every node in order of first description.
func (s *GraphStore) Snapshot(_ context.Context) []domain.GraphNode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.GraphNode, 0, len(s.order))
	for _, id := range s.order {
		n := s.nodes[id]
		props := make(map[string][]any, len(n.Properties))
		for k, v := range n.Properties {
			props[k] = append([]any(nil), v...)
		}
		out = append(out, domain.GraphNode{
			ID:         n.ID,
			Properties: props,
			Links:      append([]domain.GraphLink(nil), n.Links...),
		})
	}
	return out
}

// Len returns the number of nodes.
func (s *GraphStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}
