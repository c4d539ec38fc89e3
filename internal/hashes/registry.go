package hashes

import (
	"fmt"
	"sort"

	"github.com/custodia-labs/sercha-inspect/internal/core/ports/driven"
)

// BuilderFunc creates a hash algorithm.
type BuilderFunc func() (driven.HashAlgorithm, error)

// Registry maps algorithm names to their builders.
type Registry struct {
	builders map[string]BuilderFunc
}

// NewRegistry creates a new algorithm registry.
func NewRegistry() *Registry {
	return &Registry{
		builders: make(map[string]BuilderFunc),
	}
}

// Register adds an algorithm builder to the registry.
// Name should be unique and match the algorithm's ID.
func (r *Registry) Register(name string, builder BuilderFunc) {
	r.builders[name] = builder
}

// Build creates an algorithm by name.
// Returns error if the name is not registered.
func (r *Registry) Build(name string) (driven.HashAlgorithm, error) {
	builder, ok := r.builders[name]
	if !ok {
		return nil, fmt.Errorf("unknown hash algorithm: %s", name)
	}
	return builder()
}

// BuildAll creates every named algorithm in order, skipping duplicates.
func (r *Registry) BuildAll(names []string) ([]driven.HashAlgorithm, error) {
	seen := make(map[string]bool, len(names))
	algorithms := make([]driven.HashAlgorithm, 0, len(names))
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true
		alg, err := r.Build(name)
		if err != nil {
			return nil, err
		}
		algorithms = append(algorithms, alg)
	}
	return algorithms, nil
}

// Has returns true if an algorithm with the given name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.builders[name]
	return ok
}

// Names returns all registered algorithm names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.builders))
	for name := range r.builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
