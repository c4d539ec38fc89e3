package formats

import (
	"fmt"

	"github.com/custodia-labs/sercha-inspect/internal/core/ports/driven"
)

// BuilderFunc creates a format descriptor.
type BuilderFunc func() (driven.FormatDescriptor, error)

// Registry maps format names to their builders, remembering the order they
// were registered in.
type Registry struct {
	builders map[string]BuilderFunc
	order    []string
}

// NewRegistry creates a new format registry.
func NewRegistry() *Registry {
	return &Registry{
		builders: make(map[string]BuilderFunc),
	}
}

// Register adds a format builder to the registry.
// Registering a name again replaces the builder but keeps its position.
func (r *Registry) Register(name string, builder BuilderFunc) {
	if _, ok := r.builders[name]; !ok {
		r.order = append(r.order, name)
	}
	r.builders[name] = builder
}

// Build creates a descriptor by name.
// Returns error if the name is not registered.
func (r *Registry) Build(name string) (driven.FormatDescriptor, error) {
	builder, ok := r.builders[name]
	if !ok {
		return nil, fmt.Errorf("unknown format: %s", name)
	}
	return builder()
}

// BuildAll creates the named descriptors in registration order. An empty
// names list builds every registered format.
func (r *Registry) BuildAll(names []string) ([]driven.FormatDescriptor, error) {
	wanted := make(map[string]bool, len(names))
	for _, name := range names {
		if !r.Has(name) {
			return nil, fmt.Errorf("unknown format: %s", name)
		}
		wanted[name] = true
	}

	formats := make([]driven.FormatDescriptor, 0, len(r.order))
	for _, name := range r.order {
		if len(wanted) > 0 && !wanted[name] {
			continue
		}
		f, err := r.builders[name]()
		if err != nil {
			return nil, fmt.Errorf("build format %s: %w", name, err)
		}
		formats = append(formats, f)
	}
	return formats, nil
}

// Has returns true if a format with the given name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.builders[name]
	return ok
}

// Names returns all registered format names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}
