package services

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/custodia-labs/sercha-inspect/internal/core/domain"
	"github.com/custodia-labs/sercha-inspect/internal/core/ports/driven"
)

// ErrRegistryFrozen is returned when registering after Freeze.
var ErrRegistryFrozen = errors.New("registry frozen")

// AnalyzerRegistry holds the analyzers and container providers of the
// process. It is populated at startup and frozen before the first analysis;
// after Freeze it is read-only and safe for concurrent use.
type AnalyzerRegistry struct {
	mu        sync.RWMutex
	frozen    bool
	analyzers []driven.EntityAnalyzer
	providers []driven.ContainerProvider

	// byKind holds the analyzers registered for exactly each kind, in
	// selection order. Built by Freeze.
	byKind map[domain.Kind][]driven.EntityAnalyzer
}

// NewAnalyzerRegistry creates an empty registry.
func NewAnalyzerRegistry() *AnalyzerRegistry {
	return &AnalyzerRegistry{}
}

// Register adds an analyzer.
func (r *AnalyzerRegistry) Register(a driven.EntityAnalyzer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frozen {
		return fmt.Errorf("register analyzer %s: %w", a.Name(), ErrRegistryFrozen)
	}
	for _, existing := range r.analyzers {
		if existing.Name() == a.Name() {
			return fmt.Errorf("analyzer %s already registered", a.Name())
		}
	}
	r.analyzers = append(r.analyzers, a)
	return nil
}

// RegisterProvider adds a container provider. Providers run in registration order.
func (r *AnalyzerRegistry) RegisterProvider(p driven.ContainerProvider) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frozen {
		return fmt.Errorf("register provider %s: %w", p.Name(), ErrRegistryFrozen)
	}
	r.providers = append(r.providers, p)
	return nil
}

// Freeze resolves the lookup table and rejects further registration.
// Calling Freeze more than once is harmless.
func (r *AnalyzerRegistry) Freeze() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frozen {
		return
	}

	byKind := make(map[domain.Kind][]driven.EntityAnalyzer)
	for _, a := range r.analyzers {
		byKind[a.Kind()] = append(byKind[a.Kind()], a)
	}
	for kind := range byKind {
		list := byKind[kind]
		sort.SliceStable(list, func(i, j int) bool {
			if list[i].Priority() != list[j].Priority() {
				return list[i].Priority() > list[j].Priority()
			}
			return list[i].Name() < list[j].Name()
		})
	}

	r.byKind = byKind
	r.frozen = true
}

// Frozen reports whether Freeze has been called.
func (r *AnalyzerRegistry) Frozen() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.frozen
}

// AnalyzersFor returns the analyzers able to handle kind in selection order:
// analyzers of the most specific kind first, then of each more general kind,
// each group ordered by priority (highest first) then name.
// Before Freeze it returns nothing.
func (r *AnalyzerRegistry) AnalyzersFor(kind domain.Kind) []driven.EntityAnalyzer {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []driven.EntityAnalyzer
	for _, k := range kind.Lineage() {
		out = append(out, r.byKind[k]...)
	}
	return out
}

// Providers returns the container providers in registration order.
func (r *AnalyzerRegistry) Providers() []driven.ContainerProvider {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]driven.ContainerProvider, len(r.providers))
	copy(out, r.providers)
	return out
}

// Analyzers returns every registered analyzer in registration order.
func (r *AnalyzerRegistry) Analyzers() []driven.EntityAnalyzer {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]driven.EntityAnalyzer, len(r.analyzers))
	copy(out, r.analyzers)
	return out
}
