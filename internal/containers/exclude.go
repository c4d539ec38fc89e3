package containers

import (
	"context"
	"fmt"
	"path"
	"path/filepath"

	"github.com/custodia-labs/sercha-inspect/internal/core/domain"
	"github.com/custodia-labs/sercha-inspect/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-inspect/internal/logger"
)

// Ensure Exclude implements the interface.
var _ driven.ContainerProvider = (*Exclude)(nil)

// Exclude claims the top-level input and follows it all the way down,
// skipping files, directories and archive entries whose base name matches
// one of its patterns. The top-level entity itself is never skipped.
type Exclude struct {
	patterns []string
}

// NewExclude creates an exclude provider. Patterns use filepath.Match syntax.
func NewExclude(patterns []string) (*Exclude, error) {
	for _, p := range patterns {
		if _, err := filepath.Match(p, ""); err != nil {
			return nil, fmt.Errorf("%w: exclude pattern %q: %v", domain.ErrInvalidInput, p, err)
		}
	}
	return &Exclude{patterns: append([]string(nil), patterns...)}, nil
}

// Name identifies the provider.
func (p *Exclude) Name() string { return "exclude" }

// Patterns returns the configured patterns.
func (p *Exclude) Patterns() []string {
	return append([]string(nil), p.patterns...)
}

// MatchRoot implements driven.ContainerProvider.
func (p *Exclude) MatchRoot(_ context.Context, _ domain.Entity, actx domain.AnalysisContext) (driven.ContainerAnalyzer, error) {
	if len(p.patterns) == 0 || !actx.Parent().IsZero() {
		return nil, nil
	}
	return p, nil
}

// AnalyzeChild implements driven.ContainerAnalyzer.
func (p *Exclude) AnalyzeChild(ctx context.Context, parent, entity domain.Entity, actx domain.AnalysisContext, next driven.ChildContinuation) (domain.AnalysisResult, error) {
	if parent != nil {
		if name, ok := p.excluded(entity); ok {
			logger.Debug("excluded %s", name)
			return domain.AnalysisResult{}, nil
		}
	}
	return next(ctx, entity, actx, domain.FollowChildren)
}

// excluded returns the path of entity when its base name matches a pattern.
func (p *Exclude) excluded(entity domain.Entity) (string, bool) {
	var name, base string
	switch e := entity.(type) {
	case domain.FileEntity:
		name, base = e.Path, filepath.Base(e.Path)
	case domain.DirectoryEntity:
		name, base = e.Path, filepath.Base(e.Path)
	case domain.EntryEntity:
		name, base = e.Path, path.Base(e.Path)
	default:
		return "", false
	}
	for _, pattern := range p.patterns {
		if ok, _ := filepath.Match(pattern, base); ok {
			return name, true
		}
	}
	return "", false
}
