package content

import (
	"context"
	"fmt"
	"path"

	"github.com/custodia-labs/sercha-inspect/internal/analyzers/describe"
	"github.com/custodia-labs/sercha-inspect/internal/core/domain"
	"github.com/custodia-labs/sercha-inspect/internal/core/ports/driven"
)

// Entry describes an archive member and hands its content to the engine.
type Entry struct{}

// NewEntry creates the archive entry analyzer.
func NewEntry() *Entry {
	return &Entry{}
}

// Name identifies the analyzer.
func (a *Entry) Name() string { return "entry" }

// Kind returns domain.KindEntry.
func (a *Entry) Kind() domain.Kind { return domain.KindEntry }

// Priority returns the selection priority.
func (a *Entry) Priority() int { return 60 }

// Analyze implements driven.EntityAnalyzer.
func (a *Entry) Analyze(ctx context.Context, entity domain.Entity, actx domain.AnalysisContext, dispatcher driven.Dispatcher) (domain.AnalysisResult, error) {
	e, ok := entity.(domain.EntryEntity)
	if !ok {
		return domain.AnalysisResult{}, fmt.Errorf("%w: %T", domain.ErrUnsupportedType, entity)
	}
	graph, err := describe.Graph(actx)
	if err != nil {
		return domain.AnalysisResult{}, err
	}

	node := actx.Node()
	if node.IsZero() {
		node = describe.EntryNode(actx.Parent(), e.Path)
	}
	name := path.Base(e.Path)

	err = describe.Node(ctx, graph, node).
		Set(domain.PropType, domain.TypeEntry).
		Set(domain.PropName, name).
		Set(domain.PropPath, e.Path).
		Set(domain.PropSize, e.Size).
		Set(domain.PropModified, describe.Timestamp(e.ModTime)).
		Set(domain.PropFormat, e.Archive).
		Err()
	if err != nil {
		return domain.AnalysisResult{}, err
	}

	if !e.IsDir && e.Source != nil {
		stream := domain.StreamEntity{Name: e.Path, Source: e.Source}
		if _, err := dispatcher.Dispatch(ctx, stream, describe.Handoff(actx, node)); err != nil {
			return domain.AnalysisResult{}, err
		}
	}
	return domain.AnalysisResult{Node: node, Label: name}, nil
}
