package fs

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/custodia-labs/sercha-inspect/internal/analyzers/describe"
	"github.com/custodia-labs/sercha-inspect/internal/connectors/filesystem"
	"github.com/custodia-labs/sercha-inspect/internal/core/domain"
	"github.com/custodia-labs/sercha-inspect/internal/core/ports/driven"
)

// Directory describes a directory and dispatches each of its members.
type Directory struct{}

// NewDirectory creates the directory analyzer.
func NewDirectory() *Directory {
	return &Directory{}
}

// Name identifies the analyzer.
func (a *Directory) Name() string { return "directory" }

// Kind returns domain.KindDirectory.
func (a *Directory) Kind() domain.Kind { return domain.KindDirectory }

// Priority returns the selection priority.
func (a *Directory) Priority() int { return 60 }

// Analyze implements driven.EntityAnalyzer. Members that produce no result
// (excluded ones) are not linked.
func (a *Directory) Analyze(ctx context.Context, entity domain.Entity, actx domain.AnalysisContext, dispatcher driven.Dispatcher) (domain.AnalysisResult, error) {
	de, ok := entity.(domain.DirectoryEntity)
	if !ok {
		return domain.AnalysisResult{}, fmt.Errorf("%w: %T", domain.ErrUnsupportedType, entity)
	}
	graph, err := describe.Graph(actx)
	if err != nil {
		return domain.AnalysisResult{}, err
	}

	node := actx.Node()
	if node.IsZero() {
		node = filesystem.NodeForPath(de.Path)
	}
	name := filepath.Base(de.Path)

	desc := describe.Node(ctx, graph, node).
		Set(domain.PropType, domain.TypeDirectory).
		Set(domain.PropName, name).
		Set(domain.PropPath, de.Path)
	if de.Info != nil {
		desc.Set(domain.PropModified, describe.Timestamp(de.Info.ModTime()))
	}
	if err := desc.Err(); err != nil {
		return domain.AnalysisResult{}, err
	}

	members := 0
	err = filesystem.Walk(ctx, de.Path, func(child domain.Entity) error {
		result, err := dispatcher.Dispatch(ctx, child, describe.Handoff(actx, node))
		if err != nil {
			return err
		}
		if result.IsEmpty() {
			return nil
		}
		members++
		return desc.Link(domain.RelContains, result.Node).Err()
	})
	if err != nil {
		return domain.AnalysisResult{}, err
	}
	if err := desc.Set(domain.PropMembers, members).Err(); err != nil {
		return domain.AnalysisResult{}, err
	}
	return domain.AnalysisResult{Node: node, Label: name}, nil
}
