// Package fs provides the analyzers for filesystem entities.
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

// Ensure the analyzers implement the interface.
var (
	_ driven.EntityAnalyzer = (*File)(nil)
	_ driven.EntityAnalyzer = (*Directory)(nil)
)

// File describes a regular file and hands its content to the engine as a
// stream.
type File struct{}

// NewFile creates the file analyzer.
func NewFile() *File {
	return &File{}
}

// Name identifies the analyzer.
func (a *File) Name() string { return "file" }

// Kind returns domain.KindFile.
func (a *File) Kind() domain.Kind { return domain.KindFile }

// Priority returns the selection priority.
func (a *File) Priority() int { return 60 }

// Analyze implements driven.EntityAnalyzer.
func (a *File) Analyze(ctx context.Context, entity domain.Entity, actx domain.AnalysisContext, dispatcher driven.Dispatcher) (domain.AnalysisResult, error) {
	fe, ok := entity.(domain.FileEntity)
	if !ok {
		return domain.AnalysisResult{}, fmt.Errorf("%w: %T", domain.ErrUnsupportedType, entity)
	}
	graph, err := describe.Graph(actx)
	if err != nil {
		return domain.AnalysisResult{}, err
	}

	node := actx.Node()
	if node.IsZero() {
		node = filesystem.NodeForPath(fe.Path)
	}
	name := filepath.Base(fe.Path)

	size := domain.UnknownLength
	desc := describe.Node(ctx, graph, node).
		Set(domain.PropType, domain.TypeFile).
		Set(domain.PropName, name).
		Set(domain.PropPath, fe.Path)
	if fe.Info != nil {
		size = fe.Info.Size()
		desc.Set(domain.PropSize, size).
			Set(domain.PropModified, describe.Timestamp(fe.Info.ModTime()))
	}
	if err := desc.Err(); err != nil {
		return domain.AnalysisResult{}, err
	}

	src := filesystem.NewFileSource(fe.Path, size)
	if _, err := dispatcher.Dispatch(ctx, domain.StreamEntity{Name: fe.Path, Source: src}, describe.Handoff(actx, node)); err != nil {
		return domain.AnalysisResult{}, err
	}
	return domain.AnalysisResult{Node: node, Label: name}, nil
}
