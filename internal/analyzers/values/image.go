package values

import (
	"context"
	"fmt"

	"github.com/custodia-labs/sercha-inspect/internal/analyzers/describe"
	"github.com/custodia-labs/sercha-inspect/internal/core/domain"
	"github.com/custodia-labs/sercha-inspect/internal/core/ports/driven"
)

// Ensure Image implements the interface.
var _ driven.EntityAnalyzer = (*Image)(nil)

// Image describes decoded image metadata.
type Image struct{}

// NewImage creates the image analyzer.
func NewImage() *Image {
	return &Image{}
}

// Name identifies the analyzer.
func (a *Image) Name() string { return "image" }

// Kind returns domain.KindImage.
func (a *Image) Kind() domain.Kind { return domain.KindImage }

// Priority returns the selection priority.
func (a *Image) Priority() int { return 60 }

// Analyze implements driven.EntityAnalyzer.
func (a *Image) Analyze(ctx context.Context, entity domain.Entity, actx domain.AnalysisContext, _ driven.Dispatcher) (domain.AnalysisResult, error) {
	fv, info, err := valueOf[domain.ImageInfo](entity)
	if err != nil {
		return domain.AnalysisResult{}, err
	}
	graph, err := describe.Graph(actx)
	if err != nil {
		return domain.AnalysisResult{}, err
	}

	node := describe.ValueNode(actx, fv)
	err = describe.Node(ctx, graph, node).
		Set(domain.PropType, domain.TypeImage).
		Set(domain.PropFormat, info.Format).
		Set(domain.PropWidth, info.Width).
		Set(domain.PropHeight, info.Height).
		Set(domain.PropColorModel, info.ColorModel).
		Err()
	if err != nil {
		return domain.AnalysisResult{}, err
	}
	return domain.AnalysisResult{Node: node, Label: fmt.Sprintf("%s %dx%d", info.Format, info.Width, info.Height)}, nil
}
