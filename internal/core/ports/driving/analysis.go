package driving

import (
	"context"
	"io"

	"github.com/custodia-labs/sercha-inspect/internal/core/domain"
)

// AnalysisService runs the entity analysis engine over inputs.
type AnalysisService interface {
	// AnalyzePath analyses a file or directory tree.
	AnalyzePath(ctx context.Context, path string) (*AnalysisReport, error)

	// AnalyzeReader analyses a one-shot stream (e.g. stdin). name is a label only.
	AnalyzeReader(ctx context.Context, name string, r io.Reader) (*AnalysisReport, error)

	// AnalyzeBytes analyses an in-memory buffer.
	AnalyzeBytes(ctx context.Context, name string, data []byte) (*AnalysisReport, error)
}

// AnalysisReport is the outcome of one top-level analysis.
type AnalysisReport struct {
	// Root is the result for the input itself.
	Root domain.AnalysisResult

	// Nodes is the description accumulated by the run.
	Nodes []domain.GraphNode

	// Stats counts work done during the run.
	Stats AnalysisStats
}

// AnalysisStats counts work done during one analysis.
type AnalysisStats struct {
	// Entities is the number of entities dispatched.
	Entities int64

	// Unclassified is the number of entities no analyzer described.
	Unclassified int64

	// BytesRead is the number of content bytes classified.
	BytesRead int64

	// FormatMatches is the number of successful format matches.
	FormatMatches int64
}
