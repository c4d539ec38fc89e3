package driven

import (
	"context"

	"github.com/custodia-labs/sercha-inspect/internal/core/domain"
)

// ContentClassifier turns a stream into a classified, hashed and
// format-matched content object. Matched formats are analysed through
// dispatcher before Classify returns.
type ContentClassifier interface {
	Classify(ctx context.Context, src domain.StreamSource, actx domain.AnalysisContext, dispatcher Dispatcher) (*domain.ContentObject, error)
}
