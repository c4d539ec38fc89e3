package document

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/tidwall/jsonc"

	"github.com/custodia-labs/sercha-inspect/internal/core/domain"
	"github.com/custodia-labs/sercha-inspect/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-inspect/internal/formats/descriptor"
)

// Ensure JSON implements the interface.
var _ driven.FormatDescriptor = (*JSON)(nil)

// JSON recognises JSON objects and arrays. Comments and trailing commas are
// tolerated.
type JSON struct {
	descriptor.Info
}

// NewJSON creates the json descriptor.
func NewJSON() *JSON {
	return &JSON{Info: info("json", "application/json", "json", 64)}
}

// CheckHeader accepts text starting with an object, an array or a comment.
func (j *JSON) CheckHeader(header []byte, isBinary bool, charset string) (bool, error) {
	if !isText(isBinary, charset) {
		return false, nil
	}
	text := descriptor.TrimText(header)
	if len(text) == 0 {
		return false, nil
	}
	switch text[0] {
	case '{', '[':
		return true, nil
	}
	return bytes.HasPrefix(text, []byte("//")) || bytes.HasPrefix(text, []byte("/*")), nil
}

// Match decodes the document. Numbers are kept as json.Number.
func (j *JSON) Match(ctx context.Context, src domain.StreamSource, _ driven.MatchContext, next driven.MatchContinuation) (domain.AnalysisResult, error) {
	data, err := descriptor.ReadAll(ctx, src, descriptor.ReadLimit)
	if err != nil {
		return domain.AnalysisResult{}, err
	}

	dec := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
	dec.UseNumber()
	var root any
	if err := dec.Decode(&root); err != nil {
		return domain.AnalysisResult{}, fmt.Errorf("json: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return domain.AnalysisResult{}, errors.New("json: trailing data after document")
	}
	switch root.(type) {
	case map[string]any, []any:
	default:
		return domain.AnalysisResult{}, errors.New("json: document is not an object or array")
	}

	return next(ctx, domain.StructuredDocument{Syntax: "json", Root: root})
}
