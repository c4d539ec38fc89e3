package document

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/sercha-inspect/internal/core/domain"
	"github.com/custodia-labs/sercha-inspect/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-inspect/internal/formats/descriptor"
)

// Ensure YAML implements the interface.
var _ driven.FormatDescriptor = (*YAML)(nil)

// YAML recognises YAML streams that open with a document marker or a
// %YAML directive. Bare YAML is indistinguishable from plain text and is
// not matched.
type YAML struct {
	descriptor.Info
}

// NewYAML creates the yaml descriptor.
func NewYAML() *YAML {
	return &YAML{Info: info("yaml", "application/yaml", "yaml", 5)}
}

// CheckHeader accepts "---" or "%YAML" at the start of the content.
func (y *YAML) CheckHeader(header []byte, isBinary bool, charset string) (bool, error) {
	if !isText(isBinary, charset) {
		return false, nil
	}
	header = bytes.TrimPrefix(header, []byte{0xEF, 0xBB, 0xBF})
	return bytes.HasPrefix(header, []byte("---")) || bytes.HasPrefix(header, []byte("%YAML")), nil
}

// Match decodes the first document of the stream.
func (y *YAML) Match(ctx context.Context, src domain.StreamSource, _ driven.MatchContext, next driven.MatchContinuation) (domain.AnalysisResult, error) {
	data, err := descriptor.ReadAll(ctx, src, descriptor.ReadLimit)
	if err != nil {
		return domain.AnalysisResult{}, err
	}

	var root any
	if err := yaml.NewDecoder(bytes.NewReader(data)).Decode(&root); err != nil && !errors.Is(err, io.EOF) {
		return domain.AnalysisResult{}, fmt.Errorf("yaml: %w", err)
	}
	return next(ctx, domain.StructuredDocument{Syntax: "yaml", Root: root})
}
