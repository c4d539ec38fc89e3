package document

import (
	"bytes"
	"context"
	"fmt"

	"github.com/custodia-labs/sercha-inspect/internal/codec"
	"github.com/custodia-labs/sercha-inspect/internal/core/domain"
	"github.com/custodia-labs/sercha-inspect/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-inspect/internal/formats/descriptor"
)

// Ensure CBOR implements the interface.
var _ driven.FormatDescriptor = (*CBOR)(nil)

// cborMagic is the encoded self-describe tag.
var cborMagic = []byte{0xd9, 0xd9, 0xf7}

// CBOR recognises self-described CBOR. Untagged CBOR has no signature.
type CBOR struct {
	descriptor.Info
}

// NewCBOR creates the cbor descriptor.
func NewCBOR() *CBOR {
	return &CBOR{Info: info("cbor", "application/cbor", "cbor", len(cborMagic))}
}

// CheckHeader compares the self-describe tag.
func (c *CBOR) CheckHeader(header []byte, _ bool, _ string) (bool, error) {
	return bytes.HasPrefix(header, cborMagic), nil
}

// Match decodes the single data item.
func (c *CBOR) Match(ctx context.Context, src domain.StreamSource, _ driven.MatchContext, next driven.MatchContinuation) (domain.AnalysisResult, error) {
	data, err := descriptor.ReadAll(ctx, src, descriptor.ReadLimit)
	if err != nil {
		return domain.AnalysisResult{}, err
	}

	var root any
	if err := codec.Unmarshal(data, &root); err != nil {
		return domain.AnalysisResult{}, fmt.Errorf("cbor: %w", err)
	}
	return next(ctx, domain.StructuredDocument{Syntax: "cbor", Root: root})
}
