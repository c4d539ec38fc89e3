package document

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"regexp"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/sercha-inspect/internal/core/domain"
	"github.com/custodia-labs/sercha-inspect/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-inspect/internal/formats/descriptor"
)

// Ensure TOML implements the interface.
var _ driven.FormatDescriptor = (*TOML)(nil)

var (
	tomlTable = regexp.MustCompile(`^\[\[?\s*[A-Za-z0-9_\-."']+(\s*\.\s*[A-Za-z0-9_\-"']+)*\s*\]\]?\s*(#.*)?$`)
	tomlKey   = regexp.MustCompile(`^[A-Za-z0-9_\-"']+(\s*\.\s*[A-Za-z0-9_\-"']+)*\s*=`)
)

// TOML recognises TOML documents by their first meaningful line, which
// must be a table header or a key/value pair.
type TOML struct {
	descriptor.Info
}

// NewTOML creates the toml descriptor.
func NewTOML() *TOML {
	return &TOML{Info: info("toml", "application/toml", "toml", 256)}
}

// CheckHeader skips blank and comment lines, then tests the first line.
func (t *TOML) CheckHeader(header []byte, isBinary bool, charset string) (bool, error) {
	if !isText(isBinary, charset) {
		return false, nil
	}
	scanner := bufio.NewScanner(bytes.NewReader(descriptor.TrimText(header)))
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		return tomlTable.Match(line) || tomlKey.Match(line), nil
	}
	return false, nil
}

// Match decodes the document into a table.
func (t *TOML) Match(ctx context.Context, src domain.StreamSource, _ driven.MatchContext, next driven.MatchContinuation) (domain.AnalysisResult, error) {
	data, err := descriptor.ReadAll(ctx, src, descriptor.ReadLimit)
	if err != nil {
		return domain.AnalysisResult{}, err
	}

	var root map[string]any
	if err := toml.Unmarshal(data, &root); err != nil {
		return domain.AnalysisResult{}, fmt.Errorf("toml: %w", err)
	}
	return next(ctx, domain.StructuredDocument{Syntax: "toml", Root: root})
}
