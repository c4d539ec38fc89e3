// Package document provides descriptors for structured data notations:
// JSON (with comments), YAML, TOML and CBOR. Each decodes the whole
// document into a domain.StructuredDocument whose Root is built from
// map[string]any, []any and scalars.
package document

import (
	"github.com/custodia-labs/sercha-inspect/internal/core/domain"
	"github.com/custodia-labs/sercha-inspect/internal/formats/descriptor"
)

func info(name, mediaType, ext string, header int) descriptor.Info {
	return descriptor.Info{
		FormatName: name,
		Media:      mediaType,
		Ext:        ext,
		Kind:       domain.KindDocument,
		Header:     header,
	}
}

// isText reports whether a header may start a text document. Only UTF-8
// (and its ASCII subset) is accepted.
func isText(isBinary bool, charset string) bool {
	return !isBinary && (charset == "" || charset == "utf-8")
}
