// Package xmldoc provides the XML format descriptor. Matching parses the
// whole document to prove it well-formed and records its root element.
package xmldoc

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"regexp"

	"golang.org/x/net/html/charset"

	"github.com/custodia-labs/sercha-inspect/internal/core/domain"
	"github.com/custodia-labs/sercha-inspect/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-inspect/internal/formats/descriptor"
)

// Ensure Descriptor implements the interface.
var _ driven.FormatDescriptor = (*Descriptor)(nil)

// cancelEvery is how many tokens are read between context checks.
const cancelEvery = 1024

var pseudoAttr = regexp.MustCompile(`(version|encoding)\s*=\s*["']([^"']*)["']`)

// Descriptor recognises XML documents.
type Descriptor struct {
	descriptor.Info
}

// New creates the xml descriptor.
func New() *Descriptor {
	return &Descriptor{Info: descriptor.Info{
		FormatName: "xml",
		Media:      "application/xml",
		Ext:        "xml",
		Kind:       domain.KindXML,
		Header:     64,
	}}
}

// CheckHeader accepts an XML declaration, or markup that opens with an
// element, comment or doctype.
func (d *Descriptor) CheckHeader(header []byte, isBinary bool, _ string) (bool, error) {
	if isBinary {
		return false, nil
	}
	text := descriptor.TrimText(header)
	if len(text) < 2 || text[0] != '<' {
		return false, nil
	}
	c := text[1]
	return c == '?' || c == '!' || c == '_' || c == ':' ||
		('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z'), nil
}

// Match parses the document with a strict decoder. Declared encodings other
// than UTF-8 are transcoded.
func (d *Descriptor) Match(ctx context.Context, src domain.StreamSource, _ driven.MatchContext, next driven.MatchContinuation) (domain.AnalysisResult, error) {
	rc, err := src.Open(ctx)
	if err != nil {
		return domain.AnalysisResult{}, err
	}
	defer rc.Close()

	doc, err := parse(ctx, rc)
	if err != nil {
		return domain.AnalysisResult{}, fmt.Errorf("xml: %w", err)
	}
	return next(ctx, *doc)
}

func parse(ctx context.Context, r io.Reader) (*domain.XMLDocument, error) {
	dec := xml.NewDecoder(r)
	dec.Strict = true
	dec.CharsetReader = charset.NewReaderLabel

	doc := &domain.XMLDocument{}
	depth := 0
	closed := false
	for tokens := 0; ; tokens++ {
		if tokens%cancelEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.ProcInst:
			if t.Target == "xml" {
				for _, m := range pseudoAttr.FindAllSubmatch(t.Inst, -1) {
					switch string(m[1]) {
					case "version":
						doc.Version = string(m[2])
					case "encoding":
						doc.Encoding = string(m[2])
					}
				}
			}
		case xml.StartElement:
			if closed {
				return nil, errors.New("content after root element")
			}
			doc.Elements++
			if depth == 0 {
				doc.RootName = t.Name.Local
				doc.RootNamespace = t.Name.Space
				doc.Namespaces = namespaces(t.Attr)
			}
			depth++
		case xml.EndElement:
			depth--
			if depth == 0 {
				closed = true
			}
		case xml.CharData:
			if depth == 0 && len(bytes.TrimSpace(t)) > 0 {
				return nil, errors.New("text outside root element")
			}
		}
	}
	if doc.RootName == "" {
		return nil, errors.New("no root element")
	}
	return doc, nil
}

// namespaces collects the xmlns declarations of an element. The default
// namespace is stored under the empty prefix.
func namespaces(attrs []xml.Attr) map[string]string {
	var ns map[string]string
	for _, a := range attrs {
		var prefix string
		switch {
		case a.Name.Space == "xmlns":
			prefix = a.Name.Local
		case a.Name.Space == "" && a.Name.Local == "xmlns":
			prefix = ""
		default:
			continue
		}
		if ns == nil {
			ns = make(map[string]string)
		}
		ns[prefix] = a.Value
	}
	return ns
}
