package values

import (
	"context"
	"fmt"

	"github.com/custodia-labs/sercha-inspect/internal/analyzers/describe"
	"github.com/custodia-labs/sercha-inspect/internal/core/domain"
	"github.com/custodia-labs/sercha-inspect/internal/core/ports/driven"
)

// Ensure the analyzers implement the interface.
var (
	_ driven.EntityAnalyzer = (*Document)(nil)
	_ driven.EntityAnalyzer = (*XML)(nil)
)

// Document describes the shape of a structured document.
type Document struct{}

// NewDocument creates the structured document analyzer.
func NewDocument() *Document {
	return &Document{}
}

// Name identifies the analyzer.
func (a *Document) Name() string { return "document" }

// Kind returns domain.KindDocument.
func (a *Document) Kind() domain.Kind { return domain.KindDocument }

// Priority returns the selection priority.
func (a *Document) Priority() int { return 60 }

// Analyze implements driven.EntityAnalyzer.
func (a *Document) Analyze(ctx context.Context, entity domain.Entity, actx domain.AnalysisContext, _ driven.Dispatcher) (domain.AnalysisResult, error) {
	fv, doc, err := valueOf[domain.StructuredDocument](entity)
	if err != nil {
		return domain.AnalysisResult{}, err
	}
	graph, err := describe.Graph(actx)
	if err != nil {
		return domain.AnalysisResult{}, err
	}

	node := describe.ValueNode(actx, fv)
	rootType, members := shape(doc.Root)
	desc := describe.Node(ctx, graph, node).
		Set(domain.PropType, domain.TypeDocument).
		Set(domain.PropSyntax, doc.Syntax).
		Set(domain.PropRootType, rootType)
	if members >= 0 {
		desc.Set(domain.PropMembers, members)
	}
	if err := desc.Err(); err != nil {
		return domain.AnalysisResult{}, err
	}
	return domain.AnalysisResult{Node: node, Label: doc.Syntax + " " + rootType}, nil
}

// shape names the type of a decoded root and counts its members. Scalars
// have -1 members.
func shape(root any) (string, int) {
	switch v := root.(type) {
	case nil:
		return "null", -1
	case map[string]any:
		return "object", len(v)
	case map[any]any:
		return "object", len(v)
	case []any:
		return "array", len(v)
	case string:
		return "string", -1
	case bool:
		return "boolean", -1
	default:
		return "scalar", -1
	}
}

// XML describes the root of an XML document.
type XML struct{}

// NewXML creates the XML document analyzer.
func NewXML() *XML {
	return &XML{}
}

// Name identifies the analyzer.
func (a *XML) Name() string { return "xml" }

// Kind returns domain.KindXML.
func (a *XML) Kind() domain.Kind { return domain.KindXML }

// Priority returns the selection priority.
func (a *XML) Priority() int { return 60 }

// Analyze implements driven.EntityAnalyzer.
func (a *XML) Analyze(ctx context.Context, entity domain.Entity, actx domain.AnalysisContext, _ driven.Dispatcher) (domain.AnalysisResult, error) {
	fv, doc, err := valueOf[domain.XMLDocument](entity)
	if err != nil {
		return domain.AnalysisResult{}, err
	}
	graph, err := describe.Graph(actx)
	if err != nil {
		return domain.AnalysisResult{}, err
	}

	node := describe.ValueNode(actx, fv)
	err = describe.Node(ctx, graph, node).
		Set(domain.PropType, domain.TypeXML).
		Set(domain.PropRootName, doc.RootName).
		Set(domain.PropNamespace, doc.RootNamespace).
		Set(domain.PropVersion, doc.Version).
		Set(domain.PropEncoding, doc.Encoding).
		Set(domain.PropElements, doc.Elements).
		Err()
	if err != nil {
		return domain.AnalysisResult{}, err
	}
	return domain.AnalysisResult{Node: node, Label: fmt.Sprintf("<%s>", doc.RootName)}, nil
}
