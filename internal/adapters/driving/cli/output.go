package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/sercha-inspect/internal/codec"
	"github.com/custodia-labs/sercha-inspect/internal/core/domain"
	"github.com/custodia-labs/sercha-inspect/internal/core/ports/driving"
)

// Output formats accepted by --output.
const (
	outputText = "text"
	outputJSON = "json"
	outputYAML = "yaml"
	outputCBOR = "cbor"
)

// reportDocument is the serialised form of one analysed input.
type reportDocument struct {
	Input string             `json:"input" yaml:"input"`
	Root  rootDocument       `json:"root" yaml:"root"`
	Stats statsDocument      `json:"stats" yaml:"stats"`
	Nodes []domain.GraphNode `json:"nodes" yaml:"nodes"`
}

type rootDocument struct {
	Node  domain.Node `json:"node" yaml:"node"`
	Label string      `json:"label,omitempty" yaml:"label,omitempty"`
}

type statsDocument struct {
	Entities      int64 `json:"entities" yaml:"entities"`
	Unclassified  int64 `json:"unclassified" yaml:"unclassified"`
	BytesRead     int64 `json:"bytes_read" yaml:"bytes_read"`
	FormatMatches int64 `json:"format_matches" yaml:"format_matches"`
}

func newReportDocument(input string, report *driving.AnalysisReport) reportDocument {
	return reportDocument{
		Input: input,
		Root:  rootDocument{Node: report.Root.Node, Label: report.Root.Label},
		Stats: statsDocument{
			Entities:      report.Stats.Entities,
			Unclassified:  report.Stats.Unclassified,
			BytesRead:     report.Stats.BytesRead,
			FormatMatches: report.Stats.FormatMatches,
		},
		Nodes: report.Nodes,
	}
}

// validOutput reports whether format is a known --output value.
func validOutput(format string) bool {
	switch format {
	case outputText, outputJSON, outputYAML, outputCBOR:
		return true
	default:
		return false
	}
}

// writeReports encodes docs to w. Structured formats write one document
// holding every report; text writes a summary per report.
func writeReports(w io.Writer, format string, docs []reportDocument) error {
	switch format {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(docs)
	case outputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(docs); err != nil {
			return err
		}
		return enc.Close()
	case outputCBOR:
		return codec.NewEncoder(w).Encode(docs)
	case outputText:
		for _, doc := range docs {
			if err := writeSummary(w, doc); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}

// writeSummary writes a short human-readable description of one report.
func writeSummary(w io.Writer, doc reportDocument) error {
	label := doc.Root.Label
	if label == "" {
		label = "(no description)"
	}
	_, err := fmt.Fprintf(w, "%s: %s\n  node: %s\n  %s entities, %s unclassified, %s read, %s format matches\n",
		doc.Input,
		label,
		doc.Root.Node,
		humanize.Comma(doc.Stats.Entities),
		humanize.Comma(doc.Stats.Unclassified),
		humanize.IBytes(uint64(doc.Stats.BytesRead)),
		humanize.Comma(doc.Stats.FormatMatches),
	)
	return err
}
