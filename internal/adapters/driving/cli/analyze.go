package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	analyzeOutput        string
	analyzeMaxDepth      int
	analyzeHashes        []string
	analyzePreferred     []string
	analyzeExclude       []string
	analyzeStdin         bool
	analyzeMaxInline     int
	analyzeSpillDir      string
	analyzeFormatWorkers int
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [path...]",
	Short: "Analyze files, directories or stdin",
	Long: `Classifies, hashes and recursively decodes each input.

Directories are walked; archives, compressed streams and structured
documents are opened and their contents analysed in turn, up to
--max-depth levels of nesting. With --stdin the standard input is read
exactly once, so it can be piped from another program.`,
	Example: `  sercha-inspect analyze release.tar.gz
  sercha-inspect analyze --output json --hash sha256 --hash blake3 ./dist
  curl -s https://example.com/data.zip | sercha-inspect analyze --stdin`,
	RunE: runAnalyze,
}

func init() {
	flags := analyzeCmd.Flags()
	flags.StringVarP(&analyzeOutput, "output", "o", outputText, "output format: text, json, yaml or cbor")
	flags.IntVar(&analyzeMaxDepth, "max-depth", 0, "maximum nesting depth for format matching")
	flags.StringSliceVar(&analyzeHashes, "hash", nil, "hash algorithms to compute (repeatable)")
	flags.StringSliceVar(&analyzePreferred, "preferred-hash", nil, "hash algorithms naming large content, in order")
	flags.StringSliceVar(&analyzeExclude, "exclude", nil, "glob patterns of names to skip (repeatable)")
	flags.BoolVar(&analyzeStdin, "stdin", false, "analyze standard input")
	flags.IntVar(&analyzeMaxInline, "max-inline", 0, "embed content up to this many bytes instead of hashing it")
	flags.StringVar(&analyzeSpillDir, "spill-dir", "", "directory for temporary copies of piped content")
	flags.IntVar(&analyzeFormatWorkers, "format-workers", 0, "concurrent format matches per content object")
	rootCmd.AddCommand(analyzeCmd)
}

// analyzeOverrides collects the flags the user set.
func analyzeOverrides(cmd *cobra.Command) []override {
	flags := cmd.Flags()
	var out []override
	if flags.Changed("max-depth") {
		out = append(out, override{"analysis.max_depth", analyzeMaxDepth})
	}
	if flags.Changed("hash") {
		out = append(out, override{"hash.algorithms", analyzeHashes})
		if !flags.Changed("preferred-hash") {
			out = append(out, override{"hash.preferred", analyzeHashes})
		}
	}
	if flags.Changed("preferred-hash") {
		out = append(out, override{"hash.preferred", analyzePreferred})
	}
	if flags.Changed("exclude") {
		out = append(out, override{"analysis.exclude", analyzeExclude})
	}
	if flags.Changed("max-inline") {
		out = append(out, override{"analysis.max_inline_length", analyzeMaxInline})
	}
	if flags.Changed("spill-dir") {
		out = append(out, override{"analysis.temp_dir", analyzeSpillDir})
	}
	if flags.Changed("format-workers") {
		out = append(out, override{"analysis.format_workers", analyzeFormatWorkers})
	}
	return out
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if !validOutput(analyzeOutput) {
		return fmt.Errorf("unknown output format: %s", analyzeOutput)
	}
	if analyzeStdin == (len(args) > 0) {
		return errors.New("give one or more paths, or --stdin")
	}

	settings, err := loadSettings(analyzeOverrides(cmd)...)
	if err != nil {
		return err
	}
	svc, err := buildAnalysisService(settings)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	var docs []reportDocument
	if analyzeStdin {
		report, err := svc.AnalyzeReader(ctx, "stdin", cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("stdin: %w", err)
		}
		docs = append(docs, newReportDocument("-", report))
	}
	for _, path := range args {
		report, err := svc.AnalyzePath(ctx, path)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		docs = append(docs, newReportDocument(path, report))
	}

	return writeReports(cmd.OutOrStdout(), analyzeOutput, docs)
}
