package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-inspect/internal/connectors/filesystem"
	"github.com/custodia-labs/sercha-inspect/internal/core/domain"
	"github.com/custodia-labs/sercha-inspect/internal/logger"
)

var watchExclude []string

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Analyze files as they change",
	Long: `Watches a directory tree and analyzes every file that is created or
written, printing a summary per file until interrupted. Hidden files and
directories are ignored.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringSliceVar(&watchExclude, "exclude", nil, "glob patterns of names to skip (repeatable)")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	var overrides []override
	if cmd.Flags().Changed("exclude") {
		overrides = append(overrides, override{"analysis.exclude", watchExclude})
	}
	settings, err := loadSettings(overrides...)
	if err != nil {
		return err
	}
	svc, err := buildAnalysisService(settings)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	watcher := filesystem.NewWatcher(args[0])
	changes, err := watcher.Watch(ctx)
	if err != nil {
		return err
	}
	defer watcher.Close()

	cmd.Printf("Watching %s\n", args[0])
	for change := range changes {
		if change.Type == domain.ChangeDeleted {
			cmd.Printf("%s: %s\n", change.Path, change.Type)
			continue
		}
		report, err := svc.AnalyzePath(ctx, change.Path)
		if err != nil {
			// Files are often analysed mid-write; the next write event retries.
			logger.Warn("analyze %s: %v", change.Path, err)
			continue
		}
		if err := writeSummary(cmd.OutOrStdout(), newReportDocument(change.Path, report)); err != nil {
			return fmt.Errorf("write summary: %w", err)
		}
	}
	return nil
}
