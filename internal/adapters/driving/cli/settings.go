package cli

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-inspect/internal/core/domain"
	"github.com/custodia-labs/sercha-inspect/internal/core/services"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View the effective engine settings, or write them to the config file.

Settings are read from --config (default ~/.sercha-inspect/config.toml);
keys missing from the file take their default value.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the current settings to the config file",
	Long: `Writes every setting, including defaults, to the config file so it
can be edited by hand.`,
	RunE: runSettingsInit,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsInitCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	config, err := openConfig()
	if err != nil {
		return err
	}
	settings, err := services.NewSettingsService(config).Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Printf("Config file: %s\n", config.Path())
	cmd.Println()
	printSettings(cmd, settings)
	return nil
}

func runSettingsInit(cmd *cobra.Command, _ []string) error {
	config, err := openConfig()
	if err != nil {
		return err
	}
	svc := services.NewSettingsService(config)
	settings, err := svc.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	if err := svc.Save(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	cmd.Printf("Settings written to %s\n", config.Path())
	return nil
}

func printSettings(cmd *cobra.Command, s *domain.Settings) {
	cmd.Println("[Hash]")
	cmd.Printf("  Algorithms: %s\n", strings.Join(s.Hash.Algorithms, ", "))
	cmd.Printf("  Preferred: %s\n", listOrNone(s.Hash.Preferred))
	cmd.Println()

	cmd.Println("[Analysis]")
	cmd.Printf("  Max depth: %d\n", s.Analysis.MaxDepth)
	if s.Analysis.MaxInlineLength > 0 {
		cmd.Printf("  Max inline length: %d bytes\n", s.Analysis.MaxInlineLength)
	} else {
		cmd.Printf("  Max inline length: derived from hashes\n")
	}
	cmd.Printf("  Spill threshold: %s\n", humanize.IBytes(uint64(s.Analysis.SpillThreshold)))
	cmd.Printf("  Chunk size: %s\n", humanize.IBytes(uint64(s.Analysis.ChunkSize)))
	tempDir := s.Analysis.TempDir
	if tempDir == "" {
		tempDir = "(system default)"
	}
	cmd.Printf("  Temp dir: %s\n", tempDir)
	cmd.Printf("  Exclude: %s\n", listOrNone(s.Analysis.Exclude))
	cmd.Printf("  Format workers: %d\n", s.Analysis.FormatWorkers)
	cmd.Printf("  Identity cache: %s entries\n", humanize.Comma(int64(s.Analysis.CacheSize)))
}

func listOrNone(values []string) string {
	if len(values) == 0 {
		return "(none)"
	}
	return strings.Join(values, ", ")
}
