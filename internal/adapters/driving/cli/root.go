// Package cli provides the sercha-inspect command line.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-inspect/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	verbose    bool
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "sercha-inspect",
	Short: "Inspect files, archives and streams",
	Long: `sercha-inspect identifies what a file, directory or stream contains.

Every input is classified and hashed in a single pass, recognised formats
are decoded, and archives, compressed streams and documents are inspected
recursively. The result is a graph describing every entity found.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log every analyzer attempt")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.sercha-inspect/config.toml)")
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
