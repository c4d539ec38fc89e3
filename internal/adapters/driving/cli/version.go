package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-inspect/internal/formats"
	"github.com/custodia-labs/sercha-inspect/internal/hashes"
)

var versionShort bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long: `Prints the version, the Go runtime it was built with and how many
formats and hash algorithms are bundled.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		w := cmd.OutOrStdout()
		if versionShort {
			fmt.Fprintln(w, version)
			return
		}
		fmt.Fprintf(w, "sercha-inspect version %s\n", version)
		fmt.Fprintf(w, "  go: %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
		fmt.Fprintf(w, "  formats: %d, hash algorithms: %d\n", len(formatNames()), len(hashNames()))
	},
}

func init() {
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "print the version number only")
	rootCmd.AddCommand(versionCmd)
}

func formatNames() []string {
	r := formats.NewRegistry()
	formats.RegisterDefaults(r)
	return r.Names()
}

func hashNames() []string {
	r := hashes.NewRegistry()
	hashes.RegisterDefaults(r)
	return r.Names()
}
