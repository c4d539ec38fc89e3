package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List supported formats and hash algorithms",
	Long: `Lists the formats sercha-inspect recognises, in the order they are
tried, and the hash algorithms available to --hash.`,
	Args: cobra.NoArgs,
	RunE: runFormats,
}

func init() {
	rootCmd.AddCommand(formatsCmd)
}

func runFormats(cmd *cobra.Command, _ []string) error {
	descriptors, err := buildFormats()
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FORMAT\tMEDIA TYPE\tEXTENSION\tDECODES TO")
	for _, d := range descriptors {
		fmt.Fprintf(tw, "%s\t%s\t.%s\t%s\n", d.Name(), d.MediaType(), d.Extension(), d.ValueKind())
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Hash algorithms:")
	for _, name := range hashNames() {
		fmt.Fprintf(w, "  %s\n", name)
	}
	return nil
}
