package cli

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

// execute runs the root command with args and returns everything written
// to stdout and stderr.
func execute(t *testing.T, stdin io.Reader, args ...string) (string, error) {
	t.Helper()
	resetFlags()
	defer resetFlags()

	if stdin == nil {
		stdin = strings.NewReader("")
	}
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(stdin)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}

// tempConfig returns a config path inside a fresh directory.
func tempConfig(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "config.toml")
}

// resetFlags restores flag variables cobra keeps between executions.
func resetFlags() {
	verbose = false
	configPath = ""
	analyzeOutput = outputText
	analyzeMaxDepth = 0
	analyzeHashes = nil
	analyzePreferred = nil
	analyzeExclude = nil
	analyzeStdin = false
	analyzeMaxInline = 0
	analyzeSpillDir = ""
	analyzeFormatWorkers = 0
	watchExclude = nil
	versionShort = false

	unchange := func(f *pflag.Flag) { f.Changed = false }
	rootCmd.PersistentFlags().VisitAll(unchange)
	analyzeCmd.Flags().VisitAll(unchange)
	watchCmd.Flags().VisitAll(unchange)
	versionCmd.Flags().VisitAll(unchange)
}
