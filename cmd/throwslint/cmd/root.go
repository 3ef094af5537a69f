package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags).
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"

	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "throwslint",
	Short: "Disposable-protocol and exception-handling analyzer",
	Long: `throwslint hosts a catalogue of static analysis rules over a typed
object-oriented IR, looking for disposable-protocol defects (undisposed
locals, double-dispose, missing protocol implementations) and
exception-handling defects (unreachable catch clauses, rethrow
anti-patterns, swallowed exceptions).

This build has no parser wired in: the "demo" subcommand runs the
rule host against a small hand-built compilation fixture, exercising
the same path a real front end would drive.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose run logging")
}
