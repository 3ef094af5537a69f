package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/wieslawsoltes/throwsanalyzer-sub002/internal/demo"
	"github.com/wieslawsoltes/throwsanalyzer-sub002/internal/host"
	"github.com/wieslawsoltes/throwsanalyzer-sub002/internal/rules/disposal"
	"github.com/wieslawsoltes/throwsanalyzer-sub002/internal/rules/throws"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run the rule host against the built-in demo compilation",
	Long: `demo builds a small hand-written compilation fixture (one type with an
undisposed local and a shadowed catch clause) and runs it through the
rule host, printing every diagnostic found.

It is the closest thing this build has to an end-to-end test you can
run from the command line: there is no parser wired in, so the fixture
stands in for what a real front end would hand the host.`,
	RunE: runDemo,
}

func init() {
	rootCmd.AddCommand(demoCmd)
}

func runDemo(cmd *cobra.Command, args []string) error {
	var logger *slog.Logger
	if verbose {
		logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	} else {
		logger = slog.New(slog.DiscardHandler)
	}

	scenario := demo.Build()

	h, err := host.New(scenario.Compilation, host.Config{Logger: logger}, nil)
	if err != nil {
		return fmt.Errorf("build host: %w", err)
	}
	h.WithMethods(scenario.Registry)
	h.Register(
		disposal.LocalLifetimeRule{},
		disposal.NewProtocolShapeRule(scenario.Registry, scenario.Registry),
		throws.CatchOrderingRule{},
		throws.EmptyOrRethrowCatchRule{},
	)

	result, err := h.Run(context.Background())
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}
	if result.Cancelled {
		return fmt.Errorf("run was cancelled")
	}

	diags := result.Diagnostics
	sort.Slice(diags, func(i, j int) bool {
		if diags[i].Location.File != diags[j].Location.File {
			return diags[i].Location.File < diags[j].Location.File
		}
		if diags[i].Location.Start != diags[j].Location.Start {
			return diags[i].Location.Start < diags[j].Location.Start
		}
		return diags[i].ID < diags[j].ID
	})

	if len(diags) == 0 {
		fmt.Println("no diagnostics")
		return nil
	}
	for _, d := range diags {
		fmt.Printf("%s:%d: %s [%s] %s\n", d.Location.File, d.Location.Start, d.Severity, d.ID, d.Message)
	}
	return nil
}
