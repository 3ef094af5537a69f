// Command throwslint is a minimal driver over the analyzer library.
// There is no real parser in this repository (spec §1 keeps parsing
// out of scope), so this command exists only to run the rule host
// end to end against the ir/fixture demo compilation, as a manual
// smoke test for the library packages underneath it.
package main

import (
	"fmt"
	"os"

	"github.com/wieslawsoltes/throwsanalyzer-sub002/cmd/throwslint/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
