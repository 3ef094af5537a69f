package host_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/wieslawsoltes/throwsanalyzer-sub002/internal/demo"
	"github.com/wieslawsoltes/throwsanalyzer-sub002/internal/host"
	"github.com/wieslawsoltes/throwsanalyzer-sub002/internal/rules/disposal"
	"github.com/wieslawsoltes/throwsanalyzer-sub002/internal/rules/throws"
)

// TestRunDeterminismDiff pins the §8 determinism property directly: two
// independent Runs over the same (Compilation, Rules) pair must produce
// structurally identical diagnostic lists, not merely equal-length ones.
// cmp.Diff makes the exact field that regressed (an unsorted tie-break,
// a dedup miss) visible in the failure output instead of a bare "not
// equal".
func TestRunDeterminismDiff(t *testing.T) {
	first, err := newDemoHost(t).Run(context.Background())
	require.NoError(t, err)
	second, err := newDemoHost(t).Run(context.Background())
	require.NoError(t, err)

	if diff := cmp.Diff(first.Diagnostics, second.Diagnostics); diff != "" {
		t.Fatalf("running the same (compilation, rules) twice produced different diagnostics (-first +second):\n%s", diff)
	}
}

// TestRunNoCrashAcrossRuleSubsets pins the §8 no-crash property: Run
// terminates and returns a well-formed, sorted diagnostic list for any
// subset of the registered rules, including the empty subset.
func TestRunNoCrashAcrossRuleSubsets(t *testing.T) {
	subsets := [][]host.Rule{
		{},
		{disposal.LocalLifetimeRule{}},
		{throws.CatchOrderingRule{}},
		{disposal.LocalLifetimeRule{}, throws.CatchOrderingRule{}, throws.EmptyOrRethrowCatchRule{}},
	}

	for _, rules := range subsets {
		scenario := demo.Build()
		h, err := host.New(scenario.Compilation, host.Config{}, nil)
		require.NoError(t, err)
		h.Register(rules...)

		result, err := h.Run(context.Background())
		require.NoError(t, err)
		require.NotNil(t, result.Diagnostics)

		for i := 1; i < len(result.Diagnostics); i++ {
			prev, cur := result.Diagnostics[i-1], result.Diagnostics[i]
			less := prev.Location.File < cur.Location.File ||
				(prev.Location.File == cur.Location.File && prev.Location.Start < cur.Location.Start) ||
				(prev.Location.File == cur.Location.File && prev.Location.Start == cur.Location.Start && prev.ID <= cur.ID)
			require.True(t, less, "diagnostics must be sorted by (file, start offset, id)")
		}
	}
}
