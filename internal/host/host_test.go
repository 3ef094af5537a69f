package host_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/wieslawsoltes/throwsanalyzer-sub002/internal/demo"
	"github.com/wieslawsoltes/throwsanalyzer-sub002/internal/host"
	"github.com/wieslawsoltes/throwsanalyzer-sub002/internal/rules/disposal"
	"github.com/wieslawsoltes/throwsanalyzer-sub002/internal/rules/throws"
	"github.com/wieslawsoltes/throwsanalyzer-sub002/ir"
)

func newDemoHost(t *testing.T) *host.Host {
	t.Helper()
	scenario := demo.Build()
	h, err := host.New(scenario.Compilation, host.Config{}, nil)
	require.NoError(t, err)
	h.Register(
		disposal.LocalLifetimeRule{},
		throws.CatchOrderingRule{},
		throws.EmptyOrRethrowCatchRule{},
	)
	return h
}

func TestRunFindsDemoDiagnostics(t *testing.T) {
	defer goleak.VerifyNone(t)

	h := newDemoHost(t)
	result, err := h.Run(context.Background())
	require.NoError(t, err)
	assert.False(t, result.Cancelled)

	var ids []string
	for _, d := range result.Diagnostics {
		ids = append(ids, d.ID)
	}
	assert.Contains(t, ids, "DISP001", "Leaky's undisposed local should be flagged")
	assert.Contains(t, ids, "THROWS003", "Risky's shadowed catch should be flagged")
}

func TestRunIsDeterministic(t *testing.T) {
	first, err := newDemoHost(t).Run(context.Background())
	require.NoError(t, err)

	second, err := newDemoHost(t).Run(context.Background())
	require.NoError(t, err)

	require.Equal(t, len(first.Diagnostics), len(second.Diagnostics))
	for i := range first.Diagnostics {
		assert.Equal(t, first.Diagnostics[i].ID, second.Diagnostics[i].ID)
		assert.Equal(t, first.Diagnostics[i].Location, second.Diagnostics[i].Location)
	}
}

func TestRunDeduplicatesDiagnostics(t *testing.T) {
	h := newDemoHost(t)
	h.Register(disposal.LocalLifetimeRule{}) // register a second time: same descriptors, same findings
	result, err := h.Run(context.Background())
	require.NoError(t, err)

	seen := map[string]bool{}
	for _, d := range result.Diagnostics {
		key := d.Key()
		assert.False(t, seen[key], "diagnostic %s reported more than once", key)
		seen[key] = true
	}
}

func TestRunCancellation(t *testing.T) {
	h := newDemoHost(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := h.Run(ctx)
	require.NoError(t, err)
	assert.True(t, result.Cancelled)
	assert.Empty(t, result.Diagnostics)
}

func TestNewRejectsNegativeWorkers(t *testing.T) {
	scenario := demo.Build()
	_, err := host.New(scenario.Compilation, host.Config{Workers: -1}, nil)
	require.Error(t, err)
	var cfgErr *host.ConfigError
	require.ErrorAs(t, err, &cfgErr)
}

func TestNewRejectsNilCompilation(t *testing.T) {
	_, err := host.New(nil, host.Config{}, nil)
	require.Error(t, err)
}

type panicRule struct{}

func (panicRule) ID() string                  { return "test.panic" }
func (panicRule) Descriptors() []ir.Descriptor { return nil }
func (panicRule) OnCompilationStart(ctx *host.RunContext) { panic("boom") }

func TestRuleFaultIsIsolated(t *testing.T) {
	h := newDemoHost(t)
	h.Register(panicRule{})

	result, err := h.Run(context.Background())
	require.NoError(t, err)

	var faulted bool
	for _, d := range result.Diagnostics {
		if d.ID == host.RuleFaulted.ID {
			faulted = true
		}
	}
	assert.True(t, faulted, "a panicking rule should surface as a RULE_FAULTED diagnostic, not crash the run")
}
