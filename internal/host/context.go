package host

import (
	"context"

	"github.com/wieslawsoltes/throwsanalyzer-sub002/internal/callgraph"
	"github.com/wieslawsoltes/throwsanalyzer-sub002/internal/classify"
	"github.com/wieslawsoltes/throwsanalyzer-sub002/internal/facade"
	"github.com/wieslawsoltes/throwsanalyzer-sub002/internal/flow"
	"github.com/wieslawsoltes/throwsanalyzer-sub002/ir"
)

// RunContext is handed to every rule callback. It exposes the shared,
// read-only analysis collaborators (§4.7 "rules may read facade/
// classifiers freely") plus the current tree's SemanticModel and a
// Report sink. Rules must not mutate anything reachable from it beyond
// their own rule-local state.
type RunContext struct {
	ctx   context.Context
	host  *Host
	model ir.SemanticModel
	sink  *sink
}

// Context returns the run's cancellation context.
func (c *RunContext) Context() context.Context { return c.ctx }

// Model returns the SemanticModel for the tree currently being
// processed.
func (c *RunContext) Model() ir.SemanticModel { return c.model }

// Facade returns the shared SemanticFacade.
func (c *RunContext) Facade() *facade.Facade { return c.host.facade }

// Disposables returns the shared DisposableClassifier.
func (c *RunContext) Disposables() *classify.DisposableClassifier { return c.host.disposables }

// Exceptions returns the shared ExceptionClassifier.
func (c *RunContext) Exceptions() *classify.ExceptionClassifier { return c.host.exceptions }

// DisposalFlow returns the shared DisposalFlowAnalyzer.
func (c *RunContext) DisposalFlow() *flow.DisposalFlowAnalyzer { return c.host.disposalFlow }

// ExceptionFlow returns the shared ExceptionFlowAnalyzer, building the
// CallGraph on first use (§4.7: computed at most once per run).
func (c *RunContext) ExceptionFlow() *flow.ExceptionFlowAnalyzer { return c.host.exceptionFlow() }

// CallGraph returns the shared CallGraph, building it on first use.
func (c *RunContext) CallGraph() *callgraph.Graph { return c.host.callGraph() }

// Report submits a diagnostic to the run's sink.
func (c *RunContext) Report(d ir.Diagnostic) { c.sink.add(d) }
