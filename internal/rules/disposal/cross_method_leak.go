package disposal

import (
	"fmt"

	"github.com/wieslawsoltes/throwsanalyzer-sub002/internal/callgraph"
	"github.com/wieslawsoltes/throwsanalyzer-sub002/internal/host"
	"github.com/wieslawsoltes/throwsanalyzer-sub002/ir"
)

var descCrossMethodLeak = warning("DISP023", "Disposable leaks across the call chain")

// CrossMethodLeakRule is DisposalPropagationRule's call-graph-based
// sibling for the same "disposal not propagated" finding (§9 design
// note keeps the field-focused DISP002, the one-hop DISP021, and this
// transitive DISP023 as three distinct rules rather than merging them).
// Where DISP021 flags a single suspicious hop, DISP023 only fires once
// the entire reachable call chain from the handoff site has been
// searched and no method in it disposes the corresponding parameter —
// a stronger, more expensive signal that a resource is genuinely
// unreachable rather than merely unproven.
type CrossMethodLeakRule struct {
	maxDepth int
}

// NewCrossMethodLeakRule binds the rule to how many call-graph hops it
// searches before concluding a local is unreachable.
func NewCrossMethodLeakRule(maxDepth int) *CrossMethodLeakRule {
	if maxDepth <= 0 {
		maxDepth = 4
	}
	return &CrossMethodLeakRule{maxDepth: maxDepth}
}

func (*CrossMethodLeakRule) ID() string { return "disposal.cross-method-leak" }

func (*CrossMethodLeakRule) Descriptors() []ir.Descriptor {
	return []ir.Descriptor{descCrossMethodLeak}
}

func (*CrossMethodLeakRule) Kinds() []ir.OperationKind {
	return []ir.OperationKind{ir.OpInvocation}
}

func (r *CrossMethodLeakRule) OnOperation(ctx *host.RunContext, op ir.Operation) {
	inv := op.(*ir.InvocationOp)
	if inv.Method == nil {
		return
	}
	for _, arg := range inv.Arguments {
		ap, ok := arg.(*ir.ArgumentPassingOp)
		if !ok {
			continue
		}
		local, ok := directLocal(ap.Value)
		if !ok || !ctx.Disposables().IsAnyDisposable(local.DeclaredType()) {
			continue
		}
		if !isOwnershipTransferName(ap.Parameter.Name, inv.Method.Name()) {
			continue
		}
		if r.reachesDisposal(ctx, inv.Method, ap.Parameter.Name) {
			continue
		}
		ctx.Report(descCrossMethodLeak.New(span(inv.Syntax()),
			fmt.Sprintf("%q is handed off to %s, and no method reachable from it within %d call(s) disposes the corresponding parameter", local.Name(), inv.Method.Name(), r.maxDepth),
			local.Name(), inv.Method.Name()))
	}
}

func (r *CrossMethodLeakRule) reachesDisposal(ctx *host.RunContext, method ir.Method, paramName string) bool {
	if body, ok := method.Body(); ok && methodDisposesParamNamed(ctx, body, paramName) {
		return true
	}
	graph := ctx.CallGraph()
	if graph == nil {
		return false
	}
	for _, sym := range callgraph.TransitiveCallees(graph, method, r.maxDepth) {
		callee, ok := sym.(ir.Method)
		if !ok {
			continue
		}
		body, ok := callee.Body()
		if !ok {
			continue
		}
		if methodDisposesParamNamed(ctx, body, paramName) {
			return true
		}
	}
	return false
}
