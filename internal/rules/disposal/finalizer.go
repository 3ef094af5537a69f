package disposal

import (
	"fmt"

	"github.com/wieslawsoltes/throwsanalyzer-sub002/internal/host"
	"github.com/wieslawsoltes/throwsanalyzer-sub002/ir"
)

var (
	descFinalizerNotSuppressed = warning("DISP019", "Finalizer present but disposal never suppresses it")
	descSuppressWithoutFinalizer = info("DISP030", "Finalizer-suppression called with no finalizer declared")
)

// FinalizerRule checks the pairing between a type's finalizer and its
// call to the platform's finalizer-suppression intrinsic (§4.8 "Finalizer
// present but disposal method does not call finalizer-suppression;
// finalizer-suppression called but no finalizer declared"). The two
// directions share one trigger shape, so they live in one rule; DISP030
// is informational since calling the intrinsic needlessly is a missed
// optimization, not a correctness bug.
type FinalizerRule struct {
	methods MethodLookup
}

// NewFinalizerRule binds the rule to the method registry it needs to
// find a type's declared disposal method.
func NewFinalizerRule(methods MethodLookup) *FinalizerRule {
	return &FinalizerRule{methods: methods}
}

func (*FinalizerRule) ID() string { return "disposal.finalizer" }

func (*FinalizerRule) Descriptors() []ir.Descriptor {
	return []ir.Descriptor{descFinalizerNotSuppressed, descSuppressWithoutFinalizer}
}

func (r *FinalizerRule) OnType(ctx *host.RunContext, t ir.Type) {
	hasFinalizer := ctx.Disposables().HasFinalizer(t)
	disposeMethod := ctx.Disposables().DisposeMethod(t)
	if disposeMethod == nil {
		return
	}
	body, ok := disposeMethod.Body()
	if !ok {
		return
	}
	suppresses := containsSuppressionCall(ctx, body)

	switch {
	case hasFinalizer && !suppresses:
		ctx.Report(descFinalizerNotSuppressed.New(symbolSpan(disposeMethod),
			fmt.Sprintf("%s declares a finalizer but %s never suppresses it", t.DisplayName(), disposeMethod.Name()),
			t.DisplayName()))
	case !hasFinalizer && suppresses:
		ctx.Report(descSuppressWithoutFinalizer.New(symbolSpan(disposeMethod),
			fmt.Sprintf("%s calls finalizer-suppression but declares no finalizer", t.DisplayName()),
			t.DisplayName()))
	}
}

func containsSuppressionCall(ctx *host.RunContext, node ir.SyntaxNode) bool {
	if node == nil {
		return false
	}
	if op, ok := ctx.Model().OperationFor(node); ok {
		if inv, ok := op.(*ir.InvocationOp); ok && ctx.Disposables().IsFinalizerSuppressionCall(inv) {
			return true
		}
	}
	for _, c := range node.Children() {
		if containsSuppressionCall(ctx, c) {
			return true
		}
	}
	return false
}
