package disposal

import (
	"fmt"

	"github.com/wieslawsoltes/throwsanalyzer-sub002/internal/host"
	"github.com/wieslawsoltes/throwsanalyzer-sub002/ir"
)

var descOwnershipUnclear = info("DISP017", "Disposal ownership is unclear at this call site")

// OwnershipArgumentRule flags the call sites DisposalPropagationRule
// deliberately leaves alone: a disposable local passed as an argument
// where neither the parameter name nor the callee name gives any
// ownership-transfer hint (flow's isOwnershipTransfer rule). The local
// still shows as "escaped" to the flow analyzer, which is correct
// conservatively, but the call site itself is exactly where a reader
// needs a cue about who now owns the resource.
type OwnershipArgumentRule struct{}

func (OwnershipArgumentRule) ID() string { return "disposal.ownership-argument" }

func (OwnershipArgumentRule) Descriptors() []ir.Descriptor {
	return []ir.Descriptor{descOwnershipUnclear}
}

func (OwnershipArgumentRule) Kinds() []ir.OperationKind {
	return []ir.OperationKind{ir.OpInvocation}
}

func (OwnershipArgumentRule) OnOperation(ctx *host.RunContext, op ir.Operation) {
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
		if isOwnershipTransferName(ap.Parameter.Name, inv.Method.Name()) {
			continue
		}
		ctx.Report(descOwnershipUnclear.New(span(inv.Syntax()),
			fmt.Sprintf("passing %q to %s neither documents nor hints at who owns it afterward", local.Name(), inv.Method.Name()),
			local.Name(), inv.Method.Name()))
	}
}
