package disposal

import (
	"fmt"
	"strings"

	"github.com/wieslawsoltes/throwsanalyzer-sub002/internal/host"
	"github.com/wieslawsoltes/throwsanalyzer-sub002/ir"
)

var descDisposalNotPropagated = warning("DISP021", "Ownership transfer is not matched by disposal in the callee")

// DisposalPropagationRule is the local-focused sibling of
// ProtocolShapeRule's field-focused DISP002 (§9 design note: the two
// are kept distinct rather than merged). It watches call sites where a
// disposable local is handed off under an ownership-transfer hint
// (flow's isOwnershipTransfer rule — a parameter name like "owner" or
// "take", or a callee name like "Add*"/"Take*") and checks whether the
// callee's own body actually disposes the corresponding parameter
// anywhere.
type DisposalPropagationRule struct{}

func (DisposalPropagationRule) ID() string { return "disposal.propagation" }

func (DisposalPropagationRule) Descriptors() []ir.Descriptor {
	return []ir.Descriptor{descDisposalNotPropagated}
}

func (DisposalPropagationRule) Kinds() []ir.OperationKind {
	return []ir.OperationKind{ir.OpInvocation}
}

func (DisposalPropagationRule) OnOperation(ctx *host.RunContext, op ir.Operation) {
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
		body, ok := inv.Method.Body()
		if !ok {
			continue
		}
		if methodDisposesParamNamed(ctx, body, ap.Parameter.Name) {
			continue
		}
		ctx.Report(descDisposalNotPropagated.New(span(inv.Syntax()),
			fmt.Sprintf("%q is passed to %s under an ownership-transfer parameter name, but %s never disposes it", local.Name(), inv.Method.Name(), inv.Method.Name()),
			local.Name(), inv.Method.Name()))
	}
}

var ownershipParamHints = []string{"take", "own", "adopt", "add", "register", "transfer"}
var ownershipMethodPrefixes = []string{"Add", "Take", "Adopt", "Register"}

func isOwnershipTransferName(paramName, methodName string) bool {
	lower := strings.ToLower(paramName)
	for _, hint := range ownershipParamHints {
		if strings.Contains(lower, hint) {
			return true
		}
	}
	for _, prefix := range ownershipMethodPrefixes {
		if strings.HasPrefix(methodName, prefix) {
			return true
		}
	}
	return false
}

func methodDisposesParamNamed(ctx *host.RunContext, node ir.SyntaxNode, paramName string) bool {
	if node == nil {
		return false
	}
	if op, ok := ctx.Model().OperationFor(node); ok {
		if inv, ok := op.(*ir.InvocationOp); ok && ctx.Disposables().IsDisposalCall(inv) {
			if pr, ok := paramRefOf(inv.Target); ok && pr.Parameter.Name() == paramName {
				return true
			}
		}
	}
	for _, c := range node.Children() {
		if methodDisposesParamNamed(ctx, c, paramName) {
			return true
		}
	}
	return false
}

func paramRefOf(op ir.Operation) (*ir.ParameterReferenceOp, bool) {
	switch o := op.(type) {
	case *ir.ParameterReferenceOp:
		return o, true
	case *ir.ConversionOp:
		return paramRefOf(o.Operand)
	case *ir.ConditionalAccessOp:
		return paramRefOf(o.Instance)
	default:
		return nil, false
	}
}
