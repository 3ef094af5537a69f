package throws

import (
	"github.com/wieslawsoltes/throwsanalyzer-sub002/internal/host"
	"github.com/wieslawsoltes/throwsanalyzer-sub002/ir"
)

var (
	descThrowInHotLoop       = warning("THROWS009", "Throw statement runs inside a loop")
	descThrowInNestedHotLoop = warning("THROWS019", "Throw statement runs inside a nested loop")
)

// HotLoopThrowRule flags a throw reachable from inside a loop body:
// raising and unwinding an exception on every hot-path iteration is far
// more expensive than a validation check or a success/failure return,
// and a nested loop (THROWS019) compounds the cost per outer iteration.
type HotLoopThrowRule struct{}

func (HotLoopThrowRule) ID() string { return "throws.hot-loop" }

func (HotLoopThrowRule) Descriptors() []ir.Descriptor {
	return []ir.Descriptor{descThrowInHotLoop, descThrowInNestedHotLoop}
}

func (HotLoopThrowRule) Kinds() []ir.OperationKind { return []ir.OperationKind{ir.OpThrow} }

func (HotLoopThrowRule) OnOperation(ctx *host.RunContext, op ir.Operation) {
	th := op.(*ir.ThrowOp)
	loops := countLoopAncestors(th.Syntax())
	switch {
	case loops >= 2:
		ctx.Report(descThrowInNestedHotLoop.New(span(th.Syntax()),
			"this throw statement runs inside nested loops; consider validating up front or returning a success/failure result instead"))
	case loops == 1:
		ctx.Report(descThrowInHotLoop.New(span(th.Syntax()),
			"this throw statement runs inside a loop; consider hoisting the validation or returning a success/failure result instead"))
	}
}

func countLoopAncestors(node ir.SyntaxNode) int {
	n := 0
	for _, anc := range ir.Ancestors(node) {
		if anc.Kind() == ir.NodeLoop {
			n++
		}
	}
	return n
}
