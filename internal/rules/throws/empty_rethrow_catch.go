package throws

import (
	"fmt"

	"github.com/wieslawsoltes/throwsanalyzer-sub002/internal/host"
	"github.com/wieslawsoltes/throwsanalyzer-sub002/ir"
)

var (
	descEmptyCatch       = warning("THROWS004", "Empty catch block swallows the exception")
	descRethrowOnlyCatch = info("THROWS005", "Catch block only rethrows and can be removed")
	descAsyncEmptyCatch  = warning("THROWS015", "Empty catch block swallows an exception from an awaited call")
)

// EmptyOrRethrowCatchRule flags two redundant catch shapes: a catch
// body with no statements at all (THROWS004/015, the async-aware
// variant when the try body awaits), and a catch body whose only
// statement is a bare or caught-variable rethrow, which is functionally
// identical to removing the catch (THROWS005) — the RewriteEngine's
// "remove rethrow-only catch" transformation exists exactly for this.
type EmptyOrRethrowCatchRule struct{}

func (EmptyOrRethrowCatchRule) ID() string { return "throws.empty-rethrow-catch" }

func (EmptyOrRethrowCatchRule) Descriptors() []ir.Descriptor {
	return []ir.Descriptor{descEmptyCatch, descRethrowOnlyCatch, descAsyncEmptyCatch}
}

func (EmptyOrRethrowCatchRule) Kinds() []ir.OperationKind { return []ir.OperationKind{ir.OpTry} }

func (EmptyOrRethrowCatchRule) OnOperation(ctx *host.RunContext, op ir.Operation) {
	t := op.(*ir.TryOp)
	awaits := containsKind(t.Syntax(), ir.NodeAwait) || tryBodyAwaits(t)
	for _, cc := range t.Catches {
		switch {
		case len(cc.Body) == 0:
			if awaits {
				ctx.Report(descAsyncEmptyCatch.New(span(cc.Syntax),
					"this catch block is empty and silently discards an exception raised after an await"))
			} else {
				ctx.Report(descEmptyCatch.New(span(cc.Syntax),
					"this catch block is empty and silently discards the exception"))
			}
		case len(cc.Body) == 1 && isBareOrVariableRethrow(cc.Body[0], cc.Variable):
			ctx.Report(descRethrowOnlyCatch.New(span(cc.Syntax),
				"this catch block only rethrows; the try statement can be simplified by removing it"))
		}
	}
}

func tryBodyAwaits(t *ir.TryOp) bool {
	for _, s := range t.TryBody {
		if s.Kind() == ir.OpAwait {
			return true
		}
		if containsKind(s.Syntax(), ir.NodeAwait) {
			return true
		}
	}
	return false
}

func isBareOrVariableRethrow(op ir.Operation, caughtVar ir.Symbol) bool {
	th, ok := op.(*ir.ThrowOp)
	if !ok {
		return false
	}
	if th.Expression == nil {
		return true
	}
	lr, ok := th.Expression.(*ir.LocalReferenceOp)
	return ok && caughtVar != nil && lr.Local == caughtVar
}
