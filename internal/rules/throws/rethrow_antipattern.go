package throws

import (
	"github.com/wieslawsoltes/throwsanalyzer-sub002/internal/host"
	"github.com/wieslawsoltes/throwsanalyzer-sub002/ir"
)

var (
	descRethrowCaughtVar      = warning("THROWS006", "Rethrowing the caught variable loses the original stack trace")
	descAsyncRethrowCaughtVar = warning("THROWS016", "Rethrowing the caught variable in an async catch loses the original stack trace")
)

// RethrowAntiPatternRule finds every `throw caughtVar;` inside a catch
// body, wherever it appears (not only as the sole statement, which is
// EmptyOrRethrowCatchRule's narrower concern): rethrowing the caught
// variable by name resets the exception's origin trace, where a bare
// `throw;` preserves it. The async form gets its own id since losing a
// stack trace across a suspension boundary is harder to diagnose later.
type RethrowAntiPatternRule struct{}

func (RethrowAntiPatternRule) ID() string { return "throws.rethrow-antipattern" }

func (RethrowAntiPatternRule) Descriptors() []ir.Descriptor {
	return []ir.Descriptor{descRethrowCaughtVar, descAsyncRethrowCaughtVar}
}

func (RethrowAntiPatternRule) OnOperationBlockStart(ctx *host.RunContext, m ir.Method) {}

func (RethrowAntiPatternRule) OnOperationBlockEnd(ctx *host.RunContext, m ir.Method) {
	body, ok := m.Body()
	if !ok {
		return
	}
	async := m.Modifiers().Has(ir.ModAsync)
	for _, t := range tryOpsIn(statementOperations(body, ctx.Model())) {
		for _, cc := range t.Catches {
			if cc.Variable == nil {
				continue
			}
			for _, s := range throwOpsIn(cc.Body) {
				if !isNamedRethrow(s, cc.Variable) {
					continue
				}
				if async {
					ctx.Report(descAsyncRethrowCaughtVar.New(span(s.Syntax()),
						"rethrowing the caught variable here resets the stack trace; use a bare \"throw\" instead"))
				} else {
					ctx.Report(descRethrowCaughtVar.New(span(s.Syntax()),
						"rethrowing the caught variable here resets the stack trace; use a bare \"throw\" instead"))
				}
			}
		}
	}
}

func isNamedRethrow(op ir.Operation, caughtVar ir.Symbol) bool {
	th, ok := op.(*ir.ThrowOp)
	if !ok || th.Expression == nil {
		return false
	}
	lr, ok := th.Expression.(*ir.LocalReferenceOp)
	return ok && lr.Local == caughtVar
}

func tryOpsIn(stmts []ir.Operation) []*ir.TryOp {
	var out []*ir.TryOp
	for _, s := range stmts {
		switch o := s.(type) {
		case *ir.TryOp:
			out = append(out, o)
			out = append(out, tryOpsIn(o.TryBody)...)
			out = append(out, tryOpsIn(o.Finally)...)
			for _, cc := range o.Catches {
				out = append(out, tryOpsIn(cc.Body)...)
			}
		case *ir.ConditionalOp:
			out = append(out, tryOpsIn(o.Then)...)
			out = append(out, tryOpsIn(o.Else)...)
		}
	}
	return out
}
