package throws

import (
	"github.com/wieslawsoltes/throwsanalyzer-sub002/internal/host"
	"github.com/wieslawsoltes/throwsanalyzer-sub002/ir"
)

var (
	descValidationThrowsSuggestResult   = warning("THROWS012", "Validation-style method throws on bad input")
	descValidationThrowsMultipleResults = warning("THROWS022", "Validation-style method throws several distinct exception types")
)

// ValidationReturnSuggestionRule looks at methods whose name reads like
// a validation routine (isValidationLikeName): throwing there forces
// every caller into a try/catch even for entirely expected bad input, a
// success/failure return type communicates the same outcome without the
// unwind cost. THROWS022 escalates the same observation when the method
// throws more than one distinct exception type, which a single result
// type would otherwise unify into one set of named failure cases.
type ValidationReturnSuggestionRule struct{}

func (ValidationReturnSuggestionRule) ID() string { return "throws.validation-return" }

func (ValidationReturnSuggestionRule) Descriptors() []ir.Descriptor {
	return []ir.Descriptor{descValidationThrowsSuggestResult, descValidationThrowsMultipleResults}
}

func (ValidationReturnSuggestionRule) OnOperationBlockStart(ctx *host.RunContext, m ir.Method) {}

func (ValidationReturnSuggestionRule) OnOperationBlockEnd(ctx *host.RunContext, m ir.Method) {
	if !isValidationLikeName(m.Name()) {
		return
	}
	body, ok := m.Body()
	if !ok {
		return
	}
	throws := throwOpsIn(statementOperations(body, ctx.Model()))
	if len(throws) == 0 {
		return
	}
	distinct := map[ir.Type]bool{}
	for _, th := range throws {
		if th.Expression == nil {
			continue
		}
		if rt, ok := th.Expression.ResultType(); ok && rt != nil {
			distinct[rt] = true
		}
	}
	if len(distinct) >= 2 {
		ctx.Report(descValidationThrowsMultipleResults.New(symbolSpan(m),
			"this validation-style method throws several distinct exception types; a success/failure return type could unify them into named outcomes"))
		return
	}
	ctx.Report(descValidationThrowsSuggestResult.New(symbolSpan(m),
		"this validation-style method throws on bad input; consider a success/failure return type so callers don't need a try/catch for an expected outcome"))
}

func throwOpsIn(stmts []ir.Operation) []*ir.ThrowOp {
	var out []*ir.ThrowOp
	for _, s := range stmts {
		switch o := s.(type) {
		case *ir.ThrowOp:
			out = append(out, o)
		case *ir.ConditionalOp:
			out = append(out, throwOpsIn(o.Then)...)
			out = append(out, throwOpsIn(o.Else)...)
		case *ir.TryOp:
			out = append(out, throwOpsIn(o.TryBody)...)
			out = append(out, throwOpsIn(o.Finally)...)
			for _, cc := range o.Catches {
				out = append(out, throwOpsIn(cc.Body)...)
			}
		}
	}
	return out
}
