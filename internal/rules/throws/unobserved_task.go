package throws

import (
	"github.com/wieslawsoltes/throwsanalyzer-sub002/internal/host"
	"github.com/wieslawsoltes/throwsanalyzer-sub002/ir"
)

var (
	descUnobservedTask      = warning("THROWS011", "Task result is discarded at the call site")
	descUnobservedVoidAsync = warning("THROWS021", "Fire-and-forget call to an async method can throw unobserved")
)

// UnobservedTaskRule flags an invocation whose result type is task-like
// but that sits directly in statement position: nothing ever awaits or
// assigns it, so a faulted task's exception surfaces nowhere, or (for an
// async void-returning call recognized only by name) can crash the
// process outright on the thread that eventually observes it.
type UnobservedTaskRule struct{}

func (UnobservedTaskRule) ID() string { return "throws.unobserved-task" }

func (UnobservedTaskRule) Descriptors() []ir.Descriptor {
	return []ir.Descriptor{descUnobservedTask, descUnobservedVoidAsync}
}

func (UnobservedTaskRule) OnOperationBlockStart(ctx *host.RunContext, m ir.Method) {}

func (UnobservedTaskRule) OnOperationBlockEnd(ctx *host.RunContext, m ir.Method) {
	body, ok := m.Body()
	if !ok {
		return
	}
	for _, s := range discardedStatementsIn(statementOperations(body, ctx.Model())) {
		inv, ok := s.(*ir.InvocationOp)
		if !ok {
			continue
		}
		rt, hasResult := inv.ResultType()
		switch {
		case hasResult && isTaskLikeName(rt.DisplayName()):
			ctx.Report(descUnobservedTask.New(span(inv.Syntax()),
				"this call's task result is never awaited or assigned, so a failure inside it goes unobserved"))
		case !hasResult && inv.Method != nil && isFireAndForgetName(inv.Method.Name()):
			ctx.Report(descUnobservedVoidAsync.New(span(inv.Syntax()),
				"this call looks like a fire-and-forget async invocation; an exception raised inside it has nowhere to surface"))
		}
	}
}

func isFireAndForgetName(name string) bool {
	n := len(name)
	return n > 5 && name[n-5:] == "Async"
}

func discardedStatementsIn(stmts []ir.Operation) []ir.Operation {
	var out []ir.Operation
	for _, s := range stmts {
		switch o := s.(type) {
		case *ir.InvocationOp:
			out = append(out, o)
		case *ir.ConditionalOp:
			out = append(out, discardedStatementsIn(o.Then)...)
			out = append(out, discardedStatementsIn(o.Else)...)
		case *ir.TryOp:
			out = append(out, discardedStatementsIn(o.TryBody)...)
			out = append(out, discardedStatementsIn(o.Finally)...)
			for _, cc := range o.Catches {
				out = append(out, discardedStatementsIn(cc.Body)...)
			}
		}
	}
	return out
}
