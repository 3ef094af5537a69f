package disposal

import (
	"fmt"

	"github.com/wieslawsoltes/throwsanalyzer-sub002/internal/host"
	"github.com/wieslawsoltes/throwsanalyzer-sub002/ir"
)

var (
	descDoubleDispose    = warning("DISP003", "Possible double dispose")
	descAccessAfterDispose = warning("DISP010", "Member accessed after disposal")
)

// DisposalGuardRule watches the direct, unguarded dispose calls and
// member accesses a method makes on its locals, in the source order
// the host's operation-block walk already guarantees (§4.7). It marks
// a local as disposed on its first unguarded Dispose()/DisposeAsync()
// call; a second unguarded dispose call is DISP003, and any further
// invocation or member access through the same local is DISP010. A
// null-conditional dispose call (`x?.Dispose()`) is the accepted guard
// pattern and is never marked or reported; reassigning the local
// (including to null) clears the mark, matching §4.5 step 3's
// "explicit assignment to the platform's null sentinel after
// disposal" exception.
//
// State is keyed by local identity (ir.Symbol), which is unique per
// declaration even across concurrently-analyzed methods, so the shared
// syncSet needs no additional keying by method or goroutine.
type DisposalGuardRule struct {
	disposed syncSet
}

func (*DisposalGuardRule) ID() string { return "disposal.guard" }

func (*DisposalGuardRule) Descriptors() []ir.Descriptor {
	return []ir.Descriptor{descDoubleDispose, descAccessAfterDispose}
}

func (*DisposalGuardRule) Kinds() []ir.OperationKind {
	return []ir.OperationKind{ir.OpInvocation, ir.OpAssignment, ir.OpFieldReference, ir.OpPropertyReference}
}

func (r *DisposalGuardRule) OnOperation(ctx *host.RunContext, op ir.Operation) {
	switch o := op.(type) {
	case *ir.InvocationOp:
		r.onInvocation(ctx, o)
	case *ir.AssignmentOp:
		r.onAssignment(o)
	case *ir.FieldReferenceOp:
		r.onAccess(ctx, o.Instance, op)
	case *ir.PropertyReferenceOp:
		r.onAccess(ctx, o.Instance, op)
	}
}

func (r *DisposalGuardRule) onInvocation(ctx *host.RunContext, inv *ir.InvocationOp) {
	if inv.ConditionalAccess {
		return
	}
	local, ok := directLocal(inv.Target)
	if !ok {
		return
	}
	if ctx.Disposables().IsDisposalCall(inv) {
		if r.disposed.markAndWasSet(local) {
			ctx.Report(descDoubleDispose.New(span(inv.Syntax()),
				fmt.Sprintf("%q is disposed more than once with no null guard between the calls", local.Name()), local.Name()))
		}
		return
	}
	r.onAccess(ctx, inv.Target, inv)
}

func (r *DisposalGuardRule) onAccess(ctx *host.RunContext, instance ir.Operation, site ir.Operation) {
	local, ok := directLocal(instance)
	if !ok {
		return
	}
	if _, tracked := r.disposed.m.Load(local); tracked {
		ctx.Report(descAccessAfterDispose.New(span(site.Syntax()),
			fmt.Sprintf("%q is used here after already being disposed", local.Name()), local.Name()))
	}
}

func (r *DisposalGuardRule) onAssignment(a *ir.AssignmentOp) {
	lr, ok := a.Target.(*ir.LocalReferenceOp)
	if !ok {
		return
	}
	r.disposed.clear(lr.Local)
}
