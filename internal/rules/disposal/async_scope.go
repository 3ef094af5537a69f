package disposal

import (
	"fmt"

	"github.com/wieslawsoltes/throwsanalyzer-sub002/internal/host"
	"github.com/wieslawsoltes/throwsanalyzer-sub002/ir"
)

var descAsyncScopeMismatch = warning("DISP011", "Scoped acquisition uses the wrong disposal channel")

// AsyncScopeMismatchRule flags a scoped-acquisition operation whose
// sync/async form doesn't match the resource's own protocol: a resource
// that is only IAsyncDisposable-shaped wrapped in a synchronous scope
// never calls DisposeAsync, and a resource that is only synchronously
// disposable wrapped in an async scope is needless ceremony that hides
// the synchronous call beneath an await.
type AsyncScopeMismatchRule struct{}

func (AsyncScopeMismatchRule) ID() string { return "disposal.async-scope-mismatch" }

func (AsyncScopeMismatchRule) Descriptors() []ir.Descriptor {
	return []ir.Descriptor{descAsyncScopeMismatch}
}

func (AsyncScopeMismatchRule) Kinds() []ir.OperationKind {
	return []ir.OperationKind{ir.OpScopedAcquisition}
}

func (AsyncScopeMismatchRule) OnOperation(ctx *host.RunContext, op ir.Operation) {
	sa := op.(*ir.ScopedAcquisitionOp)
	if sa.Resource == nil {
		return
	}
	t, ok := sa.Resource.ResultType()
	if !ok || t == nil {
		return
	}
	isSync := ctx.Disposables().IsDisposable(t)
	isAsync := ctx.Disposables().IsAsyncDisposable(t)

	switch {
	case sa.Async && isSync && !isAsync:
		ctx.Report(descAsyncScopeMismatch.New(span(sa.Syntax()),
			fmt.Sprintf("%q is only synchronously disposable; the surrounding async scope adds an await that the resource's own protocol never needs", resourceName(sa)), resourceName(sa)))
	case !sa.Async && isAsync && !isSync:
		ctx.Report(descAsyncScopeMismatch.New(span(sa.Syntax()),
			fmt.Sprintf("%q only implements the asynchronous disposal protocol; a synchronous scope never calls its DisposeAsync method", resourceName(sa)), resourceName(sa)))
	}
}

func resourceName(sa *ir.ScopedAcquisitionOp) string {
	if sa.Local != nil {
		return sa.Local.Name()
	}
	return "<resource>"
}
