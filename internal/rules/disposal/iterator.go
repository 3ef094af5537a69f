package disposal

import (
	"fmt"

	"github.com/wieslawsoltes/throwsanalyzer-sub002/internal/host"
	"github.com/wieslawsoltes/throwsanalyzer-sub002/ir"
)

var descDisposableInIterator = warning("DISP015", "Disposable created in an iterator method")

// IteratorDisposableRule flags every disposable local declared inside a
// method whose body contains a yield (§4.7 "iterator methods ... are
// treated specially"): the method body runs deferred, possibly never
// to completion if the caller abandons enumeration early, so a locally
// created disposable is a hazard regardless of whether the happy path
// eventually disposes it.
type IteratorDisposableRule struct{}

func (IteratorDisposableRule) ID() string { return "disposal.iterator" }

func (IteratorDisposableRule) Descriptors() []ir.Descriptor {
	return []ir.Descriptor{descDisposableInIterator}
}

func (IteratorDisposableRule) OnOperationBlockStart(ctx *host.RunContext, m ir.Method) {}

func (IteratorDisposableRule) OnOperationBlockEnd(ctx *host.RunContext, m ir.Method) {
	body, ok := m.Body()
	if !ok || !containsKind(body, ir.NodeIteratorYield) {
		return
	}
	for _, decl := range declaratorsIn(body) {
		op, ok := ctx.Model().OperationFor(decl)
		if !ok {
			continue
		}
		vd, ok := op.(*ir.VariableDeclaratorOp)
		if !ok {
			continue
		}
		oc, ok := vd.Initializer.(*ir.ObjectCreationOp)
		if !ok || !ctx.Disposables().IsAnyDisposable(oc.Type) {
			continue
		}
		ctx.Report(descDisposableInIterator.New(span(decl),
			fmt.Sprintf("%q is created inside an iterator method body; disposal may never run if the caller stops enumerating early", vd.Local.Name()),
			vd.Local.Name()))
	}
}

// declaratorsIn returns every local-declaration syntax node reachable
// from body.
func declaratorsIn(body ir.SyntaxNode) []ir.SyntaxNode {
	var out []ir.SyntaxNode
	if body.Kind() == ir.NodeLocalDeclaration {
		out = append(out, body)
	}
	for _, c := range body.Children() {
		out = append(out, declaratorsIn(c)...)
	}
	return out
}
