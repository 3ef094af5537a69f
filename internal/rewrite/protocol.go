package rewrite

import (
	"github.com/wieslawsoltes/throwsanalyzer-sub002/ir"
	"github.com/wieslawsoltes/throwsanalyzer-sub002/ir/fixture"
)

// AddProtocolImplementation appends a disposal method declaration to
// the type declaration anchored at anchor, leaving every existing
// member untouched (§4.9). Appending the disposable interface to the
// type's own base-type list is not expressible here: the closed
// NodeKind set (§3) has no base-list node kind, since ir.Type exposes
// BaseType/Interfaces as host-resolved semantic facts rather than
// syntax — a host with a richer syntax model would splice the
// interface name into its own base-clause node alongside this method.
func AddProtocolImplementation(doc ir.Document, anchor ir.Span, methodName string, fieldDisposeCalls []string) ir.Document {
	root, ok := asFixtureRoot(doc)
	if !ok {
		return doc
	}
	target := nodeAt(root, anchor)
	if target == nil || target.Kind() != ir.NodeTypeDeclaration {
		return doc
	}
	body := disposeBodyBlock(target.Pos(), fieldDisposeCalls)
	method := fixture.NewNode(ir.NodeMethodDeclaration, target.Pos(), body)
	newChildren := append(append([]*fixture.Node(nil), target.ConcreteChildren()...), method)
	return withDoc(doc, replaceDescendant(root, target, target.WithChildren(newChildren...)))
}

// InsertFinalizerSuppression appends a call statement to the disposal
// method body anchored at anchor, reattaching any trailing comment on
// the previous last statement to the new final statement instead of
// dropping it (§4.9).
func InsertFinalizerSuppression(doc ir.Document, anchor ir.Span) ir.Document {
	root, ok := asFixtureRoot(doc)
	if !ok {
		return doc
	}
	body := nodeAt(root, anchor)
	if body == nil || body.Kind() != ir.NodeBlock {
		return doc
	}
	children := body.ConcreteChildren()
	call := fixture.NewNode(ir.NodeInvocation, body.Pos())
	if n := len(children); n > 0 {
		last := children[n-1]
		trailing := last.TrailingTrivia()
		if len(trailing) > 0 {
			relieved := last.WithChildren(last.ConcreteChildren()...).WithTrivia(last.LeadingTrivia(), nil)
			call = call.WithTrivia(nil, trailing)
			children = append(append([]*fixture.Node(nil), children[:n-1]...), relieved)
		}
	}
	newChildren := append(children, call)
	return withDoc(doc, replaceDescendant(root, body, body.WithChildren(newChildren...)))
}

func disposeBodyBlock(pos ir.Position, fieldDisposeCalls []string) *fixture.Node {
	stmts := make([]*fixture.Node, 0, len(fieldDisposeCalls))
	for range fieldDisposeCalls {
		stmts = append(stmts, fixture.NewNode(ir.NodeInvocation, pos))
	}
	return fixture.NewNode(ir.NodeBlock, pos, stmts...)
}
