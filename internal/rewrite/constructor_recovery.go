package rewrite

import (
	"github.com/wieslawsoltes/throwsanalyzer-sub002/ir"
	"github.com/wieslawsoltes/throwsanalyzer-sub002/ir/fixture"
)

// WrapConstructorInFailureRecovery moves every statement that follows
// the last disposable-field assignment in the constructor body anchored
// at anchor into a try block whose catch rethrows after
// null-conditionally disposing each already-assigned field (§4.9). The
// leading run of disposable-field assignments themselves stays outside
// the try, unguarded, matching the spec's "recovery wraps the
// remainder" framing.
func WrapConstructorInFailureRecovery(doc ir.Document, anchor ir.Span, assignedFieldCount int) ir.Document {
	root, ok := asFixtureRoot(doc)
	if !ok {
		return doc
	}
	body := nodeAt(root, anchor)
	if body == nil || body.Kind() != ir.NodeBlock {
		return doc
	}
	children := body.ConcreteChildren()
	if assignedFieldCount <= 0 || assignedFieldCount >= len(children) {
		return doc
	}

	prefix := children[:assignedFieldCount]
	remainder := children[assignedFieldCount:]

	catchBody := make([]*fixture.Node, 0, assignedFieldCount+1)
	for range prefix {
		catchBody = append(catchBody, fixture.NewNode(ir.NodeInvocation, body.Pos()))
	}
	catchBody = append(catchBody, fixture.NewNode(ir.NodeThrow, body.Pos()))

	tryBlock := fixture.NewNode(ir.NodeBlock, remainder[0].Pos(), remainder...)
	catchClause := fixture.NewNode(ir.NodeCatchClause, remainder[0].Pos(), catchBody...)
	tryStmt := fixture.NewNode(ir.NodeTry, remainder[0].Pos(), tryBlock, catchClause)

	newChildren := append(append([]*fixture.Node(nil), prefix...), tryStmt)
	return withDoc(doc, replaceDescendant(root, body, body.WithChildren(newChildren...)))
}
