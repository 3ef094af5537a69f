package rewrite

import (
	"github.com/wieslawsoltes/throwsanalyzer-sub002/ir"
	"github.com/wieslawsoltes/throwsanalyzer-sub002/ir/fixture"
)

// RemoveRedundantCatch drops the catch clause anchored at anchor from
// its enclosing TryOp when its body is empty or consists solely of a
// rethrow (bare or named), then unwraps the try statement entirely into
// its bare try-body when no catches and no finally remain (§4.9).
func RemoveRedundantCatch(doc ir.Document, anchor ir.Span, model ir.SemanticModel) ir.Document {
	root, ok := asFixtureRoot(doc)
	if !ok {
		return doc
	}
	catchNode := nodeAt(root, anchor)
	if catchNode == nil || catchNode.Kind() != ir.NodeCatchClause {
		return doc
	}
	tryNode := findEnclosingTry(root, catchNode)
	if tryNode == nil {
		return doc
	}
	op, ok := model.OperationFor(tryNode)
	if !ok {
		return doc
	}
	tryOp, ok := op.(*ir.TryOp)
	if !ok {
		return doc
	}

	var target *ir.CatchClause
	for i := range tryOp.Catches {
		if tryOp.Catches[i].Syntax == catchNode {
			target = &tryOp.Catches[i]
			break
		}
	}
	if target == nil || !isRedundantCatchBody(target.Body, target.Variable) {
		return doc
	}

	children := tryNode.ConcreteChildren()
	newChildren := make([]*fixture.Node, 0, len(children)-1)
	for _, c := range children {
		if c != catchNode {
			newChildren = append(newChildren, c)
		}
	}

	remainingCatches := len(tryOp.Catches) - 1
	hasFinally := len(tryOp.Finally) > 0
	if remainingCatches == 0 && !hasFinally {
		tryBlock := children[0]
		return withDoc(doc, replaceDescendant(root, tryNode, tryBlock))
	}
	return withDoc(doc, replaceDescendant(root, tryNode, tryNode.WithChildren(newChildren...)))
}

func isRedundantCatchBody(body []ir.Operation, variable ir.Symbol) bool {
	if len(body) == 0 {
		return true
	}
	if len(body) != 1 {
		return false
	}
	th, ok := body[0].(*ir.ThrowOp)
	if !ok {
		return false
	}
	if th.Expression == nil {
		return true
	}
	lr, ok := th.Expression.(*ir.LocalReferenceOp)
	return ok && variable != nil && lr.Local == variable
}

func findEnclosingTry(root, catchNode *fixture.Node) *fixture.Node {
	var found *fixture.Node
	var walk func(n *fixture.Node)
	walk = func(n *fixture.Node) {
		if n.Kind() == ir.NodeTry {
			for _, c := range n.ConcreteChildren() {
				if c == catchNode {
					found = n
					return
				}
			}
		}
		for _, c := range n.ConcreteChildren() {
			if found != nil {
				return
			}
			walk(c)
		}
	}
	walk(root)
	return found
}
