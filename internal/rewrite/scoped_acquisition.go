package rewrite

import (
	"github.com/wieslawsoltes/throwsanalyzer-sub002/ir"
	"github.com/wieslawsoltes/throwsanalyzer-sub002/ir/fixture"
)

// WrapInScopedAcquisition turns a local declaration `L = E` anchored at
// anchor, together with every statement that follows it in its
// enclosing block, into a single scoped-acquisition statement binding
// the same name to E and guarding S1...Sn as its body (§4.9). The
// declaration's own leading trivia is kept on the new statement; the
// block's remaining leading children are left untouched.
//
// Applying this to a local already wrapped by a scoped acquisition is a
// no-op (§8 "scoped-acquisition idempotence"): the anchor no longer
// resolves to a NodeLocalDeclaration directly under a block once
// wrapped, so the shape check below fails and the document passes
// through unchanged.
func WrapInScopedAcquisition(doc ir.Document, anchor ir.Span) ir.Document {
	root, ok := asFixtureRoot(doc)
	if !ok {
		return doc
	}
	target := nodeAt(root, anchor)
	if target == nil || target.Kind() != ir.NodeLocalDeclaration {
		return doc
	}
	block := findEnclosingBlock(root, target)
	if block == nil {
		return doc
	}
	children := block.ConcreteChildren()
	idx := indexOfNode(children, target)
	if idx < 0 {
		return doc
	}

	following := append([]*fixture.Node(nil), children[idx+1:]...)
	acquisition := fixture.NewNode(ir.NodeScopedAcquisition, target.Pos(), append([]*fixture.Node{target}, following...)...).
		WithTrivia(target.LeadingTrivia(), nil)

	newChildren := append(append([]*fixture.Node(nil), children[:idx]...), acquisition)
	return withDoc(doc, replaceDescendant(root, block, block.WithChildren(newChildren...)))
}

func findEnclosingBlock(root, target *fixture.Node) *fixture.Node {
	var found *fixture.Node
	var walk func(n *fixture.Node)
	walk = func(n *fixture.Node) {
		if n.Kind() == ir.NodeBlock {
			for _, c := range n.ConcreteChildren() {
				if c == target {
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

func indexOfNode(nodes []*fixture.Node, target *fixture.Node) int {
	for i, n := range nodes {
		if n == target {
			return i
		}
	}
	return -1
}
