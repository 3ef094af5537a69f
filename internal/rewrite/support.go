// Package rewrite implements the RewriteEngine catalogue (§4.9): a set
// of composable, comment-preserving transformations that each take a
// whole ir.Document and return a (possibly unchanged) one. Every
// transformation operates on ir/fixture.Node, the repository's one
// buildable concrete ir.SyntaxNode, since the read-only ir.SyntaxNode
// interface by itself offers no way to construct a new tree.
//
// A transformation that cannot find its expected shape at the supplied
// anchor returns the input document unchanged (§7 "fixes treat mismatch
// as a no-op") rather than failing.
package rewrite

import (
	"github.com/wieslawsoltes/throwsanalyzer-sub002/ir"
	"github.com/wieslawsoltes/throwsanalyzer-sub002/ir/fixture"
)

// nodeAt returns the first node in root (itself included) whose
// position exactly matches span's start, preferring the innermost
// (last-found, deepest) match — a diagnostic's Span always anchors on
// the specific construct a rule reported, never an ancestor of it.
func nodeAt(root ir.SyntaxNode, span ir.Span) *fixture.Node {
	var best *fixture.Node
	var walk func(n ir.SyntaxNode)
	walk = func(n ir.SyntaxNode) {
		if n == nil {
			return
		}
		pos := n.Pos()
		if pos.File == span.File && pos.Offset == span.Start {
			if fn, ok := n.(*fixture.Node); ok {
				best = fn
			}
		}
		for _, c := range n.Children() {
			walk(c)
		}
	}
	walk(root)
	return best
}

// asFixtureRoot asserts doc's root is the one buildable concrete
// SyntaxNode this repository ships; every transformation is a no-op on
// a document that isn't shaped this way.
func asFixtureRoot(doc ir.Document) (*fixture.Node, bool) {
	fn, ok := doc.Root.(*fixture.Node)
	return fn, ok
}

// replaceDescendant rebuilds the path from root down to old, replacing
// old with replacement, and returns the new root. Every ancestor along
// the path is cloned (via WithChildren) so the original tree is left
// untouched; nodes outside the path are reused as-is.
func replaceDescendant(root, old, replacement *fixture.Node) *fixture.Node {
	if root == old {
		return replacement
	}
	children := root.ConcreteChildren()
	changed := false
	newChildren := make([]*fixture.Node, len(children))
	for i, c := range children {
		if containsNode(c, old) {
			newChildren[i] = replaceDescendant(c, old, replacement)
			changed = true
		} else {
			newChildren[i] = c
		}
	}
	if !changed {
		return root
	}
	return root.WithChildren(newChildren...)
}

func containsNode(root, target *fixture.Node) bool {
	if root == target {
		return true
	}
	for _, c := range root.ConcreteChildren() {
		if containsNode(c, target) {
			return true
		}
	}
	return false
}

func withDoc(doc ir.Document, newRoot *fixture.Node) ir.Document {
	return ir.Document{Path: doc.Path, Text: doc.Text, Root: newRoot}
}
