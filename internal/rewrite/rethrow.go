package rewrite

import (
	"github.com/wieslawsoltes/throwsanalyzer-sub002/ir"
	"github.com/wieslawsoltes/throwsanalyzer-sub002/ir/fixture"
)

// BareRethrow replaces `throw caughtVar;` with a bare `throw;` at the
// NodeThrow located at anchor, preserving every other token (§8
// "rethrow preservation"): only the thrown-expression child is dropped,
// trivia is carried over unchanged.
func BareRethrow(doc ir.Document, anchor ir.Span) ir.Document {
	root, ok := asFixtureRoot(doc)
	if !ok {
		return doc
	}
	target := nodeAt(root, anchor)
	if target == nil || target.Kind() != ir.NodeThrow || len(target.ConcreteChildren()) == 0 {
		return doc
	}
	bare := fixture.NewNode(ir.NodeThrow, target.Pos()).WithTrivia(target.LeadingTrivia(), target.TrailingTrivia())
	return withDoc(doc, replaceDescendant(root, target, bare))
}
