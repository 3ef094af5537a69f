package rewrite

import (
	"github.com/wieslawsoltes/throwsanalyzer-sub002/ir"
	"github.com/wieslawsoltes/throwsanalyzer-sub002/ir/fixture"
)

// AddWhenFilter narrows a broad catch clause anchored at anchor with a
// placeholder `when (true)` guard for a human to fill in.
//
// The ir syntax model has no catch-filter node kind (§3: the NodeKind
// set is closed and deliberately minimal) — filter presence is carried
// only as CatchClause.HasFilter, resolved by the host's semantic model
// rather than parsed from the tree. Lacking a node to attach a real
// filter expression to, this transformation records the suggested
// guard as a leading comment on the clause instead of tree structure;
// a host with a richer syntax representation would splice an actual
// filter expression node here.
func AddWhenFilter(doc ir.Document, anchor ir.Span) ir.Document {
	root, ok := asFixtureRoot(doc)
	if !ok {
		return doc
	}
	target := nodeAt(root, anchor)
	if target == nil || target.Kind() != ir.NodeCatchClause {
		return doc
	}
	leading := append(append([]ir.Trivia(nil), target.LeadingTrivia()...), fixture.Comment("when (true) /* TODO: narrow this filter */"))
	updated := target.WithChildren(target.ConcreteChildren()...).WithTrivia(leading, target.TrailingTrivia())
	return withDoc(doc, replaceDescendant(root, target, updated))
}
