package rewrite

import (
	"sort"

	"github.com/wieslawsoltes/throwsanalyzer-sub002/internal/classify"
	"github.com/wieslawsoltes/throwsanalyzer-sub002/ir"
	"github.com/wieslawsoltes/throwsanalyzer-sub002/ir/fixture"
)

// ReorderCatchesBySpecificity sorts the catch clauses of the TryOp
// anchored at anchor by classifier.InheritanceDepth descending, a
// stable sort so original order is preserved among ties, with the
// general catch (no caught type) sorted last (§4.9). Only the
// catch-clause children are reordered; the try block and any finally
// clause keep their position.
func ReorderCatchesBySpecificity(doc ir.Document, anchor ir.Span, model ir.SemanticModel, classifier *classify.ExceptionClassifier) ir.Document {
	root, ok := asFixtureRoot(doc)
	if !ok {
		return doc
	}
	target := nodeAt(root, anchor)
	if target == nil || target.Kind() != ir.NodeTry {
		return doc
	}
	op, ok := model.OperationFor(target)
	if !ok {
		return doc
	}
	tryOp, ok := op.(*ir.TryOp)
	if !ok || len(tryOp.Catches) < 2 {
		return doc
	}

	type indexed struct {
		clause ir.CatchClause
		pos    int
		node   *fixture.Node
	}
	items := make([]indexed, 0, len(tryOp.Catches))
	for i, cc := range tryOp.Catches {
		fn, ok := cc.Syntax.(*fixture.Node)
		if !ok {
			return doc
		}
		items = append(items, indexed{clause: cc, pos: i, node: fn})
	}

	depth := func(it indexed) int {
		if it.clause.CaughtType == nil {
			return -1
		}
		return classifier.InheritanceDepth(it.clause.CaughtType)
	}
	sort.SliceStable(items, func(i, j int) bool { return depth(items[i]) > depth(items[j]) })

	children := target.ConcreteChildren()
	catchPositions := make([]int, 0, len(items))
	for i, c := range children {
		if c.Kind() == ir.NodeCatchClause {
			catchPositions = append(catchPositions, i)
		}
	}
	if len(catchPositions) != len(items) {
		return doc
	}
	newChildren := append([]*fixture.Node(nil), children...)
	for slot, it := range items {
		newChildren[catchPositions[slot]] = it.node
	}
	return withDoc(doc, replaceDescendant(root, target, target.WithChildren(newChildren...)))
}
