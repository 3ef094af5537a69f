package fixes

import (
	"github.com/wieslawsoltes/throwsanalyzer-sub002/internal/rewrite"
	"github.com/wieslawsoltes/throwsanalyzer-sub002/ir"
)

func throwsFixes(c Context) []ir.Fix {
	return []ir.Fix{
		{
			DiagnosticID:   "THROWS003",
			Title:          "Reorder catch clauses by specificity",
			EquivalenceKey: "throws.reorder-catches",
			Build: func(doc ir.Document, diag ir.Diagnostic) ir.Document {
				loc, ok := resolve(doc.Root, diag.Location, ir.NodeTry)
				if !ok {
					return doc
				}
				return rewrite.ReorderCatchesBySpecificity(doc, loc, c.Model, c.Exceptions)
			},
		},
		rewriteFix("THROWS004", "Remove empty catch", "throws.remove-catch", ir.NodeCatchClause, removeRedundantCatch(c)),
		rewriteFix("THROWS005", "Remove rethrow-only catch", "throws.remove-catch", ir.NodeCatchClause, removeRedundantCatch(c)),
		rewriteFix("THROWS015", "Remove empty catch", "throws.remove-catch", ir.NodeCatchClause, removeRedundantCatch(c)),
		rewriteFix("THROWS006", "Replace with bare rethrow", "throws.bare-rethrow", ir.NodeThrow, rewrite.BareRethrow),
		rewriteFix("THROWS016", "Replace with bare rethrow", "throws.bare-rethrow", ir.NodeThrow, rewrite.BareRethrow),
		rewriteFix("THROWS007", "Add a when-filter", "throws.when-filter", ir.NodeCatchClause, rewrite.AddWhenFilter),
		rewriteFix("THROWS017", "Add a when-filter", "throws.when-filter", ir.NodeCatchClause, rewrite.AddWhenFilter),
	}
}

func removeRedundantCatch(c Context) func(ir.Document, ir.Span) ir.Document {
	return func(doc ir.Document, anchor ir.Span) ir.Document {
		return rewrite.RemoveRedundantCatch(doc, anchor, c.Model)
	}
}
