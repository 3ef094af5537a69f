package rewrite

import "strings"

// AddOwnershipDocTag inserts tag into doc, a method's existing contract
// documentation text, or produces a fresh one-line comment carrying
// only tag if doc is empty (§4.9 "add or extend disposal-ownership
// contract documentation").
//
// Method.Doc() is modeled as host-resolved text (ir/types.go), not a
// child of the SyntaxNode tree the way a real doc-comment would be
// parsed from source trivia — there is no NodeKind for a documentation
// comment in the closed set (§3) for this transformation to splice
// into. It therefore operates directly on the doc string rather than
// on an ir.Document, and a caller wiring it into a Fix is expected to
// feed the result back through whatever mutable Method representation
// the host exposes (ir/fixture.MethodSymbol.WithDoc in this
// repository's own reference implementation).
func AddOwnershipDocTag(doc, tag string) string {
	if strings.Contains(doc, tag) {
		return doc
	}
	if strings.TrimSpace(doc) == "" {
		return "/// <summary>" + tag + "</summary>"
	}
	insertAt := strings.Index(doc, "</summary>")
	if insertAt < 0 {
		return doc + "\n/// " + tag
	}
	return doc[:insertAt] + tag + doc[insertAt:]
}
