// Package throws implements the THROWS001-030 rule family (§4.8, §6.1).
// Related IDs that share a trigger and underlying analysis are grouped
// into one rule type (see DESIGN.md for the full id-to-rule ledger),
// mirroring the same consolidation the disposal package applies.
package throws

import (
	"strings"

	"github.com/wieslawsoltes/throwsanalyzer-sub002/ir"
)

const category = "exceptions"

func warning(id, title string) ir.Descriptor {
	return ir.Descriptor{ID: id, Title: title, Category: category, Severity: ir.SeverityWarning}
}

func info(id, title string) ir.Descriptor {
	return ir.Descriptor{ID: id, Title: title, Category: category, Severity: ir.SeverityInfo}
}

func span(node ir.SyntaxNode) ir.Span {
	if node == nil {
		return ir.Span{}
	}
	pos := node.Pos()
	return ir.Span{File: pos.File, Start: pos.Offset, End: pos.Offset}
}

func symbolSpan(sym ir.Symbol) ir.Span {
	if sym == nil {
		return ir.Span{}
	}
	nodes := sym.Syntax()
	if len(nodes) == 0 {
		return ir.Span{}
	}
	return span(nodes[0])
}

func hasExceptionSuffix(name string) bool {
	return strings.HasSuffix(name, "Exception")
}

func isValidationLikeName(name string) bool {
	lower := strings.ToLower(name)
	for _, hint := range []string{"validate", "parse", "tryparse", "ensure", "check", "verify"} {
		if strings.Contains(lower, hint) {
			return true
		}
	}
	return false
}

// statementOperations resolves every direct statement child of a block
// node to its bound Operation, in source order — the same traversal
// entry point flow and disposal each keep an unexported copy of, since
// neither package exports it.
func statementOperations(block ir.SyntaxNode, model ir.SemanticModel) []ir.Operation {
	if block == nil {
		return nil
	}
	children := block.Children()
	out := make([]ir.Operation, 0, len(children))
	for _, child := range children {
		if op, ok := model.OperationFor(child); ok {
			out = append(out, op)
		}
	}
	return out
}

func containsKind(node ir.SyntaxNode, kind ir.NodeKind) bool {
	if node == nil {
		return false
	}
	if node.Kind() == kind {
		return true
	}
	for _, c := range node.Children() {
		if containsKind(c, kind) {
			return true
		}
	}
	return false
}

func isTaskLikeName(name string) bool {
	return strings.HasPrefix(name, "Task") || strings.HasPrefix(name, "ValueTask")
}
