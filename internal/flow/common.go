// Package flow implements DisposalFlowAnalyzer (§4.5) and
// ExceptionFlowAnalyzer (§4.6): intraprocedural data-flow passes over an
// ir.Method's operation tree.
package flow

import "github.com/wieslawsoltes/throwsanalyzer-sub002/ir"

// statementOperations resolves every direct statement child of a block
// node to its bound Operation, in source order. Operations that have no
// binding in model (a node the host chose not to bind) are skipped
// rather than failing the walk.
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

// localOf unwraps the operations that can reference a local without
// changing its identity: the reference itself, an implicit/explicit
// conversion, and a null-conditional access through it.
func localOf(op ir.Operation) (ir.Symbol, bool) {
	switch o := op.(type) {
	case *ir.LocalReferenceOp:
		return o.Local, true
	case *ir.ConversionOp:
		return localOf(o.Operand)
	case *ir.ConditionalAccessOp:
		return localOf(o.Instance)
	default:
		return nil, false
	}
}

func isNilLiteral(op ir.Operation) bool {
	if op == nil {
		return false
	}
	v, ok := op.ConstantValue()
	return ok && v == nil
}

func containsYield(op ir.Operation) bool {
	if op == nil {
		return false
	}
	if _, ok := op.(*ir.YieldOp); ok {
		return true
	}
	for _, child := range op.Children() {
		if containsYield(child) {
			return true
		}
	}
	return false
}

func bodyContainsYield(stmts []ir.Operation) bool {
	for _, s := range stmts {
		if containsYield(s) {
			return true
		}
		switch o := s.(type) {
		case *ir.ConditionalOp:
			if anyContainsYield(o.Then) || anyContainsYield(o.Else) {
				return true
			}
		case *ir.TryOp:
			if anyContainsYield(o.TryBody) || anyContainsYield(o.Finally) {
				return true
			}
			for _, cc := range o.Catches {
				if anyContainsYield(cc.Body) {
					return true
				}
			}
		}
	}
	return false
}

func anyContainsYield(stmts []ir.Operation) bool {
	for _, s := range stmts {
		if containsYield(s) {
			return true
		}
	}
	return false
}
