// Package disposal implements the DISP001-030 rule family (§4.8, §6.1)
// against the host.Rule capability interfaces. Related IDs that share a
// trigger and underlying analysis are grouped into one rule type (see
// DESIGN.md for the full id-to-rule ledger); no rule here invents
// cross-rule state beyond what flow/classify/callgraph already expose.
package disposal

import (
	"strings"
	"sync"

	"github.com/wieslawsoltes/throwsanalyzer-sub002/ir"
)

const category = "disposal"

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

// symbolSpan locates sym at its first originating syntax node, or the
// zero Span if sym declares none.
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

// FieldLookup enumerates a type's instance fields. ir.Type carries no
// member list of its own (§3: kept minimal), so rules that need a
// type's fields ask a FieldLookup a host registers alongside
// classify.Registry.
type FieldLookup interface {
	FieldsOf(t ir.Type) []ir.Symbol
}

// MethodLookup enumerates a type's declared methods, mirroring
// classify.DisposableClassifier's own MethodLookup dependency; kept as
// a distinct interface since disposal rules need it independently of
// the classifier's internal use.
type MethodLookup interface {
	MethodsOf(t ir.Type) []ir.Method
}

// CollectionLookup answers what element type a collection-shaped type
// carries. ir.Type exposes Arity() but no type-argument list (§3 keeps
// Type minimal), so rules that reason about "collection of disposable
// elements" ask a CollectionLookup, populated the same way as
// FieldLookup/MethodLookup.
type CollectionLookup interface {
	ElementTypeOf(t ir.Type) (ir.Type, bool)
}

// Registry is the reference FieldLookup/MethodLookup/CollectionLookup:
// flat maps populated by callers, the same pattern as classify.Registry.
type Registry struct {
	fields   map[ir.Type][]ir.Symbol
	methods  map[ir.Type][]ir.Method
	elements map[ir.Type]ir.Type
}

// NewRegistry builds an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		fields:   make(map[ir.Type][]ir.Symbol),
		methods:  make(map[ir.Type][]ir.Method),
		elements: make(map[ir.Type]ir.Type),
	}
}

// AddField registers field as declared on t.
func (r *Registry) AddField(t ir.Type, field ir.Symbol) *Registry {
	r.fields[t] = append(r.fields[t], field)
	return r
}

// AddMethod registers method as declared on t.
func (r *Registry) AddMethod(t ir.Type, method ir.Method) *Registry {
	r.methods[t] = append(r.methods[t], method)
	return r
}

// WithElementType records that collection type t carries elements of
// element.
func (r *Registry) WithElementType(t ir.Type, element ir.Type) *Registry {
	r.elements[t] = element
	return r
}

func (r *Registry) FieldsOf(t ir.Type) []ir.Symbol  { return r.fields[t] }
func (r *Registry) MethodsOf(t ir.Type) []ir.Method { return r.methods[t] }

func (r *Registry) ElementTypeOf(t ir.Type) (ir.Type, bool) {
	e, ok := r.elements[t]
	return e, ok
}

func isNilLiteral(op ir.Operation) bool {
	if op == nil {
		return false
	}
	v, ok := op.ConstantValue()
	return ok && v == nil
}

// directLocal unwraps a reference/conversion chain down to the local it
// ultimately names, without looking through a null-conditional access
// (unlike the flow package's localOf): a conditional access already
// implies a guard, and callers here care about that distinction.
func directLocal(op ir.Operation) (ir.Symbol, bool) {
	switch o := op.(type) {
	case *ir.LocalReferenceOp:
		return o.Local, true
	case *ir.ConversionOp:
		return directLocal(o.Operand)
	default:
		return nil, false
	}
}

func hasExceptionSuffix(name string) bool {
	return strings.HasSuffix(name, "Exception")
}

// isGetterNamed reports whether name reads like a query rather than a
// factory ("Get"/"Find"/"Fetch"/"Retrieve" prefixes — §4.8 composition).
func isGetterNamed(name string) bool {
	for _, prefix := range []string{"Get", "Find", "Fetch", "Retrieve"} {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

func mentionsDispose(doc string) bool {
	return strings.Contains(strings.ToLower(doc), "dispose")
}

// hasAncestorKind reports whether node has an ancestor of one of kinds.
func hasAncestorKind(node ir.SyntaxNode, kinds ...ir.NodeKind) bool {
	for _, anc := range ir.Ancestors(node) {
		for _, k := range kinds {
			if anc.Kind() == k {
				return true
			}
		}
	}
	return false
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

// statementOperations resolves every direct statement child of a block
// node to its bound Operation, in source order — mirrors the flow
// package's unexported helper of the same name since disposal rules
// need the same traversal entry point and flow does not export it.
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

// countStatements counts stmts plus every nested statement reachable
// through a conditional, try, or scoped-acquisition body — the
// denominator for DISP005's "share of statements" heuristic.
func countStatements(stmts []ir.Operation) int {
	n := len(stmts)
	for _, s := range stmts {
		switch o := s.(type) {
		case *ir.ConditionalOp:
			n += countStatements(o.Then) + countStatements(o.Else)
		case *ir.TryOp:
			n += countStatements(o.TryBody) + countStatements(o.Finally)
			for _, cc := range o.Catches {
				n += countStatements(cc.Body)
			}
		case *ir.ScopedAcquisitionOp:
			n += countStatements(o.Body)
		}
	}
	return n
}

// syncSet is a concurrency-safe set of ir.Symbol, used by rules that
// keep rule-local per-local state across the host's parallel per-type
// dispatch (§4.7: "may maintain rule-local per-method state but must
// not mutate cross-rule state" — this stays private to its rule).
type syncSet struct {
	m sync.Map
}

// markAndWasSet marks key present and reports whether it already was.
func (s *syncSet) markAndWasSet(key ir.Symbol) bool {
	_, loaded := s.m.LoadOrStore(key, true)
	return loaded
}

func (s *syncSet) clear(key ir.Symbol) { s.m.Delete(key) }
