// Package facade implements SemanticFacade (spec §4.1): a thin,
// memoized, read-only adapter over an ir.Compilation that answers the
// type-hierarchy, symbol-kind, and syntax-navigation questions rules
// ask over and over.
package facade

import (
	"sync"

	"github.com/wieslawsoltes/throwsanalyzer-sub002/ir"
)

// Facade is safe for concurrent use: every query is pure and results
// are memoized in a sync.Map keyed by Type/Symbol identity, matching
// the RuleHost's "parallel per named type" scheduling (§5).
type Facade struct {
	compilation ir.Compilation

	hierarchyCache sync.Map // ir.Type -> []ir.Type, root-last
	originCache    sync.Map // ir.Symbol -> []ir.SyntaxNode (trivial passthrough, cached for uniformity)
}

// New builds a Facade over compilation.
func New(compilation ir.Compilation) *Facade {
	return &Facade{compilation: compilation}
}

// Compilation returns the underlying compilation handle.
func (f *Facade) Compilation() ir.Compilation { return f.compilation }

// Hierarchy returns t and every ancestor, root-last (t first, then
// BaseType(), ..., down to the type with no base).
func (f *Facade) Hierarchy(t ir.Type) []ir.Type {
	if t == nil {
		return nil
	}
	if cached, ok := f.hierarchyCache.Load(t); ok {
		return cached.([]ir.Type)
	}

	var chain []ir.Type
	seen := make(map[ir.Type]bool)
	cur := t
	for cur != nil && !seen[cur] {
		chain = append(chain, cur)
		seen[cur] = true
		base, ok := cur.BaseType()
		if !ok {
			break
		}
		cur = base
	}

	f.hierarchyCache.Store(t, chain)
	return chain
}

// IsSubtype reports whether t is u or a descendant of u in the base
// chain (identity-based, per §3).
func (f *Facade) IsSubtype(t, u ir.Type) bool {
	if t == nil || u == nil {
		return false
	}
	for _, anc := range f.Hierarchy(t) {
		if anc == u {
			return true
		}
	}
	return false
}

// Implements reports whether t directly or transitively implements
// iface.
func (f *Facade) Implements(t, iface ir.Type) bool {
	if t == nil || iface == nil {
		return false
	}
	for _, anc := range f.Hierarchy(t) {
		for _, direct := range anc.Interfaces() {
			if direct == iface {
				return true
			}
			if f.Implements(direct, iface) {
				return true
			}
		}
	}
	return false
}

// ImplementsGeneric reports whether t implements an interface matching
// pattern by QualifiedName (a stand-in for matching an unbound generic
// interface definition such as IEnumerable<_>, since this repository
// does not model generic substitution).
func (f *Facade) ImplementsGeneric(t ir.Type, pattern string) bool {
	if t == nil {
		return false
	}
	for _, anc := range f.Hierarchy(t) {
		for _, direct := range anc.Interfaces() {
			if direct.QualifiedName() == pattern {
				return true
			}
			if f.ImplementsGeneric(direct, pattern) {
				return true
			}
		}
	}
	return false
}

// CommonBase returns the most specific type both t and u share in their
// base chains, or (nil, false) if they share none (always true once
// both chains reach a common root, absent cycles).
func (f *Facade) CommonBase(t, u ir.Type) (ir.Type, bool) {
	if t == nil || u == nil {
		return nil, false
	}
	uAncestors := make(map[ir.Type]bool)
	for _, anc := range f.Hierarchy(u) {
		uAncestors[anc] = true
	}
	for _, anc := range f.Hierarchy(t) {
		if uAncestors[anc] {
			return anc, true
		}
	}
	return nil, false
}

// SymbolFor, TypeOf and OperationFor delegate to the SemanticModel for
// the tree node belongs to. Callers pass the model directly since a
// SyntaxNode does not itself know which tree it came from.
func (f *Facade) SymbolFor(model ir.SemanticModel, node ir.SyntaxNode) (ir.Symbol, bool) {
	return model.SymbolFor(node)
}

func (f *Facade) TypeOf(model ir.SemanticModel, node ir.SyntaxNode) (ir.Type, bool) {
	return model.TypeOf(node)
}

func (f *Facade) OperationFor(model ir.SemanticModel, node ir.SyntaxNode) (ir.Operation, bool) {
	return model.OperationFor(node)
}

// OriginatingSyntax returns the syntax nodes that declare sym.
func (f *Facade) OriginatingSyntax(sym ir.Symbol) []ir.SyntaxNode {
	if sym == nil {
		return nil
	}
	if cached, ok := f.originCache.Load(sym); ok {
		return cached.([]ir.SyntaxNode)
	}
	nodes := sym.Syntax()
	f.originCache.Store(sym, nodes)
	return nodes
}
