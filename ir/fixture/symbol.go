package fixture

import "github.com/wieslawsoltes/throwsanalyzer-sub002/ir"

// Symbol is the reference ir.Symbol implementation for non-method
// declarations (types, fields, properties, parameters, locals).
type Symbol struct {
	kind           ir.SymbolKind
	name           string
	declaredType   ir.Type
	containingType ir.Type
	accessibility  ir.Accessibility
	static         bool
	syntax         []ir.SyntaxNode
}

// NewSymbol constructs a plain (non-method) Symbol.
func NewSymbol(kind ir.SymbolKind, name string, declaredType ir.Type) *Symbol {
	return &Symbol{kind: kind, name: name, declaredType: declaredType}
}

func (s *Symbol) Kind() ir.SymbolKind     { return s.kind }
func (s *Symbol) Name() string            { return s.name }
func (s *Symbol) DeclaredType() ir.Type   { return s.declaredType }
func (s *Symbol) IsStatic() bool          { return s.static }
func (s *Symbol) Accessibility() ir.Accessibility { return s.accessibility }
func (s *Symbol) Syntax() []ir.SyntaxNode  { return s.syntax }

func (s *Symbol) ContainingType() (ir.Type, bool) {
	if s.containingType == nil {
		return nil, false
	}
	return s.containingType, true
}

// WithContainingType sets the declaring type (fluent).
func (s *Symbol) WithContainingType(t ir.Type) *Symbol {
	s.containingType = t
	return s
}

// WithAccessibility sets accessibility (fluent).
func (s *Symbol) WithAccessibility(a ir.Accessibility) *Symbol {
	s.accessibility = a
	return s
}

// WithStatic marks the symbol static (fluent).
func (s *Symbol) WithStatic(static bool) *Symbol {
	s.static = static
	return s
}

// WithSyntax attaches originating syntax nodes (fluent).
func (s *Symbol) WithSyntax(nodes ...ir.SyntaxNode) *Symbol {
	s.syntax = nodes
	return s
}

// MethodSymbol is the reference ir.Method implementation.
type MethodSymbol struct {
	Symbol
	params     []ir.Parameter
	returnType ir.Type
	methodKind ir.MethodKind
	modifiers  ir.Modifiers
	doc        string
	body       ir.SyntaxNode
	exprBody   bool
}

// NewMethod constructs a MethodSymbol.
func NewMethod(name string, kind ir.MethodKind) *MethodSymbol {
	m := &MethodSymbol{}
	m.Symbol = Symbol{kind: ir.SymbolMethod, name: name}
	m.methodKind = kind
	return m
}

func (m *MethodSymbol) Parameters() []ir.Parameter { return m.params }

func (m *MethodSymbol) ReturnType() (ir.Type, bool) {
	if m.returnType == nil {
		return nil, false
	}
	return m.returnType, true
}

func (m *MethodSymbol) MethodKind() ir.MethodKind { return m.methodKind }
func (m *MethodSymbol) Modifiers() ir.Modifiers   { return m.modifiers }
func (m *MethodSymbol) Doc() string               { return m.doc }
func (m *MethodSymbol) HasExpressionBody() bool   { return m.exprBody }

func (m *MethodSymbol) Body() (ir.SyntaxNode, bool) {
	if m.body == nil {
		return nil, false
	}
	return m.body, true
}

// WithParameters sets the parameter list (fluent).
func (m *MethodSymbol) WithParameters(params ...ir.Parameter) *MethodSymbol {
	m.params = params
	return m
}

// WithReturnType sets the return type (fluent).
func (m *MethodSymbol) WithReturnType(t ir.Type) *MethodSymbol {
	m.returnType = t
	return m
}

// WithModifiers sets modifiers (fluent).
func (m *MethodSymbol) WithModifiers(mods ir.Modifiers) *MethodSymbol {
	m.modifiers = mods
	return m
}

// WithDoc sets the contract documentation text (fluent).
func (m *MethodSymbol) WithDoc(doc string) *MethodSymbol {
	m.doc = doc
	return m
}

// WithBlockBody sets a block body (fluent).
func (m *MethodSymbol) WithBlockBody(body ir.SyntaxNode) *MethodSymbol {
	m.body = body
	m.exprBody = false
	return m
}

// WithExpressionBody sets a single-expression body (fluent).
func (m *MethodSymbol) WithExpressionBody(body ir.SyntaxNode) *MethodSymbol {
	m.body = body
	m.exprBody = true
	return m
}
