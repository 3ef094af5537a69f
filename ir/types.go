package ir

// Type is a nominal type handle borrowed from the host compilation.
// Identity is by pointer, never by name — two Types with the same
// DisplayName are different types unless they are the same Go value.
type Type interface {
	Kind() TypeKind
	DisplayName() string
	QualifiedName() string

	// BaseType returns the direct base type, if any.
	BaseType() (Type, bool)

	// Interfaces returns the directly declared interfaces (not transitive).
	Interfaces() []Type

	Arity() int
	Nullable() bool
}

// Symbol is a declaration handle: a named type, method, field, property,
// parameter, or local.
type Symbol interface {
	Kind() SymbolKind
	Name() string
	DeclaredType() Type
	ContainingType() (Type, bool)
	Accessibility() Accessibility
	IsStatic() bool
	Syntax() []SyntaxNode
}

// Parameter describes one formal parameter of a Method.
type Parameter struct {
	Name string
	Type Type
}

// Method is a Symbol that additionally carries a signature, a kind, and
// modifiers.
type Method interface {
	Symbol

	Parameters() []Parameter
	ReturnType() (Type, bool)
	MethodKind() MethodKind
	Modifiers() Modifiers

	// Doc is the method's contract documentation text, if any. Rules that
	// reason about documented exceptions parse this with the convention
	// described in flow.ParseThrowsDoc.
	Doc() string

	// Body returns the method's source body node, if it owns one. A
	// method has either a block body or a single-expression body, never
	// both (§3 invariant) — HasExpressionBody distinguishes the two.
	Body() (SyntaxNode, bool)
	HasExpressionBody() bool
}
