package fixture

import "github.com/wieslawsoltes/throwsanalyzer-sub002/ir"

// Type is the reference ir.Type implementation. Two *Type values are
// the same type iff they are the same pointer — matching the "identity
// is compiler-assigned" invariant in spec §3.
type Type struct {
	kind       ir.TypeKind
	name       string
	qualified  string
	base       *Type
	interfaces []*Type
	arity      int
	nullable   bool
}

// NewType constructs a named Type whose qualified name starts out equal
// to name; WithQualifiedName overrides it.
func NewType(kind ir.TypeKind, name string, base *Type, interfaces ...*Type) *Type {
	return &Type{kind: kind, name: name, qualified: name, base: base, interfaces: interfaces}
}

func (t *Type) Kind() ir.TypeKind      { return t.kind }
func (t *Type) DisplayName() string    { return t.name }
func (t *Type) QualifiedName() string  { return t.qualified }
func (t *Type) Arity() int             { return t.arity }
func (t *Type) Nullable() bool         { return t.nullable }

func (t *Type) BaseType() (ir.Type, bool) {
	if t.base == nil {
		return nil, false
	}
	return t.base, true
}

func (t *Type) Interfaces() []ir.Type {
	out := make([]ir.Type, len(t.interfaces))
	for i, iface := range t.interfaces {
		out[i] = iface
	}
	return out
}

// WithQualifiedName overrides the qualified name (fluent, for test
// fixtures that care about fully-qualified lookups).
func (t *Type) WithQualifiedName(q string) *Type {
	t.qualified = q
	return t
}

// WithNullable marks the type as nullable.
func (t *Type) WithNullable(n bool) *Type {
	t.nullable = n
	return t
}
