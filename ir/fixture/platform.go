package fixture

import "github.com/wieslawsoltes/throwsanalyzer-sub002/ir"

// Platform bundles the small set of "language-intrinsic" types every
// scenario needs: the root exception type, the two disposable
// protocol interfaces, and the finalizer-suppression intrinsic. A real
// host's Compilation would resolve these from metadata; fixtures just
// build them once and reuse them.
type Platform struct {
	Object          *Type
	Exception       *Type
	IDisposable     *Type
	IAsyncDisposable *Type
	SuppressFinalize *MethodSymbol
}

// NewPlatform builds a fresh, independent set of platform types. Each
// scenario test should call this once so that type identity (pointer
// equality) never leaks across unrelated scenarios.
func NewPlatform() *Platform {
	object := NewType(ir.KindClass, "object", nil).WithQualifiedName("System.Object")
	exception := NewType(ir.KindClass, "Exception", object).WithQualifiedName("System.Exception")
	disposable := NewType(ir.KindInterface, "IDisposable", nil).WithQualifiedName("System.IDisposable")
	asyncDisposable := NewType(ir.KindInterface, "IAsyncDisposable", nil).WithQualifiedName("System.IAsyncDisposable")

	suppress := NewMethod("SuppressFinalize", ir.MethodOrdinary).
		WithParameters(ir.Parameter{Name: "obj", Type: object}).
		WithModifiers(ir.ModStatic)

	return &Platform{
		Object:           object,
		Exception:        exception,
		IDisposable:      disposable,
		IAsyncDisposable: asyncDisposable,
		SuppressFinalize: suppress,
	}
}

// DisposeMethod returns a parameterless Dispose method on recv, as the
// sole member of the synchronous disposable protocol.
func (p *Platform) DisposeMethod(recv *Type) *MethodSymbol {
	return NewMethod("Dispose", ir.MethodOrdinary).WithContainingType(recv)
}

// WithContainingType sets the containing type, shadowing the embedded
// Symbol method so MethodSymbol fluent chains keep their own type.
func (m *MethodSymbol) WithContainingType(t ir.Type) *MethodSymbol {
	m.containingType = t
	return m
}
