package classify_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wieslawsoltes/throwsanalyzer-sub002/internal/classify"
	"github.com/wieslawsoltes/throwsanalyzer-sub002/internal/facade"
	"github.com/wieslawsoltes/throwsanalyzer-sub002/ir"
	"github.com/wieslawsoltes/throwsanalyzer-sub002/ir/fixture"
)

func newCompilation(plat *fixture.Platform, types ...ir.Type) *fixture.Compilation {
	comp := fixture.NewCompilation().
		WithRootException(plat.Exception).
		WithDisposableInterfaces(plat.IDisposable, plat.IAsyncDisposable).
		WithFinalizerSuppression(plat.SuppressFinalize)
	for _, t := range types {
		comp.RegisterType(t)
	}
	return comp
}

func TestDisposableClassifier_InterfaceImplementation(t *testing.T) {
	plat := fixture.NewPlatform()
	resource := fixture.NewType(ir.KindClass, "Resource", plat.Object, plat.IDisposable)
	plain := fixture.NewType(ir.KindClass, "Plain", plat.Object)

	comp := newCompilation(plat, resource, plain)
	fac := facade.New(comp)
	disposables := classify.NewDisposableClassifier(fac)

	assert.True(t, disposables.IsDisposable(resource))
	assert.False(t, disposables.IsDisposable(plain))
	assert.False(t, disposables.IsAsyncDisposable(resource))
}

// TestDisposableClassifier_Consistency checks the property §4.2 states:
// is_any_disposable(T) ⇔ is_disposable(T) ∨ is_async_disposable(T).
func TestDisposableClassifier_Consistency(t *testing.T) {
	plat := fixture.NewPlatform()
	sync := fixture.NewType(ir.KindClass, "SyncResource", plat.Object, plat.IDisposable)
	async := fixture.NewType(ir.KindClass, "AsyncResource", plat.Object, plat.IAsyncDisposable)
	neither := fixture.NewType(ir.KindClass, "Plain", plat.Object)

	comp := newCompilation(plat, sync, async, neither)
	disposables := classify.NewDisposableClassifier(facade.New(comp))

	for _, tc := range []struct {
		name string
		typ  *fixture.Type
	}{{"sync", sync}, {"async", async}, {"neither", neither}} {
		t.Run(tc.name, func(t *testing.T) {
			want := disposables.IsDisposable(tc.typ) || disposables.IsAsyncDisposable(tc.typ)
			assert.Equal(t, want, disposables.IsAnyDisposable(tc.typ))
		})
	}
}

func TestDisposableClassifier_StructuralDisposeMethod(t *testing.T) {
	plat := fixture.NewPlatform()
	resource := fixture.NewType(ir.KindClass, "Resource", plat.Object)
	disposeMethod := plat.DisposeMethod(resource)

	reg := classify.NewRegistry().Add(resource, disposeMethod)
	comp := newCompilation(plat, resource)
	disposables := classify.NewDisposableClassifier(facade.New(comp)).WithMethods(reg)

	assert.True(t, disposables.IsDisposable(resource), "a parameterless Dispose() method is disposable even without declaring IDisposable")
	assert.Same(t, disposeMethod, disposables.DisposeMethod(resource))
}

func TestDisposableClassifier_HasDisposableBase(t *testing.T) {
	plat := fixture.NewPlatform()
	base := fixture.NewType(ir.KindClass, "Base", plat.Object, plat.IDisposable)
	derived := fixture.NewType(ir.KindClass, "Derived", base)

	comp := newCompilation(plat, base, derived)
	disposables := classify.NewDisposableClassifier(facade.New(comp))

	assert.True(t, disposables.HasDisposableBase(derived))
	assert.True(t, disposables.IsDisposable(derived), "disposability is inherited through the base chain")
}

func TestExceptionClassifier_MostSpecific(t *testing.T) {
	plat := fixture.NewPlatform()
	argErr := fixture.NewType(ir.KindClass, "ArgumentException", plat.Exception)
	rangeErr := fixture.NewType(ir.KindClass, "ArgumentOutOfRangeException", argErr)

	comp := newCompilation(plat, argErr, rangeErr)
	exceptions := classify.NewExceptionClassifier(facade.New(comp))

	ordered := exceptions.MostSpecific([]ir.Type{plat.Exception, rangeErr, argErr})
	assert.Equal(t, []ir.Type{rangeErr, argErr, plat.Exception}, ordered)
}

func TestExceptionClassifier_Catches(t *testing.T) {
	plat := fixture.NewPlatform()
	argErr := fixture.NewType(ir.KindClass, "ArgumentException", plat.Exception)

	comp := newCompilation(plat, argErr)
	exceptions := classify.NewExceptionClassifier(facade.New(comp))

	assert.True(t, exceptions.Catches(plat.Exception, argErr), "a broader catch catches a narrower thrown type")
	assert.False(t, exceptions.Catches(argErr, plat.Exception), "a narrower catch does not catch a broader thrown type")
	assert.True(t, exceptions.Catches(nil, argErr), "a general catch (nil CaughtType) catches anything")
}

func TestExceptionClassifier_IsExceptionType(t *testing.T) {
	plat := fixture.NewPlatform()
	argErr := fixture.NewType(ir.KindClass, "ArgumentException", plat.Exception)
	notAnException := fixture.NewType(ir.KindClass, "Widget", plat.Object)

	comp := newCompilation(plat, argErr, notAnException)
	exceptions := classify.NewExceptionClassifier(facade.New(comp))

	assert.True(t, exceptions.IsExceptionType(argErr))
	assert.False(t, exceptions.IsExceptionType(notAnException))
}
